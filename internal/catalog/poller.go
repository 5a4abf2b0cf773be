package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aquamarinepk/aqm"
	"golang.org/x/sync/errgroup"
)

const DefaultPollInterval = 3 * time.Second

// Poller keeps a live copy of the catalog by re-fetching it on a fixed
// interval. A failed cycle keeps the previous snapshot; the next tick is the
// retry.
type Poller struct {
	source   Source
	interval time.Duration
	logger   aqm.Logger
	now      func() time.Time

	mu          sync.RWMutex
	snapshot    Snapshot
	subscribers map[string]chan Snapshot
	running     bool
	cancel      context.CancelFunc
	done        chan struct{}
}

func NewPoller(source Source, interval time.Duration, logger aqm.Logger) *Poller {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		source:      source,
		interval:    interval,
		logger:      logger,
		now:         time.Now,
		subscribers: make(map[string]chan Snapshot),
	}
}

// Start polls once right away and then on every tick until Stop.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return errors.New("catalog poller already running")
	}
	if p.source == nil {
		return errors.New("catalog source not configured")
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true

	p.logger.Info("starting catalog poller", "interval", p.interval.String())
	go p.run(loopCtx, p.done)

	return nil
}

// Stop cancels the schedule. Fetches still in flight are discarded when
// they complete.
func (p *Poller) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.cancel()
	p.running = false
	done := p.done

	for id, ch := range p.subscribers {
		close(ch)
		delete(p.subscribers, id)
	}
	p.mu.Unlock()

	p.logger.Info("stopping catalog poller")

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Poller) Running() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.running
}

func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	p.pollAndLog(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pollAndLog(ctx)
		}
	}
}

func (p *Poller) pollAndLog(ctx context.Context) {
	if err := p.Poll(ctx); err != nil {
		if ctx.Err() != nil {
			p.logger.Debug("catalog poll discarded after shutdown", "error", err)
			return
		}
		p.logger.Error("catalog poll failed, keeping previous snapshot", "error", err, "version", p.Snapshot().Version)
	}
}

// Poll runs one cycle: categories and items are fetched concurrently and
// applied together, or not at all.
func (p *Poller) Poll(ctx context.Context) error {
	var categories []Category
	var items []Item

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fetched, err := p.source.ListCategories(gctx)
		if err != nil {
			return fmt.Errorf("cannot fetch categories: %w", err)
		}
		categories = fetched
		return nil
	})
	g.Go(func() error {
		fetched, err := p.source.ListItems(gctx)
		if err != nil {
			return fmt.Errorf("cannot fetch items: %w", err)
		}
		items = fetched
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	return p.apply(ctx, categories, items)
}

func (p *Poller) apply(ctx context.Context, categories []Category, items []Item) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	p.snapshot = Snapshot{
		Categories: categories,
		Items:      items,
		Version:    p.snapshot.Version + 1,
		FetchedAt:  p.now(),
	}

	for id, ch := range p.subscribers {
		select {
		case ch <- p.snapshot:
		default:
			p.logger.Debug("catalog subscriber busy, skipping snapshot", "subscriber_id", id)
		}
	}

	return nil
}

// Snapshot returns the last successfully applied catalog.
func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}

// Subscribe returns a channel that receives every new snapshot.
func (p *Poller) Subscribe(id string) <-chan Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ch, ok := p.subscribers[id]; ok {
		close(ch)
	}
	ch := make(chan Snapshot, 1)
	p.subscribers[id] = ch
	return ch
}

func (p *Poller) Unsubscribe(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ch, ok := p.subscribers[id]; ok {
		close(ch)
		delete(p.subscribers, id)
	}
}
