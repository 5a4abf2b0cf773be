package orders

import (
	"context"
	"fmt"
	"sync"

	"github.com/aquamarinepk/aqm"
)

// Ledger tracks which orders the admin already opened.
type Ledger interface {
	IsNew(ctx context.Context, orderID string) bool
	MarkSeen(ctx context.Context, orderID string) error
}

// Card is an order as rendered on the board.
type Card struct {
	Order  Order  `json:"order"`
	Bucket string `json:"bucket"`
	IsNew  bool   `json:"is_new"`
}

// View is one render of the board.
type View struct {
	Loaded        bool   `json:"loaded"`
	Today         []Card `json:"today"`
	Yesterday     []Card `json:"yesterday"`
	Older         []Card `json:"older"`
	Selected      *Order `json:"selected,omitempty"`
	DeleteConfirm *Order `json:"delete_confirm,omitempty"`
}

// Board holds the admin's local copy of the order list together with the
// detail and delete-confirmation states. Both states are independent and
// may be set at the same time.
type Board struct {
	store      Store
	ledger     Ledger
	classifier *Classifier
	logger     aqm.Logger

	mu            sync.Mutex
	orders        []Order
	loaded        bool
	selected      *Order
	deleteConfirm *Order
}

func NewBoard(store Store, ledger Ledger, classifier *Classifier, logger aqm.Logger) *Board {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if classifier == nil {
		classifier = NewClassifier(nil)
	}
	return &Board{
		store:      store,
		ledger:     ledger,
		classifier: classifier,
		logger:     logger,
	}
}

// Load replaces the local list with the remote one. On failure the
// previous list stays and the error is only meant for logging.
func (b *Board) Load(ctx context.Context) error {
	if b.store == nil {
		return ErrStoreUnavailable
	}

	fetched, err := b.store.ListOrders(ctx)
	if err != nil {
		b.logger.Error("cannot load orders, keeping previous list", "error", err)
		return fmt.Errorf("cannot load orders: %w", err)
	}

	for _, o := range fetched {
		if !o.Consistent() {
			b.logger.Debug("stored order totals differ from line items", "order_id", o.ID)
		}
	}

	b.mu.Lock()
	b.orders = fetched
	b.loaded = true
	b.mu.Unlock()

	return nil
}

// Orders returns a copy of the local list.
func (b *Board) Orders() []Order {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := make([]Order, len(b.orders))
	copy(list, b.orders)
	return list
}

// Open shows the detail of an order and marks it seen.
func (b *Board) Open(ctx context.Context, orderID string) (Order, error) {
	b.mu.Lock()
	o, ok := b.find(orderID)
	if !ok {
		b.mu.Unlock()
		return Order{}, ErrOrderNotFound
	}
	b.selected = &o
	b.mu.Unlock()

	if b.ledger != nil {
		if err := b.ledger.MarkSeen(ctx, orderID); err != nil {
			b.logger.Error("cannot mark order as seen", "order_id", orderID, "error", err)
		}
	}

	return o, nil
}

// Close hides the detail view. Seen status is untouched.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selected = nil
}

// RequestDelete asks for confirmation before deleting an order. It never
// opens the detail view nor marks the order seen.
func (b *Board) RequestDelete(orderID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.find(orderID)
	if !ok {
		return ErrOrderNotFound
	}
	b.deleteConfirm = &o
	return nil
}

// CancelDelete dismisses the confirmation without a remote call.
func (b *Board) CancelDelete() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleteConfirm = nil
}

// ConfirmDelete deletes the order awaiting confirmation. The local list is
// only changed after the store reports success; on failure the
// confirmation stays so the user can retry or cancel.
func (b *Board) ConfirmDelete(ctx context.Context) error {
	b.mu.Lock()
	target := b.deleteConfirm
	if target == nil {
		b.mu.Unlock()
		return ErrNothingToDelete
	}
	if _, ok := b.find(target.ID); !ok {
		b.deleteConfirm = nil
		b.mu.Unlock()
		return ErrOrderNotFound
	}
	b.mu.Unlock()

	if b.store == nil {
		return ErrStoreUnavailable
	}

	if err := b.store.DeleteOrder(ctx, target.ID); err != nil {
		b.logger.Error("cannot delete order", "order_id", target.ID, "error", err)
		return fmt.Errorf("cannot delete order %s: %w", target.ID, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	kept := make([]Order, 0, len(b.orders))
	for _, o := range b.orders {
		if o.ID != target.ID {
			kept = append(kept, o)
		}
	}
	b.orders = kept

	if b.deleteConfirm != nil && b.deleteConfirm.ID == target.ID {
		b.deleteConfirm = nil
	}
	if b.selected != nil && b.selected.ID == target.ID {
		b.selected = nil
	}

	b.logger.Info("order deleted", "order_id", target.ID)
	return nil
}

// Selected returns the order shown in detail, if any.
func (b *Board) Selected() *Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneOrder(b.selected)
}

// DeleteConfirm returns the order awaiting delete confirmation, if any.
func (b *Board) DeleteConfirm() *Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneOrder(b.deleteConfirm)
}

// View renders the board. The clock is read once for the whole list and
// the new badge is evaluated on every call.
func (b *Board) View(ctx context.Context) View {
	b.mu.Lock()
	list := make([]Order, len(b.orders))
	copy(list, b.orders)
	view := View{
		Loaded:        b.loaded,
		Today:         []Card{},
		Yesterday:     []Card{},
		Older:         []Card{},
		Selected:      cloneOrder(b.selected),
		DeleteConfirm: cloneOrder(b.deleteConfirm),
	}
	b.mu.Unlock()

	now := b.classifier.Now()
	for _, o := range list {
		bucket := b.classifier.Bucket(o.CreatedAt, now)
		card := Card{
			Order:  o,
			Bucket: bucket.String(),
			IsNew:  b.ledger == nil || b.ledger.IsNew(ctx, o.ID),
		}
		switch bucket {
		case BucketToday:
			view.Today = append(view.Today, card)
		case BucketYesterday:
			view.Yesterday = append(view.Yesterday, card)
		default:
			view.Older = append(view.Older, card)
		}
	}

	return view
}

func (b *Board) find(orderID string) (Order, bool) {
	for _, o := range b.orders {
		if o.ID == orderID {
			return o, true
		}
	}
	return Order{}, false
}

func cloneOrder(o *Order) *Order {
	if o == nil {
		return nil
	}
	c := *o
	return &c
}
