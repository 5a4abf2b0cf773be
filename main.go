package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/middleware"

	"github.com/appetiteclub/tableside/internal/catalog"
	"github.com/appetiteclub/tableside/internal/clientstate"
	"github.com/appetiteclub/tableside/internal/kv"
	"github.com/appetiteclub/tableside/internal/orders"
	"github.com/appetiteclub/tableside/internal/pos"
)

const (
	appNamespace = "TABLESIDE"
	appName      = "tableside"
	appVersion   = "0.1.0"
)

func main() {
	config, err := aqm.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := aqm.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	// Client-side state: seen orders and last-order banners
	state, stateLifecycle, err := newStateStore(ctx, config, logger)
	if err != nil {
		log.Fatalf("%s(%s) cannot start client state store: %v", appName, appVersion, err)
	}

	// Remote store client shared by catalog and order access
	storeURL := config.GetStringOrDef("services.store.url", "http://localhost:8080/api")
	storeClient := aqm.NewServiceClient(storeURL)
	catalogDA := catalog.NewDataAccess(storeClient)
	ordersDA := orders.NewDataAccess(storeClient)

	pollInterval := parseDuration(config, logger, "catalog.poll_interval", catalog.DefaultPollInterval)
	poller := catalog.NewPoller(catalogDA, pollInterval, logger)

	ledger := clientstate.NewLedger(state, logger)

	hd := pos.HandlerDeps{
		Menu:       poller,
		Orders:     ordersDA,
		Submitter:  ordersDA,
		Ledger:     ledger,
		State:      state,
		Classifier: orders.NewClassifier(time.Local),
	}

	handler := pos.NewHandler(hd, config, logger)

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      logger,
		DisableCORS: false,
	})

	lifecycles := []interface{}{
		stateLifecycle,
		handler.Sessions(),
		poller,
	}

	options := []aqm.Option{
		aqm.WithConfig(config),
		aqm.WithLogger(logger),
		aqm.WithHTTPMiddleware(stack...),
		aqm.WithHTTPServerModules("web.port", handler),
		aqm.WithLifecycle(lifecycles...),
		aqm.WithHealthChecks(appName),
	}

	ms := aqm.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	if err := ms.Run(ctx); err != nil {
		_ = stateLifecycle.OnStop(context.Background())
		log.Fatalf("%s(%s) stopped: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}

// newStateStore opens the backend named by clientstate.backend. The store
// is started here so it is ready before the first request; only its Stop is
// left to the micro lifecycle.
func newStateStore(ctx context.Context, config *aqm.Config, logger aqm.Logger) (kv.Store, aqm.LifecycleHooks, error) {
	noop := aqm.LifecycleHooks{OnStop: func(context.Context) error { return nil }}

	backend := config.GetStringOrDef("clientstate.backend", "memory")
	switch backend {
	case "memory":
		return kv.NewMemoryStore(), noop, nil

	case "sqlite":
		path := config.GetStringOrDef("clientstate.sqlite.path", "tableside.db")
		store := kv.NewSQLiteStore(path, logger)
		if err := store.Start(ctx); err != nil {
			return nil, noop, err
		}
		return store, aqm.LifecycleHooks{OnStop: store.Stop}, nil

	case "nats":
		store := kv.NewNATSStore(kv.NATSConfig{
			URL:    config.GetStringOrDef("nats.url", "nats://localhost:4222"),
			Bucket: config.GetStringOrDef("nats.kv.bucket", kv.DefaultNATSBucket),
		}, logger)
		if err := store.Start(ctx); err != nil {
			return nil, noop, err
		}
		return store, aqm.LifecycleHooks{OnStop: store.Stop}, nil

	case "mongo":
		store := kv.NewMongoStore(config, logger)
		if err := store.Start(ctx); err != nil {
			return nil, noop, err
		}
		return store, aqm.LifecycleHooks{OnStop: store.Stop}, nil

	default:
		return nil, noop, fmt.Errorf("unknown clientstate.backend %q", backend)
	}
}

func parseDuration(config *aqm.Config, logger aqm.Logger, key string, def time.Duration) time.Duration {
	raw, ok := config.GetString(key)
	if !ok || raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		logger.Info("invalid duration, using default", "key", key, "value", raw, "default", def.String())
		return def
	}
	return d
}
