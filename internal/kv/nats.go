package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/aquamarinepk/aqm"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const DefaultNATSBucket = "TABLESIDE_STATE"

// NATSConfig configures a NATSStore.
type NATSConfig struct {
	URL    string // NATS server URL
	Bucket string // JetStream key-value bucket (e.g., "TABLESIDE_STATE")
}

// NATSStore keeps values in a JetStream key-value bucket so several
// tableside instances share one seen-order ledger.
type NATSStore struct {
	cfg    NATSConfig
	conn   *nats.Conn
	kv     jetstream.KeyValue
	logger aqm.Logger
}

func NewNATSStore(cfg NATSConfig, logger aqm.Logger) *NATSStore {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if cfg.Bucket == "" {
		cfg.Bucket = DefaultNATSBucket
	}
	return &NATSStore{cfg: cfg, logger: logger}
}

func (s *NATSStore) Start(ctx context.Context) error {
	conn, err := nats.Connect(s.cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      s.cfg.Bucket,
		Description: "tableside client state",
		History:     1,
	})
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create/update bucket %s: %w", s.cfg.Bucket, err)
	}

	s.conn = conn
	s.kv = kv
	s.logger.Info("client state store opened", "backend", "nats", "bucket", s.cfg.Bucket)
	return nil
}

func (s *NATSStore) Stop(ctx context.Context) error {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	return nil
}

func (s *NATSStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.kv == nil {
		return "", false, errors.New("nats store not started")
	}

	entry, err := s.kv.Get(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cannot read key %s: %w", key, err)
	}
	return string(entry.Value()), true, nil
}

func (s *NATSStore) Set(ctx context.Context, key, value string) error {
	if s.kv == nil {
		return errors.New("nats store not started")
	}

	if _, err := s.kv.Put(ctx, key, []byte(value)); err != nil {
		return fmt.Errorf("cannot write key %s: %w", key, err)
	}
	return nil
}
