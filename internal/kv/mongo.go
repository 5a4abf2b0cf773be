package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aquamarinepk/aqm"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type stateDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore keeps values in the client_state collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     aqm.Logger
	config     *aqm.Config
}

func NewMongoStore(config *aqm.Config, logger aqm.Logger) *MongoStore {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &MongoStore{
		logger: logger,
		config: config,
	}
}

func (s *MongoStore) Start(ctx context.Context) error {
	connString := s.config.GetStringOrDef("db.mongo.url", "mongodb://localhost:27017")
	dbName := s.config.GetStringOrDef("db.mongo.name", "tableside")

	clientOptions := options.Client().ApplyURI(connString).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("cannot connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("cannot ping MongoDB: %w", err)
	}

	s.client = client
	s.collection = client.Database(dbName).Collection("client_state")

	s.logger.Infof("Connected to MongoDB: %s, database: %s", connString, dbName)
	return nil
}

func (s *MongoStore) Stop(ctx context.Context) error {
	if s.client != nil {
		if err := s.client.Disconnect(ctx); err != nil {
			return fmt.Errorf("cannot disconnect from MongoDB: %w", err)
		}
		s.logger.Info("Disconnected from MongoDB")
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.collection == nil {
		return "", false, errors.New("mongo store not started")
	}

	var doc stateDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cannot read key %s: %w", key, err)
	}
	return doc.Value, true, nil
}

func (s *MongoStore) Set(ctx context.Context, key, value string) error {
	if s.collection == nil {
		return errors.New("mongo store not started")
	}

	filter := bson.M{"_id": key}
	update := bson.M{"$set": bson.M{"value": value, "updated_at": time.Now()}}

	if _, err := s.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("cannot write key %s: %w", key, err)
	}
	return nil
}
