package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

// Store is the application's handle on MongoDB. It is created once by Connect
// and passed to whoever needs it; there is no package-level connection.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	log    *logrus.Logger

	Cars     *mongo.Collection
	Dealers  *mongo.Collection
	Reviews  *mongo.Collection
	Users    *mongo.Collection
	counters *mongo.Collection
}

// Connect dials MongoDB, verifies the connection with a ping and ensures the
// indexes the collections rely on.
func Connect(ctx context.Context, uri, dbName string, log *logrus.Logger) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(dbName)
	s := &Store{
		client:   client,
		db:       db,
		log:      log,
		Cars:     db.Collection("cars"),
		Dealers:  db.Collection("dealerships"),
		Reviews:  db.Collection("reviews"),
		Users:    db.Collection("users"),
		counters: db.Collection("counters"),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	log.WithField("database", dbName).Info("connected to MongoDB")
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{s.Cars, mongo.IndexModel{Keys: bson.D{{Key: "dealer_id", Value: 1}}}},
		{s.Dealers, mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique}},
		{s.Reviews, mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique}},
		{s.Users, mongo.IndexModel{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique}},
	}
	for _, ix := range indexes {
		if _, err := ix.coll.Indexes().CreateOne(ctx, ix.model); err != nil {
			return fmt.Errorf("create index on %s: %w", ix.coll.Name(), err)
		}
	}
	return nil
}

// Disconnect closes the client. Call on shutdown.
func (s *Store) Disconnect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongodb: %w", err)
	}
	s.log.Info("MongoDB connection closed")
	return nil
}
