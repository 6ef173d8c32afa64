package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Counter names for the integer id sequences.
const (
	CounterReviews = "reviews"
	CounterDealers = "dealerships"
)

// NextID atomically increments and returns the named sequence. Because the
// increment and the read are one FindOneAndUpdate on a single document,
// concurrent callers always receive distinct ids.
func (s *Store) NextID(ctx context.Context, name string) (int, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	var doc struct {
		Seq int `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next id for %s: %w", name, err)
	}
	return doc.Seq, nil
}

// SetCounter pins a sequence to the given value. Seeding calls this with the
// maximum id present in the fixtures so the first allocation is max+1.
func (s *Store) SetCounter(ctx context.Context, name string, value int) error {
	_, err := s.counters.UpdateOne(ctx,
		bson.M{"_id": name},
		bson.M{"$set": bson.M{"seq": value}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("set counter %s: %w", name, err)
	}
	return nil
}
