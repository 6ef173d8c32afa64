package database

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dealerhub/dealership-backend/models"
)

// Fixtures holds the seed records after loading. It is built once at startup
// and handed to Seed as a value; nothing reads fixture files after that.
type Fixtures struct {
	Cars    []models.Car
	Dealers []models.Dealer
	Reviews []models.Review
}

// LoadFixtures parses the three bundled JSON files from dir. A missing or
// malformed file is fatal for the caller: the app cannot serve without data.
func LoadFixtures(dir string) (Fixtures, error) {
	var fx Fixtures

	var cars struct {
		Cars []models.Car `json:"cars"`
	}
	if err := readJSON(filepath.Join(dir, "car_records.json"), &cars); err != nil {
		return fx, err
	}
	var dealers struct {
		Dealerships []models.Dealer `json:"dealerships"`
	}
	if err := readJSON(filepath.Join(dir, "dealerships.json"), &dealers); err != nil {
		return fx, err
	}
	var reviews struct {
		Reviews []models.Review `json:"reviews"`
	}
	if err := readJSON(filepath.Join(dir, "reviews.json"), &reviews); err != nil {
		return fx, err
	}

	fx.Cars = cars.Cars
	fx.Dealers = dealers.Dealerships
	fx.Reviews = reviews.Reviews

	for i, car := range fx.Cars {
		if err := models.Validate(car); err != nil {
			return fx, fmt.Errorf("car fixture %d: %w", i, err)
		}
	}
	for i, d := range fx.Dealers {
		if err := models.Validate(d); err != nil {
			return fx, fmt.Errorf("dealer fixture %d: %w", i, err)
		}
	}
	for i, r := range fx.Reviews {
		if err := models.Validate(r); err != nil {
			return fx, fmt.Errorf("review fixture %d: %w", i, err)
		}
	}
	return fx, nil
}

func readJSON(path string, into any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixture %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return nil
}

// Seed clears the three collections and repopulates them from fx, then pins
// the id counters to the maximum ids present. Development convenience, not a
// migration mechanism.
func (s *Store) Seed(ctx context.Context, fx Fixtures) error {
	if err := replaceAll(ctx, s.Cars, toAny(fx.Cars)); err != nil {
		return err
	}
	if err := replaceAll(ctx, s.Dealers, toAny(fx.Dealers)); err != nil {
		return err
	}
	if err := replaceAll(ctx, s.Reviews, toAny(fx.Reviews)); err != nil {
		return err
	}

	maxDealer := 0
	for _, d := range fx.Dealers {
		if d.ID > maxDealer {
			maxDealer = d.ID
		}
	}
	maxReview := 0
	for _, r := range fx.Reviews {
		if r.ID > maxReview {
			maxReview = r.ID
		}
	}
	if err := s.SetCounter(ctx, CounterDealers, maxDealer); err != nil {
		return err
	}
	if err := s.SetCounter(ctx, CounterReviews, maxReview); err != nil {
		return err
	}

	s.log.WithFields(map[string]any{
		"cars":    len(fx.Cars),
		"dealers": len(fx.Dealers),
		"reviews": len(fx.Reviews),
	}).Info("database seeded")
	return nil
}

func replaceAll(ctx context.Context, coll *mongo.Collection, docs []any) error {
	if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear %s: %w", coll.Name(), err)
	}
	if len(docs) == 0 {
		return nil
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("seed %s: %w", coll.Name(), err)
	}
	return nil
}

func toAny[T any](records []T) []any {
	out := make([]any, len(records))
	for i, r := range records {
		out[i] = r
	}
	return out
}
