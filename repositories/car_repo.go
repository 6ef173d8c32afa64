// Package repositories holds the data-access interfaces the handlers depend
// on, plus their MongoDB implementations over database.Store. Handlers are
// tested against mocks of these interfaces.
package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dealerhub/dealership-backend/apperr"
	"github.com/dealerhub/dealership-backend/database"
	"github.com/dealerhub/dealership-backend/models"
)

// dbTimeout bounds every single store operation.
const dbTimeout = 5 * time.Second

// CarRepository reads the cars collection. Cars are immutable after seeding,
// so there is no write side.
type CarRepository interface {
	// Find returns all cars matching the given predicate document.
	Find(ctx context.Context, filter bson.M) ([]models.Car, error)
	// FindPage returns one skip/limit window of the filtered set plus the
	// total match count.
	FindPage(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Car, int64, error)
	// MakesModels returns each distinct make with its deduplicated models.
	MakesModels(ctx context.Context) ([]models.MakeModels, error)
}

type mongoCarRepo struct {
	coll *mongo.Collection
}

// NewCarRepository wraps the store's cars collection.
func NewCarRepository(store *database.Store) CarRepository {
	return &mongoCarRepo{coll: store.Cars}
}

func (r *mongoCarRepo) Find(ctx context.Context, filter bson.M) ([]models.Car, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, apperr.Store("find cars", err)
	}
	defer cursor.Close(ctx)

	cars := []models.Car{}
	if err := cursor.All(ctx, &cars); err != nil {
		return nil, apperr.Store("decode cars", err)
	}
	return cars, nil
}

func (r *mongoCarRepo) FindPage(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Car, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Store("count cars", err)
	}

	opts := options.Find().SetSkip(skip).SetLimit(limit)
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, apperr.Store("find cars page", err)
	}
	defer cursor.Close(ctx)

	cars := []models.Car{}
	if err := cursor.All(ctx, &cars); err != nil {
		return nil, 0, apperr.Store("decode cars page", err)
	}
	return cars, total, nil
}

func (r *mongoCarRepo) MakesModels(ctx context.Context) ([]models.MakeModels, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":    "$make",
			"models": bson.M{"$addToSet": "$model"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Store("aggregate makes", err)
	}
	defer cursor.Close(ctx)

	out := []models.MakeModels{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, apperr.Store("decode makes", err)
	}
	return out, nil
}
