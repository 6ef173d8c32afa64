package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dealerhub/dealership-backend/apperr"
	"github.com/dealerhub/dealership-backend/database"
	"github.com/dealerhub/dealership-backend/models"
)

// DealerRepository reads and writes the dealerships collection. Dealers are
// never deleted.
type DealerRepository interface {
	All(ctx context.Context) ([]models.Dealer, error)
	ByState(ctx context.Context, state string) ([]models.Dealer, error)
	ByID(ctx context.Context, id int) (*models.Dealer, error)
	// Update applies a partial $set and returns the updated dealer, or
	// apperr.ErrNotFound when no dealer has that id.
	Update(ctx context.Context, id int, changes map[string]any) (*models.Dealer, error)
	// Create inserts a dealer under the next sequence id and returns it.
	Create(ctx context.Context, dealer models.Dealer) (*models.Dealer, error)
}

type mongoDealerRepo struct {
	store *database.Store
	coll  *mongo.Collection
}

// NewDealerRepository wraps the store's dealerships collection.
func NewDealerRepository(store *database.Store) DealerRepository {
	return &mongoDealerRepo{store: store, coll: store.Dealers}
}

func (r *mongoDealerRepo) All(ctx context.Context) ([]models.Dealer, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoDealerRepo) ByState(ctx context.Context, state string) ([]models.Dealer, error) {
	return r.find(ctx, bson.M{"state": state})
}

func (r *mongoDealerRepo) find(ctx context.Context, filter bson.M) ([]models.Dealer, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, apperr.Store("find dealers", err)
	}
	defer cursor.Close(ctx)

	dealers := []models.Dealer{}
	if err := cursor.All(ctx, &dealers); err != nil {
		return nil, apperr.Store("decode dealers", err)
	}
	return dealers, nil
}

func (r *mongoDealerRepo) ByID(ctx context.Context, id int) (*models.Dealer, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var dealer models.Dealer
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&dealer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("dealer", id)
	}
	if err != nil {
		return nil, apperr.Store("find dealer", err)
	}
	return &dealer, nil
}

func (r *mongoDealerRepo) Update(ctx context.Context, id int, changes map[string]any) (*models.Dealer, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Dealer
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"id": id},
		bson.M{"$set": changes},
		opts,
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("dealer", id)
	}
	if err != nil {
		return nil, apperr.Store("update dealer", err)
	}
	return &updated, nil
}

func (r *mongoDealerRepo) Create(ctx context.Context, dealer models.Dealer) (*models.Dealer, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	id, err := r.store.NextID(ctx, database.CounterDealers)
	if err != nil {
		return nil, apperr.Store("allocate dealer id", err)
	}
	dealer.ID = id
	if _, err := r.coll.InsertOne(ctx, dealer); err != nil {
		return nil, apperr.Store("insert dealer", err)
	}
	return &dealer, nil
}
