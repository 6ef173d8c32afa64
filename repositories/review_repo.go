package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dealerhub/dealership-backend/apperr"
	"github.com/dealerhub/dealership-backend/database"
	"github.com/dealerhub/dealership-backend/models"
)

// ReviewRepository reads and writes the reviews collection. Reviews are never
// deleted; edits are partial $set updates.
type ReviewRepository interface {
	All(ctx context.Context) ([]models.Review, error)
	ByDealer(ctx context.Context, dealerID int) ([]models.Review, error)
	ByID(ctx context.Context, id int) (*models.Review, error)
	// Insert assigns the next sequence id, stamps timestamps and stores the
	// review.
	Insert(ctx context.Context, review models.Review) (*models.Review, error)
	// Update applies a partial $set, refreshes updatedAt and returns the
	// updated review, or apperr.ErrNotFound.
	Update(ctx context.Context, id int, changes map[string]any) (*models.Review, error)
}

type mongoReviewRepo struct {
	store *database.Store
	coll  *mongo.Collection
}

// NewReviewRepository wraps the store's reviews collection.
func NewReviewRepository(store *database.Store) ReviewRepository {
	return &mongoReviewRepo{store: store, coll: store.Reviews}
}

func (r *mongoReviewRepo) All(ctx context.Context) ([]models.Review, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoReviewRepo) ByDealer(ctx context.Context, dealerID int) ([]models.Review, error) {
	return r.find(ctx, bson.M{"dealership": dealerID})
}

func (r *mongoReviewRepo) find(ctx context.Context, filter bson.M) ([]models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, apperr.Store("find reviews", err)
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, apperr.Store("decode reviews", err)
	}
	return reviews, nil
}

func (r *mongoReviewRepo) ByID(ctx context.Context, id int) (*models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var review models.Review
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&review)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("review", id)
	}
	if err != nil {
		return nil, apperr.Store("find review", err)
	}
	return &review, nil
}

func (r *mongoReviewRepo) Insert(ctx context.Context, review models.Review) (*models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	id, err := r.store.NextID(ctx, database.CounterReviews)
	if err != nil {
		return nil, apperr.Store("allocate review id", err)
	}
	now := time.Now().UTC()
	review.ID = id
	review.CreatedAt = now
	review.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, review); err != nil {
		return nil, apperr.Store("insert review", err)
	}
	return &review, nil
}

func (r *mongoReviewRepo) Update(ctx context.Context, id int, changes map[string]any) (*models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range changes {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Review
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"id": id},
		bson.M{"$set": set},
		opts,
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("review", id)
	}
	if err != nil {
		return nil, apperr.Store("update review", err)
	}
	return &updated, nil
}
