package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dealerhub/dealership-backend/apperr"
	"github.com/dealerhub/dealership-backend/database"
	"github.com/dealerhub/dealership-backend/models"
)

// ErrUsernameTaken is returned by Create when the unique username index
// rejects the insert.
var ErrUsernameTaken = errors.New("username already registered")

// UserRepository reads and writes the users collection.
type UserRepository interface {
	ByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user models.User) (*models.User, error)
}

type mongoUserRepo struct {
	coll *mongo.Collection
}

// NewUserRepository wraps the store's users collection.
func NewUserRepository(store *database.Store) UserRepository {
	return &mongoUserRepo{coll: store.Users}
}

func (r *mongoUserRepo) ByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var user models.User
	err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("user", username)
	}
	if err != nil {
		return nil, apperr.Store("find user", err)
	}
	return &user, nil
}

func (r *mongoUserRepo) Create(ctx context.Context, user models.User) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	user.CreatedAt = time.Now().UTC()
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrUsernameTaken
		}
		return nil, apperr.Store("insert user", err)
	}
	return &user, nil
}
