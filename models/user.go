package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a registered account. PasswordHash is a bcrypt digest and is never
// serialized to JSON.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Username     string             `bson:"username" json:"userName" validate:"required"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	FirstName    string             `bson:"first_name" json:"firstName"`
	LastName     string             `bson:"last_name" json:"lastName"`
	Email        string             `bson:"email" json:"email"`
	CreatedAt    time.Time          `bson:"createdAt" json:"-"`
}

// RegisterPayload binds a sign-up request.
type RegisterPayload struct {
	Username  string `json:"userName" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// LoginPayload binds a sign-in request.
type LoginPayload struct {
	Username string `json:"userName" binding:"required"`
	Password string `json:"password" binding:"required"`
}
