package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Car is one inventory record. Numeric fields are pointers so that a missing
// field can be told apart from a legitimate zero (a new car has mileage 0).
type Car struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	DealerID *int               `bson:"dealer_id" json:"dealer_id" validate:"required"`
	Make     string             `bson:"make" json:"make" validate:"required"`
	Model    string             `bson:"model" json:"model" validate:"required"`
	BodyType string             `bson:"bodyType" json:"bodyType" validate:"required"`
	Year     *int               `bson:"year" json:"year" validate:"required,gte=1886"`
	Mileage  *int               `bson:"mileage" json:"mileage" validate:"required,gte=0"`
	Price    *int               `bson:"price" json:"price" validate:"required,gte=0"`
}

// MakeModels groups the distinct models seen for one make.
type MakeModels struct {
	Make   string   `bson:"_id" json:"make"`
	Models []string `bson:"models" json:"models"`
}
