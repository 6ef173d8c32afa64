package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is one customer review of a dealership. Purchase is a pointer so a
// submitted false survives the required check.
type Review struct {
	OID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID           int                `bson:"id" json:"id" validate:"required"`
	Name         string             `bson:"name" json:"name" validate:"required"`
	Username     string             `bson:"username" json:"username" validate:"required"`
	Dealership   int                `bson:"dealership" json:"dealership" validate:"required"`
	Review       string             `bson:"review" json:"review" validate:"required"`
	Purchase     *bool              `bson:"purchase" json:"purchase" validate:"required"`
	PurchaseDate string             `bson:"purchase_date" json:"purchase_date" validate:"required"`
	CarMake      string             `bson:"car_make" json:"car_make" validate:"required"`
	CarModel     string             `bson:"car_model" json:"car_model" validate:"required"`
	CarYear      int                `bson:"car_year" json:"car_year" validate:"required"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// InsertReviewPayload binds a review submission. The id is assigned by the
// server, never taken from the client.
type InsertReviewPayload struct {
	Name         string `json:"name" validate:"required"`
	Dealership   int    `json:"dealership" validate:"required"`
	Review       string `json:"review" validate:"required"`
	Purchase     *bool  `json:"purchase" validate:"required"`
	PurchaseDate string `json:"purchase_date" validate:"required"`
	CarMake      string `json:"car_make" validate:"required"`
	CarModel     string `json:"car_model" validate:"required"`
	CarYear      int    `json:"car_year" validate:"required"`
}

// EditReviewPayload binds a partial review edit. id, username and timestamps
// are never client-writable.
type EditReviewPayload struct {
	Name         *string `json:"name"`
	Dealership   *int    `json:"dealership"`
	Review       *string `json:"review"`
	Purchase     *bool   `json:"purchase"`
	PurchaseDate *string `json:"purchase_date"`
	CarMake      *string `json:"car_make"`
	CarModel     *string `json:"car_model"`
	CarYear      *int    `json:"car_year"`
}

// Changes returns the $set document for the supplied fields only.
func (p EditReviewPayload) Changes() map[string]any {
	set := map[string]any{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Dealership != nil {
		set["dealership"] = *p.Dealership
	}
	if p.Review != nil {
		set["review"] = *p.Review
	}
	if p.Purchase != nil {
		set["purchase"] = *p.Purchase
	}
	if p.PurchaseDate != nil {
		set["purchase_date"] = *p.PurchaseDate
	}
	if p.CarMake != nil {
		set["car_make"] = *p.CarMake
	}
	if p.CarModel != nil {
		set["car_model"] = *p.CarModel
	}
	if p.CarYear != nil {
		set["car_year"] = *p.CarYear
	}
	return set
}
