package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dealer is one dealership. The integer id is the public identity used by
// every other collection; the Mongo _id stays internal.
type Dealer struct {
	OID       primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID        int                `bson:"id" json:"id" validate:"required"`
	City      string             `bson:"city" json:"city" validate:"required"`
	State     string             `bson:"state" json:"state" validate:"required"`
	Address   string             `bson:"address" json:"address" validate:"required"`
	Zip       string             `bson:"zip" json:"zip" validate:"required"`
	Lat       string             `bson:"lat" json:"lat" validate:"required"`
	Long      string             `bson:"long" json:"long" validate:"required"`
	ShortName string             `bson:"short_name" json:"short_name"`
	FullName  string             `bson:"full_name" json:"full_name" validate:"required"`
}

// NewDealerPayload binds the new-dealer request body. Every field except
// short_name is required; a missing one is a 400.
type NewDealerPayload struct {
	FullName  string `json:"full_name" binding:"required"`
	ShortName string `json:"short_name"`
	Address   string `json:"address" binding:"required"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	Zip       string `json:"zip" binding:"required"`
	Lat       string `json:"lat" binding:"required"`
	Long      string `json:"long" binding:"required"`
}

// UpdateDealerPayload binds a partial dealer update. Only the fields present
// in the body overwrite the stored record.
type UpdateDealerPayload struct {
	FullName  *string `json:"full_name"`
	ShortName *string `json:"short_name"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
	State     *string `json:"state"`
	Zip       *string `json:"zip"`
	Lat       *string `json:"lat"`
	Long      *string `json:"long"`
}

// Changes returns the $set document for the supplied fields only.
func (p UpdateDealerPayload) Changes() map[string]any {
	set := map[string]any{}
	if p.FullName != nil {
		set["full_name"] = *p.FullName
	}
	if p.ShortName != nil {
		set["short_name"] = *p.ShortName
	}
	if p.Address != nil {
		set["address"] = *p.Address
	}
	if p.City != nil {
		set["city"] = *p.City
	}
	if p.State != nil {
		set["state"] = *p.State
	}
	if p.Zip != nil {
		set["zip"] = *p.Zip
	}
	if p.Lat != nil {
		set["lat"] = *p.Lat
	}
	if p.Long != nil {
		set["long"] = *p.Long
	}
	return set
}
