// Package query builds the bson predicates every inventory endpoint shares.
// All builders are pure: no I/O, no errors, same input same document.
// Malformed numeric input must be rejected by the caller before it gets here.
package query

import (
	"go.mongodb.org/mongo-driver/bson"
)

var mileageBounds = []int{50000, 100000, 150000, 200000}
var priceBounds = []int{20000, 40000, 60000, 80000}

// bucket returns the half-open window the value falls into: {$lte: v} for the
// lowest bucket, {$gt: lower, $lte: v} for middle ones, {$gt: top} above the
// last bound. A value exactly on a bound belongs to the lower bucket.
func bucket(value int, bounds []int) bson.M {
	if value <= bounds[0] {
		return bson.M{"$lte": value}
	}
	for i := 1; i < len(bounds); i++ {
		if value <= bounds[i] {
			return bson.M{"$gt": bounds[i-1], "$lte": value}
		}
	}
	return bson.M{"$gt": bounds[len(bounds)-1]}
}

// MileageFilter selects the fixed mileage bucket containing the given value.
// Buckets: [0,50000], (50000,100000], (100000,150000], (150000,200000], (200000,∞).
func MileageFilter(mileage int) bson.M {
	return bucket(mileage, mileageBounds)
}

// PriceFilter selects the fixed price bucket containing the given value.
// Bounds: 20000 / 40000 / 60000 / 80000.
func PriceFilter(price int) bson.M {
	return bucket(price, priceBounds)
}

// RangeFilter is an inclusive range on both ends. The inventory endpoint only
// applies it when min and max were both supplied.
func RangeFilter(min, max int) bson.M {
	return bson.M{"$gte": min, "$lte": max}
}

// EqualityFilter matches a single field exactly.
func EqualityFilter(field string, value any) bson.M {
	return bson.M{field: value}
}

// MinYearFilter matches years greater than or equal to the given one.
func MinYearFilter(year int) bson.M {
	return bson.M{"$gte": year}
}
