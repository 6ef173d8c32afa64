package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/dealerhub/dealership-backend/query"
)

const defaultPageSize = 10

// Inventory is the paginated, filterable listing over the whole cars
// collection. Range filters apply only when both bounds are supplied; an
// out-of-range page returns an empty set with accurate metadata.
func (h *Handler) Inventory(c *gin.Context) {
	filter := bson.M{}

	if carMake := c.Query("make"); carMake != "" {
		filter["make"] = carMake
	}
	if carModel := c.Query("model"); carModel != "" {
		filter["model"] = carModel
	}

	year, present, ok := h.intQuery(c, "year")
	if !ok {
		return
	}
	if present {
		filter["year"] = query.MinYearFilter(year)
	}

	mileageMin, minPresent, ok := h.intQuery(c, "mileageMin")
	if !ok {
		return
	}
	mileageMax, maxPresent, ok := h.intQuery(c, "mileageMax")
	if !ok {
		return
	}
	if minPresent && maxPresent {
		filter["mileage"] = query.RangeFilter(mileageMin, mileageMax)
	}

	priceMin, minPresent, ok := h.intQuery(c, "priceMin")
	if !ok {
		return
	}
	priceMax, maxPresent, ok := h.intQuery(c, "priceMax")
	if !ok {
		return
	}
	if minPresent && maxPresent {
		filter["price"] = query.RangeFilter(priceMin, priceMax)
	}

	page, present, ok := h.intQuery(c, "page")
	if !ok {
		return
	}
	if !present {
		page = 1
	}
	limit, present, ok := h.intQuery(c, "limit")
	if !ok {
		return
	}
	if !present {
		limit = defaultPageSize
	}

	window := query.Paginate(0, page, limit)
	cars, total, err := h.cars.FindPage(c.Request.Context(), filter, window.Skip, window.Limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	pg := query.Paginate(total, page, limit)

	c.JSON(http.StatusOK, gin.H{
		"status":      http.StatusOK,
		"cars":        cars,
		"totalCars":   total,
		"totalPages":  pg.TotalPages,
		"currentPage": pg.CurrentPage,
	})
}

// CarsByDealer returns every car on one dealer's lot.
func (h *Handler) CarsByDealer(c *gin.Context) {
	dealerID, ok := h.intParam(c, "dealerId")
	if !ok {
		return
	}
	h.findCars(c, query.EqualityFilter("dealer_id", dealerID))
}

// CarsByMake filters a dealer's lot by make.
func (h *Handler) CarsByMake(c *gin.Context) {
	dealerID, ok := h.intParam(c, "dealerId")
	if !ok {
		return
	}
	filter := query.EqualityFilter("dealer_id", dealerID)
	filter["make"] = c.Param("make")
	h.findCars(c, filter)
}

// CarsByModel filters a dealer's lot by model.
func (h *Handler) CarsByModel(c *gin.Context) {
	dealerID, ok := h.intParam(c, "dealerId")
	if !ok {
		return
	}
	filter := query.EqualityFilter("dealer_id", dealerID)
	filter["model"] = c.Param("model")
	h.findCars(c, filter)
}

// CarsByMaxMileage selects the mileage bucket containing the given value; a
// value on a bucket boundary belongs to the lower bucket.
func (h *Handler) CarsByMaxMileage(c *gin.Context) {
	dealerID, ok := h.intParam(c, "dealerId")
	if !ok {
		return
	}
	mileage, ok := h.intParam(c, "mileage")
	if !ok {
		return
	}
	filter := query.EqualityFilter("dealer_id", dealerID)
	filter["mileage"] = query.MileageFilter(mileage)
	h.findCars(c, filter)
}

// CarsByPrice selects the price bucket containing the given value.
func (h *Handler) CarsByPrice(c *gin.Context) {
	dealerID, ok := h.intParam(c, "dealerId")
	if !ok {
		return
	}
	price, ok := h.intParam(c, "price")
	if !ok {
		return
	}
	filter := query.EqualityFilter("dealer_id", dealerID)
	filter["price"] = query.PriceFilter(price)
	h.findCars(c, filter)
}

// CarsByYear returns a dealer's cars from the given model year onward.
func (h *Handler) CarsByYear(c *gin.Context) {
	dealerID, ok := h.intParam(c, "dealerId")
	if !ok {
		return
	}
	year, ok := h.intParam(c, "year")
	if !ok {
		return
	}
	filter := query.EqualityFilter("dealer_id", dealerID)
	filter["year"] = query.MinYearFilter(year)
	h.findCars(c, filter)
}

// MakesModels lists each distinct make with its deduplicated models.
func (h *Handler) MakesModels(c *gin.Context) {
	out, err := h.cars.MakesModels(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) findCars(c *gin.Context, filter bson.M) {
	cars, err := h.cars.Find(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cars)
}
