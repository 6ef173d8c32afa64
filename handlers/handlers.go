// Package handlers wires every HTTP route to one repository operation. Error
// to status-code mapping happens in exactly one place, respondError.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dealerhub/dealership-backend/apperr"
	"github.com/dealerhub/dealership-backend/auth"
	"github.com/dealerhub/dealership-backend/events"
	"github.com/dealerhub/dealership-backend/middleware"
	"github.com/dealerhub/dealership-backend/repositories"
)

// Handler bundles the repositories and services the routes need. Everything
// is injected; handlers hold no ambient state.
type Handler struct {
	cars    repositories.CarRepository
	dealers repositories.DealerRepository
	reviews repositories.ReviewRepository
	auth    *auth.Service
	events  *events.Publisher
	log     *logrus.Logger
}

// New builds a Handler. The events publisher may be nil.
func New(
	cars repositories.CarRepository,
	dealers repositories.DealerRepository,
	reviews repositories.ReviewRepository,
	authSvc *auth.Service,
	publisher *events.Publisher,
	log *logrus.Logger,
) *Handler {
	return &Handler{
		cars:    cars,
		dealers: dealers,
		reviews: reviews,
		auth:    authSvc,
		events:  publisher,
		log:     log,
	}
}

// RegisterRoutes attaches every endpoint to the router.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/inventory/", h.Inventory)
	r.GET("/cars/:dealerId", h.CarsByDealer)
	r.GET("/carsbymake/:dealerId/:make", h.CarsByMake)
	r.GET("/carsbymodel/:dealerId/:model", h.CarsByModel)
	r.GET("/carsbymaxmileage/:dealerId/:mileage", h.CarsByMaxMileage)
	r.GET("/carsbyprice/:dealerId/:price", h.CarsByPrice)
	r.GET("/carsbyyear/:dealerId/:year", h.CarsByYear)
	r.GET("/makes_models/", h.MakesModels)

	r.GET("/fetchDealers", h.FetchDealers)
	r.GET("/fetchDealers/:state", h.FetchDealersByState)
	r.GET("/fetchDealer/:id", h.FetchDealer)
	r.PUT("/update_dealer/:id", h.UpdateDealer)
	r.POST("/new_dealer/", h.NewDealer)

	r.GET("/fetchReviews", h.FetchReviews)
	r.GET("/fetchReviews/dealer/:id", h.FetchReviewsByDealer)
	r.GET("/fetchReviews/:id", h.FetchReview)

	authed := r.Group("/", middleware.AuthRequired(h.auth))
	authed.POST("/insert_review", h.InsertReview)
	authed.PUT("/edit_review/:id", h.EditReview)

	r.POST("/register", h.RegisterUser)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)
}

// respondError is the single error classifier: each apperr kind maps to its
// status exactly once. Store errors keep their detail in the log only.
func (h *Handler) respondError(c *gin.Context, err error) {
	if ve, ok := apperr.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"errors": ve.Fields})
		return
	}
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, apperr.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		h.log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// intParam parses a numeric path parameter, responding 400 itself on failure
// so malformed input never reaches a predicate builder.
func (h *Handler) intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parameter '" + name + "' must be an integer"})
		return 0, false
	}
	return v, true
}

// intQuery parses an optional numeric query parameter. ok is false only when
// the parameter was present but not numeric, in which case 400 was written.
func (h *Handler) intQuery(c *gin.Context, name string) (value int, present, ok bool) {
	raw, exists := c.GetQuery(name)
	if !exists || raw == "" {
		return 0, false, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parameter '" + name + "' must be an integer"})
		return 0, true, false
	}
	return v, true, true
}
