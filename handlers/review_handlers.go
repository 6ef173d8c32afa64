package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dealerhub/dealership-backend/apperr"
	"github.com/dealerhub/dealership-backend/middleware"
	"github.com/dealerhub/dealership-backend/models"
)

// FetchReviews returns every review.
func (h *Handler) FetchReviews(c *gin.Context) {
	reviews, err := h.reviews.All(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// FetchReviewsByDealer returns the reviews for one dealership.
func (h *Handler) FetchReviewsByDealer(c *gin.Context) {
	dealerID, ok := h.intParam(c, "id")
	if !ok {
		return
	}
	reviews, err := h.reviews.ByDealer(c.Request.Context(), dealerID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// FetchReview returns one review by its integer id, 404 when absent.
func (h *Handler) FetchReview(c *gin.Context) {
	id, ok := h.intParam(c, "id")
	if !ok {
		return
	}
	review, err := h.reviews.ByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// InsertReview stores a submitted review under the authenticated username.
// The id comes from the atomic sequence, never from the client.
func (h *Handler) InsertReview(c *gin.Context) {
	var payload models.InsertReviewPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		if ve, isType := models.DecodeViolation(err); isType {
			h.respondError(c, ve)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := models.Validate(payload); err != nil {
		h.respondError(c, err)
		return
	}

	review, err := h.reviews.Insert(c.Request.Context(), models.Review{
		Name:         payload.Name,
		Username:     c.GetString(middleware.UsernameKey),
		Dealership:   payload.Dealership,
		Review:       payload.Review,
		Purchase:     payload.Purchase,
		PurchaseDate: payload.PurchaseDate,
		CarMake:      payload.CarMake,
		CarModel:     payload.CarModel,
		CarYear:      payload.CarYear,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.events.ReviewCreated(*review)
	c.JSON(http.StatusOK, review)
}

// EditReview applies a partial update to a review, but only for its original
// author; anyone else gets 403 and the record stays untouched.
func (h *Handler) EditReview(c *gin.Context) {
	id, ok := h.intParam(c, "id")
	if !ok {
		return
	}
	var payload models.EditReviewPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		if ve, isType := models.DecodeViolation(err); isType {
			h.respondError(c, ve)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	stored, err := h.reviews.ByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if stored.Username != c.GetString(middleware.UsernameKey) {
		h.respondError(c, apperr.Forbidden("review belongs to another user"))
		return
	}

	changes := payload.Changes()
	if len(changes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}
	review, err := h.reviews.Update(c.Request.Context(), id, changes)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}
