package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dealerhub/dealership-backend/models"
)

// FetchDealers returns every dealership.
func (h *Handler) FetchDealers(c *gin.Context) {
	dealers, err := h.dealers.All(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dealers)
}

// FetchDealersByState filters dealerships by state.
func (h *Handler) FetchDealersByState(c *gin.Context) {
	dealers, err := h.dealers.ByState(c.Request.Context(), c.Param("state"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dealers)
}

// FetchDealer returns one dealership by its integer id, 404 when absent.
func (h *Handler) FetchDealer(c *gin.Context) {
	id, ok := h.intParam(c, "id")
	if !ok {
		return
	}
	dealer, err := h.dealers.ByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dealer)
}

// UpdateDealer applies a partial update; only fields present in the body
// overwrite the stored record.
func (h *Handler) UpdateDealer(c *gin.Context) {
	id, ok := h.intParam(c, "id")
	if !ok {
		return
	}
	var payload models.UpdateDealerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		if ve, isType := models.DecodeViolation(err); isType {
			h.respondError(c, ve)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	changes := payload.Changes()
	if len(changes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}
	dealer, err := h.dealers.Update(c.Request.Context(), id, changes)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dealer)
}

// NewDealer creates a dealership under the next sequence id. Every field but
// short_name is required.
func (h *Handler) NewDealer(c *gin.Context) {
	var payload models.NewDealerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		if ve, isType := models.DecodeViolation(err); isType {
			h.respondError(c, ve)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field: " + err.Error()})
		return
	}
	dealer, err := h.dealers.Create(c.Request.Context(), models.Dealer{
		FullName:  payload.FullName,
		ShortName: payload.ShortName,
		Address:   payload.Address,
		City:      payload.City,
		State:     payload.State,
		Zip:       payload.Zip,
		Lat:       payload.Lat,
		Long:      payload.Long,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dealer)
}
