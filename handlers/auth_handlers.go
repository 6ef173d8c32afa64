package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dealerhub/dealership-backend/auth"
	"github.com/dealerhub/dealership-backend/models"
	"github.com/dealerhub/dealership-backend/repositories"
)

// RegisterUser creates an account and returns a token so the front-end can
// log the user straight in.
func (h *Handler) RegisterUser(c *gin.Context) {
	var payload models.RegisterPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userName and password are required"})
		return
	}
	user, token, err := h.auth.Register(c.Request.Context(), payload)
	if err != nil {
		if errors.Is(err, repositories.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"userName": payload.Username, "error": "Already Registered"})
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"userName": user.Username,
		"status":   "Authenticated",
		"token":    token,
	})
}

// Logout mirrors the front-end contract of the session-based original.
// Tokens are stateless, so the server keeps nothing to invalidate; the
// client discards its token.
func (h *Handler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"userName": ""})
}

// Login verifies credentials and returns a token.
func (h *Handler) Login(c *gin.Context) {
	var payload models.LoginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userName and password are required"})
		return
	}
	user, token, err := h.auth.Login(c.Request.Context(), payload)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"userName": payload.Username, "error": "Invalid credentials"})
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"userName": user.Username,
		"status":   "Authenticated",
		"token":    token,
	})
}
