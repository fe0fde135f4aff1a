package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"bloxtalent-waitlist/internal/auth"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	adminAPIKey string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(adminAPIKey string) *AuthHandler {
	return &AuthHandler{
		adminAPIKey: adminAPIKey,
	}
}

// AdminLogin exchanges the shared admin key for a short-lived JWT.
// POST /auth/admin
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req struct {
		Key string `json:"key" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Key), []byte(h.adminAPIKey)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid admin key"})
		return
	}

	token, err := auth.GenerateToken(auth.RoleAdmin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
	})
}
