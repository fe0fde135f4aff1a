package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bloxtalent-waitlist/internal/models"
	"bloxtalent-waitlist/internal/services"
)

// WaitlistHandler handles the public waitlist endpoints
type WaitlistHandler struct {
	waitlistService *services.WaitlistService
	missionService  *services.MissionService
	referralService *services.ReferralService
}

// NewWaitlistHandler creates a new WaitlistHandler
func NewWaitlistHandler(waitlistService *services.WaitlistService, missionService *services.MissionService, referralService *services.ReferralService) *WaitlistHandler {
	return &WaitlistHandler{
		waitlistService: waitlistService,
		missionService:  missionService,
		referralService: referralService,
	}
}

// Signup admits an email to the waitlist, or returns the existing entry.
// POST /api/waitlist/signup
func (h *WaitlistHandler) Signup(c *gin.Context) {
	var req services.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	signup, err := h.waitlistService.Signup(req)
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join waitlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"signup": signup})
}

// GetStatus looks up a signup by email and returns its full status.
// GET /api/waitlist/status?email=...
func (h *WaitlistHandler) GetStatus(c *gin.Context) {
	email := c.Query("email")

	signup, err := h.waitlistService.GetByEmail(email)
	if err != nil {
		h.renderLookupError(c, err)
		return
	}

	h.renderStatus(c, signup)
}

// GetByID looks up a signup by its public id and returns its full status.
// GET /api/waitlist/:id
func (h *WaitlistHandler) GetByID(c *gin.Context) {
	signup, err := h.waitlistService.GetByPublicID(c.Param("id"))
	if err != nil {
		h.renderLookupError(c, err)
		return
	}

	h.renderStatus(c, signup)
}

// CreditMission claims a mission reward for a signup. Safe to call repeatedly;
// the reward is applied at most once per mission.
// POST /api/waitlist/:id/missions
func (h *WaitlistHandler) CreditMission(c *gin.Context) {
	var req struct {
		MissionType string `json:"mission_type" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mission_type is required"})
		return
	}

	signup, err := h.missionService.CreditMission(c.Param("id"), req.MissionType)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownMission):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrSignupNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Signup not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to credit mission"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"signup": signup})
}

// GetReferrals returns the referrals a signup has earned as a referrer.
// GET /api/waitlist/:id/referrals
func (h *WaitlistHandler) GetReferrals(c *gin.Context) {
	signup, err := h.waitlistService.GetByPublicID(c.Param("id"))
	if err != nil {
		h.renderLookupError(c, err)
		return
	}

	referrals, err := h.referralService.GetReferralsForSignup(signup.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve referrals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"referrals": referrals})
}

// renderStatus assembles the signup, its referrals and completed missions
// into a single status payload for the polling front end.
func (h *WaitlistHandler) renderStatus(c *gin.Context, signup *models.WaitlistSignup) {
	referrals, err := h.referralService.GetReferralsForSignup(signup.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve referrals"})
		return
	}

	missions, err := h.waitlistService.CompletedMissions(signup.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve missions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"signup":             signup,
		"referrals":          referrals,
		"completed_missions": missions,
	})
}

func (h *WaitlistHandler) renderLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSignupNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Signup not found"})
	case errors.Is(err, services.ErrMissingEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up signup"})
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, services.ErrMissingEmail) ||
		errors.Is(err, services.ErrInvalidEmail) ||
		errors.Is(err, services.ErrMissingFullName) ||
		errors.Is(err, services.ErrInvalidUserType)
}
