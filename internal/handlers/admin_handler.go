package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bloxtalent-waitlist/internal/services"
)

// AdminHandler serves the admin view of the waitlist roster and stats
type AdminHandler struct {
	waitlistService *services.WaitlistService
	statsService    *services.StatsService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(waitlistService *services.WaitlistService, statsService *services.StatsService) *AdminHandler {
	return &AdminHandler{
		waitlistService: waitlistService,
		statsService:    statsService,
	}
}

// GetWaitlist returns a page of the roster, VIP lane first.
// GET /api/admin/waitlist?tier=vip&page=1&page_size=50
func (h *AdminHandler) GetWaitlist(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	tier := c.Query("tier")

	signups, total, err := h.waitlistService.List(tier, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve waitlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"signups": signups,
		"total":   total,
		"page":    page,
	})
}

// GetStats returns a live rollup plus the latest persisted snapshot.
// GET /api/admin/waitlist/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	live, err := h.statsService.Compute()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	snapshot, err := h.statsService.Latest()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats snapshot"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"live":            live,
		"latest_snapshot": snapshot,
	})
}
