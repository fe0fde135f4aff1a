package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bloxtalent-waitlist/internal/auth"
	"bloxtalent-waitlist/internal/models"
	"bloxtalent-waitlist/internal/services"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	auth.InitJWT("test-secret")

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.WaitlistSignup{},
		&models.Referral{},
		&models.MissionCompletion{},
		&models.WaitlistStats{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	db.Exec("DELETE FROM mission_completions")
	db.Exec("DELETE FROM referrals")
	db.Exec("DELETE FROM waitlist_stats")
	db.Exec("DELETE FROM waitlist_signups")

	referralService := services.NewReferralService(db, 10)
	waitlistService := services.NewWaitlistService(db, referralService, []string{"roblox.com"})
	missionService := services.NewMissionService(db, 5)
	statsService := services.NewStatsService(db)

	authHandler := NewAuthHandler("test-admin-key")
	waitlistHandler := NewWaitlistHandler(waitlistService, missionService, referralService)
	adminHandler := NewAdminHandler(waitlistService, statsService)

	router := gin.New()
	router.POST("/auth/admin", authHandler.AdminLogin)

	api := router.Group("/api")
	{
		api.POST("/waitlist/signup", waitlistHandler.Signup)
		api.GET("/waitlist/status", waitlistHandler.GetStatus)
		api.GET("/waitlist/:id", waitlistHandler.GetByID)
		api.POST("/waitlist/:id/missions", waitlistHandler.CreditMission)
		api.GET("/waitlist/:id/referrals", waitlistHandler.GetReferrals)
	}

	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware())
	admin.Use(auth.AdminMiddleware())
	{
		admin.GET("/waitlist", adminHandler.GetWaitlist)
		admin.GET("/waitlist/stats", adminHandler.GetStats)
	}

	return router, db
}

func doJSON(router *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func signupBody(email string) map[string]string {
	return map[string]string{
		"email":     email,
		"full_name": "Test Person",
		"user_type": "developer",
	}
}

func TestSignupEndpoint(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/api/waitlist/signup", signupBody("jess@gmail.com"), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Signup models.WaitlistSignup `json:"signup"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "jess@gmail.com", resp.Signup.Email)
	assert.Equal(t, 1, resp.Signup.PositionInQueue)
	assert.NotEmpty(t, resp.Signup.PublicID)
	assert.NotEmpty(t, resp.Signup.ReferralCode)

	// Replay returns the same record
	w = doJSON(router, http.MethodPost, "/api/waitlist/signup", signupBody("jess@gmail.com"), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var replay struct {
		Signup models.WaitlistSignup `json:"signup"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &replay))
	assert.Equal(t, resp.Signup.PublicID, replay.Signup.PublicID)
}

func TestSignupEndpointValidation(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/api/waitlist/signup", map[string]string{"full_name": "No Email"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email")

	w = doJSON(router, http.MethodPost, "/api/waitlist/signup", map[string]string{"email": "jess@gmail.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "full name")
}

func TestMissionEndpointIdempotent(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/api/waitlist/signup", signupBody("jess@gmail.com"), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Signup models.WaitlistSignup `json:"signup"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	missionPath := fmt.Sprintf("/api/waitlist/%s/missions", resp.Signup.PublicID)
	body := map[string]string{"mission_type": "discord_join"}

	w = doJSON(router, http.MethodPost, missionPath, body, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var first struct {
		Signup models.WaitlistSignup `json:"signup"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))

	// Repeated clicks stay 200 and do not move the position again
	w = doJSON(router, http.MethodPost, missionPath, body, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var second struct {
		Signup models.WaitlistSignup `json:"signup"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.Equal(t, first.Signup.PositionInQueue, second.Signup.PositionInQueue)

	w = doJSON(router, http.MethodPost, missionPath, map[string]string{"mission_type": "bogus"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/api/waitlist/missing-id/missions", body, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatusEndpoints(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/api/waitlist/signup", signupBody("jess@gmail.com"), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Signup models.WaitlistSignup `json:"signup"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = doJSON(router, http.MethodGet, "/api/waitlist/status?email=jess@gmail.com", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), resp.Signup.PublicID)
	assert.Contains(t, w.Body.String(), "completed_missions")

	w = doJSON(router, http.MethodGet, "/api/waitlist/"+resp.Signup.PublicID, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/waitlist/missing-id", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodGet, "/api/waitlist/status?email=nobody@gmail.com", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminEndpoints(t *testing.T) {
	router, _ := setupRouter(t)

	doJSON(router, http.MethodPost, "/api/waitlist/signup", signupBody("dev@roblox.com"), nil)
	doJSON(router, http.MethodPost, "/api/waitlist/signup", signupBody("jess@gmail.com"), nil)

	// No token
	w := doJSON(router, http.MethodGet, "/api/admin/waitlist", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Wrong key
	w = doJSON(router, http.MethodPost, "/auth/admin", map[string]string{"key": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Login and list
	w = doJSON(router, http.MethodPost, "/auth/admin", map[string]string{"key": "test-admin-key"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Token string `json:"token"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.NotEmpty(t, login.Token)

	headers := map[string]string{"Authorization": "Bearer " + login.Token}

	w = doJSON(router, http.MethodGet, "/api/admin/waitlist", nil, headers)
	assert.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Signups []models.WaitlistSignup `json:"signups"`
		Total   int64                   `json:"total"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, int64(2), list.Total)
	// VIP lane sorts first
	assert.Equal(t, "dev@roblox.com", list.Signups[0].Email)

	w = doJSON(router, http.MethodGet, "/api/admin/waitlist/stats", nil, headers)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "total_signups")
}
