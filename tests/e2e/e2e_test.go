package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"studiobooking/internal/database"
	"studiobooking/internal/domain"
	"studiobooking/internal/middleware"
	"studiobooking/internal/modules/auth"
	"studiobooking/internal/modules/booking"
	"studiobooking/internal/modules/catalog"
	"studiobooking/internal/modules/live"
	jwtsvc "studiobooking/internal/pkg/jwt"
	"studiobooking/internal/pkg/reference"
	"studiobooking/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSuite struct {
	router  *gin.Engine
	studios *repository.StudioRepository
}

type testResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *errorDetail           `json:"error,omitempty"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func setupTestSuite(t *testing.T) *testSuite {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, repository.AutoMigrate(db))

	userRepo := repository.NewUserRepository(db)
	studioRepo := repository.NewStudioRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)
	hub := live.NewHub()

	authService := auth.NewService(userRepo, jwtService)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(studioRepo, bookingRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	bookingService := booking.NewService(bookingRepo, studioRepo, reference.NewGenerator(nil), hub)
	bookingHandler := booking.NewHandler(bookingService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")

	authHandler.RegisterRoutes(v1)
	catalogHandler.RegisterRoutes(v1)
	bookingHandler.RegisterPublicRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.Auth(jwtService))
	{
		bookingHandler.RegisterRoutes(protected)
	}

	return &testSuite{router: r, studios: studioRepo}
}

func (s *testSuite) request(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, testResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp testResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func (s *testSuite) seedStudio(t *testing.T, name string, active bool) int64 {
	t.Helper()

	now := time.Now().UTC()
	studio := &domain.Studio{
		Name:         name,
		Area:         "Gulshan",
		City:         "Dhaka",
		PricePerHour: 1000,
		Currency:     domain.DefaultCurrency,
		Capacity:     8,
		StudioType:   "photography",
		IsActive:     active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.studios.Create(context.Background(), studio))
	return studio.ID
}

func (s *testSuite) registerAndLogin(t *testing.T, email string) string {
	t.Helper()

	w, _ := s.request(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    email,
		"password": "supersecret1",
		"name":     "Test Client",
		"phone":    "+8801700000000",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp := s.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    email,
		"password": "supersecret1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	token, ok := resp.Data["access_token"].(string)
	require.True(t, ok, "login response should carry an access token")
	return token
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func bookingRequest(studioID int64, date, start, end string) gin.H {
	return gin.H{
		"studio_id":  studioID,
		"user_name":  "Test Client",
		"email":      "client@example.com",
		"phone":      "+8801700000000",
		"date":       date,
		"start_time": start,
		"end_time":   end,
	}
}

func TestAuthFlow(t *testing.T) {
	s := setupTestSuite(t)

	token := s.registerAndLogin(t, "client@example.com")
	assert.NotEmpty(t, token)

	// Duplicate registration is rejected
	w, resp := s.request(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    "client@example.com",
		"password": "supersecret1",
		"name":     "Test Client",
		"phone":    "+8801700000000",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "EMAIL_TAKEN", resp.Error.Code)

	// Wrong password
	w, resp = s.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "client@example.com",
		"password": "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", resp.Error.Code)
}

func TestStudioCatalog(t *testing.T) {
	s := setupTestSuite(t)
	s.seedStudio(t, "Dream Capture Studio", true)
	s.seedStudio(t, "Closed Loft", false)

	w, resp := s.request(t, http.MethodGet, "/api/v1/studios", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)

	studios := resp.Data["studios"].([]interface{})
	require.Len(t, studios, 1)
	first := studios[0].(map[string]interface{})
	assert.Equal(t, "Dream Capture Studio", first["name"])
}

func TestBookingRequiresAuth(t *testing.T) {
	s := setupTestSuite(t)
	studioID := s.seedStudio(t, "Dream Capture Studio", true)

	w, _ := s.request(t, http.MethodPost, "/api/v1/bookings", "",
		bookingRequest(studioID, futureDate(7), "10:00", "12:00"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingLifecycle(t *testing.T) {
	s := setupTestSuite(t)
	studioID := s.seedStudio(t, "Dream Capture Studio", true)
	token := s.registerAndLogin(t, "client@example.com")
	date := futureDate(7)

	// Create
	w, resp := s.request(t, http.MethodPost, "/api/v1/bookings", token,
		bookingRequest(studioID, date, "10:00", "12:00"))
	require.Equal(t, http.StatusCreated, w.Code)

	created := resp.Data["booking"].(map[string]interface{})
	bookingID := int64(created["id"].(float64))
	ref := created["reference"].(string)
	assert.Equal(t, "pending", created["status"])
	assert.Equal(t, float64(2000), created["total_price"])
	assert.Regexp(t, `^BK\d{8}[0-9A-F]{6}$`, ref)

	// Overlapping slot is rejected
	w, resp = s.request(t, http.MethodPost, "/api/v1/bookings", token,
		bookingRequest(studioID, date, "11:00", "13:00"))
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "BOOKING_CONFLICT", resp.Error.Code)

	// Back-to-back slot is fine
	w, _ = s.request(t, http.MethodPost, "/api/v1/bookings", token,
		bookingRequest(studioID, date, "12:00", "13:00"))
	assert.Equal(t, http.StatusCreated, w.Code)

	// Lookup by reference
	w, resp = s.request(t, http.MethodGet, "/api/v1/bookings/reference/"+ref, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	found := resp.Data["booking"].(map[string]interface{})
	assert.Equal(t, float64(bookingID), found["id"])

	// Confirm
	w, resp = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/confirm", bookingID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	confirmation := resp.Data["confirmation"].(map[string]interface{})
	assert.Equal(t, true, confirmation["confirmed"])

	// Cancel (a week out, well inside the notice window)
	w, resp = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/cancel", bookingID), token,
		gin.H{"reason": "schedule change"})
	require.Equal(t, http.StatusOK, w.Code)
	cancelled := resp.Data["booking"].(map[string]interface{})
	assert.Equal(t, "cancelled", cancelled["status"])

	// The freed slot is bookable again
	w, _ = s.request(t, http.MethodPost, "/api/v1/bookings", token,
		bookingRequest(studioID, date, "10:00", "12:00"))
	assert.Equal(t, http.StatusCreated, w.Code)

	// The cancelled booking can be deleted
	w, _ = s.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/bookings/%d", bookingID), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCheckAvailabilityEndpoint(t *testing.T) {
	s := setupTestSuite(t)
	studioID := s.seedStudio(t, "Dream Capture Studio", true)
	token := s.registerAndLogin(t, "client@example.com")
	date := futureDate(7)

	w, _ := s.request(t, http.MethodPost, "/api/v1/bookings", token,
		bookingRequest(studioID, date, "10:00", "12:00"))
	require.Equal(t, http.StatusCreated, w.Code)

	// No token needed for the availability check
	w, resp := s.request(t, http.MethodPost, "/api/v1/bookings/check-availability", "", gin.H{
		"studio_id":  studioID,
		"date":       date,
		"start_time": "11:00",
		"end_time":   "13:00",
	})
	require.Equal(t, http.StatusOK, w.Code)

	availability := resp.Data["availability"].(map[string]interface{})
	assert.Equal(t, false, availability["available"])
	assert.Equal(t, "Time slot is already booked", availability["message"])
	conflicts := availability["conflicts"].([]interface{})
	require.Len(t, conflicts, 1)

	w, resp = s.request(t, http.MethodPost, "/api/v1/bookings/check-availability", "", gin.H{
		"studio_id":  studioID,
		"date":       date,
		"start_time": "12:00",
		"end_time":   "14:00",
	})
	require.Equal(t, http.StatusOK, w.Code)
	availability = resp.Data["availability"].(map[string]interface{})
	assert.Equal(t, true, availability["available"])
}

func TestAvailabilityGridEndpoint(t *testing.T) {
	s := setupTestSuite(t)
	studioID := s.seedStudio(t, "Dream Capture Studio", true)
	token := s.registerAndLogin(t, "client@example.com")
	date := futureDate(7)

	w, _ := s.request(t, http.MethodPost, "/api/v1/bookings", token,
		bookingRequest(studioID, date, "14:00", "16:00"))
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp := s.request(t, http.MethodGet,
		fmt.Sprintf("/api/v1/studios/%d/availability?date=%s", studioID, date), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	grid := resp.Data["availability"].(map[string]interface{})
	booked := grid["booked_slots"].([]interface{})
	require.Len(t, booked, 1)
	first := booked[0].(map[string]interface{})
	assert.Equal(t, "14:00", first["start_time"])
	assert.Equal(t, "16:00", first["end_time"])

	available := grid["available_slots"].([]interface{})
	assert.Len(t, available, 10)
}

func TestConcurrentBookingsSameSlot_OneWinner(t *testing.T) {
	s := setupTestSuite(t)
	studioID := s.seedStudio(t, "Dream Capture Studio", true)
	token := s.registerAndLogin(t, "client@example.com")

	body, err := json.Marshal(bookingRequest(studioID, futureDate(7), "10:00", "12:00"))
	require.NoError(t, err)

	const callers = 16
	codes := make(chan int, callers)

	var start, done sync.WaitGroup
	start.Add(1)
	done.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer done.Done()
			start.Wait()

			req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)

			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, req)
			codes <- w.Code
		}()
	}
	start.Done()
	done.Wait()
	close(codes)

	created, conflicts := 0, 0
	for code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}
	assert.Equal(t, 1, created, "exactly one caller may win the slot")
	assert.Equal(t, callers-1, conflicts)
}

func TestUpdateBooking(t *testing.T) {
	s := setupTestSuite(t)
	studioID := s.seedStudio(t, "Dream Capture Studio", true)
	token := s.registerAndLogin(t, "client@example.com")
	date := futureDate(7)

	w, resp := s.request(t, http.MethodPost, "/api/v1/bookings", token,
		bookingRequest(studioID, date, "10:00", "12:00"))
	require.Equal(t, http.StatusCreated, w.Code)
	created := resp.Data["booking"].(map[string]interface{})
	bookingID := int64(created["id"].(float64))
	ref := created["reference"].(string)

	w, resp = s.request(t, http.MethodPut, fmt.Sprintf("/api/v1/bookings/%d", bookingID), token, gin.H{
		"date":       date,
		"start_time": "11:00",
		"end_time":   "14:00",
		"notes":      "need the cyclorama",
	})
	require.Equal(t, http.StatusOK, w.Code)

	updated := resp.Data["booking"].(map[string]interface{})
	assert.Equal(t, float64(3000), updated["total_price"])
	assert.Equal(t, float64(3), updated["duration_hours"])
	assert.Equal(t, ref, updated["reference"], "rescheduling keeps the original reference")

	// Confirmed bookings cannot be rescheduled
	w, _ = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/confirm", bookingID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = s.request(t, http.MethodPut, fmt.Sprintf("/api/v1/bookings/%d", bookingID), token, gin.H{
		"date":       date,
		"start_time": "15:00",
		"end_time":   "16:00",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_STATE", resp.Error.Code)
}
