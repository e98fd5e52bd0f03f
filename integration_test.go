package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/freshai/freshai-backend/config"
	"github.com/freshai/freshai-backend/models"
	"github.com/freshai/freshai-backend/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupIntegrationEnv wires a sqlite database, test configuration, and mock
// services, then builds the full router exactly as main does
func setupIntegrationEnv(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Order{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	config.SetDB(db)
	config.SetConfig(&config.Config{
		DatabaseURL:     "sqlite://memory",
		JWTSecret:       "integration-secret",
		TokenTTLMinutes: 60,
		GoEnv:           "test",
	})

	services.SetNotifier(services.NewNotifier(services.NewMockMailer()))
	services.NewMockDetector(nil).SetAsMockForTesting()
	services.SetArchive(nil)

	return setupRouter()
}

// signupAndLogin registers a user through the API and returns a bearer token
func signupAndLogin(t *testing.T, router *gin.Engine, email, password string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"email":     email,
		"password":  password,
		"full_name": "Integration User",
	})
	req, _ := http.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)
	req, _ = http.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response["access_token"].(string)
}

func TestOrderLifecycleIntegration(t *testing.T) {
	router := setupIntegrationEnv(t)

	customerToken := signupAndLogin(t, router, "customer@example.com", "hunter22")
	adminToken := signupAndLogin(t, router, "admin@example.com", "hunter22")

	// Promote the second account the way the createadmin tool does
	db := config.GetDB()
	assert.NoError(t, db.Model(&models.User{}).
		Where("email = ?", "admin@example.com").
		Update("is_superuser", true).Error)

	// Customer creates an order
	body, _ := json.Marshal(map[string]interface{}{
		"service":     "Dry Cleaning",
		"pickup_date": "2026-09-02T09:00:00Z",
		"time_slot":   "9AM - 11AM",
		"address":     "12 High Street",
	})
	req, _ := http.NewRequest(http.MethodPost, "/orders/", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+customerToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var created map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	orderID := created["id"].(string)
	assert.Regexp(t, `^[A-Z]{2}[0-9]{4}$`, orderID)
	assert.Equal(t, "Pending", created["status"])

	// Customer sees it in their listing
	req, _ = http.NewRequest(http.MethodGet, "/orders/", nil)
	req.Header.Set("Authorization", "Bearer "+customerToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var listing []map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Len(t, listing, 1)
	assert.Equal(t, orderID, listing[0]["id"])

	// Admin updates the status
	req, _ = http.NewRequest(http.MethodPatch, "/orders/"+orderID+"/status?status=Processing", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var updated map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Processing", updated["status"])

	// Customer may not update statuses
	req, _ = http.NewRequest(http.MethodPatch, "/orders/"+orderID+"/status?status=Delivered", nil)
	req.Header.Set("Authorization", "Bearer "+customerToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admin sees the order in the global listing
	req, _ = http.NewRequest(http.MethodGet, "/orders/admin/all", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Len(t, listing, 1)
}

func TestOrderOwnershipIntegration(t *testing.T) {
	router := setupIntegrationEnv(t)

	aliceToken := signupAndLogin(t, router, "alice@example.com", "hunter22")
	bobToken := signupAndLogin(t, router, "bob@example.com", "hunter22")

	body, _ := json.Marshal(map[string]interface{}{
		"service":     "Wash & Fold",
		"pickup_date": "2026-09-02T09:00:00Z",
		"time_slot":   "9AM - 11AM",
		"address":     "12 High Street",
	})
	req, _ := http.NewRequest(http.MethodPost, "/orders/", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+aliceToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var created map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	orderID := created["id"].(string)

	// Alice can read her order
	req, _ = http.NewRequest(http.MethodGet, "/orders/"+orderID, nil)
	req.Header.Set("Authorization", "Bearer "+aliceToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Bob cannot
	req, _ = http.NewRequest(http.MethodGet, "/orders/"+orderID, nil)
	req.Header.Set("Authorization", "Bearer "+bobToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Nobody without a token can
	req, _ = http.NewRequest(http.MethodGet, "/orders/"+orderID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUnauthenticatedAccessIntegration(t *testing.T) {
	router := setupIntegrationEnv(t)

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/orders/"},
		{http.MethodGet, "/orders/"},
		{http.MethodGet, "/orders/AB1234"},
		{http.MethodGet, "/orders/admin/all"},
		{http.MethodPatch, "/orders/AB1234/status?status=Done"},
		{http.MethodPost, "/ai/analyze"},
	}

	for _, tt := range protected {
		req, _ := http.NewRequest(tt.method, tt.path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s should require auth", tt.method, tt.path)
	}

	// Liveness endpoints stay open
	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req, _ = http.NewRequest(http.MethodGet, "/", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
