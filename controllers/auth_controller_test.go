package controllers

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
	"github.com/freshai/freshai-backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Auto-migrate the User and Order models
	if err := db.AutoMigrate(&models.User{}, &models.Order{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

func setupTestConfig() *config.Config {
	cfg := &config.Config{
		DatabaseURL:     "sqlite://memory",
		JWTSecret:       "test-secret",
		TokenTTLMinutes: 60,
		GoEnv:           "test",
	}
	config.SetConfig(cfg)
	return cfg
}

// mockAuthMiddleware simulates RequireAuth for testing: it stores the user
// in the context exactly as the real middleware does
func mockAuthMiddleware(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", user.ID)
		c.Set("current_user", user)
		c.Next()
	}
}

// createTestUser persists a user with a bcrypt-hashed password
func createTestUser(t *testing.T, db *gorm.DB, email, password string, isAdmin bool) *models.User {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := models.User{
		Email:          email,
		FullName:       "Test User",
		HashedPassword: hashed,
		IsActive:       true,
		IsSuperuser:    isAdmin,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return &user
}

func TestSignup(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	setupTestConfig()

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name: "Successfully create account",
			requestBody: map[string]interface{}{
				"email":     "anna@example.com",
				"password":  "secret123",
				"full_name": "Anna Example",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				assert.Equal(t, "anna@example.com", response["email"])
				assert.Equal(t, "Anna Example", response["full_name"])
				assert.Equal(t, true, response["is_active"])
				assert.Equal(t, false, response["is_superuser"])
				assert.NotZero(t, response["id"])

				// The password must never appear in any form
				assert.NotContains(t, response, "password")
				assert.NotContains(t, response, "hashed_password")
			},
		},
		{
			name: "Fail with duplicate email",
			requestBody: map[string]interface{}{
				"email":    "anna@example.com",
				"password": "another456",
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "EMAIL_EXISTS",
		},
		{
			name: "Fail with invalid email",
			requestBody: map[string]interface{}{
				"email":    "not-an-email",
				"password": "secret123",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "Fail with missing password",
			requestBody: map[string]interface{}{
				"email": "ben@example.com",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "Fail with short password",
			requestBody: map[string]interface{}{
				"email":    "ben@example.com",
				"password": "abc",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.POST("/auth/signup", Signup)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			assert.NoError(t, err)

			if tt.expectedError != "" {
				assert.False(t, response["success"].(bool))
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
			}

			if tt.checkResponse != nil {
				tt.checkResponse(t, response)
			}
		})
	}
}

func loginRequest(username, password string) *http.Request {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	req, _ := http.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	cfg := setupTestConfig()

	user := createTestUser(t, db, "customer@example.com", "hunter22", false)

	inactive := createTestUser(t, db, "gone@example.com", "hunter22", false)
	db.Model(inactive).Update("is_active", false)

	t.Run("Successful login returns a usable token", func(t *testing.T) {
		router := setupTestRouter()
		router.POST("/auth/login", Login)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, loginRequest("customer@example.com", "hunter22"))

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "bearer", response["token_type"])

		token, ok := response["access_token"].(string)
		assert.True(t, ok)
		assert.NotEmpty(t, token)

		// The issued token must validate and identify the user
		userID, err := utils.ParseAccessToken(cfg.JWTSecret, token)
		assert.NoError(t, err)
		assert.Equal(t, user.ID, userID)
	})

	t.Run("Wrong password always fails", func(t *testing.T) {
		router := setupTestRouter()
		router.POST("/auth/login", Login)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, loginRequest("customer@example.com", "wrong-password"))

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		errorData := response["error"].(map[string]interface{})
		assert.Equal(t, "INVALID_CREDENTIALS", errorData["code"])
	})

	t.Run("Unknown email fails", func(t *testing.T) {
		router := setupTestRouter()
		router.POST("/auth/login", Login)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, loginRequest("nobody@example.com", "hunter22"))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Inactive user fails", func(t *testing.T) {
		router := setupTestRouter()
		router.POST("/auth/login", Login)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, loginRequest("gone@example.com", "hunter22"))

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		errorData := response["error"].(map[string]interface{})
		assert.Equal(t, "INACTIVE_USER", errorData["code"])
	})

	t.Run("Missing fields fail with validation error", func(t *testing.T) {
		router := setupTestRouter()
		router.POST("/auth/login", Login)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, loginRequest("", ""))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	// Roundtrip: a fresh signup can immediately log in
	t.Run("Signup then login succeeds", func(t *testing.T) {
		router := setupTestRouter()
		router.POST("/auth/signup", Signup)
		router.POST("/auth/login", Login)

		body, _ := json.Marshal(map[string]interface{}{
			"email":    "fresh@example.com",
			"password": "laundry99",
		})
		req, _ := http.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, loginRequest("fresh@example.com", "laundry99"))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
