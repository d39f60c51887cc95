package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"quizvote/models"
	"quizvote/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouter(t *testing.T) (*gin.Engine, *services.AuthService, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	users := services.NewUserService(db)
	auth := services.NewAuthService(users, "test-secret")

	router := gin.New()
	protected := router.Group("/", AuthMiddleware(auth))
	protected.GET("/me", func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})

	admin := protected.Group("/", RequireAdmin(users))
	admin.GET("/admin", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return router, auth, db
}

func registerAndLogin(t *testing.T, auth *services.AuthService, db *gorm.DB, email, role string) string {
	t.Helper()

	if _, err := auth.Register(&services.RegisterRequest{
		Name: "Test", Email: email, Password: "password123",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if role != models.RoleUser {
		if err := db.Model(&models.User{}).Where("email = ?", email).Update("role", role).Error; err != nil {
			t.Fatalf("Failed to set role: %v", err)
		}
	}

	resp, err := auth.Login(&services.LoginRequest{Email: email, Password: "password123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	return resp.Token
}

func TestAuthMiddleware(t *testing.T) {
	router, auth, db := setupRouter(t)
	token := registerAndLogin(t, auth, db, "user@example.com", models.RoleUser)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer garbage", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	router, auth, db := setupRouter(t)
	userToken := registerAndLogin(t, auth, db, "user@example.com", models.RoleUser)
	adminToken := registerAndLogin(t, auth, db, "admin@example.com", models.RoleAdmin)

	tests := []struct {
		name           string
		token          string
		expectedStatus int
	}{
		{"regular user", userToken, http.StatusForbidden},
		{"admin user", adminToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}
