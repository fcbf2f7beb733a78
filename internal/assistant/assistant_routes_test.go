package assistant_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"leavetrack/internal/assistant"
	"leavetrack/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func setupChatRoute(t *testing.T, svc assistant.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rbacService, err := rbac.NewService()
	assert.NoError(t, err)

	router := gin.New()
	assistant.RegisterRoutes(router.Group("/api/v1"), assistant.NewHandler(svc), rbacService)
	return router
}

func signToken(t *testing.T, userID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"name":    "Jamie Cruz",
		"exp":     time.Now().Add(15 * time.Minute).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	assert.NoError(t, err)
	return signed
}

func postChat(router *gin.Engine, token string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(assistant.ChatRequest{Message: "hello"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assistant/chat", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAssistantRoutes_Chat(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("negative missing token", func(t *testing.T) {
		router := setupChatRoute(t, &fakeAssistantService{})

		w := postChat(router, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("negative token signed with another secret", func(t *testing.T) {
		router := setupChatRoute(t, &fakeAssistantService{})

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": "user-1",
			"role":    rbac.RoleEmployee,
			"exp":     time.Now().Add(15 * time.Minute).Unix(),
		})
		signed, err := token.SignedString([]byte("wrong-secret"))
		assert.NoError(t, err)

		w := postChat(router, signed)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("negative role without chat access", func(t *testing.T) {
		router := setupChatRoute(t, &fakeAssistantService{})

		w := postChat(router, signToken(t, "admin-1", rbac.RoleAdmin))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("rate limit trips after the burst", func(t *testing.T) {
		router := setupChatRoute(t, &fakeAssistantService{})
		token := signToken(t, "user-1", rbac.RoleEmployee)

		for i := 0; i < 3; i++ {
			w := postChat(router, token)
			assert.Equal(t, http.StatusOK, w.Code, "request %d should be within the burst", i+1)
		}

		w := postChat(router, token)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("rate limit is per user", func(t *testing.T) {
		router := setupChatRoute(t, &fakeAssistantService{})

		first := signToken(t, "user-1", rbac.RoleEmployee)
		for i := 0; i < 4; i++ {
			postChat(router, first)
		}

		w := postChat(router, signToken(t, "user-2", rbac.RoleEmployee))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
