package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/whogoodluck/chatapp/controllers"
	"github.com/whogoodluck/chatapp/models"
	"github.com/whogoodluck/chatapp/routes"
	"github.com/whogoodluck/chatapp/services"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, models.Migrate(db))

	logger, err := zap.NewDevelopment()
	require.NoError(t, err)
	sugar := logger.Sugar()

	userService := services.NewUserService(db, sugar)
	conversationService := services.NewConversationService(db, sugar)
	messageService := services.NewMessageService(db, sugar)

	return routes.RegisterRoutes(
		controllers.NewUserController(userService, testSecret, sugar),
		controllers.NewConversationController(conversationService, sugar),
		controllers.NewMessageController(messageService, sugar),
		testSecret,
	)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
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
	r.ServeHTTP(w, req)
	return w
}

func register(t *testing.T, r *gin.Engine, email, fullName string) (token string, userID string) {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/register", "", gin.H{
		"email":     email,
		"full_name": fullName,
		"password":  "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Token string `json:"token"`
			User  struct {
				ID string `json:"id"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)

	return resp.Data.Token, resp.Data.User.ID
}

func TestRegisterAndLogin(t *testing.T) {
	r := newTestRouter(t)

	register(t, r, "john@example.com", "John Doe")

	// duplicate email is a conflict
	w := doJSON(t, r, http.MethodPost, "/api/register", "", gin.H{
		"email":     "john@example.com",
		"full_name": "John Clone",
		"password":  "password123",
	})
	require.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/login", "", gin.H{
		"email":    "john@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/login", "", gin.H{
		"email":    "john@example.com",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	r := newTestRouter(t)

	// short password
	w := doJSON(t, r, http.MethodPost, "/api/register", "", gin.H{
		"email":     "short@example.com",
		"full_name": "Short Password",
		"password":  "123",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// malformed email
	w = doJSON(t, r, http.MethodPost, "/api/register", "", gin.H{
		"email":     "not-an-email",
		"full_name": "Bad Email",
		"password":  "password123",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/userinfo", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/userinfo", "bogus-token", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	token, userID := register(t, r, "jane@example.com", "Jane Doe")
	w = doJSON(t, r, http.MethodGet, "/api/userinfo", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data models.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, userID, resp.Data.ID)
	require.Equal(t, "jane", resp.Data.Username)
}

func TestConversationAndMessageFlow(t *testing.T) {
	r := newTestRouter(t)

	tokenA, _ := register(t, r, "alice@example.com", "Alice Doe")
	_, idB := register(t, r, "bob@example.com", "Bob Doe")
	tokenC, _ := register(t, r, "carol@example.com", "Carol Doe")

	// alice starts a DM with bob; her own id is filled in server-side
	w := doJSON(t, r, http.MethodPost, "/api/conversations", tokenA, gin.H{
		"is_group":        false,
		"participant_ids": []string{idB},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data models.Conversation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	convID := created.Data.ID
	require.Len(t, created.Data.Participants, 2)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/conversations/%s/messages", convID), tokenA, gin.H{
		"content": "hi bob",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// carol is not a participant: reading and writing both fail
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/conversations/%s/messages", convID), tokenC, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/conversations/%s/messages", convID), tokenC, gin.H{
		"content": "let me in",
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/conversations/%s/messages", convID), tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listed struct {
		Data []models.Message `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Data, 1)
	require.Equal(t, "hi bob", listed.Data[0].Content)
}
