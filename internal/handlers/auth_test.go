package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/tasktracker/tasktracker-api/internal/constants"
	"github.com/tasktracker/tasktracker-api/internal/dto"
	"github.com/tasktracker/tasktracker-api/internal/identity"
	"github.com/tasktracker/tasktracker-api/internal/storage"
	"go.uber.org/zap"
)

type authTestEnv struct {
	provider *identity.Provider
	handler  *AuthHandler
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	store, err := storage.NewFileStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	provider, err := identity.NewProvider(store, zap.NewNop())
	require.NoError(t, err)

	return authTestEnv{
		provider: provider,
		handler:  NewAuthHandler(provider),
	}
}

func newAuthRouter(env authTestEnv) *gin.Engine {
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.POST("/api/auth/signup", env.handler.Signup)
	r.POST("/api/auth/login", env.handler.Login)
	r.POST("/api/auth/logout", env.handler.Logout)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, url string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Signup(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := newAuthRouter(env)

	w := postJSON(t, r, "/api/auth/signup", map[string]string{
		"email":    "alice@example.com",
		"password": "supersecret",
		"name":     "Alice",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.IdentityDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "alice@example.com", response.Email)
	require.Equal(t, "Alice", response.Name)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")
}

func TestAuthHandler_SignupDuplicateEmail(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := newAuthRouter(env)

	payload := map[string]string{
		"email":    "alice@example.com",
		"password": "supersecret",
		"name":     "Alice",
	}
	require.Equal(t, http.StatusCreated, postJSON(t, r, "/api/auth/signup", payload).Code)
	require.Equal(t, http.StatusConflict, postJSON(t, r, "/api/auth/signup", payload).Code)
}

func TestAuthHandler_SignupInvalidBody(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := newAuthRouter(env)

	w := postJSON(t, r, "/api/auth/signup", map[string]string{
		"email": "not-an-email",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := newAuthRouter(env)

	_, err := env.provider.Signup("alice@example.com", "supersecret", "Alice")
	require.NoError(t, err)

	// Any password is accepted for an existing account.
	w := postJSON(t, r, "/api/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-but-irrelevant",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.IdentityDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Alice", response.Name)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")
}

func TestAuthHandler_LoginUnknownEmailSignsUp(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := newAuthRouter(env)

	w := postJSON(t, r, "/api/auth/login", map[string]string{
		"email":    "bob@example.com",
		"password": "supersecret",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.IdentityDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "bob", response.Name)
}

func TestAuthHandler_Logout(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := newAuthRouter(env)

	_, err := env.provider.Signup("alice@example.com", "supersecret", "Alice")
	require.NoError(t, err)

	w := postJSON(t, r, "/api/auth/logout", map[string]string{})
	require.Equal(t, http.StatusOK, w.Code)
	require.Nil(t, env.provider.Current())
}

func TestAuthHandler_GetCurrentIdentity(t *testing.T) {
	env := setupAuthTestEnv(t)

	idt, err := env.provider.Signup("alice@example.com", "supersecret", "Alice")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	env.handler.GetCurrentIdentity(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.IdentityDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, idt.Email, response.Email)
	require.NotContains(t, w.Body.String(), "passwordHash")
}

func TestAuthHandler_GetCurrentIdentitySignedOut(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	env.handler.GetCurrentIdentity(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
