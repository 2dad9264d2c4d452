package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carvio/carvio-backend/internal/handlers"
	"github.com/carvio/carvio-backend/internal/middleware"
	"github.com/carvio/carvio-backend/internal/routes"
	"github.com/carvio/carvio-backend/internal/services"
	"github.com/carvio/carvio-backend/internal/store"
)

type testEnv struct {
	router *chi.Mux
	users  *store.MemoryUserStore
	cars   *store.MemoryCarStore
	tokens *services.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := store.NewMemoryUserStore()
	cars := store.NewMemoryCarStore()
	tokens := services.NewTokenService("handler-test-secret", time.Hour)

	h := handlers.New(
		users,
		services.NewCarService(cars, nil),
		services.NewFavoriteService(users, cars),
		tokens,
		services.NewDisabledMailer(),
		nil,
		7*24*time.Hour,
		false,
	)

	router := chi.NewRouter()
	routes.SetupRoutes(router, h, middleware.NewSessionGate(tokens, users))

	return &testEnv{router: router, users: users, cars: cars, tokens: tokens}
}

func (env *testEnv) do(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) signup(t *testing.T, name, email, password string) {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/signup", map[string]string{
		"name":            name,
		"email":           email,
		"password":        password,
		"passwordConfirm": password,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (env *testEnv) login(t *testing.T, email, password string) *http.Cookie {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			return cookie
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func TestSignupCreatesUserWithHashedPassword(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "ann", "a@x.com", "p1")

	stored, err := env.users.CredentialsByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "p1", stored.Password, "password must not be stored in plaintext")
	assert.True(t, strings.HasPrefix(stored.Password, "$argon2id$"))
}

func TestSignupNormalizesEmail(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "ann", "Ann@X.COM", "p1")

	_, err := env.users.CredentialsByEmail(context.Background(), "ann@x.com")
	assert.NoError(t, err)
}

func TestSignupValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := map[string]map[string]string{
		"short name": {
			"name": "a", "email": "a@x.com", "password": "p1", "passwordConfirm": "p1",
		},
		"long name": {
			"name": strings.Repeat("x", 21), "email": "a@x.com", "password": "p1", "passwordConfirm": "p1",
		},
		"bad email": {
			"name": "ann", "email": "not-an-email", "password": "p1", "passwordConfirm": "p1",
		},
		"password mismatch": {
			"name": "ann", "email": "a@x.com", "password": "p1", "passwordConfirm": "p2",
		},
		"empty password": {
			"name": "ann", "email": "a@x.com", "password": "", "passwordConfirm": "",
		},
	}

	for name, body := range cases {
		rec := env.do(t, http.MethodPost, "/signup", body, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestSignupRejectsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "ann", "a@x.com", "p1")

	rec := env.do(t, http.MethodPost, "/signup", map[string]string{
		"name": "ann", "email": "other@x.com", "password": "p1", "passwordConfirm": "p1",
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/signup", map[string]string{
		"name": "bob", "email": "a@x.com", "password": "p1", "passwordConfirm": "p1",
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginFailureMessages(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "ann", "a@x.com", "p1")

	rec := env.do(t, http.MethodPost, "/login", map[string]string{
		"email": "nobody@x.com", "password": "p1",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "User not found")

	rec = env.do(t, http.MethodPost, "/login", map[string]string{
		"email": "a@x.com", "password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Wrong password")
}

func TestLoginSetsSessionCookie(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "ann", "a@x.com", "p1")

	cookie := env.login(t, "a@x.com", "p1")

	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.False(t, cookie.Secure, "reference deployment sets Secure only in production")

	userID, err := env.tokens.Verify(cookie.Value)
	require.NoError(t, err)

	stored, err := env.users.CredentialsByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, stored.ID.Hex(), userID)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "ann", "a@x.com", "p1")
	cookie := env.login(t, "a@x.com", "p1")

	// No session carrier at all
	rec := env.do(t, http.MethodPost, "/logout", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// With a session: replaced by an already-expired cookie
	rec = env.do(t, http.MethodPost, "/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var cleared *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			cleared = c
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestGetUserExcludesCredential(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "ann", "a@x.com", "p1")
	cookie := env.login(t, "a@x.com", "p1")

	rec := env.do(t, http.MethodGet, "/getUser", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "a@x.com")
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "argon2id")
}

func TestGetUserRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/getUser", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
