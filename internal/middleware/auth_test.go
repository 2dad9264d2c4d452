package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carvio/carvio-backend/internal/models"
	"github.com/carvio/carvio-backend/internal/services"
	"github.com/carvio/carvio-backend/internal/store"
)

func newGateFixture(t *testing.T) (*SessionGate, *store.MemoryUserStore, *services.TokenService, string) {
	t.Helper()

	users := store.NewMemoryUserStore()
	tokens := services.NewTokenService("gate-test-secret", time.Hour)

	user := &models.User{Name: "ann", Email: "a@x.com", Password: "hash"}
	require.NoError(t, users.CreateUser(context.Background(), user))

	return NewSessionGate(tokens, users), users, tokens, user.ID.Hex()
}

// protectedProbe records whether the inner handler ran and which user was
// attached to the context.
func protectedProbe(called *bool, attached **models.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		*attached = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestGateRejectsMissingCookie(t *testing.T) {
	gate, _, _, _ := newGateFixture(t)

	var called bool
	var attached *models.User
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/getUser", nil)

	gate.RequireAuth(protectedProbe(&called, &attached)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called, "protected handler must not run without a session")
}

func TestGateRejectsInvalidToken(t *testing.T) {
	gate, _, tokens, userID := newGateFixture(t)

	expired, err := tokens.IssueWithTTL(userID, -time.Minute)
	require.NoError(t, err)

	for name, value := range map[string]string{
		"garbage": "definitely-not-a-token",
		"expired": expired,
	} {
		var called bool
		var attached *models.User
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/getUser", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: value})

		gate.RequireAuth(protectedProbe(&called, &attached)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
		assert.False(t, called, name)
	}
}

func TestGateRejectsTokenForDeletedUser(t *testing.T) {
	gate, users, tokens, userID := newGateFixture(t)

	token, err := tokens.Issue(userID)
	require.NoError(t, err)

	// The token outlives its subject.
	users.DeleteUser(userID)

	var called bool
	var attached *models.User
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/getUser", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})

	gate.RequireAuth(protectedProbe(&called, &attached)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestGateAdmitsValidSession(t *testing.T) {
	gate, _, tokens, userID := newGateFixture(t)

	token, err := tokens.Issue(userID)
	require.NoError(t, err)

	var called bool
	var attached *models.User
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/getUser", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})

	gate.RequireAuth(protectedProbe(&called, &attached)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, called)
	require.NotNil(t, attached)
	assert.Equal(t, userID, attached.ID.Hex())
	assert.Empty(t, attached.Password, "credential must not ride along on the context")
}
