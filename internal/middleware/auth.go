package middleware

import (
	"context"
	"net/http"

	"github.com/carvio/carvio-backend/internal/apperr"
	"github.com/carvio/carvio-backend/internal/models"
	"github.com/carvio/carvio-backend/internal/services"
	"github.com/carvio/carvio-backend/internal/store"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "session"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeyUser contextKey = "user"

// SessionGate guards protected routes. It extracts the bearer token from
// the session cookie, verifies it, resolves the identity, and attaches
// the user to the request context. Read-only against the store; no
// protected handler runs until all three steps succeed.
type SessionGate struct {
	Tokens *services.TokenService
	Users  store.UserStore
}

func NewSessionGate(tokens *services.TokenService, users store.UserStore) *SessionGate {
	return &SessionGate{Tokens: tokens, Users: users}
}

func (g *SessionGate) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			apperr.Write(w, apperr.NoSession())
			return
		}

		userID, err := g.Tokens.Verify(cookie.Value)
		if err != nil {
			// Malformed, forged, and expired tokens are rejected alike;
			// the sub-kind travels in the cause for diagnostics.
			apperr.Write(w, apperr.InvalidSession(err))
			return
		}

		user, err := g.Users.UserByID(r.Context(), userID)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				// The token outlived its subject.
				apperr.Write(w, apperr.IdentityGone())
				return
			}
			apperr.Write(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the authenticated user attached by RequireAuth,
// or nil outside a protected route.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(contextKeyUser).(*models.User)
	return user
}
