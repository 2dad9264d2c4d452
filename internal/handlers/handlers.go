package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/carvio/carvio-backend/internal/services"
	"github.com/carvio/carvio-backend/internal/store"
)

// Handler carries the collaborators every endpoint needs. Constructed
// once in main; no package-level state.
type Handler struct {
	Users     store.UserStore
	Cars      *services.CarService
	Favorites *services.FavoriteService
	Tokens    *services.TokenService
	Mailer    services.Mailer
	Uploads   *services.CloudinaryService

	// SessionTTL is the absolute cookie lifetime (7 days by default).
	SessionTTL time.Duration
	// SecureCookies marks session cookies Secure (production only).
	SecureCookies bool
}

func New(users store.UserStore, cars *services.CarService, favorites *services.FavoriteService,
	tokens *services.TokenService, mailer services.Mailer, uploads *services.CloudinaryService,
	sessionTTL time.Duration, secureCookies bool) *Handler {
	return &Handler{
		Users:         users,
		Cars:          cars,
		Favorites:     favorites,
		Tokens:        tokens,
		Mailer:        mailer,
		Uploads:       uploads,
		SessionTTL:    sessionTTL,
		SecureCookies: secureCookies,
	}
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// respondMessage writes the flat {success,message} envelope used by the
// auth endpoints.
func respondMessage(w http.ResponseWriter, status int, success bool, message string) {
	respondJSON(w, status, map[string]interface{}{
		"success": success,
		"message": message,
	})
}
