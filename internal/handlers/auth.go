package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/carvio/carvio-backend/internal/apperr"
	"github.com/carvio/carvio-backend/internal/middleware"
	"github.com/carvio/carvio-backend/internal/models"
	"github.com/carvio/carvio-backend/pkg/utils"
)

type SignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *models.User `json:"user,omitempty"`
}

// Signup handles user registration
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, apperr.Validation("Invalid request body"))
		return
	}

	if !utils.ValidateName(req.Name) {
		apperr.Write(w, apperr.Validation("Name must be between 2 and 20 characters"))
		return
	}

	email := utils.NormalizeEmail(req.Email)
	if !utils.ValidateEmail(email) {
		apperr.Write(w, apperr.Validation("A valid email is required"))
		return
	}

	if !utils.PasswordsMatch(req.Password, req.PasswordConfirm) {
		apperr.Write(w, apperr.Validation("Passwords do not match"))
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		apperr.Write(w, apperr.Storage(err))
		return
	}

	now := time.Now()
	user := &models.User{
		CreatedAt: now,
		UpdatedAt: now,
		Name:      req.Name,
		Email:     email,
		Password:  hashedPassword,
		Favorites: []string{},
	}

	if err := h.Users.CreateUser(r.Context(), user); err != nil {
		apperr.Write(w, err)
		return
	}

	// Welcome mail is best-effort; the signup never waits on it.
	go func(to, name string) {
		if err := h.Mailer.Send(to, "Welcome to Carvio",
			"Hi "+name+",\n\nYour account is ready. Happy car hunting!\n"); err != nil {
			log.Printf("failed to send welcome mail to %s: %v", to, err)
		}
	}(user.Email, user.Name)

	user.Password = ""
	respondJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "User created successfully",
		User:    user,
	})
}

// Login verifies credentials and sets the session cookie.
//
// The failure messages ("User not found", "Wrong password") are kept from
// the reference client contract; both travel with 401.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, apperr.Validation("Invalid request body"))
		return
	}

	if req.Email == "" || req.Password == "" {
		apperr.Write(w, apperr.Validation("Email and password are required"))
		return
	}

	user, err := h.Users.CredentialsByEmail(r.Context(), utils.NormalizeEmail(req.Email))
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			respondMessage(w, http.StatusUnauthorized, false, "User not found")
			return
		}
		apperr.Write(w, err)
		return
	}

	valid, err := utils.VerifyPassword(req.Password, user.Password)
	if err != nil || !valid {
		respondMessage(w, http.StatusUnauthorized, false, "Wrong password")
		return
	}

	token, err := h.Tokens.Issue(user.ID.Hex())
	if err != nil {
		apperr.Write(w, apperr.Storage(err))
		return
	}

	h.setSessionCookie(w, token, h.SessionTTL)

	user.Password = ""
	respondJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Login successful",
		User:    user,
	})
}

// Logout clears the session cookie by replacing it with an expired one.
// The signed token itself stays valid until its embedded expiry; there is
// no server-side revocation list.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(middleware.SessionCookieName); err != nil {
		apperr.Write(w, apperr.NoSession())
		return
	}

	h.setSessionCookie(w, "", -time.Hour)
	respondMessage(w, http.StatusOK, true, "Logged out successfully")
}

// GetUser returns the session's own identity. The credential field is
// projected out at the store layer and can never appear here.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	respondJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "OK",
		User:    user,
	})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	cookie := &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   h.SecureCookies,
	}
	http.SetCookie(w, cookie)
}
