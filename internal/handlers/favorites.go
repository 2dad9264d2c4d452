package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carvio/carvio-backend/internal/apperr"
	"github.com/carvio/carvio-backend/internal/middleware"
	"github.com/carvio/carvio-backend/internal/models"
)

type FavoritesResponse struct {
	Success   bool     `json:"success"`
	Favorites []string `json:"favorites"`
}

type FavoriteCarsResponse struct {
	Success bool         `json:"success"`
	Cars    []models.Car `json:"cars"`
}

// FavoriteCar toggles the car's membership in the session user's
// favorite set and returns the updated id set.
//
// The identity always comes from the session, never from the request
// body: the legacy body field {userId} is accepted and ignored, since
// honoring it would let any valid session mutate another user's set.
func (h *Handler) FavoriteCar(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	carID := chi.URLParam(r, "carID")
	if _, err := primitive.ObjectIDFromHex(carID); err != nil {
		apperr.Write(w, apperr.Validation("Invalid car id"))
		return
	}

	favorites, err := h.Favorites.Toggle(r.Context(), user.ID.Hex(), carID)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	respondJSON(w, http.StatusOK, FavoritesResponse{
		Success:   true,
		Favorites: favorites,
	})
}

// GetFavorites returns the session user's favorites expanded to full car
// records. Cars deleted since favoriting are omitted.
func (h *Handler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	cars, err := h.Favorites.ListFavorites(r.Context(), user.ID.Hex())
	if err != nil {
		apperr.Write(w, err)
		return
	}

	respondJSON(w, http.StatusOK, FavoriteCarsResponse{
		Success: true,
		Cars:    cars,
	})
}
