package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/carvio/carvio-backend/internal/handlers"
	"github.com/carvio/carvio-backend/internal/middleware"
)

func SetupRoutes(r chi.Router, h *handlers.Handler, gate *middleware.SessionGate) {
	// Auth routes
	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)

	// Public listing routes
	r.Get("/cars", h.GetCars)
	r.Get("/cars/{carID}", h.GetCar)

	// Session-protected routes
	r.Group(func(pr chi.Router) {
		pr.Use(gate.RequireAuth)

		pr.Get("/getUser", h.GetUser)
		pr.Patch("/favoriteCar/{carID}", h.FavoriteCar)
		pr.Get("/favorites", h.GetFavorites)
		pr.Post("/cars", h.CreateCar)
	})
}
