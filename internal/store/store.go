// Package store is the credential/listing persistence layer. Interfaces
// are consumed by services and handlers; Mongo implementations live
// alongside them. All constructors are called once in main and injected,
// there is no package-level connection state.
package store

import (
	"context"

	"github.com/carvio/carvio-backend/internal/models"
)

// UserStore persists user identities and their favorite-car id sets.
//
// AddFavorite and PullFavorite must be atomic set-membership updates
// keyed by (user id, car id): concurrent calls for distinct car ids on
// the same user must never lose each other's change.
type UserStore interface {
	// CreateUser inserts a new user. Returns a DuplicateKey error when
	// the name or email is already taken.
	CreateUser(ctx context.Context, user *models.User) error

	// UserByID returns the user without the password field.
	UserByID(ctx context.Context, id string) (*models.User, error)

	// CredentialsByEmail returns the user including the stored password
	// hash. Login is the only caller.
	CredentialsByEmail(ctx context.Context, email string) (*models.User, error)

	// AddFavorite adds carID to the user's favorite set if not already a
	// member. Returns true when the set changed.
	AddFavorite(ctx context.Context, userID, carID string) (bool, error)

	// PullFavorite removes carID from the user's favorite set if present.
	// Returns true when the set changed.
	PullFavorite(ctx context.Context, userID, carID string) (bool, error)

	// Favorites returns the user's favorite car ids in insertion order.
	Favorites(ctx context.Context, userID string) ([]string, error)
}

// CarFilter narrows a listing search. Zero values mean "any".
type CarFilter struct {
	Make     string
	Model    string
	Year     int
	MaxPrice float64
}

type CarStore interface {
	CreateCar(ctx context.Context, car *models.Car) error

	CarByID(ctx context.Context, id string) (*models.Car, error)

	// CarsByIDs resolves ids to full records, preserving the order of
	// ids and silently omitting cars that no longer exist.
	CarsByIDs(ctx context.Context, ids []string) ([]models.Car, error)

	SearchCars(ctx context.Context, filter CarFilter) ([]models.Car, error)
}
