package services

import (
	"context"

	"github.com/carvio/carvio-backend/internal/models"
	"github.com/carvio/carvio-backend/internal/store"
)

// FavoriteService flips membership of car ids in a user's favorite set.
// There are no separate add/remove entry points: current membership
// determines the effect.
type FavoriteService struct {
	users store.UserStore
	cars  store.CarStore
}

func NewFavoriteService(users store.UserStore, cars store.CarStore) *FavoriteService {
	return &FavoriteService{users: users, cars: cars}
}

// Toggle removes carID from the user's favorites if present, otherwise
// adds it, and returns the updated id set. Both paths are single atomic
// set-membership updates in the store, so concurrent toggles for
// distinct car ids on the same user never lose each other's change.
func (s *FavoriteService) Toggle(ctx context.Context, userID, carID string) ([]string, error) {
	removed, err := s.users.PullFavorite(ctx, userID, carID)
	if err != nil {
		return nil, err
	}

	if !removed {
		added, err := s.users.AddFavorite(ctx, userID, carID)
		if err != nil {
			return nil, err
		}
		if !added {
			// Neither update matched: the user is gone, or a concurrent
			// toggle already flipped this id. Distinguish via lookup.
			if _, err := s.users.UserByID(ctx, userID); err != nil {
				return nil, err
			}
		}
	}

	return s.users.Favorites(ctx, userID)
}

// ListFavorites expands the user's favorite ids to full car records in
// favoriting order. Cars deleted since favoriting are silently omitted.
func (s *FavoriteService) ListFavorites(ctx context.Context, userID string) ([]models.Car, error) {
	ids, err := s.users.Favorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Car{}, nil
	}
	return s.cars.CarsByIDs(ctx, ids)
}
