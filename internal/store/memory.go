package store

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carvio/carvio-backend/internal/apperr"
	"github.com/carvio/carvio-backend/internal/models"
)

// MemoryUserStore is an in-memory UserStore with the same atomicity
// contract as the Mongo implementation: favorite membership flips happen
// under one lock, never as read-modify-write by the caller. Used by tests.
type MemoryUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]*models.User)}
}

func (s *MemoryUserStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email || existing.Name == user.Name {
			return apperr.Duplicate("A user with this name or email already exists")
		}
	}

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.Favorites == nil {
		user.Favorites = []string{}
	}

	stored := *user
	stored.Favorites = append([]string(nil), user.Favorites...)
	s.users[user.ID.Hex()] = &stored
	return nil
}

func (s *MemoryUserStore) UserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}

	out := *user
	out.Password = ""
	out.Favorites = append([]string(nil), user.Favorites...)
	return &out, nil
}

func (s *MemoryUserStore) CredentialsByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			out := *user
			out.Favorites = append([]string(nil), user.Favorites...)
			return &out, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (s *MemoryUserStore) AddFavorite(ctx context.Context, userID, carID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return false, nil
	}
	for _, id := range user.Favorites {
		if id == carID {
			return false, nil
		}
	}
	user.Favorites = append(user.Favorites, carID)
	return true, nil
}

func (s *MemoryUserStore) PullFavorite(ctx context.Context, userID, carID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return false, nil
	}
	for i, id := range user.Favorites {
		if id == carID {
			user.Favorites = append(user.Favorites[:i], user.Favorites[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryUserStore) Favorites(ctx context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return append([]string{}, user.Favorites...), nil
}

// DeleteUser removes a user outright. Test helper for the
// token-outlives-subject path.
func (s *MemoryUserStore) DeleteUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

// MemoryCarStore is the in-memory CarStore counterpart.
type MemoryCarStore struct {
	mu   sync.Mutex
	cars map[string]models.Car
}

func NewMemoryCarStore() *MemoryCarStore {
	return &MemoryCarStore{cars: make(map[string]models.Car)}
}

func (s *MemoryCarStore) CreateCar(ctx context.Context, car *models.Car) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if car.ID.IsZero() {
		car.ID = primitive.NewObjectID()
	}
	if car.Images == nil {
		car.Images = []string{}
	}
	s.cars[car.ID.Hex()] = *car
	return nil
}

func (s *MemoryCarStore) CarByID(ctx context.Context, id string) (*models.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	car, ok := s.cars[id]
	if !ok {
		return nil, apperr.NotFound("Car")
	}
	return &car, nil
}

func (s *MemoryCarStore) CarsByIDs(ctx context.Context, ids []string) ([]models.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cars := make([]models.Car, 0, len(ids))
	for _, id := range ids {
		if car, ok := s.cars[id]; ok {
			cars = append(cars, car)
		}
	}
	return cars, nil
}

func (s *MemoryCarStore) SearchCars(ctx context.Context, filter CarFilter) ([]models.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cars := []models.Car{}
	for _, car := range s.cars {
		if filter.Make != "" && car.Make != filter.Make {
			continue
		}
		if filter.Model != "" && car.Model != filter.Model {
			continue
		}
		if filter.Year > 0 && car.Year != filter.Year {
			continue
		}
		if filter.MaxPrice > 0 && car.Price > filter.MaxPrice {
			continue
		}
		cars = append(cars, car)
	}
	return cars, nil
}

// DeleteCar removes a listing outright. Test helper for the
// deleted-favorite omission path.
func (s *MemoryCarStore) DeleteCar(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cars, id)
}
