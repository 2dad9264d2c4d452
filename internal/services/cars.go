package services

import (
	"context"
	"fmt"
	"log"

	"github.com/carvio/carvio-backend/internal/models"
	"github.com/carvio/carvio-backend/internal/store"
)

// CarService wraps the listing store with a Redis search cache.
type CarService struct {
	cars  store.CarStore
	cache *CacheService
}

func NewCarService(cars store.CarStore, cache *CacheService) *CarService {
	return &CarService{cars: cars, cache: cache}
}

// Create persists a new listing and drops the unfiltered search entry so
// fresh listings appear immediately. Filtered entries age out within the
// cache TTL.
func (s *CarService) Create(ctx context.Context, car *models.Car) error {
	if err := s.cars.CreateCar(ctx, car); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, searchCacheKey(store.CarFilter{})); err != nil {
			log.Printf("failed to invalidate listing cache: %v", err)
		}
	}
	return nil
}

// Search runs a filtered listing query, served from cache when possible.
func (s *CarService) Search(ctx context.Context, filter store.CarFilter) ([]models.Car, error) {
	key := searchCacheKey(filter)

	if s.cache != nil {
		var cached []models.Car
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	cars, err := s.cars.SearchCars(ctx, filter)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, cars); err != nil {
			log.Printf("failed to cache listing search: %v", err)
		}
	}
	return cars, nil
}

// CarByID resolves one listing. Single-record reads skip the cache.
func (s *CarService) CarByID(ctx context.Context, id string) (*models.Car, error) {
	return s.cars.CarByID(ctx, id)
}

func searchCacheKey(f store.CarFilter) string {
	return fmt.Sprintf("cars:%s:%s:%d:%.2f", f.Make, f.Model, f.Year, f.MaxPrice)
}
