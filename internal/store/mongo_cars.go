package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carvio/carvio-backend/internal/apperr"
	"github.com/carvio/carvio-backend/internal/models"
)

const carsCollection = "cars"

// searchLimit caps unpaginated listing searches.
const searchLimit = 100

type MongoCarStore struct {
	cars *mongo.Collection
}

func NewMongoCarStore(db *mongo.Database) *MongoCarStore {
	return &MongoCarStore{cars: db.Collection(carsCollection)}
}

func (s *MongoCarStore) CreateCar(ctx context.Context, car *models.Car) error {
	if car.Images == nil {
		car.Images = []string{}
	}

	res, err := s.cars.InsertOne(ctx, car)
	if err != nil {
		return apperr.Storage(err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		car.ID = oid
	}
	return nil
}

func (s *MongoCarStore) CarByID(ctx context.Context, id string) (*models.Car, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("Car")
	}

	var car models.Car
	err = s.cars.FindOne(ctx, bson.M{"_id": oid}).Decode(&car)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("Car")
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return &car, nil
}

func (s *MongoCarStore) CarsByIDs(ctx context.Context, ids []string) ([]models.Car, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return []models.Car{}, nil
	}

	cursor, err := s.cars.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, apperr.Storage(err)
	}

	var found []models.Car
	if err := cursor.All(ctx, &found); err != nil {
		return nil, apperr.Storage(err)
	}

	// Re-order to match the requested ids; deleted cars are skipped.
	byID := make(map[string]models.Car, len(found))
	for _, car := range found {
		byID[car.ID.Hex()] = car
	}

	cars := make([]models.Car, 0, len(found))
	for _, id := range ids {
		if car, ok := byID[id]; ok {
			cars = append(cars, car)
		}
	}
	return cars, nil
}

func (s *MongoCarStore) SearchCars(ctx context.Context, filter CarFilter) ([]models.Car, error) {
	query := bson.M{}
	if filter.Make != "" {
		query["make"] = filter.Make
	}
	if filter.Model != "" {
		query["model"] = filter.Model
	}
	if filter.Year > 0 {
		query["year"] = filter.Year
	}
	if filter.MaxPrice > 0 {
		query["price"] = bson.M{"$lte": filter.MaxPrice}
	}

	cursor, err := s.cars.Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(searchLimit))
	if err != nil {
		return nil, apperr.Storage(err)
	}

	cars := []models.Car{}
	if err := cursor.All(ctx, &cars); err != nil {
		return nil, apperr.Storage(err)
	}
	return cars, nil
}

// EnsureCarIndexes creates the indexes backing listing search.
func EnsureCarIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(carsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "make", Value: 1}, {Key: "model", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	return err
}
