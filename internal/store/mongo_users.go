package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carvio/carvio-backend/internal/apperr"
	"github.com/carvio/carvio-backend/internal/models"
)

const usersCollection = "users"

type MongoUserStore struct {
	users *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{users: db.Collection(usersCollection)}
}

// userProjection strips the password hash from every read. The credential
// must never reach a response body; login uses CredentialsByEmail instead.
var userProjection = bson.M{"password": 0}

func (s *MongoUserStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.Favorites == nil {
		user.Favorites = []string{}
	}

	res, err := s.users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Duplicate("A user with this name or email already exists")
		}
		return apperr.Storage(err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

func (s *MongoUserStore) UserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("User")
	}

	var user models.User
	err = s.users.FindOne(ctx, bson.M{"_id": oid},
		options.FindOne().SetProjection(userProjection)).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("User")
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return &user, nil
}

func (s *MongoUserStore) CredentialsByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("User")
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return &user, nil
}

// AddFavorite is a single conditional update: the filter only matches
// when carID is absent, so the membership check and the insert happen
// atomically on the server. Two concurrent adds of distinct ids both
// land; a concurrent duplicate add matches nothing.
func (s *MongoUserStore) AddFavorite(ctx context.Context, userID, carID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, apperr.NotFound("User")
	}

	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": oid, "favorites": bson.M{"$ne": carID}},
		bson.M{
			"$addToSet": bson.M{"favorites": carID},
			"$set":      bson.M{"updated_at": time.Now()},
		})
	if err != nil {
		return false, apperr.Storage(err)
	}
	return res.ModifiedCount > 0, nil
}

// PullFavorite mirrors AddFavorite: the filter requires membership, so
// removal is atomic and a miss means carID was not in the set.
func (s *MongoUserStore) PullFavorite(ctx context.Context, userID, carID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, apperr.NotFound("User")
	}

	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": oid, "favorites": carID},
		bson.M{
			"$pull": bson.M{"favorites": carID},
			"$set":  bson.M{"updated_at": time.Now()},
		})
	if err != nil {
		return false, apperr.Storage(err)
	}
	return res.ModifiedCount > 0, nil
}

func (s *MongoUserStore) Favorites(ctx context.Context, userID string) ([]string, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperr.NotFound("User")
	}

	var doc struct {
		Favorites []string `bson:"favorites"`
	}
	err = s.users.FindOne(ctx, bson.M{"_id": oid},
		options.FindOne().SetProjection(bson.M{"favorites": 1})).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("User")
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if doc.Favorites == nil {
		doc.Favorites = []string{}
	}
	return doc.Favorites, nil
}

// EnsureUserIndexes creates the unique indexes backing name/email
// uniqueness. Called once at startup.
func EnsureUserIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}
