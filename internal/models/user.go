package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email" json:"email"`
	Password string `bson:"password,omitempty" json:"-"` // Don't return password in JSON

	// Favorites holds the ids of favorited cars. Membership is mutated
	// only through atomic $addToSet/$pull updates, never by rewriting
	// the whole array.
	Favorites []string `bson:"favorites" json:"favorites"`
}
