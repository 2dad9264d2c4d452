package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Car is a marketplace listing. Immutable after creation.
type Car struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	Make        string  `bson:"make" json:"make"`
	Model       string  `bson:"model" json:"model"`
	Year        int     `bson:"year" json:"year"`
	Price       float64 `bson:"price" json:"price"`
	Mileage     int     `bson:"mileage,omitempty" json:"mileage,omitempty"`
	Description string  `bson:"description,omitempty" json:"description,omitempty"`

	// ContactEmail is the seller's contact address.
	ContactEmail string `bson:"contact_email" json:"contact_email"`

	// Images holds Cloudinary secure URLs of the uploaded photos.
	Images []string `bson:"images" json:"images"`
}
