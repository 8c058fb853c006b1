package models

import "time"

// Listing represents a property listing owned by a user.
type Listing struct {
	ID          string    `json:"id" bson:"_id"`
	OwnerID     string    `json:"ownerId" bson:"owner_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Address     string    `json:"address" bson:"address"`
	City        string    `json:"city" bson:"city"`
	Type        string    `json:"type" bson:"type"` // rent or sale
	Price       float64   `json:"price" bson:"price"`
	Bedrooms    int       `json:"bedrooms" bson:"bedrooms"`
	Bathrooms   int       `json:"bathrooms" bson:"bathrooms"`
	AreaSqM     float64   `json:"areaSqM" bson:"area_sq_m"`
	Furnished   bool      `json:"furnished" bson:"furnished"`
	ImageURLs   []string  `json:"imageUrls" bson:"image_urls"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}
