package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/avelis/estate-be/internal/cache"
	"github.com/avelis/estate-be/internal/database"
	"github.com/avelis/estate-be/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListingParams carries the client-settable listing fields for create and
// update operations.
type ListingParams struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	Type        string   `json:"type"`
	Price       float64  `json:"price"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms"`
	AreaSqM     float64  `json:"areaSqM"`
	Furnished   bool     `json:"furnished"`
	ImageURLs   []string `json:"imageUrls"`
}

func (p ListingParams) validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(p.City) == "" {
		return fmt.Errorf("%w: city is required", ErrInvalidInput)
	}
	if p.Type != "rent" && p.Type != "sale" {
		return fmt.Errorf("%w: type must be rent or sale", ErrInvalidInput)
	}
	if p.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}
	return nil
}

// ListFilter describes a listing query. Zero values mean "no constraint".
type ListFilter struct {
	City     string
	Type     string
	OwnerID  string
	PriceMin *float64
	PriceMax *float64
	Bedrooms *int
	Page     int
	Limit    int
}

// Normalize clamps pagination parameters so queries stay deterministic and
// bounded.
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	if f.City != "" {
		q["city"] = f.City
	}
	if f.Type != "" {
		q["type"] = f.Type
	}
	if f.OwnerID != "" {
		q["owner_id"] = f.OwnerID
	}
	price := bson.M{}
	if f.PriceMin != nil {
		price["$gte"] = *f.PriceMin
	}
	if f.PriceMax != nil {
		price["$lte"] = *f.PriceMax
	}
	if len(price) > 0 {
		q["price"] = price
	}
	if f.Bedrooms != nil {
		q["bedrooms"] = *f.Bedrooms
	}
	return q
}

// cacheParams flattens the filter into the map the cache key is derived
// from.
func (f ListFilter) cacheParams() map[string]string {
	params := map[string]string{
		"page":  strconv.Itoa(f.Page),
		"limit": strconv.Itoa(f.Limit),
	}
	if f.City != "" {
		params["city"] = f.City
	}
	if f.Type != "" {
		params["type"] = f.Type
	}
	if f.OwnerID != "" {
		params["owner"] = f.OwnerID
	}
	if f.PriceMin != nil {
		params["price_min"] = strconv.FormatFloat(*f.PriceMin, 'f', -1, 64)
	}
	if f.PriceMax != nil {
		params["price_max"] = strconv.FormatFloat(*f.PriceMax, 'f', -1, 64)
	}
	if f.Bedrooms != nil {
		params["bedrooms"] = strconv.Itoa(*f.Bedrooms)
	}
	return params
}

// ListingServiceProvider defines the interface for listing services.
type ListingServiceProvider interface {
	Create(ctx context.Context, ownerID string, params ListingParams) (models.Listing, error)
	Get(ctx context.Context, id string) (models.Listing, error)
	List(ctx context.Context, filter ListFilter) ([]models.Listing, error)
	Update(ctx context.Context, id, callerID string, params ListingParams) (models.Listing, error)
	Delete(ctx context.Context, id, callerID string) error
}

// ListingService provides business logic for property listings.
type ListingService struct {
	db       *database.Database
	events   EventServiceProvider
	cache    *cache.Cache // nil disables read caching
	cacheTTL time.Duration
}

// NewListingService creates a new ListingService.
func NewListingService(db *database.Database, events EventServiceProvider, c *cache.Cache, cacheTTL time.Duration) *ListingService {
	return &ListingService{db: db, events: events, cache: c, cacheTTL: cacheTTL}
}

// Create inserts a new listing owned by ownerID. The owner must still
// resolve to an existing user.
func (s *ListingService) Create(ctx context.Context, ownerID string, params ListingParams) (models.Listing, error) {
	if err := params.validate(); err != nil {
		return models.Listing{}, err
	}

	users, err := s.db.Collection(database.UsersCollection)
	if err != nil {
		return models.Listing{}, err
	}
	count, err := users.CountDocuments(ctx, bson.M{"_id": ownerID})
	if err != nil {
		return models.Listing{}, err
	}
	if count == 0 {
		return models.Listing{}, ErrUserNotFound
	}

	col, err := s.db.Collection(database.ListingsCollection)
	if err != nil {
		return models.Listing{}, err
	}

	now := time.Now().UTC()
	listing := models.Listing{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(params.Title),
		Description: params.Description,
		Address:     params.Address,
		City:        strings.TrimSpace(params.City),
		Type:        params.Type,
		Price:       params.Price,
		Bedrooms:    params.Bedrooms,
		Bathrooms:   params.Bathrooms,
		AreaSqM:     params.AreaSqM,
		Furnished:   params.Furnished,
		ImageURLs:   params.ImageURLs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := col.InsertOne(ctx, listing); err != nil {
		return models.Listing{}, err
	}

	s.events.Record(ctx, "listing.create", "info",
		fmt.Sprintf("Listing %q created in %s", listing.Title, listing.City), &listing.ID)
	return listing, nil
}

// Get retrieves a single listing by its ID.
func (s *ListingService) Get(ctx context.Context, id string) (models.Listing, error) {
	col, err := s.db.Collection(database.ListingsCollection)
	if err != nil {
		return models.Listing{}, err
	}

	var listing models.Listing
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&listing)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Listing{}, ErrListingNotFound
		}
		return models.Listing{}, err
	}
	return listing, nil
}

// List queries listings matching the filter, sorted newest first with the
// listing ID as a tiebreaker so identical queries return identical pages.
func (s *ListingService) List(ctx context.Context, filter ListFilter) ([]models.Listing, error) {
	filter.Normalize()

	var key string
	if s.cache != nil {
		key = cache.QueryKey("listings", filter.cacheParams())
		var cached []models.Listing
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Warn().Err(err).Msg("Listing cache read failed")
		} else if hit {
			return cached, nil
		}
	}

	col, err := s.db.Collection(database.ListingsCollection)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))
	cursor, err := col.Find(ctx, filter.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	listings := []models.Listing{}
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, listings, s.cacheTTL); err != nil {
			log.Warn().Err(err).Msg("Listing cache write failed")
		}
	}
	return listings, nil
}

// Update replaces a listing's descriptive fields. Only the owner may
// update it.
func (s *ListingService) Update(ctx context.Context, id, callerID string, params ListingParams) (models.Listing, error) {
	if err := params.validate(); err != nil {
		return models.Listing{}, err
	}

	listing, err := s.Get(ctx, id)
	if err != nil {
		return models.Listing{}, err
	}
	if err := requireOwner(listing.OwnerID, callerID); err != nil {
		return models.Listing{}, err
	}

	col, err := s.db.Collection(database.ListingsCollection)
	if err != nil {
		return models.Listing{}, err
	}

	set := bson.M{
		"title":       strings.TrimSpace(params.Title),
		"description": params.Description,
		"address":     params.Address,
		"city":        strings.TrimSpace(params.City),
		"type":        params.Type,
		"price":       params.Price,
		"bedrooms":    params.Bedrooms,
		"bathrooms":   params.Bathrooms,
		"area_sq_m":   params.AreaSqM,
		"furnished":   params.Furnished,
		"image_urls":  params.ImageURLs,
		"updated_at":  time.Now().UTC(),
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Listing
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Listing{}, ErrListingNotFound
		}
		return models.Listing{}, err
	}

	s.events.Record(ctx, "listing.update", "info",
		fmt.Sprintf("Listing %q updated", updated.Title), &updated.ID)
	return updated, nil
}

// Delete removes a listing. Only the owner may delete it.
func (s *ListingService) Delete(ctx context.Context, id, callerID string) error {
	listing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwner(listing.OwnerID, callerID); err != nil {
		return err
	}

	col, err := s.db.Collection(database.ListingsCollection)
	if err != nil {
		return err
	}
	if _, err := col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return err
	}

	s.events.Record(ctx, "listing.delete", "info",
		fmt.Sprintf("Listing %q deleted", listing.Title), &id)
	return nil
}
