package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelis/estate-be/internal/models"
	"github.com/avelis/estate-be/internal/services"
)

func TestListingCreate(t *testing.T) {
	h := NewListingHandler(&mockListingService{
		createFn: func(ctx context.Context, ownerID string, params services.ListingParams) (models.Listing, error) {
			assert.Equal(t, "user-1", ownerID)
			assert.Equal(t, "Sunny flat", params.Title)
			return testListing, nil
		},
	})

	r := authedRequest(t, http.MethodPost, "/api/listing",
		`{"title":"Sunny flat","city":"Lisbon","type":"rent","price":950}`, "user-1")
	w := httptest.NewRecorder()
	h.Create(w, r)

	assert.Equal(t, http.StatusCreated, w.Code)
	var listing models.Listing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Equal(t, testListing.ID, listing.ID)
}

func TestListingCreateInvalid(t *testing.T) {
	h := NewListingHandler(&mockListingService{
		createFn: func(ctx context.Context, ownerID string, params services.ListingParams) (models.Listing, error) {
			return models.Listing{}, services.ErrInvalidInput
		},
	})

	r := authedRequest(t, http.MethodPost, "/api/listing", `{"title":""}`, "user-1")
	w := httptest.NewRecorder()
	h.Create(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, decodeEnvelope(t, w).Success)
}

func TestListingGetNotFound(t *testing.T) {
	h := NewListingHandler(&mockListingService{
		getFn: func(ctx context.Context, id string) (models.Listing, error) {
			return models.Listing{}, services.ErrListingNotFound
		},
	})

	r := withURLParam(httptest.NewRequest(http.MethodGet, "/api/listing/ghost", nil), "id", "ghost")
	w := httptest.NewRecorder()
	h.Get(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, decodeEnvelope(t, w).Success)
}

func TestListingListParsesQuery(t *testing.T) {
	var got services.ListFilter
	h := NewListingHandler(&mockListingService{
		listFn: func(ctx context.Context, filter services.ListFilter) ([]models.Listing, error) {
			got = filter
			return []models.Listing{testListing}, nil
		},
	})

	r := httptest.NewRequest(http.MethodGet,
		"/api/listing?city=Lisbon&type=rent&price_min=500&price_max=1200&bedrooms=2&page=3&limit=10", nil)
	w := httptest.NewRecorder()
	h.List(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Lisbon", got.City)
	assert.Equal(t, "rent", got.Type)
	require.NotNil(t, got.PriceMin)
	assert.Equal(t, 500.0, *got.PriceMin)
	require.NotNil(t, got.PriceMax)
	assert.Equal(t, 1200.0, *got.PriceMax)
	require.NotNil(t, got.Bedrooms)
	assert.Equal(t, 2, *got.Bedrooms)
	assert.Equal(t, 3, got.Page)
	assert.Equal(t, 10, got.Limit)

	var listings []models.Listing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listings))
	require.Len(t, listings, 1)
	assert.Equal(t, testListing.ID, listings[0].ID)
}

func TestListingListIgnoresUnparsableParams(t *testing.T) {
	var got services.ListFilter
	h := NewListingHandler(&mockListingService{
		listFn: func(ctx context.Context, filter services.ListFilter) ([]models.Listing, error) {
			got = filter
			return nil, nil
		},
	})

	r := httptest.NewRequest(http.MethodGet, "/api/listing?price_min=cheap&page=two", nil)
	w := httptest.NewRecorder()
	h.List(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, got.PriceMin)
	assert.Zero(t, got.Page)
}

func TestListingUpdateForbidden(t *testing.T) {
	h := NewListingHandler(&mockListingService{
		updateFn: func(ctx context.Context, id, callerID string, params services.ListingParams) (models.Listing, error) {
			assert.Equal(t, "listing-1", id)
			assert.Equal(t, "user-2", callerID)
			return models.Listing{}, services.ErrForbidden
		},
	})

	r := withURLParam(authedRequest(t, http.MethodPut, "/api/listing/listing-1",
		`{"title":"Taken over","city":"Lisbon","type":"rent","price":1}`, "user-2"), "id", "listing-1")
	w := httptest.NewRecorder()
	h.Update(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, decodeEnvelope(t, w).Success)
}

func TestListingDeleteByOwner(t *testing.T) {
	called := false
	h := NewListingHandler(&mockListingService{
		deleteFn: func(ctx context.Context, id, callerID string) error {
			called = true
			assert.Equal(t, "listing-1", id)
			assert.Equal(t, "user-1", callerID)
			return nil
		},
	})

	r := withURLParam(authedRequest(t, http.MethodDelete, "/api/listing/listing-1", "", "user-1"), "id", "listing-1")
	w := httptest.NewRecorder()
	h.Delete(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
	assert.True(t, decodeEnvelope(t, w).Success)
}
