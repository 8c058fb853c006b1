package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avelis/estate-be/internal/auth"
	"github.com/avelis/estate-be/internal/services"
)

// ListingHandler handles HTTP requests for property listings.
type ListingHandler struct {
	service services.ListingServiceProvider
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(service services.ListingServiceProvider) *ListingHandler {
	return &ListingHandler{service: service}
}

// Create handles the request to create a new listing owned by the caller.
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, auth.ErrInvalidToken)
		return
	}

	var params services.ListingParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respondError(w, r, fmt.Errorf("%w: invalid request body", services.ErrInvalidInput))
		return
	}

	listing, err := h.service.Create(r.Context(), claims.UserID, params)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, listing)
}

// Get handles the request to get a single listing by its ID.
func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	listing, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, listing)
}

// List handles filtered, paginated listing queries.
func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)
	listings, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, listings)
}

// Update handles the request to update a listing. Ownership is enforced by
// the service.
func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, auth.ErrInvalidToken)
		return
	}

	var params services.ListingParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respondError(w, r, fmt.Errorf("%w: invalid request body", services.ErrInvalidInput))
		return
	}

	listing, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), claims.UserID, params)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, listing)
}

// Delete handles the request to delete a listing.
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, auth.ErrInvalidToken)
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), claims.UserID); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "listing deleted")
}

// filterFromQuery builds a ListFilter from URL query parameters,
// ignoring values that do not parse.
func filterFromQuery(r *http.Request) services.ListFilter {
	q := r.URL.Query()
	filter := services.ListFilter{
		City:    q.Get("city"),
		Type:    q.Get("type"),
		OwnerID: q.Get("owner"),
	}

	if v := q.Get("price_min"); v != "" {
		if min, err := strconv.ParseFloat(v, 64); err == nil {
			filter.PriceMin = &min
		}
	}
	if v := q.Get("price_max"); v != "" {
		if max, err := strconv.ParseFloat(v, 64); err == nil {
			filter.PriceMax = &max
		}
	}
	if v := q.Get("bedrooms"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Bedrooms = &n
		}
	}
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Page = n
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	return filter
}
