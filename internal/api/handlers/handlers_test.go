package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/avelis/estate-be/internal/auth"
	"github.com/avelis/estate-be/internal/models"
	"github.com/avelis/estate-be/internal/services"
)

// mockUserService implements services.UserServiceProvider for unit tests.
// Each method field can be overridden per test case.
type mockUserService struct {
	registerFn     func(ctx context.Context, username, email, password string) (models.User, error)
	authenticateFn func(ctx context.Context, email, password string) (models.User, error)
	getByIDFn      func(ctx context.Context, id string) (models.User, error)
	updateFn       func(ctx context.Context, id, callerID string, patch services.UserPatch) (models.User, error)
	deleteFn       func(ctx context.Context, id, callerID string) error
}

func (m *mockUserService) Register(ctx context.Context, username, email, password string) (models.User, error) {
	return m.registerFn(ctx, username, email, password)
}

func (m *mockUserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	return m.authenticateFn(ctx, email, password)
}

func (m *mockUserService) GetByID(ctx context.Context, id string) (models.User, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockUserService) Update(ctx context.Context, id, callerID string, patch services.UserPatch) (models.User, error) {
	return m.updateFn(ctx, id, callerID, patch)
}

func (m *mockUserService) Delete(ctx context.Context, id, callerID string) error {
	return m.deleteFn(ctx, id, callerID)
}

// mockListingService implements services.ListingServiceProvider.
type mockListingService struct {
	createFn func(ctx context.Context, ownerID string, params services.ListingParams) (models.Listing, error)
	getFn    func(ctx context.Context, id string) (models.Listing, error)
	listFn   func(ctx context.Context, filter services.ListFilter) ([]models.Listing, error)
	updateFn func(ctx context.Context, id, callerID string, params services.ListingParams) (models.Listing, error)
	deleteFn func(ctx context.Context, id, callerID string) error
}

func (m *mockListingService) Create(ctx context.Context, ownerID string, params services.ListingParams) (models.Listing, error) {
	return m.createFn(ctx, ownerID, params)
}

func (m *mockListingService) Get(ctx context.Context, id string) (models.Listing, error) {
	return m.getFn(ctx, id)
}

func (m *mockListingService) List(ctx context.Context, filter services.ListFilter) ([]models.Listing, error) {
	return m.listFn(ctx, filter)
}

func (m *mockListingService) Update(ctx context.Context, id, callerID string, params services.ListingParams) (models.Listing, error) {
	return m.updateFn(ctx, id, callerID, params)
}

func (m *mockListingService) Delete(ctx context.Context, id, callerID string) error {
	return m.deleteFn(ctx, id, callerID)
}

// mockEventService implements services.EventServiceProvider.
type mockEventService struct {
	recordFn func(ctx context.Context, eventType, level, message string, subjectID *string)
	recentFn func(ctx context.Context, limit int) ([]models.Event, error)
}

func (m *mockEventService) Record(ctx context.Context, eventType, level, message string, subjectID *string) {
	if m.recordFn != nil {
		m.recordFn(ctx, eventType, level, message, subjectID)
	}
}

func (m *mockEventService) Recent(ctx context.Context, limit int) ([]models.Event, error) {
	return m.recentFn(ctx, limit)
}

// authedRequest builds a request carrying verified claims for callerID,
// the way RequireAuth leaves it for the handlers.
func authedRequest(t *testing.T, method, target, body string, callerID string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(method, target, bodyReader(body))
	claims := &auth.Claims{UserID: callerID, Email: callerID + "@example.com"}
	return r.WithContext(auth.WithClaims(r.Context(), claims))
}

func bodyReader(body string) *bytes.Reader {
	return bytes.NewReader([]byte(body))
}

// withURLParam attaches a chi route parameter to the request, as the
// router would for /{id} routes.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeEnvelope parses a {success, message} response body.
func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

var testUser = models.User{
	ID:       "user-1",
	Username: "alice",
	Email:    "alice@example.com",
}

var testListing = models.Listing{
	ID:      "listing-1",
	OwnerID: "user-1",
	Title:   "Sunny flat",
	City:    "Lisbon",
	Type:    "rent",
	Price:   950,
}
