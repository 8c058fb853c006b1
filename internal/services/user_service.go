package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/avelis/estate-be/internal/database"
	"github.com/avelis/estate-be/internal/models"
)

// UserPatch carries the updatable profile fields. Empty fields are left
// unchanged.
type UserPatch struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, username, email, password string) (models.User, error)
	Authenticate(ctx context.Context, email, password string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	Update(ctx context.Context, id, callerID string, patch UserPatch) (models.User, error)
	Delete(ctx context.Context, id, callerID string) error
}

// UserService provides business logic for account management.
type UserService struct {
	db     *database.Database
	events EventServiceProvider
}

// NewUserService creates a new UserService.
func NewUserService(db *database.Database, events EventServiceProvider) *UserService {
	return &UserService{db: db, events: events}
}

// Register creates a new user, hashing their password. A taken email
// yields ErrEmailTaken; the raw password is never stored.
func (s *UserService) Register(ctx context.Context, username, email, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || !strings.Contains(email, "@") {
		return models.User{}, fmt.Errorf("%w: username and a valid email are required", ErrInvalidInput)
	}
	if len(password) < 6 {
		return models.User{}, fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidInput)
	}

	col, err := s.db.Collection(database.UsersCollection)
	if err != nil {
		return models.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}

	s.events.Record(ctx, "user.register", "info", fmt.Sprintf("User %s registered", user.Username), &user.ID)

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// Authenticate verifies a user's credentials. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	col, err := s.db.Collection(database.UsersCollection)
	if err != nil {
		return models.User{}, err
	}

	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err = col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// GetByID retrieves a single user by their ID.
func (s *UserService) GetByID(ctx context.Context, id string) (models.User, error) {
	col, err := s.db.Collection(database.UsersCollection)
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}

	user.PasswordHash = ""
	return user, nil
}

// Update changes a user's profile. Only the account owner may update it.
func (s *UserService) Update(ctx context.Context, id, callerID string, patch UserPatch) (models.User, error) {
	if err := requireOwner(id, callerID); err != nil {
		return models.User{}, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if username := strings.TrimSpace(patch.Username); username != "" {
		set["username"] = username
	}
	if email := strings.ToLower(strings.TrimSpace(patch.Email)); email != "" {
		if !strings.Contains(email, "@") {
			return models.User{}, fmt.Errorf("%w: invalid email", ErrInvalidInput)
		}
		set["email"] = email
	}

	col, err := s.db.Collection(database.UsersCollection)
	if err != nil {
		return models.User{}, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}

	user.PasswordHash = ""
	return user, nil
}

// Delete removes a user account. Listings owned by the account are
// cascade-deleted in the same request; the user document goes first, so a
// partial failure can only leave orphan listings behind, never a user
// without credentials.
func (s *UserService) Delete(ctx context.Context, id, callerID string) error {
	if err := requireOwner(id, callerID); err != nil {
		return err
	}

	users, err := s.db.Collection(database.UsersCollection)
	if err != nil {
		return err
	}

	res, err := users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrUserNotFound
	}

	listings, err := s.db.Collection(database.ListingsCollection)
	if err != nil {
		return err
	}
	cascade, err := listings.DeleteMany(ctx, bson.M{"owner_id": id})
	if err != nil {
		return fmt.Errorf("deleting owned listings: %w", err)
	}

	s.events.Record(ctx, "user.delete", "info",
		fmt.Sprintf("User deleted along with %d owned listings", cascade.DeletedCount), &id)
	return nil
}
