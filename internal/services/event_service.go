package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/avelis/estate-be/internal/database"
	"github.com/avelis/estate-be/internal/models"
	ws "github.com/avelis/estate-be/internal/websocket"
)

// EventServiceProvider defines the interface for activity event services.
type EventServiceProvider interface {
	Record(ctx context.Context, eventType, level, message string, subjectID *string)
	Recent(ctx context.Context, limit int) ([]models.Event, error)
}

// EventService persists activity events and pushes them to the websocket
// feed.
type EventService struct {
	db  *database.Database
	hub *ws.Hub // nil disables the realtime feed
}

// NewEventService creates a new EventService.
func NewEventService(db *database.Database, hub *ws.Hub) *EventService {
	return &EventService{db: db, hub: hub}
}

// Record logs a new event. Failures are logged, never propagated: activity
// logging must not fail the operation it describes.
func (s *EventService) Record(ctx context.Context, eventType, level, message string, subjectID *string) {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		SubjectID: subjectID,
		CreatedAt: time.Now().UTC(),
	}

	col, err := s.db.Collection(database.EventsCollection)
	if err != nil {
		log.Warn().Err(err).Str("type", eventType).Msg("Dropping event, store unavailable")
		return
	}
	if _, err := col.InsertOne(ctx, event); err != nil {
		log.Warn().Err(err).Str("type", eventType).Msg("Failed to persist event")
		return
	}

	if s.hub != nil {
		payload, err := json.Marshal(ws.Message{Action: "event", Payload: event})
		if err == nil {
			s.hub.Broadcast <- payload
		}
	}
}

// Recent retrieves the most recent events, newest first.
func (s *EventService) Recent(ctx context.Context, limit int) ([]models.Event, error) {
	col, err := s.db.Collection(database.EventsCollection)
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
