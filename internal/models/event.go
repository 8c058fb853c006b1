package models

import "time"

// Event represents a loggable action in the system, e.g. a listing being
// created or a user account being removed.
type Event struct {
	ID        string    `json:"id" bson:"_id"`
	Type      string    `json:"type" bson:"type"`   // e.g., "listing.create", "user.delete"
	Level     string    `json:"level" bson:"level"` // e.g., "info", "warn", "error"
	Message   string    `json:"message" bson:"message"`
	SubjectID *string   `json:"subjectId,omitempty" bson:"subject_id,omitempty"` // Nullable for system-wide events
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}
