package events

import (
	"time"

	"github.com/google/uuid"
)

// EventSource identifies this service in every published envelope.
const EventSource = "portal-service"

// EventVersion is the envelope schema version.
const EventVersion = "1.0"

// Event types published on the change feed. Dashboard clients subscribe to
// these to apply incremental deltas instead of refetching.
const (
	TypeEnrollmentCreated = "enrollment.created"
	TypeEnrollmentDropped = "enrollment.dropped"
	TypeEnrollmentGraded  = "enrollment.graded"

	TypeSectionUpdated = "section.updated"

	TypeAnnouncementPublished = "announcement.published"

	TypeProfileSynthesized = "account.profile_synthesized"

	TypeEntityChanged = "entity.changed"
)

// Event is the envelope every published message is wrapped in.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an envelope with a fresh ID and timestamp.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// ===== EVENT PAYLOADS =====

// EnrollmentEvent is published when a student enrolls, drops or is graded.
type EnrollmentEvent struct {
	EnrollmentID uint    `json:"enrollment_id"`
	StudentID    uint    `json:"student_id"`
	SectionID    uint    `json:"section_id"`
	Status       string  `json:"status"`
	Grade        *string `json:"grade,omitempty"`
}

// SectionEvent carries the seat snapshot after a section change.
type SectionEvent struct {
	SectionID     uint `json:"section_id"`
	CourseID      uint `json:"course_id"`
	TermID        uint `json:"term_id"`
	EnrolledCount int  `json:"enrolled_count"`
	MaxCapacity   int  `json:"max_capacity"`
}

// AnnouncementEvent is published when an announcement goes live.
type AnnouncementEvent struct {
	AnnouncementID uint   `json:"announcement_id"`
	Title          string `json:"title"`
	TargetAudience string `json:"target_audience"`
}

// ProfileEvent is published when a first sign-in synthesizes a profile row.
type ProfileEvent struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// ChangeOperation is the kind of mutation behind a generic entity delta.
type ChangeOperation string

const (
	ChangeInsert ChangeOperation = "INSERT"
	ChangeUpdate ChangeOperation = "UPDATE"
	ChangeDelete ChangeOperation = "DELETE"
)

// EntityChangeEvent is the generic delta for entity mutations that have no
// dedicated payload. Record holds the row after the mutation (nil for deletes).
type EntityChangeEvent struct {
	Entity    string          `json:"entity"`
	Operation ChangeOperation `json:"operation"`
	EntityID  uint            `json:"entity_id"`
	Record    interface{}     `json:"record,omitempty"`
}
