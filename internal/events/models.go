package events

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title       string    `json:"title" gorm:"not null;size:255"`
	Description string    `json:"description" gorm:"type:text"`
	Venue       string    `json:"venue" gorm:"not null;size:255"`
	StartsAt    time.Time `json:"starts_at" gorm:"not null"`
	EndsAt      time.Time `json:"ends_at" gorm:"not null"`
	Status      Status    `json:"status" gorm:"type:varchar(20);default:'DRAFT'"`

	CreatedBy uuid.UUID `json:"created_by" gorm:"type:uuid"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// EventStaff grants one staff account scan permission for one event.
// Admins bypass this table.
type EventStaff struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID   uuid.UUID `json:"event_id" gorm:"type:uuid;index;not null;uniqueIndex:idx_event_staff_member"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null;uniqueIndex:idx_event_staff_member"`
	CreatedAt time.Time `json:"created_at"`
}

func (Event) TableName() string {
	return "events"
}

func (EventStaff) TableName() string {
	return "event_staff"
}

// EventResponse is the read-only projection served to scanning clients.
type EventResponse struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Venue    string    `json:"venue"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	Status   Status    `json:"status"`
}

// HasEnded reports whether the event's end time has passed at the given instant.
func (e *Event) HasEnded(now time.Time) bool {
	return now.After(e.EndsAt)
}

// IsCancelled reports whether the event has been cancelled.
func (e *Event) IsCancelled() bool {
	return e.Status == StatusCancelled
}

// ToResponse converts an Event to its read-only projection.
func (e *Event) ToResponse() EventResponse {
	return EventResponse{
		ID:       e.ID.String(),
		Title:    e.Title,
		Venue:    e.Venue,
		StartsAt: e.StartsAt,
		EndsAt:   e.EndsAt,
		Status:   e.Status,
	}
}
