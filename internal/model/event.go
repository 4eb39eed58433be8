package model

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTypeReunion    EventType = "reunion"
	EventTypeWebinar    EventType = "webinar"
	EventTypeHackathon  EventType = "hackathon"
	EventTypeNetworking EventType = "networking"
)

type Event struct {
	ID               string    `gorm:"size:50;primaryKey" json:"id"`
	Title            string    `gorm:"size:150;not null" json:"title"`
	Description      string    `gorm:"type:text" json:"description"`
	Date             time.Time `gorm:"not null" json:"date"`
	Location         string    `gorm:"size:150" json:"location"`
	Type             EventType `gorm:"size:20;not null" json:"type"`
	MaxAttendees     int       `gorm:"not null" json:"max_attendees"`
	CurrentAttendees int       `gorm:"default:0;not null" json:"current_attendees"`
	Organizer        string    `gorm:"size:100" json:"organizer"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`

	RSVPs []EventRSVP `gorm:"foreignKey:EventID" json:"rsvps,omitempty"`
}

type RSVPStatus string

const (
	RSVPAttending    RSVPStatus = "attending"
	RSVPMaybe        RSVPStatus = "maybe"
	RSVPNotAttending RSVPStatus = "not-attending"
)

type EventRSVP struct {
	EventID string     `gorm:"size:50;primaryKey" json:"event_id"`
	UserID  uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	Status  RSVPStatus `gorm:"size:20;not null" json:"status"`
	// PointsAwarded guards the one-time RSVP point grant: flipping the status
	// back and forth never earns the points twice.
	PointsAwarded bool      `gorm:"default:false;not null" json:"points_awarded"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
