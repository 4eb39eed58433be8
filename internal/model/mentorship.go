package model

import (
	"time"

	"github.com/google/uuid"
)

type MentorshipStatus string

const (
	MentorshipPending  MentorshipStatus = "pending"
	MentorshipAccepted MentorshipStatus = "accepted"
	MentorshipDeclined MentorshipStatus = "declined"
)

type MentorshipRequest struct {
	ID        uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	MentorID  uuid.UUID        `gorm:"type:uuid;index;not null" json:"mentor_id"`
	Mentor    User             `gorm:"foreignKey:MentorID" json:"mentor,omitempty"`
	MenteeID  uuid.UUID        `gorm:"type:uuid;index;not null" json:"mentee_id"`
	Mentee    User             `gorm:"foreignKey:MenteeID" json:"mentee,omitempty"`
	Subject   string           `gorm:"size:150;not null" json:"subject"`
	Message   string           `gorm:"type:text" json:"message"`
	Expertise string           `gorm:"size:100" json:"expertise"`
	Status    MentorshipStatus `gorm:"size:20;default:'pending';not null" json:"status"`
	CreatedAt time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}
