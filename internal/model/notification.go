package model

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	EntityID   string    `gorm:"size:50" json:"entity_id"`   // achievement/challenge/event id the notification points at
	EntityType string    `gorm:"size:50;not null" json:"entity_type"` // 'gamification', 'event', 'mentorship'
	Type       string    `gorm:"size:50;not null" json:"type"`        // 'level_up', 'achievement_unlocked', 'challenge_completed', 'mentorship_response'
	Message    string    `gorm:"type:text" json:"message"`
	IsRead     bool      `gorm:"default:false" json:"is_read"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}
