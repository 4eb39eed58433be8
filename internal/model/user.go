package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// UserLevel is one of five ordered tiers derived purely from total points.
type UserLevel string

const (
	LevelBronze   UserLevel = "Bronze"
	LevelSilver   UserLevel = "Silver"
	LevelGold     UserLevel = "Gold"
	LevelPlatinum UserLevel = "Platinum"
	LevelDiamond  UserLevel = "Diamond"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	RoleID       *uint     `json:"role_id"`
	Role         Role      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"role"`
	IsVerified   bool      `gorm:"default:false" json:"is_verified"`
	AvatarURL    *string   `gorm:"type:text" json:"avatar_url,omitempty"`

	// Gamification state. TotalPoints equals the sum of all point transactions
	// for this user; CurrentLevel is always the level implied by TotalPoints
	// and is never written independently of a points change.
	TotalPoints   int        `gorm:"default:0;not null" json:"total_points"`
	CurrentLevel  UserLevel  `gorm:"size:20;default:'Bronze';not null" json:"current_level"`
	LoginStreak   int        `gorm:"default:0;not null" json:"login_streak"`
	LongestStreak int        `gorm:"default:0;not null" json:"longest_streak"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	Profile   *Profile  `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Profile struct {
	UserID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	GraduationYear    *int      `json:"graduation_year,omitempty"`
	Department        *string   `gorm:"size:100" json:"department,omitempty"`
	CurrentCompany    *string   `gorm:"size:100" json:"current_company,omitempty"`
	Position          *string   `gorm:"size:100" json:"position,omitempty"`
	Skills            *string   `gorm:"type:text" json:"skills,omitempty"` // comma separated
	Bio               *string   `gorm:"type:text" json:"bio,omitempty"`
	Location          *string   `gorm:"size:100" json:"location,omitempty"`
	ContactPreference *string   `gorm:"size:20" json:"contact_preference,omitempty"` // 'email', 'phone', 'linkedin'
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
}
