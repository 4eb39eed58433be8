package model

import (
	"time"

	"github.com/google/uuid"
)

type DonationCategory string

const (
	DonationCategoryInfrastructure DonationCategory = "infrastructure"
	DonationCategoryScholarships   DonationCategory = "scholarships"
	DonationCategoryResearch       DonationCategory = "research"
	DonationCategoryEvents         DonationCategory = "events"
)

// DonationCause is a fundraising target (e.g. a scholarship fund). Raised and
// Donors are updated as donations against the cause are recorded.
type DonationCause struct {
	ID          string           `gorm:"size:50;primaryKey" json:"id"`
	Title       string           `gorm:"size:150;not null" json:"title"`
	Description string           `gorm:"type:text" json:"description"`
	Goal        int              `gorm:"not null" json:"goal"`
	Raised      int              `gorm:"default:0;not null" json:"raised"`
	Donors      int              `gorm:"default:0;not null" json:"donors"`
	Category    DonationCategory `gorm:"size:20;not null" json:"category"`
	Urgent      bool             `gorm:"default:false" json:"urgent"`
	Featured    bool             `gorm:"default:false" json:"featured"`
	EndDate     time.Time        `json:"end_date"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

type DonationRecord struct {
	ID        uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CauseID   string        `gorm:"size:50;index;not null" json:"cause_id"`
	Cause     DonationCause `gorm:"foreignKey:CauseID" json:"-"`
	UserID    uuid.UUID     `gorm:"type:uuid;index;not null" json:"user_id"`
	Amount    int           `gorm:"not null" json:"amount"` // rupees
	Anonymous bool          `gorm:"default:false" json:"anonymous"`
	Message   string        `gorm:"size:500" json:"message,omitempty"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
}
