package model

import (
	"time"

	"github.com/google/uuid"
)

// Action tags used for matching achievement and challenge rules. External
// flows (login, RSVP, donation, mentorship) award points with these tags.
const (
	ActionDailyLogin        = "daily_login"
	ActionWeeklyLoginStreak = "weekly_login_streak"
	ActionEventRSVP         = "event_rsvp"
	ActionMentorshipRequest = "mentorship_request"
	ActionDonationMade      = "donation_made"
	ActionProfileUpdated    = "profile_updated"
	ActionAchievementUnlock = "achievement_unlocked"
	ActionChallengeComplete = "challenge_completed"

	// ActionPointsTotal is not an action a user performs: an achievement whose
	// RequiredAction is this tag unlocks when TotalPoints reaches RequiredCount.
	ActionPointsTotal = "points_total"
)

// TransactionKind separates transactions caused by a user action from
// reward-only transactions. Achievement payouts are reward-kind and skip the
// achievement-evaluation pass, so unlocking can never re-trigger it.
// Challenge payouts deliberately take the action path under the
// challenge_completed tag, letting achievements key on completed challenges.
type TransactionKind string

const (
	TransactionKindAction TransactionKind = "action"
	TransactionKindReward TransactionKind = "reward"
)

// PointTransaction is an append-only ledger entry. Rows are never mutated or
// deleted; the sum of a user's transactions must equal User.TotalPoints.
type PointTransaction struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID       `gorm:"type:uuid;index:idx_txn_user_action,priority:1;not null" json:"user_id"`
	User      User            `gorm:"foreignKey:UserID" json:"-"`
	Points    int             `gorm:"not null" json:"points"`
	Reason    string          `gorm:"type:text;not null" json:"reason"`
	Action    string          `gorm:"size:50;index:idx_txn_user_action,priority:2;not null" json:"action"`
	Kind      TransactionKind `gorm:"size:10;default:'action';not null" json:"kind"`
	RelatedID *string         `gorm:"size:36" json:"related_id,omitempty"`
	CreatedAt time.Time       `gorm:"index;autoCreateTime" json:"created_at"`
}

type AchievementCategory string

const (
	AchievementCategoryProfile    AchievementCategory = "profile"
	AchievementCategoryMentorship AchievementCategory = "mentorship"
	AchievementCategoryEvents     AchievementCategory = "events"
	AchievementCategoryDonations  AchievementCategory = "donations"
	AchievementCategoryNetworking AchievementCategory = "networking"
	AchievementCategorySpecial    AchievementCategory = "special"
)

// Achievement is a catalog row. The catalog is seeded once and treated as
// immutable at runtime.
type Achievement struct {
	ID             string              `gorm:"size:50;primaryKey" json:"id"`
	Title          string              `gorm:"size:100;not null" json:"title"`
	Description    string              `gorm:"type:text" json:"description"`
	Icon           string              `gorm:"size:20" json:"icon"`
	Category       AchievementCategory `gorm:"size:20;not null" json:"category"`
	Points         int                 `gorm:"not null" json:"points"`
	RequiredAction string              `gorm:"size:50;not null" json:"required_action"`
	RequiredCount  int                 `gorm:"not null" json:"required_count"`
	CreatedAt      time.Time           `gorm:"autoCreateTime" json:"created_at"`
}

// UserAchievement records a single unlock. Created once per user per
// achievement the moment the unlock condition is met, never duplicated.
type UserAchievement struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	AchievementID string    `gorm:"size:50;primaryKey" json:"achievement_id"`
	Achievement   Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
	UnlockedAt    time.Time `gorm:"not null" json:"unlocked_at"`
	Progress      int       `gorm:"default:0" json:"progress"`
}

type ChallengeCategory string

const (
	ChallengeCategoryMonthly  ChallengeCategory = "monthly"
	ChallengeCategorySeasonal ChallengeCategory = "seasonal"
	ChallengeCategorySpecial  ChallengeCategory = "special"
)

// Challenge is a time-boxed, opt-in goal. The active window is
// [StartDate, EndDate).
type Challenge struct {
	ID           string            `gorm:"size:50;primaryKey" json:"id"`
	Title        string            `gorm:"size:100;not null" json:"title"`
	Description  string            `gorm:"type:text" json:"description"`
	Icon         string            `gorm:"size:20" json:"icon"`
	Category     ChallengeCategory `gorm:"size:20;not null" json:"category"`
	Points       int               `gorm:"not null" json:"points"`
	StartDate    time.Time         `gorm:"not null" json:"start_date"`
	EndDate      time.Time         `gorm:"not null" json:"end_date"`
	TargetAction string            `gorm:"size:50;not null" json:"target_action"`
	TargetCount  int               `gorm:"not null" json:"target_count"`
	IsActive     bool              `gorm:"default:true;not null" json:"is_active"`
	CreatedAt    time.Time         `gorm:"autoCreateTime" json:"created_at"`

	Participants []ChallengeParticipant `gorm:"foreignKey:ChallengeID" json:"participants,omitempty"`
}

type ChallengeParticipant struct {
	ChallengeID string    `gorm:"size:50;primaryKey" json:"challenge_id"`
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	JoinedAt    time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

// UserChallenge tracks a joined challenge's progress. Completion is a
// one-time transition: once Completed is set, re-crossing the target does not
// re-award the challenge's points.
type UserChallenge struct {
	UserID      uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	ChallengeID string     `gorm:"size:50;primaryKey" json:"challenge_id"`
	Challenge   Challenge  `gorm:"foreignKey:ChallengeID" json:"challenge,omitempty"`
	Progress    int        `gorm:"default:0;not null" json:"progress"`
	Completed   bool       `gorm:"default:false;not null" json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
