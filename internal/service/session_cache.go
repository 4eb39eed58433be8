package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/BLUETOID/RIMAP/internal/model"
	"github.com/redis/go-redis/v9"
)

// SessionSnapshot is the flat per-user payload cached in redis under one
// fixed key. It mirrors a logged-in session's gamification state so the
// dashboard can render without touching postgres. The shape is unversioned;
// payloads that fail identity validation are discarded, not migrated.
type SessionSnapshot struct {
	UserID        string          `json:"user_id"`
	Email         string          `json:"email"`
	Role          string          `json:"role"`
	TotalPoints   int             `json:"total_points"`
	CurrentLevel  model.UserLevel `json:"current_level"`
	LoginStreak   int             `json:"login_streak"`
	LongestStreak int             `json:"longest_streak"`
	LastLoginAt   *time.Time      `json:"last_login_at,omitempty"`
}

// Valid reports whether the snapshot carries the required identity fields.
func (s *SessionSnapshot) Valid() bool {
	return s != nil && s.UserID != "" && s.Email != "" && s.Role != ""
}

const sessionTTL = 24 * time.Hour

// SessionCache persists session snapshots in redis.
type SessionCache interface {
	Save(ctx context.Context, snapshot *SessionSnapshot) error
	// Load returns the cached snapshot, or nil when absent or malformed.
	// Malformed payloads are deleted so the caller falls back to a fresh
	// unauthenticated state.
	Load(ctx context.Context, userID string) (*SessionSnapshot, error)
	Clear(ctx context.Context, userID string) error
}

type sessionCache struct {
	rdb *redis.Client
}

func NewSessionCache(rdb *redis.Client) SessionCache {
	return &sessionCache{rdb: rdb}
}

func sessionKey(userID string) string {
	return fmt.Sprintf("session:user:%s", userID)
}

func (c *sessionCache) Save(ctx context.Context, snapshot *SessionSnapshot) error {
	if c.rdb == nil {
		return nil
	}
	if !snapshot.Valid() {
		return fmt.Errorf("refusing to cache session snapshot without identity fields")
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, sessionKey(snapshot.UserID), payload, sessionTTL).Err()
}

func (c *sessionCache) Load(ctx context.Context, userID string) (*SessionSnapshot, error) {
	if c.rdb == nil {
		return nil, nil
	}

	payload, err := c.rdb.Get(ctx, sessionKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	snapshot, ok := DecodeSessionSnapshot(payload)
	if !ok {
		// Corrupt or pre-identity payload: drop it rather than load it.
		_ = c.rdb.Del(ctx, sessionKey(userID)).Err()
		return nil, nil
	}

	return snapshot, nil
}

func (c *sessionCache) Clear(ctx context.Context, userID string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, sessionKey(userID)).Err()
}

// DecodeSessionSnapshot parses a cached payload and validates its identity
// fields. It returns ok=false for anything that should not be loaded.
func DecodeSessionSnapshot(payload []byte) (*SessionSnapshot, bool) {
	var snapshot SessionSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, false
	}
	if !snapshot.Valid() {
		return nil, false
	}
	return &snapshot, true
}

// SnapshotFromUser builds the cacheable view of a user's session.
func SnapshotFromUser(user *model.User) *SessionSnapshot {
	return &SessionSnapshot{
		UserID:        user.ID.String(),
		Email:         user.Email,
		Role:          user.Role.Name,
		TotalPoints:   user.TotalPoints,
		CurrentLevel:  user.CurrentLevel,
		LoginStreak:   user.LoginStreak,
		LongestStreak: user.LongestStreak,
		LastLoginAt:   user.LastLoginAt,
	}
}
