package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/BLUETOID/RIMAP/internal/model"
	"github.com/google/uuid"
)

func TestDecodeSessionSnapshot(t *testing.T) {
	valid, _ := json.Marshal(SessionSnapshot{
		UserID:       uuid.New().String(),
		Email:        "a@example.com",
		Role:         "alumni",
		TotalPoints:  320,
		CurrentLevel: model.LevelSilver,
	})

	cases := []struct {
		name    string
		payload []byte
		ok      bool
	}{
		{"valid", valid, true},
		{"not json", []byte("{{nope"), false},
		{"empty object", []byte(`{}`), false},
		{"missing email", []byte(`{"user_id":"x","role":"alumni"}`), false},
		{"missing role", []byte(`{"user_id":"x","email":"a@example.com"}`), false},
		{"missing user id", []byte(`{"email":"a@example.com","role":"alumni"}`), false},
		{"wrong shape", []byte(`[1,2,3]`), false},
	}

	for _, tc := range cases {
		snapshot, ok := DecodeSessionSnapshot(tc.payload)
		if ok != tc.ok {
			t.Errorf("%s: ok = %v, want %v", tc.name, ok, tc.ok)
		}
		if ok && !snapshot.Valid() {
			t.Errorf("%s: decoded snapshot fails validation", tc.name)
		}
		if !ok && snapshot != nil {
			t.Errorf("%s: snapshot = %+v, want nil on rejection", tc.name, snapshot)
		}
	}
}

func TestSnapshotFromUser(t *testing.T) {
	lastLogin := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	user := &model.User{
		ID:            uuid.New(),
		Email:         "a@example.com",
		Role:          model.Role{Name: "alumni"},
		TotalPoints:   550,
		CurrentLevel:  model.LevelGold,
		LoginStreak:   3,
		LongestStreak: 9,
		LastLoginAt:   &lastLogin,
	}

	snapshot := SnapshotFromUser(user)
	if !snapshot.Valid() {
		t.Fatal("snapshot of a real user fails validation")
	}
	if snapshot.UserID != user.ID.String() || snapshot.Role != "alumni" {
		t.Errorf("identity fields = %s/%s", snapshot.UserID, snapshot.Role)
	}
	if snapshot.TotalPoints != 550 || snapshot.CurrentLevel != model.LevelGold {
		t.Errorf("points/level = %d/%s", snapshot.TotalPoints, snapshot.CurrentLevel)
	}
	if snapshot.LastLoginAt == nil || !snapshot.LastLoginAt.Equal(lastLogin) {
		t.Errorf("last login = %v, want %v", snapshot.LastLoginAt, lastLogin)
	}

	// The snapshot must survive a marshal round trip through the cache format.
	payload, err := json.Marshal(snapshot)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, ok := DecodeSessionSnapshot(payload)
	if !ok {
		t.Fatal("round-tripped snapshot rejected")
	}
	if decoded.LoginStreak != 3 || decoded.LongestStreak != 9 {
		t.Errorf("streaks = %d/%d, want 3/9", decoded.LoginStreak, decoded.LongestStreak)
	}
}

func TestSessionCacheNilClient(t *testing.T) {
	cache := NewSessionCache(nil)
	ctx := context.Background()

	if err := cache.Save(ctx, &SessionSnapshot{UserID: "x", Email: "a@b.c", Role: "alumni"}); err != nil {
		t.Errorf("Save with nil client: %v", err)
	}
	snapshot, err := cache.Load(ctx, "x")
	if err != nil || snapshot != nil {
		t.Errorf("Load with nil client = %+v, %v; want nil, nil", snapshot, err)
	}
	if err := cache.Clear(ctx, "x"); err != nil {
		t.Errorf("Clear with nil client: %v", err)
	}
}
