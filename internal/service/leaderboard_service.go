package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/BLUETOID/RIMAP/internal/model"
	"github.com/BLUETOID/RIMAP/internal/repository"
	"github.com/BLUETOID/RIMAP/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type LeaderboardCategory string

const (
	LeaderboardOverall    LeaderboardCategory = "overall"
	LeaderboardMonthly    LeaderboardCategory = "monthly"
	LeaderboardMentorship LeaderboardCategory = "mentorship"
	LeaderboardEvents     LeaderboardCategory = "events"
	LeaderboardDonations  LeaderboardCategory = "donations"
)

// leaderboardCacheTTL bounds how stale a redis-cached board served to another
// instance can be.
const leaderboardCacheTTL = 10 * time.Minute

// LeaderboardEntry is one ranked row. Rank is 1-based; equal points are
// ordered by user id ascending so rankings are deterministic.
type LeaderboardEntry struct {
	UserID         uuid.UUID       `json:"user_id"`
	Name           string          `json:"name"`
	Role           string          `json:"role"`
	Department     *string         `json:"department,omitempty"`
	GraduationYear *int            `json:"graduation_year,omitempty"`
	Points         int             `json:"points"`
	Level          model.UserLevel `json:"level"`
	Rank           int             `json:"rank"`
}

type LeaderboardService interface {
	// GetLeaderboard returns the last-computed board for the category,
	// computing it on first use.
	GetLeaderboard(ctx context.Context, category LeaderboardCategory, limit int) ([]LeaderboardEntry, error)
	GetDepartmentLeaderboard(ctx context.Context, department string, limit int) ([]LeaderboardEntry, error)
	// OverallRank returns the user's position on the overall board, 0 when
	// the user is absent from the last-computed snapshot.
	OverallRank(ctx context.Context, userID uuid.UUID) (int, error)
	Recompute(ctx context.Context) error
}

type leaderboardService struct {
	repo  repository.LeaderboardRepository
	users repository.UserRepository
	rdb   *redis.Client

	mu          sync.RWMutex
	boards      map[LeaderboardCategory][]LeaderboardEntry
	overallRank map[uuid.UUID]int
}

func NewLeaderboardService(repo repository.LeaderboardRepository, users repository.UserRepository, rdb *redis.Client) LeaderboardService {
	return &leaderboardService{
		repo:        repo,
		users:       users,
		rdb:         rdb,
		boards:      make(map[LeaderboardCategory][]LeaderboardEntry),
		overallRank: make(map[uuid.UUID]int),
	}
}

func (s *leaderboardService) GetLeaderboard(ctx context.Context, category LeaderboardCategory, limit int) ([]LeaderboardEntry, error) {
	switch category {
	case LeaderboardOverall, LeaderboardMonthly, LeaderboardMentorship, LeaderboardEvents, LeaderboardDonations:
	default:
		return nil, apperror.ErrBadRequest
	}

	s.mu.RLock()
	entries, ok := s.boards[category]
	s.mu.RUnlock()

	if !ok {
		if err := s.Recompute(ctx); err != nil {
			return nil, err
		}
		s.mu.RLock()
		entries = s.boards[category]
		s.mu.RUnlock()
	}

	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *leaderboardService) GetDepartmentLeaderboard(ctx context.Context, department string, limit int) ([]LeaderboardEntry, error) {
	scores, err := s.repo.TotalScoresByDepartment(ctx, department)
	if err != nil {
		return nil, err
	}

	users, err := s.userIndex(ctx)
	if err != nil {
		return nil, err
	}

	entries := s.rank(scores, users)
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *leaderboardService) OverallRank(ctx context.Context, userID uuid.UUID) (int, error) {
	s.mu.RLock()
	computed := len(s.boards) > 0
	rank := s.overallRank[userID]
	s.mu.RUnlock()

	if !computed {
		if err := s.Recompute(ctx); err != nil {
			return 0, err
		}
		s.mu.RLock()
		rank = s.overallRank[userID]
		s.mu.RUnlock()
	}

	return rank, nil
}

// Recompute rebuilds every precomputed board from the ledger and user totals,
// swaps the in-memory snapshot, and writes through to redis for other
// instances.
func (s *leaderboardService) Recompute(ctx context.Context) error {
	users, err := s.userIndex(ctx)
	if err != nil {
		return err
	}

	monthStart := startOfMonth(time.Now())

	sources := []struct {
		category LeaderboardCategory
		fetch    func() ([]repository.UserScore, error)
	}{
		{LeaderboardOverall, func() ([]repository.UserScore, error) { return s.repo.TotalScores(ctx) }},
		{LeaderboardMonthly, func() ([]repository.UserScore, error) { return s.repo.ScoresSince(ctx, monthStart) }},
		{LeaderboardMentorship, func() ([]repository.UserScore, error) {
			return s.repo.ScoresByActions(ctx, []string{model.ActionMentorshipRequest})
		}},
		{LeaderboardEvents, func() ([]repository.UserScore, error) {
			return s.repo.ScoresByActions(ctx, []string{model.ActionEventRSVP})
		}},
		{LeaderboardDonations, func() ([]repository.UserScore, error) {
			return s.repo.ScoresByActions(ctx, []string{model.ActionDonationMade})
		}},
	}

	boards := make(map[LeaderboardCategory][]LeaderboardEntry, len(sources))
	for _, src := range sources {
		scores, err := src.fetch()
		if err != nil {
			return err
		}
		boards[src.category] = s.rank(scores, users)
	}

	overallRank := make(map[uuid.UUID]int, len(boards[LeaderboardOverall]))
	for _, entry := range boards[LeaderboardOverall] {
		overallRank[entry.UserID] = entry.Rank
	}

	s.mu.Lock()
	s.boards = boards
	s.overallRank = overallRank
	s.mu.Unlock()

	s.cacheBoards(ctx, boards)

	return nil
}

// rank sorts by points descending, ties by user id ascending, and assigns
// 1-based ranks.
func (s *leaderboardService) rank(scores []repository.UserScore, users map[uuid.UUID]*model.User) []LeaderboardEntry {
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Points != scores[j].Points {
			return scores[i].Points > scores[j].Points
		}
		return scores[i].UserID.String() < scores[j].UserID.String()
	})

	entries := make([]LeaderboardEntry, 0, len(scores))
	for _, score := range scores {
		user, ok := users[score.UserID]
		if !ok {
			continue
		}
		// Admins do not compete, whatever the score source.
		if user.Role.Name == "admin" {
			continue
		}

		entry := LeaderboardEntry{
			UserID: score.UserID,
			Name:   user.Name,
			Role:   user.Role.Name,
			Points: score.Points,
			Level:  LevelForPoints(user.TotalPoints),
			Rank:   len(entries) + 1,
		}
		if user.Profile != nil {
			entry.Department = user.Profile.Department
			entry.GraduationYear = user.Profile.GraduationYear
		}
		entries = append(entries, entry)
	}

	return entries
}

func (s *leaderboardService) userIndex(ctx context.Context) (map[uuid.UUID]*model.User, error) {
	all, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[uuid.UUID]*model.User, len(all))
	for _, user := range all {
		index[user.ID] = user
	}
	return index, nil
}

func (s *leaderboardService) cacheBoards(ctx context.Context, boards map[LeaderboardCategory][]LeaderboardEntry) {
	if s.rdb == nil {
		return
	}

	for category, entries := range boards {
		payload, err := json.Marshal(entries)
		if err != nil {
			continue
		}

		key := fmt.Sprintf("leaderboard:%s", category)
		if err := s.rdb.Set(ctx, key, payload, leaderboardCacheTTL).Err(); err != nil {
			log.Printf("Failed to cache leaderboard %s in redis: %v", category, err)
		}
	}
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
