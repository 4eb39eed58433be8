package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/BLUETOID/RIMAP/internal/model"
	"github.com/BLUETOID/RIMAP/internal/repository"
	"github.com/BLUETOID/RIMAP/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Fixed per-action point schedule. External flows (login, RSVP, donation,
// mentorship, profile) award these values through AddPoints.
const (
	PointsDailyLogin        = 5
	PointsWeeklyStreakBonus = 15
	PointsEventRSVP         = 30
	PointsMentorshipRequest = 25
	PointsProfileUpdated    = 10

	// One point per 100 rupees donated.
	RupeesPerDonationPoint = 100

	// The streak length that earns the weekly bonus. The bonus is paid once,
	// on the login that brings the streak to exactly this value.
	WeeklyStreakLength = 7
)

// GamificationStats is the read-only summary returned to the dashboard.
type GamificationStats struct {
	TotalPoints          int             `json:"total_points"`
	CurrentLevel         model.UserLevel `json:"current_level"`
	PointsToNextLevel    int             `json:"points_to_next_level"`
	AchievementsUnlocked int             `json:"achievements_unlocked"`
	TotalAchievements    int             `json:"total_achievements"`
	CurrentStreak        int             `json:"current_streak"`
	LongestStreak        int             `json:"longest_streak"`
	Rank                 int             `json:"rank"`
}

// LoginResult reports what a login did to the user's streak and points.
type LoginResult struct {
	FirstLoginToday bool `json:"first_login_today"`
	Streak          int  `json:"streak"`
	LongestStreak   int  `json:"longest_streak"`
	PointsAwarded   int  `json:"points_awarded"`
}

// RankSource resolves a user's position on the last-computed overall
// leaderboard. Implemented by LeaderboardService.
type RankSource interface {
	OverallRank(ctx context.Context, userID uuid.UUID) (int, error)
}

type GamificationService interface {
	// AddPoints appends a user-action transaction, updates the user's total
	// and level, and runs the achievement-evaluation pass for the action.
	AddPoints(ctx context.Context, userID uuid.UUID, points int, reason, action string, relatedID *string) error
	// UnlockAchievement grants the achievement and its point reward. Calling
	// it again for an already-unlocked achievement is a no-op.
	UnlockAchievement(ctx context.Context, userID uuid.UUID, achievementID string) error
	JoinChallenge(ctx context.Context, userID uuid.UUID, challengeID string) error
	UpdateChallengeProgress(ctx context.Context, userID uuid.UUID, challengeID string, progress int) error
	RecordLogin(ctx context.Context, userID uuid.UUID, now time.Time) (*LoginResult, error)
	GetStats(ctx context.Context, userID uuid.UUID) (*GamificationStats, error)

	ListAchievements(ctx context.Context) ([]model.Achievement, error)
	ListUserAchievements(ctx context.Context, userID uuid.UUID) ([]model.UserAchievement, error)
	ListChallenges(ctx context.Context) ([]model.Challenge, error)
	ListUserChallenges(ctx context.Context, userID uuid.UUID) ([]model.UserChallenge, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.PointTransaction, error)
}

type gamificationService struct {
	users    repository.UserRepository
	repo     repository.GamificationRepository
	notifier NotificationService
	ranks    RankSource
}

// NewGamificationService wires the engine. notifier and ranks may be nil;
// notifications and the stats rank field degrade gracefully without them.
func NewGamificationService(users repository.UserRepository, repo repository.GamificationRepository, notifier NotificationService, ranks RankSource) GamificationService {
	return &gamificationService{
		users:    users,
		repo:     repo,
		notifier: notifier,
		ranks:    ranks,
	}
}

func (s *gamificationService) AddPoints(ctx context.Context, userID uuid.UUID, points int, reason, action string, relatedID *string) error {
	user, err := s.users.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	txn := &model.PointTransaction{
		UserID:    userID,
		Points:    points,
		Reason:    reason,
		Action:    action,
		Kind:      model.TransactionKindAction,
		RelatedID: relatedID,
	}
	if err := s.repo.CreateTransaction(ctx, txn); err != nil {
		return err
	}

	user.TotalPoints += points
	previous, leveledUp := s.applyLevel(user)

	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	if leveledUp {
		s.notifyLevelUp(ctx, user, previous)
	}

	// Only action-kind transactions reach this pass; reward payouts append
	// reward-kind transactions directly, so the pass can never re-enter itself.
	return s.evaluateAchievements(ctx, user, action)
}

func (s *gamificationService) UnlockAchievement(ctx context.Context, userID uuid.UUID, achievementID string) error {
	achievement, err := s.repo.FindAchievement(ctx, achievementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if _, err := s.repo.FindUserAchievement(ctx, userID, achievementID); err == nil {
		// Already unlocked.
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	user, err := s.users.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	return s.grantAchievement(ctx, user, achievement)
}

// grantAchievement records the unlock and pays the reward. The reward
// transaction is reward-kind, so it bypasses the achievement-evaluation pass.
func (s *gamificationService) grantAchievement(ctx context.Context, user *model.User, achievement *model.Achievement) error {
	ua := &model.UserAchievement{
		UserID:        user.ID,
		AchievementID: achievement.ID,
		UnlockedAt:    time.Now(),
		Progress:      achievement.RequiredCount,
	}
	if err := s.repo.CreateUserAchievement(ctx, ua); err != nil {
		return err
	}

	achievementID := achievement.ID
	txn := &model.PointTransaction{
		UserID:    user.ID,
		Points:    achievement.Points,
		Reason:    fmt.Sprintf("Achievement unlocked: %s", achievement.Title),
		Action:    model.ActionAchievementUnlock,
		Kind:      model.TransactionKindReward,
		RelatedID: &achievementID,
	}
	if err := s.repo.CreateTransaction(ctx, txn); err != nil {
		return err
	}

	user.TotalPoints += achievement.Points
	previous, leveledUp := s.applyLevel(user)

	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	if leveledUp {
		s.notifyLevelUp(ctx, user, previous)
	}

	s.notify(ctx, user.ID, &model.Notification{
		UserID:     user.ID,
		EntityID:   achievement.ID,
		EntityType: "gamification",
		Type:       "achievement_unlocked",
		Message:    fmt.Sprintf("🏆 Achievement unlocked: %s (+%d pts)", achievement.Title, achievement.Points),
	})

	return nil
}

// evaluateAchievements unlocks every still-locked achievement whose rule is
// now met: either the count of the user's transactions for the triggering
// action reached the threshold, or (for points_total rules) the running total
// did. Unlocks within the pass may raise the total and satisfy later
// points_total rules in the same pass; the pass itself is never re-run.
func (s *gamificationService) evaluateAchievements(ctx context.Context, user *model.User, action string) error {
	catalog, err := s.repo.ListAchievements(ctx)
	if err != nil {
		return err
	}

	unlocked, err := s.repo.ListUserAchievements(ctx, user.ID)
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(unlocked))
	for _, ua := range unlocked {
		have[ua.AchievementID] = true
	}

	for i := range catalog {
		achievement := &catalog[i]
		if have[achievement.ID] {
			continue
		}

		eligible := false
		switch achievement.RequiredAction {
		case model.ActionPointsTotal:
			eligible = user.TotalPoints >= achievement.RequiredCount
		case action:
			count, err := s.repo.CountTransactionsByAction(ctx, user.ID, action)
			if err != nil {
				return err
			}
			eligible = count >= int64(achievement.RequiredCount)
		}

		if !eligible {
			continue
		}

		if err := s.grantAchievement(ctx, user, achievement); err != nil {
			return err
		}
	}

	return nil
}

func (s *gamificationService) JoinChallenge(ctx context.Context, userID uuid.UUID, challengeID string) error {
	challenge, err := s.repo.FindChallenge(ctx, challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	now := time.Now()
	if !challenge.IsActive || now.Before(challenge.StartDate) || !now.Before(challenge.EndDate) {
		return apperror.ErrChallengeInactive
	}

	if _, err := s.repo.FindUserChallenge(ctx, userID, challengeID); err == nil {
		// Already joined.
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := s.repo.AddParticipant(ctx, &model.ChallengeParticipant{
		ChallengeID: challengeID,
		UserID:      userID,
		JoinedAt:    now,
	}); err != nil {
		return err
	}

	return s.repo.CreateUserChallenge(ctx, &model.UserChallenge{
		UserID:      userID,
		ChallengeID: challengeID,
		Progress:    0,
	})
}

func (s *gamificationService) UpdateChallengeProgress(ctx context.Context, userID uuid.UUID, challengeID string, progress int) error {
	uc, err := s.repo.FindUserChallenge(ctx, userID, challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	challenge, err := s.repo.FindChallenge(ctx, challengeID)
	if err != nil {
		return err
	}

	uc.Progress = progress

	if uc.Completed || progress < challenge.TargetCount {
		return s.repo.SaveUserChallenge(ctx, uc)
	}

	now := time.Now()
	uc.Completed = true
	uc.CompletedAt = &now
	if err := s.repo.SaveUserChallenge(ctx, uc); err != nil {
		return err
	}

	reason := fmt.Sprintf("Challenge completed: %s", challenge.Title)
	if err := s.AddPoints(ctx, userID, challenge.Points, reason, model.ActionChallengeComplete, &challenge.ID); err != nil {
		return err
	}

	s.notify(ctx, userID, &model.Notification{
		UserID:     userID,
		EntityID:   challenge.ID,
		EntityType: "gamification",
		Type:       "challenge_completed",
		Message:    fmt.Sprintf("🎯 Challenge completed: %s (+%d pts)", challenge.Title, challenge.Points),
	})

	return nil
}

func (s *gamificationService) RecordLogin(ctx context.Context, userID uuid.UUID, now time.Time) (*LoginResult, error) {
	user, err := s.users.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if user.LastLoginAt != nil && sameCalendarDay(*user.LastLoginAt, now) {
		// Second login of the day: streak and points stay untouched.
		return &LoginResult{
			FirstLoginToday: false,
			Streak:          user.LoginStreak,
			LongestStreak:   user.LongestStreak,
		}, nil
	}

	if user.LastLoginAt != nil && sameCalendarDay(*user.LastLoginAt, now.AddDate(0, 0, -1)) {
		user.LoginStreak++
	} else {
		user.LoginStreak = 1
	}
	if user.LoginStreak > user.LongestStreak {
		user.LongestStreak = user.LoginStreak
	}
	loginAt := now
	user.LastLoginAt = &loginAt

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	awarded := PointsDailyLogin
	if err := s.AddPoints(ctx, userID, PointsDailyLogin, "Daily login", model.ActionDailyLogin, nil); err != nil {
		return nil, err
	}

	if user.LoginStreak == WeeklyStreakLength {
		reason := fmt.Sprintf("%d-day login streak", WeeklyStreakLength)
		if err := s.AddPoints(ctx, userID, PointsWeeklyStreakBonus, reason, model.ActionWeeklyLoginStreak, nil); err != nil {
			return nil, err
		}
		awarded += PointsWeeklyStreakBonus
	}

	return &LoginResult{
		FirstLoginToday: true,
		Streak:          user.LoginStreak,
		LongestStreak:   user.LongestStreak,
		PointsAwarded:   awarded,
	}, nil
}

func (s *gamificationService) GetStats(ctx context.Context, userID uuid.UUID) (*GamificationStats, error) {
	user, err := s.users.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	unlocked, err := s.repo.ListUserAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.CountAchievements(ctx)
	if err != nil {
		return nil, err
	}

	// Rank reflects the leaderboard as last computed, 0 when unranked.
	rank := 0
	if s.ranks != nil {
		if r, err := s.ranks.OverallRank(ctx, userID); err == nil {
			rank = r
		}
	}

	status := GetLevelStatus(user.TotalPoints)

	return &GamificationStats{
		TotalPoints:          user.TotalPoints,
		CurrentLevel:         status.Level,
		PointsToNextLevel:    status.PointsToNext,
		AchievementsUnlocked: len(unlocked),
		TotalAchievements:    int(total),
		CurrentStreak:        user.LoginStreak,
		LongestStreak:        user.LongestStreak,
		Rank:                 rank,
	}, nil
}

func (s *gamificationService) ListAchievements(ctx context.Context) ([]model.Achievement, error) {
	return s.repo.ListAchievements(ctx)
}

func (s *gamificationService) ListUserAchievements(ctx context.Context, userID uuid.UUID) ([]model.UserAchievement, error) {
	return s.repo.ListUserAchievements(ctx, userID)
}

func (s *gamificationService) ListChallenges(ctx context.Context) ([]model.Challenge, error) {
	return s.repo.ListChallenges(ctx)
}

func (s *gamificationService) ListUserChallenges(ctx context.Context, userID uuid.UUID) ([]model.UserChallenge, error) {
	return s.repo.ListUserChallenges(ctx, userID)
}

func (s *gamificationService) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.PointTransaction, error) {
	return s.repo.ListTransactions(ctx, userID, limit, offset)
}

// applyLevel recomputes CurrentLevel from TotalPoints and reports a tier
// change. The caller persists the user and notifies after the save succeeds.
func (s *gamificationService) applyLevel(user *model.User) (model.UserLevel, bool) {
	newLevel := LevelForPoints(user.TotalPoints)
	if newLevel == user.CurrentLevel {
		return user.CurrentLevel, false
	}

	previous := user.CurrentLevel
	user.CurrentLevel = newLevel
	return previous, true
}

func (s *gamificationService) notifyLevelUp(ctx context.Context, user *model.User, previous model.UserLevel) {
	s.notify(ctx, user.ID, &model.Notification{
		UserID:     user.ID,
		EntityID:   user.ID.String(),
		EntityType: "gamification",
		Type:       "level_up",
		Message:    fmt.Sprintf("🎉 Level up! %s → %s with %d points", previous, user.CurrentLevel, user.TotalPoints),
	})
}

func (s *gamificationService) notify(ctx context.Context, userID uuid.UUID, notification *model.Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.CreateNotification(ctx, notification); err != nil {
		log.Printf("Failed to send notification to user %s: %v", userID, err)
	}
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
