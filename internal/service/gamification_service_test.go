package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BLUETOID/RIMAP/internal/model"
	"github.com/BLUETOID/RIMAP/pkg/apperror"
	"github.com/google/uuid"
)

func newTestEngine() (*fakeUserRepo, *fakeGamificationRepo, *fakeNotifier, GamificationService, uuid.UUID) {
	users := newFakeUserRepo()
	repo := newFakeGamificationRepo()
	notifier := &fakeNotifier{}

	user := &model.User{
		Name:         "Test Alumni",
		Email:        "test@example.com",
		CurrentLevel: model.LevelBronze,
	}
	users.addUser(user)

	svc := NewGamificationService(users, repo, notifier, nil)
	return users, repo, notifier, svc, user.ID
}

func TestAddPointsUpdatesTotalAndLevel(t *testing.T) {
	users, _, _, svc, userID := newTestEngine()
	ctx := context.Background()

	if err := svc.AddPoints(ctx, userID, 250, "bulk award", model.ActionProfileUpdated, nil); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}

	user, _ := users.FindByID(ctx, userID.String())
	if user.TotalPoints != 250 {
		t.Errorf("total points = %d, want 250", user.TotalPoints)
	}
	if user.CurrentLevel != model.LevelSilver {
		t.Errorf("level = %s, want Silver", user.CurrentLevel)
	}
}

func TestAddPointsUnknownUser(t *testing.T) {
	_, _, _, svc, _ := newTestEngine()

	err := svc.AddPoints(context.Background(), uuid.New(), 10, "x", model.ActionDailyLogin, nil)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLedgerSumMatchesTotalPoints(t *testing.T) {
	users, repo, _, svc, userID := newTestEngine()
	ctx := context.Background()

	repo.achievements = []model.Achievement{
		{ID: "silver-club", Title: "Silver Club", Points: 25, RequiredAction: model.ActionPointsTotal, RequiredCount: 200},
	}

	for i := 0; i < 8; i++ {
		if err := svc.AddPoints(ctx, userID, 30, "rsvp", model.ActionEventRSVP, nil); err != nil {
			t.Fatalf("AddPoints: %v", err)
		}
	}

	user, _ := users.FindByID(ctx, userID.String())
	sum, _ := repo.SumTransactions(ctx, userID)
	if int64(user.TotalPoints) != sum {
		t.Errorf("total points %d != ledger sum %d", user.TotalPoints, sum)
	}
}

func TestLevelUpEmitsNotification(t *testing.T) {
	_, _, notifier, svc, userID := newTestEngine()
	ctx := context.Background()

	if err := svc.AddPoints(ctx, userID, 200, "boost", model.ActionProfileUpdated, nil); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}

	if notifier.countByType("level_up") != 1 {
		t.Errorf("level_up notifications = %d, want 1", notifier.countByType("level_up"))
	}
}

func TestLevelUpNotifiesOnlyAfterSave(t *testing.T) {
	users, _, notifier, svc, userID := newTestEngine()
	ctx := context.Background()

	users.updateErr = errors.New("connection reset")
	if err := svc.AddPoints(ctx, userID, 250, "boost", model.ActionProfileUpdated, nil); err == nil {
		t.Fatal("AddPoints succeeded despite failing save")
	}
	if notifier.countByType("level_up") != 0 {
		t.Errorf("level_up notifications = %d after failed save, want 0", notifier.countByType("level_up"))
	}

	users.updateErr = nil
	if err := svc.AddPoints(ctx, userID, 250, "boost", model.ActionProfileUpdated, nil); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}
	if notifier.countByType("level_up") != 1 {
		t.Errorf("level_up notifications = %d, want 1", notifier.countByType("level_up"))
	}
}

func TestUnlockAchievementIsIdempotent(t *testing.T) {
	users, repo, _, svc, userID := newTestEngine()
	ctx := context.Background()

	repo.achievements = []model.Achievement{
		{ID: "first-event", Title: "Showing Up", Points: 15, RequiredAction: model.ActionEventRSVP, RequiredCount: 1},
	}

	for i := 0; i < 3; i++ {
		if err := svc.UnlockAchievement(ctx, userID, "first-event"); err != nil {
			t.Fatalf("UnlockAchievement #%d: %v", i, err)
		}
	}

	unlocked, _ := repo.ListUserAchievements(ctx, userID)
	if len(unlocked) != 1 {
		t.Fatalf("unlocked = %d, want 1", len(unlocked))
	}

	rewards := 0
	for _, txn := range repo.transactions {
		if txn.Action == model.ActionAchievementUnlock {
			rewards++
			if txn.Kind != model.TransactionKindReward {
				t.Errorf("reward transaction has kind %q, want reward", txn.Kind)
			}
		}
	}
	if rewards != 1 {
		t.Errorf("reward transactions = %d, want 1", rewards)
	}

	user, _ := users.FindByID(ctx, userID.String())
	if user.TotalPoints != 15 {
		t.Errorf("total points = %d, want 15", user.TotalPoints)
	}
}

func TestUnlockAchievementUnknownID(t *testing.T) {
	_, _, _, svc, userID := newTestEngine()

	err := svc.UnlockAchievement(context.Background(), userID, "no-such-achievement")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestActionCountAchievementUnlocksOnThreshold(t *testing.T) {
	_, repo, notifier, svc, userID := newTestEngine()
	ctx := context.Background()

	repo.achievements = []model.Achievement{
		{ID: "event-regular", Title: "Event Regular", Points: 75, RequiredAction: model.ActionEventRSVP, RequiredCount: 10},
	}

	for i := 0; i < 9; i++ {
		if err := svc.AddPoints(ctx, userID, PointsEventRSVP, "rsvp", model.ActionEventRSVP, nil); err != nil {
			t.Fatalf("AddPoints: %v", err)
		}
		unlocked, _ := repo.ListUserAchievements(ctx, userID)
		if len(unlocked) != 0 {
			t.Fatalf("achievement unlocked after %d actions, want none before 10", i+1)
		}
	}

	if err := svc.AddPoints(ctx, userID, PointsEventRSVP, "rsvp", model.ActionEventRSVP, nil); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}

	unlocked, _ := repo.ListUserAchievements(ctx, userID)
	if len(unlocked) != 1 {
		t.Fatalf("unlocked = %d, want 1 after the 10th action", len(unlocked))
	}
	if notifier.countByType("achievement_unlocked") != 1 {
		t.Errorf("achievement_unlocked notifications = %d, want 1", notifier.countByType("achievement_unlocked"))
	}
}

func TestPointsTotalAchievementCascade(t *testing.T) {
	users, repo, _, svc, userID := newTestEngine()
	ctx := context.Background()

	// 480 existing points, then +20 crosses 500: the Gold Club points_total
	// achievement must unlock in the same evaluation pass.
	repo.achievements = []model.Achievement{
		{ID: "gold-club", Title: "Gold Club", Points: 50, RequiredAction: model.ActionPointsTotal, RequiredCount: 500},
	}

	if err := svc.AddPoints(ctx, userID, 480, "seed", model.ActionProfileUpdated, nil); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}
	if err := svc.AddPoints(ctx, userID, 20, "tip over", model.ActionProfileUpdated, nil); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}

	unlocked, _ := repo.ListUserAchievements(ctx, userID)
	if len(unlocked) != 1 || unlocked[0].AchievementID != "gold-club" {
		t.Fatalf("unlocked = %+v, want gold-club", unlocked)
	}

	user, _ := users.FindByID(ctx, userID.String())
	if user.TotalPoints != 550 {
		t.Errorf("total points = %d, want 550 (500 + 50 reward)", user.TotalPoints)
	}
	if user.CurrentLevel != model.LevelGold {
		t.Errorf("level = %s, want Gold", user.CurrentLevel)
	}
}

func TestRewardTransactionsDoNotRetriggerEvaluation(t *testing.T) {
	_, repo, _, svc, userID := newTestEngine()
	ctx := context.Background()

	// An achievement keyed on the unlock action itself would only fire if the
	// reward payout re-entered the evaluation pass. It must stay locked.
	repo.achievements = []model.Achievement{
		{ID: "first-event", Title: "Showing Up", Points: 15, RequiredAction: model.ActionEventRSVP, RequiredCount: 1},
		{ID: "meta", Title: "Meta", Points: 5, RequiredAction: model.ActionAchievementUnlock, RequiredCount: 1},
	}

	if err := svc.AddPoints(ctx, userID, PointsEventRSVP, "rsvp", model.ActionEventRSVP, nil); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}

	unlocked, _ := repo.ListUserAchievements(ctx, userID)
	if len(unlocked) != 1 || unlocked[0].AchievementID != "first-event" {
		t.Fatalf("unlocked = %+v, want only first-event", unlocked)
	}
}

func challengeWindow(now time.Time) (time.Time, time.Time) {
	return now.Add(-time.Hour), now.Add(24 * time.Hour)
}

func TestJoinChallenge(t *testing.T) {
	_, repo, _, svc, userID := newTestEngine()
	ctx := context.Background()

	start, end := challengeWindow(time.Now())
	repo.challenges["monthly-events"] = &model.Challenge{
		ID: "monthly-events", Title: "Event Explorer", Points: 100,
		StartDate: start, EndDate: end,
		TargetAction: model.ActionEventRSVP, TargetCount: 3, IsActive: true,
	}

	if err := svc.JoinChallenge(ctx, userID, "monthly-events"); err != nil {
		t.Fatalf("JoinChallenge: %v", err)
	}

	// Re-joining is a no-op, not an error.
	if err := svc.JoinChallenge(ctx, userID, "monthly-events"); err != nil {
		t.Fatalf("re-join: %v", err)
	}
	if len(repo.participants) != 1 {
		t.Errorf("participants = %d, want 1", len(repo.participants))
	}

	if err := svc.JoinChallenge(ctx, userID, "no-such-challenge"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("unknown challenge err = %v, want ErrNotFound", err)
	}
}

func TestJoinChallengeOutsideWindow(t *testing.T) {
	_, repo, _, svc, userID := newTestEngine()
	ctx := context.Background()

	now := time.Now()
	cases := []struct {
		name      string
		start     time.Time
		end       time.Time
		active    bool
	}{
		{"not started", now.Add(time.Hour), now.Add(48 * time.Hour), true},
		{"ended", now.Add(-48 * time.Hour), now.Add(-time.Hour), true},
		{"inactive", now.Add(-time.Hour), now.Add(24 * time.Hour), false},
	}

	for _, tc := range cases {
		repo.challenges["c"] = &model.Challenge{
			ID: "c", StartDate: tc.start, EndDate: tc.end, IsActive: tc.active,
			TargetAction: model.ActionEventRSVP, TargetCount: 1,
		}
		if err := svc.JoinChallenge(ctx, userID, "c"); !errors.Is(err, apperror.ErrChallengeInactive) {
			t.Errorf("%s: err = %v, want ErrChallengeInactive", tc.name, err)
		}
	}
}

func TestChallengeCompletionIsOneShot(t *testing.T) {
	users, repo, notifier, svc, userID := newTestEngine()
	ctx := context.Background()

	start, end := challengeWindow(time.Now())
	repo.challenges["monthly-events"] = &model.Challenge{
		ID: "monthly-events", Title: "Event Explorer", Points: 100,
		StartDate: start, EndDate: end,
		TargetAction: model.ActionEventRSVP, TargetCount: 3, IsActive: true,
	}

	if err := svc.JoinChallenge(ctx, userID, "monthly-events"); err != nil {
		t.Fatalf("JoinChallenge: %v", err)
	}

	if err := svc.UpdateChallengeProgress(ctx, userID, "monthly-events", 2); err != nil {
		t.Fatalf("progress 2: %v", err)
	}
	user, _ := users.FindByID(ctx, userID.String())
	if user.TotalPoints != 0 {
		t.Fatalf("points awarded before target reached: %d", user.TotalPoints)
	}

	if err := svc.UpdateChallengeProgress(ctx, userID, "monthly-events", 3); err != nil {
		t.Fatalf("progress 3: %v", err)
	}
	user, _ = users.FindByID(ctx, userID.String())
	if user.TotalPoints != 100 {
		t.Fatalf("points = %d, want 100 on completion", user.TotalPoints)
	}

	// Crossing the target again must not re-award.
	if err := svc.UpdateChallengeProgress(ctx, userID, "monthly-events", 5); err != nil {
		t.Fatalf("progress 5: %v", err)
	}
	user, _ = users.FindByID(ctx, userID.String())
	if user.TotalPoints != 100 {
		t.Errorf("points = %d after re-crossing, want 100", user.TotalPoints)
	}
	if notifier.countByType("challenge_completed") != 1 {
		t.Errorf("challenge_completed notifications = %d, want 1", notifier.countByType("challenge_completed"))
	}

	// The payout routes through the action path, unlike achievement rewards.
	payouts := 0
	for _, txn := range repo.transactions {
		if txn.Action == model.ActionChallengeComplete {
			payouts++
			if txn.Kind != model.TransactionKindAction {
				t.Errorf("challenge payout has kind %q, want action", txn.Kind)
			}
		}
	}
	if payouts != 1 {
		t.Errorf("challenge payout transactions = %d, want 1", payouts)
	}
}

func TestAchievementKeyedOnChallengeCompletion(t *testing.T) {
	_, repo, _, svc, userID := newTestEngine()
	ctx := context.Background()

	start, end := challengeWindow(time.Now())
	repo.challenges["c"] = &model.Challenge{
		ID: "c", Title: "Sprint", Points: 50,
		StartDate: start, EndDate: end,
		TargetAction: model.ActionEventRSVP, TargetCount: 1, IsActive: true,
	}
	repo.achievements = []model.Achievement{
		{ID: "challenger", Title: "Challenger", Points: 20, RequiredAction: model.ActionChallengeComplete, RequiredCount: 1},
	}

	if err := svc.JoinChallenge(ctx, userID, "c"); err != nil {
		t.Fatalf("JoinChallenge: %v", err)
	}
	if err := svc.UpdateChallengeProgress(ctx, userID, "c", 1); err != nil {
		t.Fatalf("UpdateChallengeProgress: %v", err)
	}

	unlocked, _ := repo.ListUserAchievements(ctx, userID)
	if len(unlocked) != 1 || unlocked[0].AchievementID != "challenger" {
		t.Fatalf("unlocked = %+v, want challenger via the challenge payout", unlocked)
	}
}

func TestUpdateChallengeProgressNotJoined(t *testing.T) {
	_, repo, _, svc, userID := newTestEngine()

	start, end := challengeWindow(time.Now())
	repo.challenges["c"] = &model.Challenge{ID: "c", StartDate: start, EndDate: end, IsActive: true, TargetCount: 1}

	err := svc.UpdateChallengeProgress(context.Background(), userID, "c", 1)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRecordLoginFirstOfDay(t *testing.T) {
	users, _, _, svc, userID := newTestEngine()
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	result, err := svc.RecordLogin(ctx, userID, now)
	if err != nil {
		t.Fatalf("RecordLogin: %v", err)
	}
	if !result.FirstLoginToday {
		t.Error("first login of the day not reported")
	}
	if result.Streak != 1 {
		t.Errorf("streak = %d, want 1", result.Streak)
	}
	if result.PointsAwarded != PointsDailyLogin {
		t.Errorf("points awarded = %d, want %d", result.PointsAwarded, PointsDailyLogin)
	}

	user, _ := users.FindByID(ctx, userID.String())
	if user.TotalPoints != PointsDailyLogin {
		t.Errorf("total points = %d, want %d", user.TotalPoints, PointsDailyLogin)
	}
}

func TestRecordLoginSameDayIsNoOp(t *testing.T) {
	users, _, _, svc, userID := newTestEngine()
	ctx := context.Background()
	morning := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 10, 21, 30, 0, 0, time.UTC)

	if _, err := svc.RecordLogin(ctx, userID, morning); err != nil {
		t.Fatalf("RecordLogin: %v", err)
	}
	result, err := svc.RecordLogin(ctx, userID, evening)
	if err != nil {
		t.Fatalf("RecordLogin: %v", err)
	}

	if result.FirstLoginToday {
		t.Error("second login of the day flagged as first")
	}
	if result.PointsAwarded != 0 {
		t.Errorf("points awarded = %d, want 0", result.PointsAwarded)
	}
	user, _ := users.FindByID(ctx, userID.String())
	if user.TotalPoints != PointsDailyLogin || user.LoginStreak != 1 {
		t.Errorf("total=%d streak=%d, want total=%d streak=1", user.TotalPoints, user.LoginStreak, PointsDailyLogin)
	}
}

func TestRecordLoginStreakProgressionAndReset(t *testing.T) {
	users, _, _, svc, userID := newTestEngine()
	ctx := context.Background()
	day := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if _, err := svc.RecordLogin(ctx, userID, day.AddDate(0, 0, i)); err != nil {
			t.Fatalf("day %d: %v", i, err)
		}
	}

	user, _ := users.FindByID(ctx, userID.String())
	if user.LoginStreak != 3 || user.LongestStreak != 3 {
		t.Fatalf("streak=%d longest=%d, want 3/3", user.LoginStreak, user.LongestStreak)
	}

	// Skip a day: the streak resets to 1 but the longest streak survives.
	result, err := svc.RecordLogin(ctx, userID, day.AddDate(0, 0, 4))
	if err != nil {
		t.Fatalf("RecordLogin: %v", err)
	}
	if result.Streak != 1 {
		t.Errorf("streak = %d after gap, want 1", result.Streak)
	}
	user, _ = users.FindByID(ctx, userID.String())
	if user.LongestStreak != 3 {
		t.Errorf("longest streak = %d, want 3", user.LongestStreak)
	}
}

func TestRecordLoginWeeklyStreakBonusPaidOnceAtSeven(t *testing.T) {
	_, repo, _, svc, userID := newTestEngine()
	ctx := context.Background()
	day := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	var seventh *LoginResult
	for i := 0; i < 10; i++ {
		result, err := svc.RecordLogin(ctx, userID, day.AddDate(0, 0, i))
		if err != nil {
			t.Fatalf("day %d: %v", i, err)
		}
		if i == 6 {
			seventh = result
		}
	}

	if seventh.PointsAwarded != PointsDailyLogin+PointsWeeklyStreakBonus {
		t.Errorf("day-7 points = %d, want %d", seventh.PointsAwarded, PointsDailyLogin+PointsWeeklyStreakBonus)
	}

	bonuses, _ := repo.CountTransactionsByAction(ctx, userID, model.ActionWeeklyLoginStreak)
	if bonuses != 1 {
		t.Errorf("weekly bonus transactions = %d, want exactly 1 for a 10-day streak", bonuses)
	}
}

type fixedRank struct{ rank int }

func (f fixedRank) OverallRank(ctx context.Context, userID uuid.UUID) (int, error) {
	return f.rank, nil
}

func TestGetStats(t *testing.T) {
	users := newFakeUserRepo()
	repo := newFakeGamificationRepo()
	user := &model.User{Name: "A", Email: "a@x.com", TotalPoints: 320, CurrentLevel: model.LevelSilver, LoginStreak: 2, LongestStreak: 5}
	users.addUser(user)

	repo.achievements = []model.Achievement{
		{ID: "one", RequiredAction: model.ActionEventRSVP, RequiredCount: 1},
		{ID: "two", RequiredAction: model.ActionDonationMade, RequiredCount: 1},
	}
	repo.unlocked[user.ID] = []model.UserAchievement{{UserID: user.ID, AchievementID: "one"}}

	svc := NewGamificationService(users, repo, nil, fixedRank{rank: 4})

	stats, err := svc.GetStats(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}

	if stats.TotalPoints != 320 || stats.CurrentLevel != model.LevelSilver {
		t.Errorf("points/level = %d/%s, want 320/Silver", stats.TotalPoints, stats.CurrentLevel)
	}
	if stats.PointsToNextLevel != 180 {
		t.Errorf("points to next = %d, want 180", stats.PointsToNextLevel)
	}
	if stats.AchievementsUnlocked != 1 || stats.TotalAchievements != 2 {
		t.Errorf("achievements = %d/%d, want 1/2", stats.AchievementsUnlocked, stats.TotalAchievements)
	}
	if stats.Rank != 4 {
		t.Errorf("rank = %d, want 4", stats.Rank)
	}
}
