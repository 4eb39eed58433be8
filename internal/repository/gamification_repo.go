package repository

import (
	"context"
	"time"

	"github.com/BLUETOID/RIMAP/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GamificationRepository owns the point-transaction ledger, the achievement
// and challenge catalogs, and the per-user unlock/progress records.
type GamificationRepository interface {
	CreateTransaction(ctx context.Context, txn *model.PointTransaction) error
	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.PointTransaction, error)
	CountTransactionsByAction(ctx context.Context, userID uuid.UUID, action string) (int64, error)
	SumTransactions(ctx context.Context, userID uuid.UUID) (int64, error)

	ListAchievements(ctx context.Context) ([]model.Achievement, error)
	FindAchievement(ctx context.Context, id string) (*model.Achievement, error)
	ListUserAchievements(ctx context.Context, userID uuid.UUID) ([]model.UserAchievement, error)
	FindUserAchievement(ctx context.Context, userID uuid.UUID, achievementID string) (*model.UserAchievement, error)
	CreateUserAchievement(ctx context.Context, ua *model.UserAchievement) error
	CountAchievements(ctx context.Context) (int64, error)

	ListChallenges(ctx context.Context) ([]model.Challenge, error)
	FindChallenge(ctx context.Context, id string) (*model.Challenge, error)
	AddParticipant(ctx context.Context, p *model.ChallengeParticipant) error
	FindUserChallenge(ctx context.Context, userID uuid.UUID, challengeID string) (*model.UserChallenge, error)
	ListUserChallenges(ctx context.Context, userID uuid.UUID) ([]model.UserChallenge, error)
	CreateUserChallenge(ctx context.Context, uc *model.UserChallenge) error
	SaveUserChallenge(ctx context.Context, uc *model.UserChallenge) error
}

type gamificationRepository struct {
	db *gorm.DB
}

func NewGamificationRepository(db *gorm.DB) GamificationRepository {
	return &gamificationRepository{db: db}
}

func (r *gamificationRepository) CreateTransaction(ctx context.Context, txn *model.PointTransaction) error {
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *gamificationRepository) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.PointTransaction, error) {
	var txns []model.PointTransaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *gamificationRepository) CountTransactionsByAction(ctx context.Context, userID uuid.UUID, action string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.PointTransaction{}).
		Where("user_id = ? AND action = ?", userID, action).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *gamificationRepository) SumTransactions(ctx context.Context, userID uuid.UUID) (int64, error) {
	var sum int64
	if err := r.db.WithContext(ctx).
		Model(&model.PointTransaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}

func (r *gamificationRepository) ListAchievements(ctx context.Context) ([]model.Achievement, error) {
	var achievements []model.Achievement
	if err := r.db.WithContext(ctx).Order("id").Find(&achievements).Error; err != nil {
		return nil, err
	}
	return achievements, nil
}

func (r *gamificationRepository) FindAchievement(ctx context.Context, id string) (*model.Achievement, error) {
	var achievement model.Achievement
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&achievement).Error; err != nil {
		return nil, err
	}
	return &achievement, nil
}

func (r *gamificationRepository) ListUserAchievements(ctx context.Context, userID uuid.UUID) ([]model.UserAchievement, error) {
	var unlocked []model.UserAchievement
	if err := r.db.WithContext(ctx).
		Preload("Achievement").
		Where("user_id = ?", userID).
		Order("unlocked_at DESC").
		Find(&unlocked).Error; err != nil {
		return nil, err
	}
	return unlocked, nil
}

func (r *gamificationRepository) FindUserAchievement(ctx context.Context, userID uuid.UUID, achievementID string) (*model.UserAchievement, error) {
	var ua model.UserAchievement
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		First(&ua).Error; err != nil {
		return nil, err
	}
	return &ua, nil
}

func (r *gamificationRepository) CreateUserAchievement(ctx context.Context, ua *model.UserAchievement) error {
	return r.db.WithContext(ctx).Create(ua).Error
}

func (r *gamificationRepository) CountAchievements(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Achievement{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *gamificationRepository) ListChallenges(ctx context.Context) ([]model.Challenge, error) {
	var challenges []model.Challenge
	if err := r.db.WithContext(ctx).
		Preload("Participants").
		Order("start_date").
		Find(&challenges).Error; err != nil {
		return nil, err
	}
	return challenges, nil
}

func (r *gamificationRepository) FindChallenge(ctx context.Context, id string) (*model.Challenge, error) {
	var challenge model.Challenge
	if err := r.db.WithContext(ctx).
		Preload("Participants").
		Where("id = ?", id).
		First(&challenge).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *gamificationRepository) AddParticipant(ctx context.Context, p *model.ChallengeParticipant) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *gamificationRepository) FindUserChallenge(ctx context.Context, userID uuid.UUID, challengeID string) (*model.UserChallenge, error) {
	var uc model.UserChallenge
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		First(&uc).Error; err != nil {
		return nil, err
	}
	return &uc, nil
}

func (r *gamificationRepository) ListUserChallenges(ctx context.Context, userID uuid.UUID) ([]model.UserChallenge, error) {
	var challenges []model.UserChallenge
	if err := r.db.WithContext(ctx).
		Preload("Challenge").
		Where("user_id = ?", userID).
		Find(&challenges).Error; err != nil {
		return nil, err
	}
	return challenges, nil
}

func (r *gamificationRepository) CreateUserChallenge(ctx context.Context, uc *model.UserChallenge) error {
	return r.db.WithContext(ctx).Create(uc).Error
}

func (r *gamificationRepository) SaveUserChallenge(ctx context.Context, uc *model.UserChallenge) error {
	return r.db.WithContext(ctx).Save(uc).Error
}
