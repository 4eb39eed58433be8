package repository

import (
	"context"
	"time"

	"github.com/BLUETOID/RIMAP/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserScore is one aggregation row used to build leaderboard rankings.
type UserScore struct {
	UserID uuid.UUID
	Points int
}

// LeaderboardRepository provides the aggregate queries the ranking pass is
// built from. All queries exclude admin users; admins do not compete.
type LeaderboardRepository interface {
	TotalScores(ctx context.Context) ([]UserScore, error)
	ScoresSince(ctx context.Context, since time.Time) ([]UserScore, error)
	ScoresByActions(ctx context.Context, actions []string) ([]UserScore, error)
	TotalScoresByDepartment(ctx context.Context, department string) ([]UserScore, error)
}

type leaderboardRepository struct {
	db *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

func (r *leaderboardRepository) TotalScores(ctx context.Context) ([]UserScore, error) {
	var scores []UserScore
	if err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Select("users.id AS user_id, users.total_points AS points").
		Joins("LEFT JOIN roles ON roles.id = users.role_id").
		Where("roles.name <> ? OR roles.name IS NULL", "admin").
		Scan(&scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}

func (r *leaderboardRepository) ScoresSince(ctx context.Context, since time.Time) ([]UserScore, error) {
	var scores []UserScore
	if err := r.db.WithContext(ctx).
		Model(&model.PointTransaction{}).
		Select("point_transactions.user_id AS user_id, COALESCE(SUM(point_transactions.points), 0) AS points").
		Joins("JOIN users ON users.id = point_transactions.user_id").
		Joins("LEFT JOIN roles ON roles.id = users.role_id").
		Where("roles.name <> ? OR roles.name IS NULL", "admin").
		Where("point_transactions.created_at >= ?", since).
		Group("point_transactions.user_id").
		Scan(&scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}

func (r *leaderboardRepository) ScoresByActions(ctx context.Context, actions []string) ([]UserScore, error) {
	var scores []UserScore
	if err := r.db.WithContext(ctx).
		Model(&model.PointTransaction{}).
		Select("point_transactions.user_id AS user_id, COALESCE(SUM(point_transactions.points), 0) AS points").
		Joins("JOIN users ON users.id = point_transactions.user_id").
		Joins("LEFT JOIN roles ON roles.id = users.role_id").
		Where("roles.name <> ? OR roles.name IS NULL", "admin").
		Where("point_transactions.action IN ?", actions).
		Group("point_transactions.user_id").
		Scan(&scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}

func (r *leaderboardRepository) TotalScoresByDepartment(ctx context.Context, department string) ([]UserScore, error) {
	var scores []UserScore
	if err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Select("users.id AS user_id, users.total_points AS points").
		Joins("JOIN profiles ON profiles.user_id = users.id").
		Joins("LEFT JOIN roles ON roles.id = users.role_id").
		Where("roles.name <> ? OR roles.name IS NULL", "admin").
		Where("profiles.department = ?", department).
		Scan(&scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}
