package repository

import (
	"context"

	"github.com/BLUETOID/RIMAP/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DonationRepository interface {
	FindAllCauses(ctx context.Context) ([]model.DonationCause, error)
	FindCauseByID(ctx context.Context, id string) (*model.DonationCause, error)
	FindCausesByCategory(ctx context.Context, category model.DonationCategory) ([]model.DonationCause, error)
	RecordDonation(ctx context.Context, record *model.DonationRecord) error
	ListRecordsByUser(ctx context.Context, userID uuid.UUID) ([]model.DonationRecord, error)
	TotalRaised(ctx context.Context) (int64, error)
}

type donationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) FindAllCauses(ctx context.Context) ([]model.DonationCause, error) {
	var causes []model.DonationCause
	if err := r.db.WithContext(ctx).Order("end_date").Find(&causes).Error; err != nil {
		return nil, err
	}
	return causes, nil
}

func (r *donationRepository) FindCauseByID(ctx context.Context, id string) (*model.DonationCause, error) {
	var cause model.DonationCause
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&cause).Error; err != nil {
		return nil, err
	}
	return &cause, nil
}

func (r *donationRepository) FindCausesByCategory(ctx context.Context, category model.DonationCategory) ([]model.DonationCause, error) {
	var causes []model.DonationCause
	if err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("end_date").
		Find(&causes).Error; err != nil {
		return nil, err
	}
	return causes, nil
}

// RecordDonation appends the donation record and bumps the cause's raised
// amount and donor count atomically.
func (r *donationRepository) RecordDonation(ctx context.Context, record *model.DonationRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return err
		}

		return tx.Model(&model.DonationCause{}).
			Where("id = ?", record.CauseID).
			Updates(map[string]interface{}{
				"raised": gorm.Expr("raised + ?", record.Amount),
				"donors": gorm.Expr("donors + 1"),
			}).Error
	})
}

func (r *donationRepository) ListRecordsByUser(ctx context.Context, userID uuid.UUID) ([]model.DonationRecord, error) {
	var records []model.DonationRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *donationRepository) TotalRaised(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&model.DonationCause{}).
		Select("COALESCE(SUM(raised), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
