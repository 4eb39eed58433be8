package repository

import (
	"context"

	"github.com/BLUETOID/RIMAP/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MentorshipRepository interface {
	Create(ctx context.Context, request *model.MentorshipRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MentorshipRequest, error)
	FindByMentor(ctx context.Context, mentorID uuid.UUID) ([]model.MentorshipRequest, error)
	FindByMentee(ctx context.Context, menteeID uuid.UUID) ([]model.MentorshipRequest, error)
	FindPendingBetween(ctx context.Context, mentorID, menteeID uuid.UUID) (*model.MentorshipRequest, error)
	Update(ctx context.Context, request *model.MentorshipRequest) error
}

type mentorshipRepository struct {
	db *gorm.DB
}

func NewMentorshipRepository(db *gorm.DB) MentorshipRepository {
	return &mentorshipRepository{db: db}
}

func (r *mentorshipRepository) Create(ctx context.Context, request *model.MentorshipRequest) error {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *mentorshipRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.MentorshipRequest, error) {
	var request model.MentorshipRequest
	if err := r.db.WithContext(ctx).
		Preload("Mentor").
		Preload("Mentee").
		Where("id = ?", id).
		First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *mentorshipRepository) FindByMentor(ctx context.Context, mentorID uuid.UUID) ([]model.MentorshipRequest, error) {
	var requests []model.MentorshipRequest
	if err := r.db.WithContext(ctx).
		Preload("Mentee").
		Where("mentor_id = ?", mentorID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *mentorshipRepository) FindByMentee(ctx context.Context, menteeID uuid.UUID) ([]model.MentorshipRequest, error) {
	var requests []model.MentorshipRequest
	if err := r.db.WithContext(ctx).
		Preload("Mentor").
		Where("mentee_id = ?", menteeID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *mentorshipRepository) FindPendingBetween(ctx context.Context, mentorID, menteeID uuid.UUID) (*model.MentorshipRequest, error) {
	var request model.MentorshipRequest
	if err := r.db.WithContext(ctx).
		Where("mentor_id = ? AND mentee_id = ? AND status = ?", mentorID, menteeID, model.MentorshipPending).
		First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *mentorshipRepository) Update(ctx context.Context, request *model.MentorshipRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}
