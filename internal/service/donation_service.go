package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/BLUETOID/RIMAP/internal/model"
	"github.com/BLUETOID/RIMAP/internal/repository"
	"github.com/BLUETOID/RIMAP/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DonateInput struct {
	Amount    int
	Anonymous bool
	Message   string
}

type DonationService interface {
	GetCauses(ctx context.Context, category string) ([]model.DonationCause, error)
	GetCause(ctx context.Context, id string) (*model.DonationCause, error)
	// Donate records a donation against a cause and awards one point per 100
	// rupees donated.
	Donate(ctx context.Context, userID uuid.UUID, causeID string, input DonateInput) (*model.DonationRecord, error)
	GetUserDonations(ctx context.Context, userID uuid.UUID) ([]model.DonationRecord, error)
}

type donationService struct {
	repo         repository.DonationRepository
	gamification GamificationService
}

func NewDonationService(repo repository.DonationRepository, gamification GamificationService) DonationService {
	return &donationService{
		repo:         repo,
		gamification: gamification,
	}
}

func (s *donationService) GetCauses(ctx context.Context, category string) ([]model.DonationCause, error) {
	if category == "" || category == "all" {
		return s.repo.FindAllCauses(ctx)
	}

	switch model.DonationCategory(category) {
	case model.DonationCategoryInfrastructure, model.DonationCategoryScholarships,
		model.DonationCategoryResearch, model.DonationCategoryEvents:
		return s.repo.FindCausesByCategory(ctx, model.DonationCategory(category))
	default:
		return nil, apperror.ErrBadRequest
	}
}

func (s *donationService) GetCause(ctx context.Context, id string) (*model.DonationCause, error) {
	cause, err := s.repo.FindCauseByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return cause, nil
}

func (s *donationService) Donate(ctx context.Context, userID uuid.UUID, causeID string, input DonateInput) (*model.DonationRecord, error) {
	if input.Amount <= 0 {
		return nil, apperror.ErrInvalidInput
	}

	cause, err := s.GetCause(ctx, causeID)
	if err != nil {
		return nil, err
	}

	record := &model.DonationRecord{
		ID:        uuid.New(),
		CauseID:   causeID,
		UserID:    userID,
		Amount:    input.Amount,
		Anonymous: input.Anonymous,
		Message:   input.Message,
	}
	if err := s.repo.RecordDonation(ctx, record); err != nil {
		return nil, err
	}

	points := input.Amount / RupeesPerDonationPoint
	if points > 0 && s.gamification != nil {
		recordID := record.ID.String()
		reason := fmt.Sprintf("Donated ₹%d to %s", input.Amount, cause.Title)
		if err := s.gamification.AddPoints(ctx, userID, points, reason, model.ActionDonationMade, &recordID); err != nil {
			return nil, err
		}
	}

	return record, nil
}

func (s *donationService) GetUserDonations(ctx context.Context, userID uuid.UUID) ([]model.DonationRecord, error) {
	return s.repo.ListRecordsByUser(ctx, userID)
}
