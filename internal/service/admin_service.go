package service

import (
	"context"
	"errors"
	"log"

	"github.com/BLUETOID/RIMAP/internal/model"
	"github.com/BLUETOID/RIMAP/internal/repository"
	"github.com/BLUETOID/RIMAP/pkg/apperror"
	"gorm.io/gorm"
)

type AdminService interface {
	GetAllUsers(ctx context.Context) ([]*model.User, error)
	GetPendingVerifications(ctx context.Context) ([]*model.User, error)
	ApproveVerification(ctx context.Context, userID string) (*model.User, error)
	RejectVerification(ctx context.Context, userID string) error
	DeleteUser(ctx context.Context, id string) error
}

type adminService struct {
	repo     repository.UserRepository
	search   SearchService
	notifier NotificationService
}

func NewAdminService(repo repository.UserRepository, search SearchService, notifier NotificationService) AdminService {
	return &adminService{
		repo:     repo,
		search:   search,
		notifier: notifier,
	}
}

func (s *adminService) GetAllUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.PasswordHash = ""
	}
	return users, nil
}

func (s *adminService) GetPendingVerifications(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.FindUnverified(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.PasswordHash = ""
	}
	return users, nil
}

func (s *adminService) ApproveVerification(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	if user.IsVerified {
		return nil, apperror.ErrBadRequest
	}

	user.IsVerified = true
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	// Verified alumni become discoverable in the directory.
	if s.search != nil {
		if err := s.search.IndexAlumni(ctx, user); err != nil {
			log.Printf("Failed to index verified alumni %s: %v", user.ID, err)
		}
	}

	if s.notifier != nil {
		_ = s.notifier.CreateNotification(ctx, &model.Notification{
			UserID:     user.ID,
			EntityID:   user.ID.String(),
			EntityType: "user",
			Type:       "verification_approved",
			Message:    "Your alumni verification has been approved",
		})
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *adminService) RejectVerification(ctx context.Context, userID string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}
	if user.IsVerified {
		return apperror.ErrBadRequest
	}

	if s.notifier != nil {
		_ = s.notifier.CreateNotification(ctx, &model.Notification{
			UserID:     user.ID,
			EntityID:   user.ID.String(),
			EntityType: "user",
			Type:       "verification_rejected",
			Message:    "Your alumni verification was rejected. Please contact support.",
		})
	}

	return s.repo.Delete(ctx, userID)
}

func (s *adminService) DeleteUser(ctx context.Context, id string) error {
	if s.search != nil {
		_ = s.search.RemoveAlumni(ctx, id)
	}
	return s.repo.Delete(ctx, id)
}
