package service

import (
	"context"
	"errors"
	"log"

	"github.com/BLUETOID/RIMAP/internal/model"
	"github.com/BLUETOID/RIMAP/internal/repository"
	"github.com/BLUETOID/RIMAP/pkg/apperror"
	"github.com/BLUETOID/RIMAP/pkg/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UpdateProfileInput struct {
	Name              *string
	GraduationYear    *int
	Department        *string
	CurrentCompany    *string
	Position          *string
	Skills            *string
	Bio               *string
	Location          *string
	ContactPreference *string
	Avatar            *AvatarFile
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*model.User, error)
	// UpdateProfile applies the changes; the first update that makes the
	// profile complete awards the profile points.
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*model.User, error)
}

type profileService struct {
	users        repository.UserRepository
	ledger       repository.GamificationRepository
	gamification GamificationService
	imageStorage storage.ImageStorage
	search       SearchService
}

func NewProfileService(users repository.UserRepository, ledger repository.GamificationRepository, gamification GamificationService, imageStorage storage.ImageStorage, search SearchService) ProfileService {
	return &profileService{
		users:        users,
		ledger:       ledger,
		gamification: gamification,
		imageStorage: imageStorage,
		search:       search,
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*model.User, error) {
	user, err := s.GetProfile(ctx, userID.String())
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != "" {
		user.Name = *input.Name
	}

	if input.Avatar != nil && input.Avatar.Reader != nil && s.imageStorage != nil {
		url, err := s.imageStorage.UploadImage(ctx, input.Avatar.Reader, "avatars", input.Avatar.FileName)
		if err != nil {
			return nil, err
		}
		if user.AvatarURL != nil {
			if err := s.imageStorage.DeleteImage(ctx, *user.AvatarURL); err != nil {
				log.Printf("Failed to delete previous avatar for user %s: %v", userID, err)
			}
		}
		user.AvatarURL = &url
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	profile := user.Profile
	if profile == nil {
		profile = &model.Profile{UserID: userID}
		user.Profile = profile
	}

	applyIfSet := func(dst **string, src *string) {
		if src != nil {
			*dst = src
		}
	}
	applyIfSet(&profile.Department, input.Department)
	applyIfSet(&profile.CurrentCompany, input.CurrentCompany)
	applyIfSet(&profile.Position, input.Position)
	applyIfSet(&profile.Skills, input.Skills)
	applyIfSet(&profile.Bio, input.Bio)
	applyIfSet(&profile.Location, input.Location)
	applyIfSet(&profile.ContactPreference, input.ContactPreference)
	if input.GraduationYear != nil {
		profile.GraduationYear = input.GraduationYear
	}

	if err := s.users.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}

	if s.search != nil && user.Role.Name == "alumni" {
		if err := s.search.IndexAlumni(ctx, user); err != nil {
			log.Printf("Failed to reindex alumni %s: %v", userID, err)
		}
	}

	if profileComplete(profile) && s.gamification != nil && user.Role.Name != "admin" {
		count, err := s.ledger.CountTransactionsByAction(ctx, userID, model.ActionProfileUpdated)
		if err != nil {
			return nil, err
		}
		if count == 0 {
			if err := s.gamification.AddPoints(ctx, userID, PointsProfileUpdated, "Completed profile", model.ActionProfileUpdated, nil); err != nil {
				return nil, err
			}
		}
	}

	return s.GetProfile(ctx, userID.String())
}

func profileComplete(p *model.Profile) bool {
	set := func(s *string) bool { return s != nil && *s != "" }
	return p != nil &&
		p.GraduationYear != nil &&
		set(p.Department) &&
		set(p.CurrentCompany) &&
		set(p.Position) &&
		set(p.Skills) &&
		set(p.Bio)
}
