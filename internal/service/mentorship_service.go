package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BLUETOID/RIMAP/internal/model"
	"github.com/BLUETOID/RIMAP/internal/repository"
	"github.com/BLUETOID/RIMAP/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type SendMentorshipInput struct {
	MentorID  uuid.UUID
	Subject   string
	Message   string
	Expertise string
}

type MentorshipService interface {
	// SendRequest creates a pending request to a verified alumni mentor and
	// awards the mentee's request points.
	SendRequest(ctx context.Context, menteeID uuid.UUID, input SendMentorshipInput) (*model.MentorshipRequest, error)
	Respond(ctx context.Context, mentorID uuid.UUID, requestID uuid.UUID, accept bool) (*model.MentorshipRequest, error)
	GetForMentor(ctx context.Context, mentorID uuid.UUID) ([]model.MentorshipRequest, error)
	GetForMentee(ctx context.Context, menteeID uuid.UUID) ([]model.MentorshipRequest, error)
}

type mentorshipService struct {
	repo         repository.MentorshipRepository
	users        repository.UserRepository
	gamification GamificationService
	notifier     NotificationService
	redisClient  *redis.Client
}

func NewMentorshipService(repo repository.MentorshipRepository, users repository.UserRepository, gamification GamificationService, notifier NotificationService, redisClient *redis.Client) MentorshipService {
	return &mentorshipService{
		repo:         repo,
		users:        users,
		gamification: gamification,
		notifier:     notifier,
		redisClient:  redisClient,
	}
}

func (s *mentorshipService) SendRequest(ctx context.Context, menteeID uuid.UUID, input SendMentorshipInput) (*model.MentorshipRequest, error) {
	if input.MentorID == menteeID {
		return nil, apperror.ErrInvalidInput
	}

	requestLimit := GetDurationFromEnv("RATE_LIMIT_MENTORSHIP", time.Minute)
	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, menteeID, "mentorship", requestLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		ttl, _ := GetRateLimitTTL(ctx, s.redisClient, menteeID, "mentorship")
		return nil, &RateLimitError{
			Message:    fmt.Sprintf("you can only send one mentorship request every %.0f seconds. Please wait %.0f seconds", requestLimit.Seconds(), ttl.Seconds()),
			RetryAfter: ttl,
		}
	}

	mentor, err := s.users.FindByID(ctx, input.MentorID.String())
	if err != nil {
		_ = ClearRateLimit(ctx, s.redisClient, menteeID, "mentorship")
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	if mentor.Role.Name != "alumni" || !mentor.IsVerified {
		_ = ClearRateLimit(ctx, s.redisClient, menteeID, "mentorship")
		return nil, apperror.ErrBadRequest
	}

	// One pending request per mentor/mentee pair.
	if _, err := s.repo.FindPendingBetween(ctx, input.MentorID, menteeID); err == nil {
		_ = ClearRateLimit(ctx, s.redisClient, menteeID, "mentorship")
		return nil, apperror.ErrAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	request := &model.MentorshipRequest{
		MentorID:  input.MentorID,
		MenteeID:  menteeID,
		Subject:   input.Subject,
		Message:   input.Message,
		Expertise: input.Expertise,
		Status:    model.MentorshipPending,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, err
	}

	if s.gamification != nil {
		requestID := request.ID.String()
		reason := fmt.Sprintf("Requested mentorship from %s", mentor.Name)
		if err := s.gamification.AddPoints(ctx, menteeID, PointsMentorshipRequest, reason, model.ActionMentorshipRequest, &requestID); err != nil {
			return nil, err
		}
	}

	if s.notifier != nil {
		_ = s.notifier.CreateNotification(ctx, &model.Notification{
			UserID:     input.MentorID,
			EntityID:   request.ID.String(),
			EntityType: "mentorship",
			Type:       "mentorship_request",
			Message:    fmt.Sprintf("New mentorship request: %s", input.Subject),
		})
	}

	return request, nil
}

func (s *mentorshipService) Respond(ctx context.Context, mentorID uuid.UUID, requestID uuid.UUID, accept bool) (*model.MentorshipRequest, error) {
	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if request.MentorID != mentorID {
		return nil, apperror.ErrForbidden
	}
	if request.Status != model.MentorshipPending {
		return nil, apperror.ErrBadRequest
	}

	if accept {
		request.Status = model.MentorshipAccepted
	} else {
		request.Status = model.MentorshipDeclined
	}

	if err := s.repo.Update(ctx, request); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		_ = s.notifier.CreateNotification(ctx, &model.Notification{
			UserID:     request.MenteeID,
			EntityID:   request.ID.String(),
			EntityType: "mentorship",
			Type:       "mentorship_response",
			Message:    fmt.Sprintf("Your mentorship request %q was %s", request.Subject, request.Status),
		})
	}

	return request, nil
}

func (s *mentorshipService) GetForMentor(ctx context.Context, mentorID uuid.UUID) ([]model.MentorshipRequest, error) {
	return s.repo.FindByMentor(ctx, mentorID)
}

func (s *mentorshipService) GetForMentee(ctx context.Context, menteeID uuid.UUID) ([]model.MentorshipRequest, error) {
	return s.repo.FindByMentee(ctx, menteeID)
}
