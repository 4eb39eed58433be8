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

type EventService interface {
	GetEvents(ctx context.Context, eventType string) ([]model.Event, error)
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	// RSVP records or updates the user's RSVP. A first transition to
	// "attending" awards event points; flipping the status later never awards
	// them again (the ledger is append-only, no clawback).
	RSVP(ctx context.Context, userID uuid.UUID, eventID string, status model.RSVPStatus) (*model.EventRSVP, error)
}

type eventService struct {
	repo         repository.EventRepository
	gamification GamificationService
}

func NewEventService(repo repository.EventRepository, gamification GamificationService) EventService {
	return &eventService{
		repo:         repo,
		gamification: gamification,
	}
}

func (s *eventService) GetEvents(ctx context.Context, eventType string) ([]model.Event, error) {
	if eventType == "" || eventType == "all" {
		return s.repo.FindAll(ctx)
	}

	switch model.EventType(eventType) {
	case model.EventTypeReunion, model.EventTypeWebinar, model.EventTypeHackathon, model.EventTypeNetworking:
		return s.repo.FindByType(ctx, model.EventType(eventType))
	default:
		return nil, apperror.ErrBadRequest
	}
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *eventService) RSVP(ctx context.Context, userID uuid.UUID, eventID string, status model.RSVPStatus) (*model.EventRSVP, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindRSVP(ctx, eventID, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	wasAttending := existing != nil && existing.Status == model.RSVPAttending
	isAttending := status == model.RSVPAttending

	if isAttending && !wasAttending && event.CurrentAttendees >= event.MaxAttendees {
		return nil, apperror.ErrEventFull
	}

	delta := 0
	if isAttending && !wasAttending {
		delta = 1
	} else if wasAttending && !isAttending {
		delta = -1
	}

	rsvp := existing
	if rsvp == nil {
		rsvp = &model.EventRSVP{
			EventID: eventID,
			UserID:  userID,
		}
	}
	rsvp.Status = status

	awardPoints := isAttending && !rsvp.PointsAwarded
	if awardPoints {
		rsvp.PointsAwarded = true
	}

	if err := s.repo.SaveRSVP(ctx, rsvp, delta); err != nil {
		return nil, err
	}

	if awardPoints && s.gamification != nil {
		reason := fmt.Sprintf("RSVP'd to %s", event.Title)
		if err := s.gamification.AddPoints(ctx, userID, PointsEventRSVP, reason, model.ActionEventRSVP, &event.ID); err != nil {
			return nil, err
		}
	}

	return rsvp, nil
}
