package repository

import (
	"context"

	"github.com/BLUETOID/RIMAP/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventRepository interface {
	FindAll(ctx context.Context) ([]model.Event, error)
	FindByID(ctx context.Context, id string) (*model.Event, error)
	FindByType(ctx context.Context, eventType model.EventType) ([]model.Event, error)
	Create(ctx context.Context, event *model.Event) error
	FindRSVP(ctx context.Context, eventID string, userID uuid.UUID) (*model.EventRSVP, error)
	SaveRSVP(ctx context.Context, rsvp *model.EventRSVP, attendeeDelta int) error
	Count(ctx context.Context) (int64, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) FindAll(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	if err := r.db.WithContext(ctx).Order("date").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) FindByID(ctx context.Context, id string) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) FindByType(ctx context.Context, eventType model.EventType) ([]model.Event, error) {
	var events []model.Event
	if err := r.db.WithContext(ctx).
		Where("type = ?", eventType).
		Order("date").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) FindRSVP(ctx context.Context, eventID string, userID uuid.UUID) (*model.EventRSVP, error) {
	var rsvp model.EventRSVP
	if err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&rsvp).Error; err != nil {
		return nil, err
	}
	return &rsvp, nil
}

// SaveRSVP upserts the RSVP row and adjusts the event attendee counter in the
// same transaction so the two can never drift.
func (r *eventRepository) SaveRSVP(ctx context.Context, rsvp *model.EventRSVP, attendeeDelta int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(rsvp).Error; err != nil {
			return err
		}

		if attendeeDelta != 0 {
			if err := tx.Model(&model.Event{}).
				Where("id = ?", rsvp.EventID).
				Update("current_attendees", gorm.Expr("current_attendees + ?", attendeeDelta)).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *eventRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Event{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
