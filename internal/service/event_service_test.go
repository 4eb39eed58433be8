package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BLUETOID/RIMAP/internal/model"
	"github.com/BLUETOID/RIMAP/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type rsvpKey struct {
	eventID string
	userID  uuid.UUID
}

type fakeEventRepo struct {
	events map[string]*model.Event
	rsvps  map[rsvpKey]*model.EventRSVP
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events: make(map[string]*model.Event),
		rsvps:  make(map[rsvpKey]*model.EventRSVP),
	}
}

func (r *fakeEventRepo) FindAll(ctx context.Context) ([]model.Event, error) {
	var out []model.Event
	for _, event := range r.events {
		out = append(out, *event)
	}
	return out, nil
}

func (r *fakeEventRepo) FindByID(ctx context.Context, id string) (*model.Event, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *event
	return &copied, nil
}

func (r *fakeEventRepo) FindByType(ctx context.Context, eventType model.EventType) ([]model.Event, error) {
	var out []model.Event
	for _, event := range r.events {
		if event.Type == eventType {
			out = append(out, *event)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) Create(ctx context.Context, event *model.Event) error {
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *fakeEventRepo) FindRSVP(ctx context.Context, eventID string, userID uuid.UUID) (*model.EventRSVP, error) {
	rsvp, ok := r.rsvps[rsvpKey{eventID, userID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *rsvp
	return &copied, nil
}

func (r *fakeEventRepo) SaveRSVP(ctx context.Context, rsvp *model.EventRSVP, attendeeDelta int) error {
	copied := *rsvp
	r.rsvps[rsvpKey{rsvp.EventID, rsvp.UserID}] = &copied
	if event, ok := r.events[rsvp.EventID]; ok {
		event.CurrentAttendees += attendeeDelta
	}
	return nil
}

func (r *fakeEventRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.events)), nil
}

func newEventFixture(maxAttendees int) (*fakeEventRepo, *fakeUserRepo, *fakeGamificationRepo, EventService, uuid.UUID) {
	events := newFakeEventRepo()
	events.events["reunion-2026"] = &model.Event{
		ID:           "reunion-2026",
		Title:        "Annual Reunion",
		Type:         model.EventTypeReunion,
		Date:         time.Now().Add(30 * 24 * time.Hour),
		MaxAttendees: maxAttendees,
	}

	users := newFakeUserRepo()
	user := &model.User{Name: "A", Email: "a@x.com", CurrentLevel: model.LevelBronze}
	users.addUser(user)

	gamRepo := newFakeGamificationRepo()
	gamification := NewGamificationService(users, gamRepo, nil, nil)

	return events, users, gamRepo, NewEventService(events, gamification), user.ID
}

func TestGetEventsFilter(t *testing.T) {
	events, _, _, svc, _ := newEventFixture(100)
	events.events["webinar-1"] = &model.Event{ID: "webinar-1", Type: model.EventTypeWebinar, MaxAttendees: 500}
	ctx := context.Background()

	all, err := svc.GetEvents(ctx, "all")
	if err != nil || len(all) != 2 {
		t.Fatalf("all events = %d (%v), want 2", len(all), err)
	}

	webinars, err := svc.GetEvents(ctx, "webinar")
	if err != nil || len(webinars) != 1 {
		t.Fatalf("webinars = %d (%v), want 1", len(webinars), err)
	}

	if _, err := svc.GetEvents(ctx, "concert"); !errors.Is(err, apperror.ErrBadRequest) {
		t.Errorf("unknown type err = %v, want ErrBadRequest", err)
	}
}

func TestGetEventNotFound(t *testing.T) {
	_, _, _, svc, _ := newEventFixture(100)

	if _, err := svc.GetEvent(context.Background(), "nope"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRSVPAwardsPointsOnce(t *testing.T) {
	events, users, gamRepo, svc, userID := newEventFixture(100)
	ctx := context.Background()

	// maybe -> attending -> not-attending -> attending: one award total.
	transitions := []model.RSVPStatus{model.RSVPMaybe, model.RSVPAttending, model.RSVPNotAttending, model.RSVPAttending}
	for _, status := range transitions {
		if _, err := svc.RSVP(ctx, userID, "reunion-2026", status); err != nil {
			t.Fatalf("RSVP %s: %v", status, err)
		}
	}

	user, _ := users.FindByID(ctx, userID.String())
	if user.TotalPoints != PointsEventRSVP {
		t.Errorf("total points = %d, want %d", user.TotalPoints, PointsEventRSVP)
	}

	count, _ := gamRepo.CountTransactionsByAction(ctx, userID, model.ActionEventRSVP)
	if count != 1 {
		t.Errorf("rsvp transactions = %d, want 1", count)
	}

	if events.events["reunion-2026"].CurrentAttendees != 1 {
		t.Errorf("attendees = %d, want 1", events.events["reunion-2026"].CurrentAttendees)
	}
}

func TestRSVPAttendeeCountTracksStatus(t *testing.T) {
	events, _, _, svc, userID := newEventFixture(100)
	ctx := context.Background()

	if _, err := svc.RSVP(ctx, userID, "reunion-2026", model.RSVPAttending); err != nil {
		t.Fatalf("RSVP: %v", err)
	}
	if _, err := svc.RSVP(ctx, userID, "reunion-2026", model.RSVPMaybe); err != nil {
		t.Fatalf("RSVP: %v", err)
	}

	if got := events.events["reunion-2026"].CurrentAttendees; got != 0 {
		t.Errorf("attendees = %d after backing out, want 0", got)
	}
}

func TestRSVPEventFull(t *testing.T) {
	_, users, _, svc, userID := newEventFixture(1)
	ctx := context.Background()

	other := &model.User{Name: "B", Email: "b@x.com", CurrentLevel: model.LevelBronze}
	users.addUser(other)

	if _, err := svc.RSVP(ctx, userID, "reunion-2026", model.RSVPAttending); err != nil {
		t.Fatalf("first RSVP: %v", err)
	}
	if _, err := svc.RSVP(ctx, other.ID, "reunion-2026", model.RSVPAttending); !errors.Is(err, apperror.ErrEventFull) {
		t.Errorf("err = %v, want ErrEventFull", err)
	}

	// A full event still accepts non-attending responses, and an existing
	// attendee may re-confirm.
	if _, err := svc.RSVP(ctx, other.ID, "reunion-2026", model.RSVPMaybe); err != nil {
		t.Errorf("maybe on full event: %v", err)
	}
	if _, err := svc.RSVP(ctx, userID, "reunion-2026", model.RSVPAttending); err != nil {
		t.Errorf("re-confirm on full event: %v", err)
	}
}
