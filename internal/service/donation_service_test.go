package service

import (
	"context"
	"errors"
	"testing"

	"github.com/BLUETOID/RIMAP/internal/model"
	"github.com/BLUETOID/RIMAP/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeDonationRepo struct {
	causes  map[string]*model.DonationCause
	records []model.DonationRecord
}

func newFakeDonationRepo() *fakeDonationRepo {
	return &fakeDonationRepo{causes: make(map[string]*model.DonationCause)}
}

func (r *fakeDonationRepo) FindAllCauses(ctx context.Context) ([]model.DonationCause, error) {
	var out []model.DonationCause
	for _, cause := range r.causes {
		out = append(out, *cause)
	}
	return out, nil
}

func (r *fakeDonationRepo) FindCauseByID(ctx context.Context, id string) (*model.DonationCause, error) {
	cause, ok := r.causes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *cause
	return &copied, nil
}

func (r *fakeDonationRepo) FindCausesByCategory(ctx context.Context, category model.DonationCategory) ([]model.DonationCause, error) {
	var out []model.DonationCause
	for _, cause := range r.causes {
		if cause.Category == category {
			out = append(out, *cause)
		}
	}
	return out, nil
}

func (r *fakeDonationRepo) RecordDonation(ctx context.Context, record *model.DonationRecord) error {
	r.records = append(r.records, *record)
	if cause, ok := r.causes[record.CauseID]; ok {
		cause.Raised += record.Amount
		cause.Donors++
	}
	return nil
}

func (r *fakeDonationRepo) ListRecordsByUser(ctx context.Context, userID uuid.UUID) ([]model.DonationRecord, error) {
	var out []model.DonationRecord
	for _, record := range r.records {
		if record.UserID == userID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *fakeDonationRepo) TotalRaised(ctx context.Context) (int64, error) {
	var total int64
	for _, record := range r.records {
		total += int64(record.Amount)
	}
	return total, nil
}

func newDonationFixture() (*fakeDonationRepo, *fakeUserRepo, DonationService, uuid.UUID) {
	repo := newFakeDonationRepo()
	repo.causes["scholarship-fund"] = &model.DonationCause{
		ID:       "scholarship-fund",
		Title:    "Scholarship Fund",
		Goal:     500000,
		Category: model.DonationCategoryScholarships,
	}

	users := newFakeUserRepo()
	user := &model.User{Name: "A", Email: "a@x.com", CurrentLevel: model.LevelBronze}
	users.addUser(user)

	gamification := NewGamificationService(users, newFakeGamificationRepo(), nil, nil)
	return repo, users, NewDonationService(repo, gamification), user.ID
}

func TestGetCausesFilter(t *testing.T) {
	repo, _, svc, _ := newDonationFixture()
	repo.causes["lab-upgrade"] = &model.DonationCause{ID: "lab-upgrade", Category: model.DonationCategoryInfrastructure}
	ctx := context.Background()

	all, err := svc.GetCauses(ctx, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("all causes = %d (%v), want 2", len(all), err)
	}

	scholarships, err := svc.GetCauses(ctx, "scholarships")
	if err != nil || len(scholarships) != 1 {
		t.Fatalf("scholarships = %d (%v), want 1", len(scholarships), err)
	}

	if _, err := svc.GetCauses(ctx, "lottery"); !errors.Is(err, apperror.ErrBadRequest) {
		t.Errorf("unknown category err = %v, want ErrBadRequest", err)
	}
}

func TestDonatePointConversion(t *testing.T) {
	cases := []struct {
		amount int
		points int
	}{
		{100, 1},
		{250, 2},
		{99, 0}, // below one point's worth, donation still recorded
		{10000, 100},
	}

	for _, tc := range cases {
		_, users, svc, userID := newDonationFixture()
		ctx := context.Background()

		record, err := svc.Donate(ctx, userID, "scholarship-fund", DonateInput{Amount: tc.amount})
		if err != nil {
			t.Fatalf("Donate(%d): %v", tc.amount, err)
		}
		if record.Amount != tc.amount {
			t.Errorf("recorded amount = %d, want %d", record.Amount, tc.amount)
		}

		user, _ := users.FindByID(ctx, userID.String())
		if user.TotalPoints != tc.points {
			t.Errorf("Donate(%d): points = %d, want %d", tc.amount, user.TotalPoints, tc.points)
		}
	}
}

func TestDonateValidation(t *testing.T) {
	_, _, svc, userID := newDonationFixture()
	ctx := context.Background()

	if _, err := svc.Donate(ctx, userID, "scholarship-fund", DonateInput{Amount: 0}); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("zero amount err = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.Donate(ctx, userID, "scholarship-fund", DonateInput{Amount: -500}); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("negative amount err = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.Donate(ctx, userID, "no-such-cause", DonateInput{Amount: 100}); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("unknown cause err = %v, want ErrNotFound", err)
	}
}

func TestDonateUpdatesCauseAndHistory(t *testing.T) {
	repo, _, svc, userID := newDonationFixture()
	ctx := context.Background()

	if _, err := svc.Donate(ctx, userID, "scholarship-fund", DonateInput{Amount: 1500, Anonymous: true, Message: "good luck"}); err != nil {
		t.Fatalf("Donate: %v", err)
	}
	if _, err := svc.Donate(ctx, userID, "scholarship-fund", DonateInput{Amount: 500}); err != nil {
		t.Fatalf("Donate: %v", err)
	}

	cause := repo.causes["scholarship-fund"]
	if cause.Raised != 2000 || cause.Donors != 2 {
		t.Errorf("cause raised/donors = %d/%d, want 2000/2", cause.Raised, cause.Donors)
	}

	history, err := svc.GetUserDonations(ctx, userID)
	if err != nil {
		t.Fatalf("GetUserDonations: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history = %d records, want 2", len(history))
	}
	if !history[0].Anonymous || history[0].Message != "good luck" {
		t.Errorf("first record = %+v, want anonymous with message", history[0])
	}
}
