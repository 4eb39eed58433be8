package service

import (
	"context"

	"github.com/BLUETOID/RIMAP/internal/repository"
)

// PortalStats is the aggregate snapshot shown on the admin dashboard.
type PortalStats struct {
	TotalUsers        int64 `json:"total_users"`
	TotalEvents       int64 `json:"total_events"`
	TotalRaised       int64 `json:"total_raised"`
	TotalAchievements int64 `json:"total_achievements"`
}

type StatService interface {
	GetPortalStats(ctx context.Context) (*PortalStats, error)
}

type statService struct {
	users        repository.UserRepository
	events       repository.EventRepository
	donations    repository.DonationRepository
	gamification repository.GamificationRepository
}

func NewStatService(users repository.UserRepository, events repository.EventRepository, donations repository.DonationRepository, gamification repository.GamificationRepository) StatService {
	return &statService{
		users:        users,
		events:       events,
		donations:    donations,
		gamification: gamification,
	}
}

func (s *statService) GetPortalStats(ctx context.Context) (*PortalStats, error) {
	stats := &PortalStats{}

	var err error
	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalEvents, err = s.events.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalRaised, err = s.donations.TotalRaised(ctx); err != nil {
		return nil, err
	}
	if stats.TotalAchievements, err = s.gamification.CountAchievements(ctx); err != nil {
		return nil, err
	}

	return stats, nil
}
