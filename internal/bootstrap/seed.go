package bootstrap

import (
	"log"
	"time"

	"github.com/BLUETOID/RIMAP/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.Profile{},
		&model.PointTransaction{},
		&model.Achievement{},
		&model.UserAchievement{},
		&model.Challenge{},
		&model.ChallengeParticipant{},
		&model.UserChallenge{},
		&model.Event{},
		&model.EventRSVP{},
		&model.DonationCause{},
		&model.DonationRecord{},
		&model.MentorshipRequest{},
		&model.Notification{},
	)
}

func SeedRoles(db *gorm.DB) error {
	defaultRoles := []model.Role{
		{Name: "admin", Description: "Portal administrator"},
		{Name: "alumni", Description: "Graduated alumni"},
		{Name: "student", Description: "Current student"},
	}

	for _, role := range defaultRoles {
		var count int64
		if err := db.Model(&model.Role{}).
			Where("name = ?", role.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func SeedAdminUser(db *gorm.DB) error {
	var adminRole model.Role
	if err := db.Where("name = ?", "admin").First(&adminRole).Error; err != nil {
		return err
	}

	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ?", "admin@alumni.edu").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := model.User{
		Name:         "Admin User",
		Email:        "admin@alumni.edu",
		PasswordHash: string(hashedPasswordBytes),
		RoleID:       &adminRole.ID,
		IsVerified:   true,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	adminProfile := model.Profile{
		UserID: adminUser.ID,
		Bio:    stringPtr("Portal administrator"),
	}

	if err := db.Create(&adminProfile).Error; err != nil {
		return err
	}

	log.Println("Admin user seeded (admin@alumni.edu / admin123)")

	return nil
}

// SeedDemoUsers creates a verified alumni and a student account for local
// development.
func SeedDemoUsers(db *gorm.DB) error {
	var alumniRole, studentRole model.Role
	if err := db.Where("name = ?", "alumni").First(&alumniRole).Error; err != nil {
		return err
	}
	if err := db.Where("name = ?", "student").First(&studentRole).Error; err != nil {
		return err
	}

	demo := []struct {
		name     string
		email    string
		password string
		roleID   uint
		verified bool
		profile  model.Profile
	}{
		{
			name: "John Doe", email: "john@example.com", password: "user123",
			roleID: alumniRole.ID, verified: true,
			profile: model.Profile{
				GraduationYear: intPtr(2018),
				Department:     stringPtr("Computer Science"),
				CurrentCompany: stringPtr("TechCorp"),
				Position:       stringPtr("Senior Engineer"),
			},
		},
		{
			name: "Jane Smith", email: "jane@student.edu", password: "student123",
			roleID: studentRole.ID, verified: true,
			profile: model.Profile{
				Department: stringPtr("Computer Science"),
			},
		},
	}

	for _, d := range demo {
		var count int64
		if err := db.Model(&model.User{}).
			Where("email = ?", d.email).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(d.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		roleID := d.roleID
		user := model.User{
			Name:         d.name,
			Email:        d.email,
			PasswordHash: string(hashed),
			RoleID:       &roleID,
			IsVerified:   d.verified,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}

		profile := d.profile
		profile.UserID = user.ID
		if err := db.Create(&profile).Error; err != nil {
			return err
		}
	}

	return nil
}

func SeedAchievements(db *gorm.DB) error {
	catalog := []model.Achievement{
		{
			ID: "profile-complete", Title: "All Set Up",
			Description: "Complete your alumni profile", Icon: "📝",
			Category: "profile", Points: 20,
			RequiredAction: model.ActionProfileUpdated, RequiredCount: 1,
		},
		{
			ID: "first-login", Title: "Welcome Back",
			Description: "Log in to the portal for the first time", Icon: "👋",
			Category: "special", Points: 10,
			RequiredAction: model.ActionDailyLogin, RequiredCount: 1,
		},
		{
			ID: "week-streak", Title: "Regular Visitor",
			Description: "Log in seven days in a row", Icon: "🔥",
			Category: "special", Points: 30,
			RequiredAction: model.ActionWeeklyLoginStreak, RequiredCount: 1,
		},
		{
			ID: "first-event", Title: "Showing Up",
			Description: "RSVP to your first event", Icon: "🎟️",
			Category: "events", Points: 15,
			RequiredAction: model.ActionEventRSVP, RequiredCount: 1,
		},
		{
			ID: "event-regular", Title: "Event Regular",
			Description: "RSVP to ten events", Icon: "🎪",
			Category: "events", Points: 75,
			RequiredAction: model.ActionEventRSVP, RequiredCount: 10,
		},
		{
			ID: "first-mentorship", Title: "Reaching Out",
			Description: "Send your first mentorship request", Icon: "🤝",
			Category: "mentorship", Points: 25,
			RequiredAction: model.ActionMentorshipRequest, RequiredCount: 1,
		},
		{
			ID: "mentorship-seeker", Title: "Eager Learner",
			Description: "Send five mentorship requests", Icon: "🧭",
			Category: "mentorship", Points: 50,
			RequiredAction: model.ActionMentorshipRequest, RequiredCount: 5,
		},
		{
			ID: "first-donation", Title: "Giving Back",
			Description: "Make your first donation", Icon: "💝",
			Category: "donations", Points: 30,
			RequiredAction: model.ActionDonationMade, RequiredCount: 1,
		},
		{
			ID: "generous-donor", Title: "Generous Donor",
			Description: "Make five donations", Icon: "🏦",
			Category: "donations", Points: 100,
			RequiredAction: model.ActionDonationMade, RequiredCount: 5,
		},
		{
			ID: "silver-club", Title: "Silver Club",
			Description: "Reach 200 total points", Icon: "🥈",
			Category: "networking", Points: 25,
			RequiredAction: model.ActionPointsTotal, RequiredCount: 200,
		},
		{
			ID: "gold-club", Title: "Gold Club",
			Description: "Reach 500 total points", Icon: "🥇",
			Category: "networking", Points: 50,
			RequiredAction: model.ActionPointsTotal, RequiredCount: 500,
		},
		{
			ID: "diamond-club", Title: "Diamond Club",
			Description: "Reach 2000 total points", Icon: "💎",
			Category: "special", Points: 200,
			RequiredAction: model.ActionPointsTotal, RequiredCount: 2000,
		},
	}

	for _, achievement := range catalog {
		var count int64
		if err := db.Model(&model.Achievement{}).
			Where("id = ?", achievement.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&achievement).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func SeedChallenges(db *gorm.DB) error {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	catalog := []model.Challenge{
		{
			ID: "monthly-events", Title: "Event Explorer",
			Description: "Attend three events this month", Icon: "🗓️",
			Category: "events", Points: 100,
			StartDate: monthStart, EndDate: monthEnd,
			TargetAction: model.ActionEventRSVP, TargetCount: 3,
			IsActive: true,
		},
		{
			ID: "monthly-mentorship", Title: "Mentor Connector",
			Description: "Send two mentorship requests this month", Icon: "🎯",
			Category: "mentorship", Points: 80,
			StartDate: monthStart, EndDate: monthEnd,
			TargetAction: model.ActionMentorshipRequest, TargetCount: 2,
			IsActive: true,
		},
		{
			ID: "monthly-giving", Title: "Community Builder",
			Description: "Donate to two causes this month", Icon: "🏗️",
			Category: "donations", Points: 120,
			StartDate: monthStart, EndDate: monthEnd,
			TargetAction: model.ActionDonationMade, TargetCount: 2,
			IsActive: true,
		},
	}

	for _, challenge := range catalog {
		var count int64
		if err := db.Model(&model.Challenge{}).
			Where("id = ?", challenge.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&challenge).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func SeedEvents(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Event{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	events := []model.Event{
		{
			ID: "annual-reunion", Title: "Annual Alumni Reunion",
			Description: "The yearly gathering of all graduating classes.",
			Type:         model.EventTypeReunion,
			Date:         now.AddDate(0, 1, 0),
			Location:     "Main Campus Auditorium",
			MaxAttendees: 500,
			Organizer:    "Alumni Relations Office",
		},
		{
			ID: "career-webinar", Title: "Career Growth Webinar",
			Description: "Alumni panel on navigating the first five years of your career.",
			Type:         model.EventTypeWebinar,
			Date:         now.AddDate(0, 0, 14),
			Location:     "Online",
			MaxAttendees: 1000,
			Organizer:    "Career Services",
		},
		{
			ID: "alumni-hackathon", Title: "Alumni x Student Hackathon",
			Description: "48-hour build sprint pairing students with alumni mentors.",
			Type:         model.EventTypeHackathon,
			Date:         now.AddDate(0, 2, 0),
			Location:     "Innovation Lab",
			MaxAttendees: 120,
			Organizer:    "CS Department",
		},
		{
			ID: "city-meetup", Title: "City Chapter Meetup",
			Description: "Informal networking evening for alumni in the city.",
			Type:         model.EventTypeNetworking,
			Date:         now.AddDate(0, 0, 21),
			Location:     "Downtown Cafe",
			MaxAttendees: 60,
			Organizer:    "City Chapter",
		},
	}

	return db.Create(&events).Error
}

func SeedDonationCauses(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.DonationCause{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	causes := []model.DonationCause{
		{
			ID: "scholarship-fund", Title: "Merit Scholarship Fund",
			Description: "Tuition support for high-achieving students in need.",
			Goal:        1000000, Category: model.DonationCategoryScholarships,
			Featured: true, EndDate: now.AddDate(1, 0, 0),
		},
		{
			ID: "library-renovation", Title: "Library Renovation",
			Description: "Modernizing the central library reading halls.",
			Goal:        2500000, Category: model.DonationCategoryInfrastructure,
			EndDate: now.AddDate(0, 6, 0),
		},
		{
			ID: "research-grants", Title: "Student Research Grants",
			Description: "Seed funding for undergraduate research projects.",
			Goal:        500000, Category: model.DonationCategoryResearch,
			Urgent: true, EndDate: now.AddDate(0, 3, 0),
		},
		{
			ID: "alumni-events-fund", Title: "Alumni Events Fund",
			Description: "Keeps chapter meetups and the annual reunion free to attend.",
			Goal:        300000, Category: model.DonationCategoryEvents,
			EndDate: now.AddDate(1, 0, 0),
		},
	}

	return db.Create(&causes).Error
}

func stringPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}
