package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/BLUETOID/RIMAP/internal/bootstrap"
	"github.com/BLUETOID/RIMAP/internal/config"
	"github.com/BLUETOID/RIMAP/internal/handler"
	"github.com/BLUETOID/RIMAP/internal/middleware"
	"github.com/BLUETOID/RIMAP/internal/repository"
	"github.com/BLUETOID/RIMAP/internal/service"
	"github.com/BLUETOID/RIMAP/pkg/database"
	"github.com/BLUETOID/RIMAP/pkg/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	redisClient := database.ConnectRedis()

	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := bootstrap.SeedRoles(db); err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}
	if err := bootstrap.SeedAchievements(db); err != nil {
		log.Fatalf("failed to seed achievements: %v", err)
	}
	if err := bootstrap.SeedChallenges(db); err != nil {
		log.Fatalf("failed to seed challenges: %v", err)
	}
	if err := bootstrap.SeedEvents(db); err != nil {
		log.Fatalf("failed to seed events: %v", err)
	}
	if err := bootstrap.SeedDonationCauses(db); err != nil {
		log.Fatalf("failed to seed donation causes: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
		if err := bootstrap.SeedDemoUsers(db); err != nil {
			log.Fatalf("failed to seed demo users: %v", err)
		}
	}

	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	meiliHost := cfg.MeiliSearchHost
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))

	userRepo := repository.NewUserRepository(db)
	gamificationRepo := repository.NewGamificationRepository(db)
	leaderboardRepo := repository.NewLeaderboardRepository(db)
	eventRepo := repository.NewEventRepository(db)
	donationRepo := repository.NewDonationRepository(db)
	mentorshipRepo := repository.NewMentorshipRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	searchService := service.NewSearchService(meiliClient)
	notificationService := service.NewNotificationService(notificationRepo, redisClient)
	leaderboardService := service.NewLeaderboardService(leaderboardRepo, userRepo, redisClient)
	gamificationService := service.NewGamificationService(userRepo, gamificationRepo, notificationService, leaderboardService)
	sessionCache := service.NewSessionCache(redisClient)

	authService := service.NewAuthService(userRepo, gamificationService, sessionCache, imageStorage)
	profileService := service.NewProfileService(userRepo, gamificationRepo, gamificationService, imageStorage, searchService)
	eventService := service.NewEventService(eventRepo, gamificationService)
	donationService := service.NewDonationService(donationRepo, gamificationService)
	mentorshipService := service.NewMentorshipService(mentorshipRepo, userRepo, gamificationService, notificationService, redisClient)
	adminService := service.NewAdminService(userRepo, searchService, notificationService)
	statService := service.NewStatService(userRepo, eventRepo, donationRepo, gamificationRepo)

	authHandler := handler.NewAuthHandler(authService)
	gamificationHandler := handler.NewGamificationHandler(gamificationService)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService)
	eventHandler := handler.NewEventHandler(eventService)
	donationHandler := handler.NewDonationHandler(donationService)
	mentorshipHandler := handler.NewMentorshipHandler(mentorshipService)
	profileHandler := handler.NewProfileHandler(profileService, searchService)
	notificationHandler := handler.NewNotificationHandler(notificationService, redisClient)
	adminHandler := handler.NewAdminHandler(adminService)
	statHandler := handler.NewStatHandler(statService)

	router := gin.Default()
	setupCORS(router, cfg.AllowedOrigins)

	authMiddleware := middleware.NewAuthMiddleware(userRepo)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)

		api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
		api.GET("/events", eventHandler.GetEvents)
		api.GET("/events/:id", eventHandler.GetEvent)
		api.GET("/donations/causes", donationHandler.GetCauses)
		api.GET("/donations/causes/:id", donationHandler.GetCause)
		api.GET("/achievements", gamificationHandler.GetAchievements)
		api.GET("/challenges", gamificationHandler.GetChallenges)
		api.GET("/alumni/search", profileHandler.SearchAlumni)
	}

	api.Use(authMiddleware.RequireAuth())
	{
		api.POST("/auth/logout", authHandler.Logout)

		profile := api.Group("/profile")
		{
			profile.GET("/me", profileHandler.GetMe)
			profile.PUT("", profileHandler.UpdateProfile)
		}

		gamification := api.Group("/gamification")
		{
			gamification.GET("/stats", gamificationHandler.GetStats)
			gamification.GET("/achievements", gamificationHandler.GetMyAchievements)
			gamification.GET("/challenges", gamificationHandler.GetMyChallenges)
			gamification.POST("/challenges/:id/join", gamificationHandler.JoinChallenge)
			gamification.POST("/challenges/:id/progress", gamificationHandler.UpdateChallengeProgress)
			gamification.GET("/transactions", gamificationHandler.GetTransactions)
		}

		api.POST("/events/:id/rsvp", eventHandler.RSVP)
		api.POST("/donations/causes/:id/donate", donationHandler.Donate)
		api.GET("/donations/mine", donationHandler.GetMyDonations)

		mentorship := api.Group("/mentorship")
		mentorship.Use(authMiddleware.RequireVerified())
		{
			mentorship.POST("/requests", mentorshipHandler.SendRequest)
			mentorship.POST("/requests/:id/respond", mentorshipHandler.Respond)
			mentorship.GET("/incoming", mentorshipHandler.GetIncoming)
			mentorship.GET("/outgoing", mentorshipHandler.GetOutgoing)
		}

		notifications := api.Group("/notifications")
		{
			notifications.GET("", notificationHandler.GetNotifications)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.PUT("/:id/read", notificationHandler.MarkAsRead)
			notifications.PUT("/read-all", notificationHandler.MarkAllAsRead)
			notifications.GET("/ws", notificationHandler.HandleWebSocket)
		}

		admin := api.Group("/admin")
		admin.Use(authMiddleware.RequireAdmin())
		{
			admin.GET("/users", adminHandler.GetAllUsers)
			admin.GET("/verifications", adminHandler.GetPendingVerifications)
			admin.POST("/verifications/:id/approve", adminHandler.ApproveVerification)
			admin.POST("/verifications/:id/reject", adminHandler.RejectVerification)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
			admin.GET("/stats", statHandler.GetPortalStats)
		}
	}

	// Recompute leaderboard snapshots in the background.
	go func() {
		if err := leaderboardService.Recompute(context.Background()); err != nil {
			log.Printf("initial leaderboard compute failed: %v", err)
		}

		ticker := time.NewTicker(cfg.LeaderboardInterval)
		defer ticker.Stop()

		for range ticker.C {
			if err := leaderboardService.Recompute(context.Background()); err != nil {
				log.Printf("leaderboard recompute failed: %v", err)
			}
		}
	}()

	port := cfg.Port
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = "8080"
	}

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
