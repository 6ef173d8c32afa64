package main

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dealerhub/dealership-backend/auth"
	"github.com/dealerhub/dealership-backend/config"
	"github.com/dealerhub/dealership-backend/database"
	"github.com/dealerhub/dealership-backend/events"
	"github.com/dealerhub/dealership-backend/handlers"
	"github.com/dealerhub/dealership-backend/middleware"
	"github.com/dealerhub/dealership-backend/repositories"
)

func main() {
	cfg := config.Load()
	log := newLogger(cfg)

	ctx := context.Background()
	store, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDB, log)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer store.Disconnect(ctx)

	if cfg.SeedOnStart {
		// Missing or invalid fixtures are fatal: the app cannot serve
		// meaningful data without them.
		fixtures, err := database.LoadFixtures(cfg.SeedDir)
		if err != nil {
			log.WithError(err).Fatal("fixture load failed")
		}
		if err := store.Seed(ctx, fixtures); err != nil {
			log.WithError(err).Fatal("database seeding failed")
		}
	}

	userRepo := repositories.NewUserRepository(store)
	authSvc, err := auth.NewService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.WithError(err).Fatal("auth setup failed")
	}

	publisher, err := events.NewPublisher(cfg.AMQPURL, cfg.EventQueue, log)
	if err != nil {
		log.WithError(err).Fatal("event publisher setup failed")
	}
	defer publisher.Close()

	handler := handlers.New(
		repositories.NewCarRepository(store),
		repositories.NewDealerRepository(store),
		repositories.NewReviewRepository(store),
		authSvc,
		publisher,
		log,
	)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	router.Use(middleware.RequestID())

	limiter := middleware.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	router.Use(limiter.Middleware())

	handler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	log.WithField("port", cfg.ServerPort).Info("server starting")
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func newLogger(cfg config.Config) *logrus.Logger {
	log := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
