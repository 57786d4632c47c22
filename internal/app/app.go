package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"allsers_backend/internal/auth"
	"allsers_backend/internal/config"
	"allsers_backend/internal/handlers"
	"allsers_backend/internal/logger"
	"allsers_backend/internal/middleware"
	"allsers_backend/internal/models"
	"allsers_backend/internal/pkg/email"
	"allsers_backend/internal/push"
	"allsers_backend/internal/queue"
	"allsers_backend/internal/repositories"
	"allsers_backend/internal/routes"
	"allsers_backend/internal/services"
	"allsers_backend/internal/validator"
	"allsers_backend/internal/workers"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	auth.Init(cfg.JWT.Secret, cfg.JWT.TTL)
	validator.RegisterGinRules()

	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deliveryQueue := initializeQueue(cfg)
	defer deliveryQueue.Close()

	pushSender, err := push.NewFCMSender(ctx, cfg.Push.CredentialsFile)
	if err != nil {
		logger.Fatal("Failed to initialize push sender", "error", err)
	}

	mailer := initializeMailer(cfg)

	repos := repositories.NewRepositoryContainer(gormDB)
	serviceContainer := services.NewServiceContainer(gormDB, repos, deliveryQueue, cfg.Email.BaseURL)

	deliveryWorker := workers.NewDeliveryWorker(deliveryQueue, pushSender, mailer)
	go func() {
		if err := deliveryWorker.Start(ctx); err != nil {
			logger.Fatal("Delivery worker failed", "error", err)
		}
	}()
	workers.NewChallengeWorker(repos.Challenges).Start(ctx)

	ginRouter := SetupRouter(gormDB, serviceContainer)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(gormDB *gorm.DB, serviceContainer *services.ServiceContainer) *gin.Engine {
	appHandlers := initializeHandlers(serviceContainer)
	ginRouter := initializeGinRouter(gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers)
	return ginRouter
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Notification{},
		&models.Engagement{},
		&models.Review{},
		&models.Conversation{},
		&models.ChatMessage{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Repost{},
		&models.PostTag{},
		&models.Challenge{},
		&models.ChallengeParticipant{},
		&models.ChallengeJudge{},
		&models.ChallengeRating{},
		&models.Badge{},
		&models.UserBadge{},
	)
}

func initializeQueue(cfg *config.Config) queue.Queue {
	if cfg.Queue.URL == "" {
		logger.Warn("AMQP url not configured, using in-process delivery queue")
		return queue.NewInProcessQueue(0)
	}

	rabbit, err := queue.NewRabbitQueue(queue.RabbitConfig{
		URL:       cfg.Queue.URL,
		QueueName: cfg.Queue.QueueName,
	})
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", "error", err)
	}
	logger.Info("RabbitMQ connected", "queue", cfg.Queue.QueueName)
	return rabbit
}

func initializeMailer(cfg *config.Config) email.Mailer {
	emailConfig := email.Config{
		SMTPHost:  cfg.Email.SMTPHost,
		SMTPPort:  cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	}
	if err := emailConfig.Validate(); err != nil {
		logger.Warn("Email not configured, using noop mailer", "reason", err)
		return email.NoopMailer{}
	}

	mailer, err := email.NewSMTPMailer(emailConfig)
	if err != nil {
		logger.Fatal("Failed to initialize mailer", "error", err)
	}
	return mailer
}

func initializeHandlers(serviceContainer *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, serviceContainer.AuthService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, serviceContainer.NotificationService),
		EngagementHandler:   handlers.NewEngagementHandler(baseHandler, serviceContainer.EngagementService),
		ChallengeHandler:    handlers.NewChallengeHandler(baseHandler, serviceContainer.ChallengeService, serviceContainer.SocialService),
		SocialHandler:       handlers.NewSocialHandler(baseHandler, serviceContainer.SocialService),
		ChatHandler:         handlers.NewChatHandler(baseHandler, serviceContainer.ChatService),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}
