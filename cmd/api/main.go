// @title scan2cad API
// @version 1.0
// @description Quotation portal for scan-to-CAD conversion work.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/scan2cad/internal/api/middleware"
	"github.com/linskybing/scan2cad/internal/api/routes"
	"github.com/linskybing/scan2cad/internal/application"
	"github.com/linskybing/scan2cad/internal/config"
	"github.com/linskybing/scan2cad/internal/config/db"
	"github.com/linskybing/scan2cad/internal/cron"
	"github.com/linskybing/scan2cad/internal/domain/payment"
	"github.com/linskybing/scan2cad/internal/events"
	"github.com/linskybing/scan2cad/internal/payments"
	"github.com/linskybing/scan2cad/internal/repository"
	"github.com/linskybing/scan2cad/internal/storage"
)

func main() {
	// Load configuration from environment variables and .env file
	config.LoadConfig()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: config.SlogLevel()})))

	// Initialize JWT signing key
	middleware.Init()

	// Initialize database connection and migrate schemas
	db.Init()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repos := repository.NewRepositories(db.DB, notificationStore(ctx)...)

	policies, err := config.UploadPolicies()
	if err != nil {
		log.Fatalf("Failed to load upload policies: %v", err)
	}

	hub := events.NewHub()
	svc := application.New(repos, application.Dependencies{
		Store:    objectStore(ctx),
		Events:   hub,
		Alerter:  events.NewAlerter(config.TelegramToken, config.TelegramChatID),
		Mailer:   application.LogMailer{PortalURL: config.PortalURL},
		Gateway:  paymentGateway(),
		Policies: policies,
	})

	if err := svc.User.EnsureAdmin(config.ReservedAdminEmail, config.ReservedAdminPassword); err != nil {
		log.Fatalf("Failed to ensure admin account: %v", err)
	}
	cron.StartCleanupTask(context.Background(), svc.User, cron.DefaultCleanupInterval)

	if config.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())

	routes.RegisterRoutes(router, repos, svc, hub)

	port := ":" + config.ServerPort
	slog.Info("starting API server", "addr", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
}

func objectStore(ctx context.Context) storage.ObjectStore {
	if config.StorageBackend == "memory" {
		slog.Warn("using in-memory object storage; uploads are lost on restart")
		return storage.NewMemoryStore()
	}
	store, err := storage.NewMinioStore(ctx, storage.MinioConfig{
		Endpoint:  config.MinioEndpoint,
		AccessKey: config.MinioAccessKey,
		SecretKey: config.MinioSecretKey,
		Bucket:    config.MinioBucket,
		UseSSL:    config.MinioUseSSL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize MinIO: %v", err)
	}
	return store
}

func notificationStore(ctx context.Context) []repository.Option {
	if config.NotificationStore != "dynamodb" {
		return nil
	}
	client, err := repository.NewDynamoDBClient(ctx, repository.DynamoDBConfig{
		Region:    config.AWSRegion,
		AccessKey: config.AWSAccessKey,
		SecretKey: config.AWSSecretKey,
		Endpoint:  config.DynamoDBEndpoint,
	})
	if err != nil {
		log.Fatalf("Failed to initialize DynamoDB: %v", err)
	}
	slog.Info("notifications stored in DynamoDB", "table", config.NotificationsTable)
	return []repository.Option{
		repository.WithNotificationRepo(repository.NewDynamoNotificationRepo(client, config.NotificationsTable)),
	}
}

func paymentGateway() payment.Gateway {
	gw, err := payments.NewMercadoPagoGateway(config.MercadoPagoAccessToken, config.PaymentGatewayMock)
	if err != nil {
		slog.Warn("payment gateway not configured", "error", err)
		return nil
	}
	return gw
}
