package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	amqp "github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"conduit/internal/handlers"
	"conduit/internal/mailer"
	"conduit/internal/middleware"
	"conduit/internal/models"
	"conduit/internal/repositories"
	"conduit/internal/services"
	"conduit/internal/storage"
	"conduit/pkg/events"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("APP_URL", "http://localhost:8080")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("JWT_SECRET", "change_me")
	viper.SetDefault("TOKEN_TTL", "168h") // one policy for every call site
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("RESEND_API_KEY", "")
	viper.SetDefault("MAIL_FROM", "noreply@localhost")
	viper.SetDefault("S3_REGION", "us-east-1")
	viper.SetDefault("S3_BUCKET", "")
	viper.SetDefault("S3_ACCESS_KEY", "")
	viper.SetDefault("S3_SECRET_KEY", "")
	viper.SetDefault("S3_ENDPOINT", "")
	viper.SetDefault("GOOGLE_USERINFO_URL", "https://www.googleapis.com/oauth2/v2/userinfo")
	viper.AutomaticEnv() // Load environment variables

	appPort := viper.GetString("APP_PORT")
	tokenTTL := viper.GetDuration("TOKEN_TTL")

	// --- Database ---
	db, err := openDatabase(viper.GetString("DATABASE_URL"))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Article{}, &models.Comment{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Event publisher (best-effort) ---
	// Domain events feed downstream consumers; the API works without them.
	var eventsClient *events.Client
	if url := viper.GetString("RABBITMQ_URL"); url != "" {
		eventsClient, err = events.NewClient(events.Config{URL: url})
		if err != nil {
			log.Printf("RabbitMQ unavailable, continuing without events: %v", err)
		} else {
			defer eventsClient.Close()

			// --- Start RabbitMQ Consumer in a Goroutine ---
			// Logs user and article events for the activity digest. A real
			// downstream (search indexer, digest mailer) would replace the
			// handler body.
			go func() {
				log.Println("Starting RabbitMQ consumer for domain events...")
				messageHandler := func(msg amqp.Delivery) error {
					log.Printf("Received domain event (Tag: %d): %s", msg.DeliveryTag, string(msg.Body))
					return nil // Return nil to acknowledge
				}
				if consumerErr := eventsClient.Consume(messageHandler); consumerErr != nil {
					log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
				}
			}()
		}
	}

	// --- Avatar storage ---
	var avatarStore storage.Storage
	if bucket := viper.GetString("S3_BUCKET"); bucket != "" {
		avatarStore, err = storage.NewS3Storage(storage.S3Config{
			Region:    viper.GetString("S3_REGION"),
			Bucket:    bucket,
			AccessKey: viper.GetString("S3_ACCESS_KEY"),
			SecretKey: viper.GetString("S3_SECRET_KEY"),
			Endpoint:  viper.GetString("S3_ENDPOINT"),
		})
		if err != nil {
			log.Fatalf("Failed to initialize avatar storage: %v", err)
		}
	}

	// --- Mailer ---
	mail := mailer.New(
		viper.GetString("RESEND_API_KEY"),
		viper.GetString("MAIL_FROM"),
		viper.GetString("APP_URL"),
	)

	// --- Initialize Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	articleRepo := repositories.NewGORMArticleRepository(db)
	commentRepo := repositories.NewGORMCommentRepository(db)

	// --- Initialize Services ---
	var publisher services.EventPublisher
	if eventsClient != nil {
		publisher = eventsClient
	}
	authService := services.NewAuthService(userRepo, mail, publisher,
		viper.GetString("JWT_SECRET"), tokenTTL, viper.GetString("GOOGLE_USERINFO_URL"))
	userService := services.NewUserService(userRepo, articleRepo, avatarStore)
	articleService := services.NewArticleService(articleRepo, userRepo, publisher)
	commentService := services.NewCommentService(commentRepo, articleRepo, userRepo)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, authService)
	profileHandler := handlers.NewProfileHandler(userService)
	articleHandler := handlers.NewArticleHandler(articleService)
	commentHandler := handlers.NewCommentHandler(commentService)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New()) // Request logger

	authRequired := middleware.AuthRequired(authService)
	authOptional := middleware.AuthOptional(authService)

	// --- API Routes ---
	api := app.Group("/api")

	authHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api, authRequired)
	profileHandler.RegisterRoutes(api)
	articleHandler.RegisterRoutes(api, authRequired)
	commentHandler.RegisterRoutes(api, authRequired, authOptional)

	// --- Health Check Endpoint ---
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	// RabbitMQ connection close is handled by defer in main
	log.Println("Server gracefully stopped")
}

// openDatabase connects to Postgres when a DSN is configured and falls back
// to a local SQLite file for development.
func openDatabase(dsn string) (*gorm.DB, error) {
	// TranslateError maps driver-specific failures onto GORM's sentinel
	// errors (gorm.ErrDuplicatedKey), which the repositories rely on.
	cfg := &gorm.Config{TranslateError: true}
	if dsn != "" {
		return gorm.Open(postgres.Open(dsn), cfg)
	}
	return gorm.Open(sqlite.Open("conduit.db"), cfg)
}
