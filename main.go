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
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"cafequest/internal/handlers"
	"cafequest/internal/middleware"
	"cafequest/internal/models"
	"cafequest/internal/repositories"
	"cafequest/internal/services"
	"cafequest/pkg/cloudinary"
	"cafequest/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":5001")
	viper.SetDefault("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=cafequest port=5432 sslmode=disable")
	viper.SetDefault("JWT_SECRET", "dev_jwt_secret")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	viper.SetDefault("CLOUDINARY_API_KEY", "")
	viper.SetDefault("CLOUDINARY_API_SECRET", "")
	viper.SetDefault("CLOUDINARY_FOLDER", "cafequest")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	jwtSecret := viper.GetString("JWT_SECRET")

	// --- Database ---
	db, err := gorm.Open(postgres.Open(viper.GetString("DATABASE_URL")), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Cafe{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- RabbitMQ (optional) ---
	// Cafe activity events are published only when a broker is configured;
	// an empty RABBITMQ_URL disables them.
	var mqClient *rabbitmq.Client
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: mqURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	}

	// --- Cloudinary (optional) ---
	// Without credentials the upload endpoints answer with a generic error.
	var imageStore services.ImageStore
	cloudFolder := viper.GetString("CLOUDINARY_FOLDER")
	if cloudName := viper.GetString("CLOUDINARY_CLOUD_NAME"); cloudName != "" {
		cldClient, err := cloudinary.NewClient(cloudinary.Config{
			CloudName: cloudName,
			APIKey:    viper.GetString("CLOUDINARY_API_KEY"),
			APISecret: viper.GetString("CLOUDINARY_API_SECRET"),
			Folder:    cloudFolder,
		})
		if err != nil {
			log.Fatalf("Failed to initialize Cloudinary client: %v", err)
		}
		imageStore = cldClient
	}

	// --- Initialize Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	cafeRepo := repositories.NewGORMCafeRepository(db)

	// --- Initialize Services ---
	var events services.EventPublisher
	if mqClient != nil {
		events = mqClient
	}
	authService := services.NewAuthService(userRepo, jwtSecret)
	cafeService := services.NewCafeService(cafeRepo, events)
	discoverService := services.NewDiscoverService(cafeRepo, userRepo, events)
	mediaService := services.NewMediaService(imageStore, cloudFolder)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	cafeHandler := handlers.NewCafeHandler(cafeService)
	discoverHandler := handlers.NewDiscoverHandler(discoverService)
	uploadHandler := handlers.NewUploadHandler(mediaService)

	// --- Initialize Fiber App ---
	// Mobile clients post camera photos as base64 data URIs, so the body
	// limit has to be well above fiber's 4MB default.
	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024,
	})

	// --- Middleware ---
	app.Use(logger.New())

	// --- API Routes ---
	api := app.Group("/api")

	// Public authentication routes
	authHandler.RegisterRoutes(api)

	// Everything else requires a valid bearer token
	protected := api.Group("", middleware.AuthRequired(authService))
	authHandler.RegisterProtectedRoutes(protected)
	cafeHandler.RegisterRoutes(protected)
	discoverHandler.RegisterRoutes(protected)
	uploadHandler.RegisterRoutes(protected)

	// --- Health Check Endpoint ---
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "CafeQuest API is running",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// --- Start cafe event consumer when a broker is configured ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for cafe events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received cafe event %s (tag: %d): %s", msg.Type, msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeCafeEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}
