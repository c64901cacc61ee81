package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/boykin345/ConversationalAI/database"
	"github.com/boykin345/ConversationalAI/internal/models"
	"github.com/boykin345/ConversationalAI/internal/nlp"
	"github.com/boykin345/ConversationalAI/internal/routes"
	"github.com/boykin345/ConversationalAI/internal/services"
	"github.com/boykin345/ConversationalAI/internal/storage"
	"github.com/boykin345/ConversationalAI/internal/utils"
	"github.com/boykin345/ConversationalAI/pkg/log"
)

func main() {
	// Load .env file for local development
	if err := godotenv.Load(".env"); err != nil {
		log.Warn(nil, "no .env file found - relying on environment variables")
	}

	// Initialize storage
	var store storage.Store
	if os.Getenv("USE_MEMORY_STORE") == "true" || os.Getenv("DB_HOST") == "" {
		log.Info(nil, "using in-memory storage")
		store = storage.NewMemoryStore()
	} else {
		if err := database.Connect(); err != nil {
			log.Error(log.Fields{"error": err.Error()}, "database connection failed, falling back to memory store")
			store = storage.NewMemoryStore()
		} else {
			if err := database.DB.AutoMigrate(&models.Ticket{}, &models.QAPair{}); err != nil {
				log.Error(log.Fields{"error": err.Error()}, "database migration failed")
				os.Exit(1)
			}
			store = storage.NewDatabaseStore(database.DB)
			log.Info(nil, "using PostgreSQL storage")
		}
	}

	// Load collaborator datasets. A missing or unreadable dataset degrades
	// to an empty corpus rather than refusing to start.
	qaPath := envOr("QA_DATASET_PATH", "data/qa_dataset.csv")
	if pairs, err := utils.LoadQAPairs(qaPath); err != nil {
		log.Warn(log.Fields{"path": qaPath, "error": err.Error()}, "QA dataset not loaded, continuing with empty corpus")
	} else if err := store.SeedQAPairs(pairs); err != nil {
		log.Error(log.Fields{"error": err.Error()}, "seeding QA dataset failed")
	} else {
		log.Info(log.Fields{"questions": len(pairs)}, "QA dataset loaded")
	}

	ticketPath := envOr("TICKET_DATASET_PATH", "data/tickets.csv")
	if tickets, err := utils.LoadTickets(ticketPath); err != nil {
		log.Warn(log.Fields{"path": ticketPath, "error": err.Error()}, "ticket inventory not loaded, continuing with empty inventory")
	} else if err := store.SeedTickets(tickets); err != nil {
		log.Error(log.Fields{"error": err.Error()}, "seeding ticket inventory failed")
	} else {
		log.Info(log.Fields{"tickets": len(tickets)}, "ticket inventory loaded")
	}

	// Corpora are fitted once at startup and read-only afterwards.
	classifier := nlp.NewClassifier(nlp.DefaultIntentCorpus())
	qaPairs, err := store.GetQAPairs()
	if err != nil {
		log.Error(log.Fields{"error": err.Error()}, "reading QA dataset failed, continuing with empty corpus")
		qaPairs = nil
	}
	retriever := nlp.NewRetriever(qaPairs)

	weatherService := services.NewWeatherService()
	timeService := services.NewTimeService(weatherService)

	sessionManager := services.NewSessionManager(func() *services.Chatbot {
		return services.NewChatbot(store, classifier, retriever, weatherService, timeService)
	})

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "ConversationalAI v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))

	routes.SetupRoutes(app, sessionManager)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info(nil, "gracefully shutting down")
		_ = app.Shutdown()
	}()

	log.Info(log.Fields{"port": port}, "ConversationalAI starting")
	if err := app.Listen(":" + port); err != nil {
		log.Error(log.Fields{"error": err.Error()}, "server stopped")
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
