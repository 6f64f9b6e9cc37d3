package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"classquiz/backend/cache"
	"classquiz/backend/config"
	"classquiz/backend/events"
	"classquiz/backend/middleware"
	"classquiz/backend/routes"
	"classquiz/backend/services"
	"classquiz/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger(utils.LoggerConfig{
		Format:       cfg.LogFormat,
		EnableColors: cfg.LogFormat != "json",
	})

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		logger.Fatalf("Error initializing database: %v", err)
	}
	if err := utils.AutoMigrate(db); err != nil {
		logger.Fatalf("Error migrating database: %v", err)
	}

	opts := []services.Option{}

	if cfg.Redis.Addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		lb, err := cache.NewRedisLeaderboard(ctx, cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cancel()
		if err != nil {
			logger.Printf("leaderboard cache disabled: %v", err)
		} else {
			defer lb.Close()
			opts = append(opts, services.WithLeaderboard(lb))
		}
	}

	if cfg.AMQP.URL != "" {
		pub, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			logger.Printf("result events disabled: %v", err)
		} else {
			defer pub.Close()
			opts = append(opts, services.WithPublisher(pub))
		}
	}

	svc := services.New(db, logger, opts...)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName: "classquiz",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				status = e.Code
			}
			return utils.Error(c, status, utils.StatusCode(status), err.Error())
		},
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger, cfg.LogFormat != "json"))

	// Setup routes
	routes.SetupRoutes(app, svc, cfg, logger)

	go func() {
		if err := app.Listen(":" + cfg.ServerPort); err != nil {
			logger.Printf("server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Println("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Printf("shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
