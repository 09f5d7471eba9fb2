// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/swapkaro/swapkaro-backend/internal/cache"
	"github.com/swapkaro/swapkaro-backend/internal/config"
	"github.com/swapkaro/swapkaro-backend/internal/database"
	"github.com/swapkaro/swapkaro-backend/internal/handlers"
	"github.com/swapkaro/swapkaro-backend/internal/i18n"
	"github.com/swapkaro/swapkaro-backend/internal/repository/memory"
	"github.com/swapkaro/swapkaro-backend/internal/repository/mongodb"
	"github.com/swapkaro/swapkaro-backend/internal/repository/postgres"
	"github.com/swapkaro/swapkaro-backend/internal/router"
	"github.com/swapkaro/swapkaro-backend/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	// Set Gin mode and log format
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	// Run database migrations
	if err := database.RunMigrations(db); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}
	if cfg.Environment == "development" {
		if err := database.SeedInitialData(db); err != nil {
			logrus.WithError(err).Warn("Failed to seed initial data")
		}
	}

	repos := postgres.NewRepositories(db)
	checks := map[string]handlers.HealthCheck{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}

	// Activity log goes to MongoDB when configured
	if cfg.Mongo.URI != "" {
		client, mongoDB, err := database.ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to connect to MongoDB")
		}
		defer database.DisconnectMongo(client)

		if err := mongodb.EnsureIndexes(ctx, mongoDB); err != nil {
			logrus.WithError(err).Warn("Failed to create MongoDB indexes")
		}
		repos.Activity = mongodb.NewActivityRepository(mongoDB, cfg.Mongo.ConnectTimeout())
		checks["mongo"] = func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		}
	} else {
		logrus.Warn("MONGO_URI not set, keeping activity log in memory")
		repos.Activity = memory.NewActivityRepository(memory.NewStore())
	}

	// Token blacklist and OTP cooldowns
	var tokens cache.Store
	if cfg.Redis.Enabled {
		redisStore, err := database.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to connect to Redis")
		}
		tokens = redisStore
	} else {
		logrus.Warn("Redis disabled, keeping tokens in memory")
		tokens = cache.NewMemoryStore()
	}
	defer tokens.Close()
	checks["redis"] = tokens.Ping

	// Initialize i18n
	if err := i18n.Initialize(cfg.I18n.LocalesPath); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize i18n")
	}

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize router
	r, err := router.Initialize(ctx, cfg, router.Dependencies{
		Repos:  repos,
		Tokens: tokens,
		Checks: checks,
	})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize router")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Close websocket connections before draining HTTP
	stop()

	// Create a deadline for shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	}

	logrus.Info("Server exited")
}
