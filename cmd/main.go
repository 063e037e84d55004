// @title BiteWise Backend API
// @version 1.0
// @description BiteWise backend API for AI-assisted recipe generation

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"

	_ "bitewise-api/docs" // This is required for swagger
	"bitewise-api/internal/ai"
	"bitewise-api/internal/config"
	"bitewise-api/internal/handlers"
	"bitewise-api/internal/middleware"
	"bitewise-api/internal/routes"
	"bitewise-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Apply schema migrations before opening the pool
	if err := store.RunMigrations(context.Background(), cfg.GetDSN()); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		log.Fatalf("parse dsn: %v", err)
	}
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "bitewise-backend"
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	poolCfg.MaxConnLifetime = cfg.Database.MaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	{
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnTimeout)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			log.Fatalf("ping: %v", err)
		}
	}

	// Stores
	userStore := store.NewUserStore(pool)
	recipeStore := store.NewRecipeStore(pool)
	savedStore := store.NewSavedRecipeStore(pool)

	// AI providers and orchestrator
	openaiClient := ai.NewOpenAIClient(cfg.OpenAI, logger)
	geminiClient := ai.NewGeminiClient(cfg.Gemini, logger)
	generator := ai.NewGenerator(openaiClient, geminiClient, openaiClient, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(userStore, &cfg.JWT, logger)
	userHandler := handlers.NewUserHandler(userStore, savedStore, logger)
	recipeHandler := handlers.NewRecipeHandler(recipeStore, savedStore, generator, logger)
	healthHandler := handlers.NewHealthHandler(pool)

	protect := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.Authenticate(next, &cfg.JWT, userStore, logger)
	}

	routes.SetupRoutes(authHandler, userHandler, recipeHandler, healthHandler, protect)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           c.Handler(http.DefaultServeMux),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	// Wait for SIGINT for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server stopped")
}
