package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/nkoncar/collecto-api/internal/config"
	"github.com/nkoncar/collecto-api/internal/database"
	"github.com/nkoncar/collecto-api/internal/handlers"
	"github.com/nkoncar/collecto-api/internal/hub"
	authmw "github.com/nkoncar/collecto-api/internal/middleware"
	"github.com/nkoncar/collecto-api/internal/services"
	"github.com/nkoncar/collecto-api/internal/store"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	eventHub := hub.NewHub(logger)
	go eventHub.Run()

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	userService := services.NewUserService(db)
	tokenService := services.NewTokenService(db)
	collectionStore := store.NewCollectionStore(db)
	collectionService := services.NewCollectionService(collectionStore, eventHub)
	rankingService := services.NewRankingService(collectionStore, cfg.RankingCacheTTL)

	authHandler := handlers.NewAuthHandler(cfg, userService, tokenService, jwtService)
	userHandler := handlers.NewUserHandler(userService)
	adminHandler := handlers.NewAdminHandler(userService)
	collectionHandler := handlers.NewCollectionHandler(collectionService)
	rankingHandler := handlers.NewRankingHandler(rankingService)
	eventsHandler := handlers.NewEventsHandler(eventHub)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())
	app.Use(authmw.RequestLogger(logger))

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Get("/:provider/consent", authHandler.GetConsentURL)
	auth.Get("/:provider/callback", authHandler.Callback)
	auth.Post("/exchange", authHandler.ExchangeCode)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)

	// Public reads: browsing needs no account.
	api.Get("/collections", collectionHandler.List)
	api.Get("/collections/:collectionId", collectionHandler.Get)
	api.Get("/users/:userId/collections", collectionHandler.ListByOwner)
	api.Get("/recent-items", rankingHandler.RecentItems)
	api.Get("/top-collections", rankingHandler.TopCollections)
	api.Get("/events", eventsHandler.Connect)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Post("/auth/logout-all", authHandler.LogoutAll)

	protected.Get("/users/me", userHandler.GetMe)
	protected.Patch("/users/me", userHandler.UpdateMe)

	protected.Post("/collections", collectionHandler.Create)
	protected.Patch("/collections/:collectionId", collectionHandler.Update)
	protected.Delete("/collections/:collectionId", collectionHandler.Delete)

	protected.Post("/collections/:collectionId/items", collectionHandler.AddItem)
	protected.Patch("/collections/:collectionId/items/:itemId", collectionHandler.UpdateItem)
	protected.Delete("/collections/:collectionId/items/:itemId", collectionHandler.RemoveItem)
	protected.Post("/collections/:collectionId/items/:itemId/like", collectionHandler.ToggleLike)
	protected.Post("/collections/:collectionId/items/:itemId/comments", collectionHandler.AddComment)

	admin := protected.Group("/admin")
	admin.Use(handlers.RequireAdmin)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Patch("/users/:userId/role", adminHandler.UpdateRole)
	admin.Patch("/users/:userId/status", adminHandler.UpdateStatus)
	admin.Delete("/users/:userId", adminHandler.DeleteUser)

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		for range ticker.C {
			_ = tokenService.CleanupExpired(context.Background())
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logger.Info("server starting", zap.String("addr", addr))
		if err := app.Run(addr); err != nil {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
}
