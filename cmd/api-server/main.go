package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/AlexIbby/ourmovies/database"
	"github.com/AlexIbby/ourmovies/internal/cache"
	"github.com/AlexIbby/ourmovies/internal/config"
	"github.com/AlexIbby/ourmovies/internal/http-api/handler"
	"github.com/AlexIbby/ourmovies/internal/http-api/middleware"
	"github.com/AlexIbby/ourmovies/internal/http-api/repository"
	"github.com/AlexIbby/ourmovies/internal/http-api/service"
	"github.com/AlexIbby/ourmovies/internal/tmdb"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	searchCache, err := cache.NewSearchCache(cfg.RedisAddr, cfg.SearchCacheTTL)
	if err != nil {
		log.Fatalf("could not connect to redis: %v", err)
	}

	catalog := tmdb.NewClient(cfg.TMDBBaseURL, cfg.TMDBAPIKey)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	mediaRepo := repository.NewMediaRepo(db)
	viewingRepo := repository.NewViewingRepo(db)
	tagRepo := repository.NewTagRepo(db)

	// Services
	authService := service.NewAuthService(userRepo, cfg)
	mediaService := service.NewMediaService(mediaRepo, catalog)
	viewingService := service.NewViewingService(viewingRepo, tagRepo, mediaService)
	diaryService := service.NewDiaryService(viewingRepo, mediaRepo, tagRepo, userRepo, mediaService, catalog)
	searchService := service.NewSearchService(catalog, searchCache)

	// Router with default logger and recovery middleware
	r := gin.Default()

	api := r.Group("/api")
	handler.NewAuthHandler(authService).RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(authService))
	handler.NewDiaryHandler(diaryService, cfg.PageSize).RegisterRoutes(protected)
	handler.NewSearchHandler(searchService).RegisterRoutes(protected)
	handler.NewViewingHandler(viewingService).RegisterRoutes(protected)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	log.Printf("[API] Server running at %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
