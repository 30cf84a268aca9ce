// Package server contains the HTTP handlers for the blog API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/sunil-gumatimath/wave-length/internal/cache"
	"github.com/sunil-gumatimath/wave-length/internal/config"
	"github.com/sunil-gumatimath/wave-length/internal/database"
	"github.com/sunil-gumatimath/wave-length/internal/featureflags"
	"github.com/sunil-gumatimath/wave-length/internal/middleware"
	"github.com/sunil-gumatimath/wave-length/internal/models"
	"github.com/sunil-gumatimath/wave-length/internal/repository"
	"github.com/sunil-gumatimath/wave-length/internal/service"
)

// fiberprometheus registers its collectors on the default registry, which
// accepts them only once per process.
var (
	promOnce       sync.Once
	promMiddleware *fiberprometheus.FiberPrometheus
)

func metricsMiddleware(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promMiddleware = fiberprometheus.New(serviceName)
	})
	return promMiddleware
}

// Server holds all dependencies and provides handlers
type Server struct {
	config          *config.Config
	db              *gorm.DB
	redis           *redis.Client
	prom            *fiberprometheus.FiberPrometheus
	flags           *featureflags.Set
	postService     *service.PostService
	commentService  *service.CommentService
	categoryService *service.CategoryService
	authService     *service.AuthService
}

// NewServer connects to the database and Redis and wires the services.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return NewServerWithDeps(cfg, db, cache.Connect(ctx, cfg.RedisURL))
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil, which disables caching and rate limiting.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	middleware.InitMiddleware(cfg)

	store := cache.NewStore(redisClient, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	flags := featureflags.Parse(cfg.FeatureFlags)

	postRepo := repository.NewPostRepository(db, store)
	commentRepo := repository.NewCommentRepository(db, store)
	categoryRepo := repository.NewCategoryRepository(db, store)

	ttl := time.Duration(cfg.JWTTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &Server{
		config:          cfg,
		db:              db,
		redis:           redisClient,
		prom:            metricsMiddleware(cfg.ServiceName),
		flags:           flags,
		postService:     service.NewPostService(postRepo, flags),
		commentService:  service.NewCommentService(commentRepo),
		categoryService: service.NewCategoryService(categoryRepo),
		authService:     service.NewAuthService(cfg.AdminEmail, cfg.AdminPasswordHash, cfg.JWTSecret, ttl),
	}, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.prom != nil {
		app.Use(s.prom.Middleware)
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	app.Use(cors.New(cors.Config{
		AllowOrigins: s.config.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return models.RespondWithAppError(c, models.NewRateLimitedError())
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	if s.prom != nil {
		s.prom.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")

	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Get("/search", s.SearchPosts)
	posts.Get("/slug/:slug", s.GetPostBySlug)
	// Specific /:id/:resource routes before the generic /:id route.
	posts.Get("/:id/related", s.GetRelatedPosts)
	posts.Post("/:id/comments", middleware.RateLimit(
		s.redis, s.config.CommentRateLimit, time.Duration(s.config.CommentRateWindowSec)*time.Second, "comment"), s.CreateComment)
	posts.Get("/:id", s.GetPost)

	api.Get("/categories", s.GetCategories)

	api.Post("/admin/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "admin_login"), s.Login)

	admin := api.Group("/admin", middleware.AdminRequired)
	admin.Get("/posts", s.AdminGetPosts)
	admin.Post("/posts", s.CreatePost)
	admin.Put("/posts/:id", s.UpdatePost)
	admin.Delete("/posts/:id", s.DeletePost)
	admin.Get("/slug", s.SuggestSlug)
	admin.Post("/categories", s.CreateCategory)
	admin.Delete("/categories/:id", s.DeleteCategory)
	admin.Get("/feature-flags", s.GetFeatureFlags)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "up",
		"time":   time.Now().UTC(),
	})
}

// ReadinessCheck reports whether the database answers. Redis is optional and
// only reported.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
		middleware.Logger.WarnContext(ctx, "readiness database ping failed", slog.String("error", err.Error()))
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now().UTC(),
	})
}

// Shutdown closes the database and Redis connections.
func (s *Server) Shutdown(ctx context.Context) error {
	var firstErr error
	if err := database.Close(s.db); err != nil {
		middleware.Logger.ErrorContext(ctx, "error closing database", slog.String("error", err.Error()))
		firstErr = err
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.ErrorContext(ctx, "error closing redis", slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
