// Package server contains the HTTP handlers and routing for the portfolio API.
package server

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"portfolio/internal/auth"
	"portfolio/internal/cache"
	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/middleware"
	"portfolio/internal/models"
	"portfolio/internal/repository"
	"portfolio/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config *config.Config
	db     *gorm.DB
	redis  *redis.Client
	auth   *auth.Service
	store  *storage.Store
	prom   *fiberprometheus.FiberPrometheus

	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
	serviceRepo repository.ServiceRepository
	skillRepo   repository.SkillRepository
	contactRepo repository.ContactRepository
	blogRepo    repository.BlogRepository
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	cache.InitRedis(cfg.RedisURL)

	// Remote storage is optional: without configuration (or when the client
	// fails to initialize) the in-memory fallback carries all objects.
	var remote storage.ObjectStore
	if cfg.S3Configured() {
		s3Store, err := storage.NewS3Store(context.Background(), storage.S3Config{
			Region:          cfg.AWSRegion,
			Bucket:          cfg.AWSS3Bucket,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			slog.Warn("S3 initialization failed, running in fallback storage mode", "error", err)
		} else {
			remote = s3Store
		}
	} else {
		slog.Info("object storage not configured, running in fallback storage mode")
	}

	return &Server{
		config:      cfg,
		db:          db,
		redis:       cache.GetClient(),
		auth:        auth.NewService(cfg.JWTSecret),
		store:       storage.NewStore(remote, storage.NewMemoryStore("")),
		prom:        middleware.InitMetrics("portfolio-api"),
		userRepo:    repository.NewUserRepository(db),
		projectRepo: repository.NewProjectRepository(db),
		serviceRepo: repository.NewServiceRepository(db),
		skillRepo:   repository.NewSkillRepository(db),
		contactRepo: repository.NewContactRepository(db),
		blogRepo:    repository.NewBlogRepository(db),
	}, nil
}

// Shutdown releases server resources: the database pool and the redis client.
func (s *Server) Shutdown(ctx context.Context) error {
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			slog.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			slog.Error("error closing redis", "error", rerr)
		}
	}

	slog.Info("server shutdown complete")
	return nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Request ID for tracing
	app.Use(requestid.New())

	// Request spans; a no-op tracer unless tracing is enabled
	app.Use(middleware.TracingMiddleware())

	// Prometheus request metrics
	if s.prom != nil {
		app.Use(s.prom.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware
	app.Use(middleware.StructuredLogger())

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": "Too many requests, please try again later",
			})
		},
	}))

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       86400, // 24 hours
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health check
	api.Get("/", s.HealthCheck)

	// Prometheus scrape endpoint
	if s.prom != nil {
		s.prom.RegisterAt(app, "/metrics")
	}

	// Live metrics dashboard
	api.Get("/metrics", monitor.New(monitor.Config{
		Title: "Portfolio Backend Metrics",
	}))

	// Public marketing content
	api.Get("/projects", s.GetProjects)
	api.Get("/projects/:id", s.GetProject)
	api.Get("/services", s.GetServices)
	api.Get("/services/:id", s.GetService)
	api.Get("/skills", s.GetSkills)

	// Public contact form
	api.Post("/contact", middleware.RateLimit(s.redis, 5, 10*time.Minute, "contact"), s.SubmitContact)

	// Public blog: published posts only
	api.Get("/blog", s.GetPublishedPosts)
	api.Get("/blog/tags", s.GetBlogTags)
	api.Get("/blog/:slug", s.GetPostBySlug)

	// Fallback-stored objects are served by the API itself
	api.Get("/storage/*", s.ServeStoredObject)

	// Auth
	authGroup := api.Group("/auth")
	authGroup.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	authGroup.Post("/register-admin", middleware.RateLimit(s.redis, 3, 10*time.Minute, "register_admin"), s.RegisterAdmin)
	authGroup.Get("/me", s.AuthRequired(), s.Me)

	// CMS: everything below requires an admin token
	cms := api.Group("/cms", s.AdminRequired())

	// Specific /blog/tags before generic /blog/:id
	cms.Get("/blog", s.ListAllPosts)
	cms.Get("/blog/tags", s.GetBlogTags)
	cms.Post("/blog", s.CreatePost)
	cms.Get("/blog/:id", s.GetPostByID)
	cms.Put("/blog/:id", s.UpdatePost)
	cms.Delete("/blog/:id", s.DeletePost)

	cms.Get("/contact", s.GetContactMessages)
	cms.Patch("/contact/:id/read", s.MarkMessageRead)
	cms.Delete("/contact/:id", s.DeleteContactMessage)

	cms.Post("/upload/image", s.UploadImage)

	cms.Post("/projects", s.CreateProject)
	cms.Put("/projects/:id", s.UpdateProject)
	cms.Delete("/projects/:id", s.DeleteProject)

	cms.Post("/services", s.CreateService)
	cms.Put("/services/:id", s.UpdateService)
	cms.Delete("/services/:id", s.DeleteService)

	cms.Post("/skills/groups", s.CreateSkillGroup)
	cms.Put("/skills/groups/:id", s.UpdateSkillGroup)
	cms.Delete("/skills/groups/:id", s.DeleteSkillGroup)
	cms.Post("/skills", s.CreateSkill)
	cms.Put("/skills/:id", s.UpdateSkill)
	cms.Delete("/skills/:id", s.DeleteSkill)
}

// HealthCheck handles health check requests
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	storageMode := "s3"
	if s.store.FallbackMode() {
		storageMode = "fallback"
	}

	status := fiber.StatusOK
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"status":  "ok",
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
			"storage":  storageMode,
		},
		"time": time.Now(),
	})
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// AuthRequired enforces a valid token of any role.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		claims, err := s.auth.VerifyToken(tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		c.Locals("claims", claims)
		c.Locals("userID", claims.UserID)
		return c.Next()
	}
}

// AdminRequired is the sole authorization gate for CMS routes: missing or
// invalid token yields 401, a valid non-admin token 403.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		claims, err := s.auth.VerifyToken(tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		if claims.Role != models.RoleAdmin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}

		c.Locals("claims", claims)
		c.Locals("userID", claims.UserID)
		return c.Next()
	}
}

// claimsFromContext returns the verified claims attached by the auth middleware.
func claimsFromContext(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals("claims").(*auth.Claims)
	return claims
}

// respondStorageError maps the storage error taxonomy onto distinguishable
// HTTP statuses so clients can tell "content unavailable" from "not found".
func respondStorageError(c *fiber.Ctx, err error) error {
	switch storage.KindOf(err) {
	case storage.KindNotFound:
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Content", "storage"))
	case storage.KindAccessDenied:
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Storage access denied"))
	default:
		slog.Error("storage failure", "error", err)
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewStorageError("Content storage unavailable", err))
	}
}

// respondRepositoryError maps repository errors (AppError taxonomy) to statuses.
func respondRepositoryError(c *fiber.Ctx, err error) error {
	if appErr, ok := err.(*models.AppError); ok {
		switch appErr.Code {
		case "NOT_FOUND":
			return models.RespondWithError(c, fiber.StatusNotFound, appErr)
		case "VALIDATION_ERROR":
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		case "CONFLICT":
			return models.RespondWithError(c, fiber.StatusConflict, appErr)
		}
	}
	slog.Error("repository failure", "error", err)
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// ServeStoredObject serves objects held by the fallback store so synthesized
// local URLs resolve.
func (s *Server) ServeStoredObject(c *fiber.Ctx) error {
	key := c.Params("*")
	data, contentType, ok := s.store.Fallback().Object(key)
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Object", key))
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(data)
}
