package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/icisct/conference-system/docs"
	"github.com/icisct/conference-system/internal/api/handler"
	"github.com/icisct/conference-system/internal/api/middleware"
	"github.com/icisct/conference-system/internal/core/domain"
	"github.com/icisct/conference-system/internal/core/ports"
	"github.com/icisct/conference-system/internal/core/service"
	"github.com/icisct/conference-system/internal/infrastructure/config"
	mongorepo "github.com/icisct/conference-system/internal/infrastructure/db/mongo"
	redisstore "github.com/icisct/conference-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The audit enqueuer is injected by the caller so that main owns the
// dispatcher lifecycle.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, audit ports.AuditEnqueuer, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddleware("conference"))

	// --- Repositories ---
	users := mongorepo.NewUserRepository(db)
	papers := mongorepo.NewPaperRepository(db)
	reviews := mongorepo.NewReviewRepository(db)
	feedbacks := mongorepo.NewFeedbackRepository(db)
	audits := mongorepo.NewAuditRepository(db)
	sessions := redisstore.NewSessionStore(rdb, cfg.SessionTTL)

	// --- Services ---
	authService := service.NewAuthService(users, sessions, cfg.JWTSecret, cfg.SessionTTL)
	paperService := service.NewPaperService(papers, users, reviews, feedbacks, audit, log)
	reviewService := service.NewReviewService(papers, reviews, paperService, audit, log)

	// --- Handlers ---
	secureCookie := cfg.Env == "production"
	authHandler := handler.NewAuthHandler(authService, cfg.SessionTTL, secureCookie)
	authorHandler := handler.NewAuthorHandler(paperService)
	reviewerHandler := handler.NewReviewerHandler(reviewService, paperService)
	adminHandler := handler.NewAdminHandler(paperService, authService, users, audits)

	authMW := middleware.Auth(authService)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/me", authHandler.Me, authMW)

	// --- Author routes ---
	author := e.Group("/author", authMW, middleware.RBAC(domain.RoleAuthor))
	author.POST("/papers", authorHandler.Submit)
	author.GET("/papers", authorHandler.List)
	author.GET("/papers/:id", authorHandler.Get)
	author.POST("/papers/:id/feedback", authorHandler.Feedback)
	author.POST("/papers/:id/resubmit", authorHandler.Resubmit)

	// --- Reviewer routes ---
	reviewer := e.Group("/reviewer", authMW, middleware.RBAC(domain.RoleReviewer))
	reviewer.GET("/papers", reviewerHandler.List)
	reviewer.GET("/papers/:id", reviewerHandler.Get)
	reviewer.POST("/papers/:id/review", reviewerHandler.Review)
	reviewer.POST("/papers/:id/feedback", reviewerHandler.Feedback)

	// --- Admin routes ---
	admin := e.Group("/admin", authMW, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/papers", adminHandler.ListPapers)
	admin.GET("/papers/:id", adminHandler.GetPaper)
	admin.PATCH("/papers/:id/approve", adminHandler.Approve)
	admin.POST("/papers/:id/assign", adminHandler.Assign)
	admin.PATCH("/papers/:id/status", adminHandler.SetStatus)
	admin.GET("/papers/:id/audit", adminHandler.AuditTrail)
	admin.DELETE("/papers/:id", adminHandler.DeletePaper)
	admin.GET("/reviewers", adminHandler.ListReviewers)
	admin.POST("/reviewers", adminHandler.RegisterReviewer)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	return e
}
