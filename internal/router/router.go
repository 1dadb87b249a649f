// Package router assembles the gin engine: global middleware, the public
// listing API and the gated admin area.
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/atlas-sports/site-api/internal/handler"
	"github.com/atlas-sports/site-api/internal/middleware"
	"github.com/atlas-sports/site-api/internal/service"
	"github.com/atlas-sports/site-api/pkg/logger"
	corsmiddleware "github.com/atlas-sports/site-api/pkg/middleware/cors"
	reqidmiddleware "github.com/atlas-sports/site-api/pkg/middleware/requestid"
)

// Handlers are the HTTP handlers mounted by New.
type Handlers struct {
	Public        *handler.PublicHandler
	Programs      *handler.ProgramHandler
	Events        *handler.EventHandler
	Announcements *handler.AnnouncementHandler
	Settings      *handler.SettingsHandler
	Uploads       *handler.UploadHandler
	Forms         *handler.FormHandler
	Auth          *handler.AuthHandler
	Metrics       *handler.MetricsHandler
}

// Config shapes the engine.
type Config struct {
	// Docs mounts Swagger UI under /docs.
	Docs           bool
	AllowedOrigins []string
	// PublicMaxAge is the browser cache lifetime of /api listings.
	PublicMaxAge time.Duration
	// UploadsDir is served under /uploads when set.
	UploadsDir string
	Gate       middleware.GateConfig
}

// New builds the engine.
func New(cfg Config, h Handlers, auth middleware.Authenticator, metrics *service.MetricsService, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log, "/health", "/ready", "/metrics"))
	r.Use(middleware.Metrics(metrics))
	r.Use(corsmiddleware.New(cfg.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	if cfg.Docs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if cfg.UploadsDir != "" {
		r.StaticFS("/uploads", http.Dir(cfg.UploadsDir))
	}

	api := r.Group("/api", middleware.PublicCache(cfg.PublicMaxAge))
	{
		api.GET("/programs", h.Public.ListPrograms)
		api.GET("/programs/:slug", h.Public.GetProgram)
		api.GET("/registration", h.Public.Registration)
		api.GET("/events", h.Public.ListEvents)
		api.GET("/events/featured", h.Public.FeaturedEvents)
		api.GET("/calendar", h.Public.Calendar)
		api.GET("/announcements", h.Public.ListAnnouncements)
		api.GET("/announcements/latest", h.Public.LatestAnnouncements)
		api.GET("/settings/registration", h.Public.RegistrationStatus)
		api.GET("/settings/contact", h.Public.ContactInfo)
	}

	admin := r.Group("/admin", middleware.AdminGate(auth, cfg.Gate, log), middleware.SubmitGuard())
	{
		admin.GET("/login", h.Auth.Login)
		admin.POST("/logout", h.Auth.Logout)
		admin.GET("/me", h.Auth.Me)

		programs := admin.Group("/programs", middleware.Audit(log, "program"))
		programs.GET("", h.Programs.List)
		programs.POST("", h.Programs.Create)
		programs.POST("/reorder", h.Programs.Reorder)
		programs.POST("/move", h.Programs.Move)
		programs.GET("/:id", h.Programs.Get)
		programs.PUT("/:id", h.Programs.Update)
		programs.DELETE("/:id", h.Programs.Delete)

		events := admin.Group("/events", middleware.Audit(log, "event"))
		events.GET("", h.Events.List)
		events.POST("", h.Events.Create)
		events.GET("/export", h.Events.Export)
		events.GET("/:id", h.Events.Get)
		events.PUT("/:id", h.Events.Update)
		events.DELETE("/:id", h.Events.Delete)

		announcements := admin.Group("/announcements", middleware.Audit(log, "announcement"))
		announcements.GET("", h.Announcements.List)
		announcements.POST("", h.Announcements.Create)
		announcements.GET("/:id", h.Announcements.Get)
		announcements.PUT("/:id", h.Announcements.Update)
		announcements.DELETE("/:id", h.Announcements.Delete)

		settings := admin.Group("/settings", middleware.Audit(log, "settings"))
		settings.GET("", h.Settings.Get)
		settings.PUT("/registration", h.Settings.UpdateRegistration)
		settings.PUT("/contact", h.Settings.UpdateContact)

		admin.POST("/uploads", middleware.Audit(log, "upload"), h.Uploads.Upload)
		admin.POST("/forms/:kind/validate", h.Forms.Validate)
	}

	return r
}
