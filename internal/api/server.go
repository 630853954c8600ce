package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	adminapi "github.com/clarainova/clara-backend/internal/api/admin"
	chatapi "github.com/clarainova/clara-backend/internal/api/chat"
	feedbackapi "github.com/clarainova/clara-backend/internal/api/feedback"
	"github.com/clarainova/clara-backend/internal/api/middleware"
	searchapi "github.com/clarainova/clara-backend/internal/api/search"
	"github.com/clarainova/clara-backend/internal/config"
	"github.com/clarainova/clara-backend/internal/entity"
	"github.com/clarainova/clara-backend/internal/pkg/ratelimit"
	"github.com/clarainova/clara-backend/internal/pkg/response"
)

// Handlers groups every route handler the router mounts.
type Handlers struct {
	Chat     *chatapi.Handler
	Search   *searchapi.Handler
	Admin    *adminapi.Handler
	Feedback *feedbackapi.Handler
}

// HealthStatus reports config presence for the liveness probe.
type HealthStatus struct {
	Version       string
	LLMConfigured bool
	DBConfigured  bool
	StorageReady  bool
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(
	handlers Handlers,
	limiter ratelimit.Limiter,
	rateCfg config.RateLimitConfig,
	adminKey string,
	health HealthStatus,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)   // Recover from panics
	r.Use(chimiddleware.RequestID)   // Add request ID
	r.Use(middleware.Logger(logger)) // Log requests
	r.Use(middleware.CORS)           // Handle CORS

	chatLimit := middleware.RateLimit(limiter, "chat", ratelimit.Window{
		Limit:  rateCfg.ChatLimit,
		Period: rateCfg.ChatPeriod,
	})
	adminLimit := middleware.RateLimit(limiter, "admin", ratelimit.Window{
		Limit:  rateCfg.AdminLimit,
		Period: rateCfg.AdminPeriod,
	})
	adminAuth := middleware.AdminAuth(adminKey)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, entity.HealthResponse{
			Status:        "healthy",
			Version:       health.Version,
			LLMConfigured: health.LLMConfigured,
			DBConfigured:  health.DBConfigured,
			StorageReady:  health.StorageReady,
		})
	})

	// Chat endpoints stream for up to a few minutes; no router timeout.
	r.Group(func(r chi.Router) {
		r.Use(chatLimit)
		chatapi.RegisterRoutes(r, handlers.Chat)
	})

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))
		r.Use(chatLimit)
		searchapi.RegisterRoutes(r, handlers.Search)
		feedbackapi.RegisterRoutes(r, handlers.Feedback)
	})

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))
		adminapi.RegisterRoutes(r, handlers.Admin, adminLimit, adminAuth)
	})

	return r
}
