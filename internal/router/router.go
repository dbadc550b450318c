package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/quizrun/quizrun-backend/internal/config"
	"github.com/quizrun/quizrun-backend/internal/handler"
	"github.com/quizrun/quizrun-backend/internal/middleware"
	"github.com/quizrun/quizrun-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Catalog *handler.CatalogHandler
	Session *handler.SessionHandler
	History *handler.HistoryHandler
	WS      *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Serve the raw quiz data directory statically when one is configured.
	// Quiz files change rarely; an hour of client caching is plenty.
	if cfg.DataDir != "" {
		dataGroup := router.Group("/data")
		dataGroup.Use(middleware.CacheControl(3600))
		{
			dataGroup.Static("/", cfg.DataDir)
		}
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	// ─── 1. Catalog Group ──────────────────────────────────────────────
	catalogAPI := router.Group("/api/v1/catalog")
	{
		catalogAPI.GET("", handlers.Catalog.GetFolders)
		catalogAPI.GET("/:folder_id/quizzes/:file", handlers.Catalog.GetQuiz)
	}

	// Rate limiter for session creation (30 starts per minute per IP).
	sessionLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 2. Session Group ──────────────────────────────────────────────
	sessionAPI := router.Group("/api/v1/sessions")
	{
		sessionAPI.POST("", sessionLimiter.Middleware(), handlers.Session.Create)
		sessionAPI.GET("/:id", handlers.Session.Get)
		sessionAPI.DELETE("/:id", handlers.Session.Delete)
		sessionAPI.POST("/:id/answers", handlers.Session.SubmitAnswer)
		sessionAPI.POST("/:id/practice", handlers.Session.StartPractice)
		sessionAPI.POST("/:id/practice/exit", handlers.Session.ExitPractice)
		sessionAPI.GET("/:id/review", handlers.Session.GetReview)
		sessionAPI.POST("/:id/review", handlers.Session.EnterReview)
		sessionAPI.POST("/:id/review/exit", handlers.Session.ExitReview)
		sessionAPI.POST("/:id/restart", handlers.Session.Restart)
	}

	// ─── 3. History Group ──────────────────────────────────────────────
	historyAPI := router.Group("/api/v1/history")
	{
		historyAPI.GET("", handlers.History.GetAll)
		historyAPI.DELETE("", handlers.History.DeleteAll)
		historyAPI.GET("/*key", handlers.History.GetByKey)
		historyAPI.DELETE("/*key", handlers.History.DeleteByKey)
	}

	// ─── 4. WebSocket Group ────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/sessions/:id/stream", handlers.WS.SessionStream)
	}

	return router
}
