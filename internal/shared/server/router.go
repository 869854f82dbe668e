package server

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-ranker/internal/llm"
	"resume-ranker/internal/llm/gemini"
	"resume-ranker/internal/ranking"
	"resume-ranker/internal/shared/config"
	"resume-ranker/internal/shared/metrics"
	"resume-ranker/internal/shared/server/middleware"
	"resume-ranker/internal/shared/server/respond"
	"resume-ranker/internal/shared/storage/db"
	"resume-ranker/internal/shared/telemetry"
	"resume-ranker/internal/usage"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.ClientToken(),
	)

	// Dependencies
	sqlDB := connectDB(cfg)

	var rankRepo ranking.Repo
	if sqlDB != nil {
		rankRepo = &ranking.PGRepo{DB: sqlDB}
	} else {
		rankRepo = ranking.NewMemoryRepo()
	}

	usageSvc := usage.NewService(cfg.FreeLimit)
	client, lister, model := newModelClient(cfg)

	rankSvc := &ranking.Service{
		Usage: usageSvc,
		LLM:   client,
		Repo:  rankRepo,
		Model: model,
	}
	rankHandler := ranking.NewHandler(rankSvc, lister, cfg.MaxUploadBytes)
	usageHandler := usage.NewHandler(usageSvc)

	root := r.Group("")
	root.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	root.GET("/metrics", metrics.Handler())

	// Rank carries the model-call cost, so it alone sits behind the
	// rate limiter.
	ranked := root.Group("")
	ranked.Use(middleware.RateLimit(
		middleware.RateLimitRule{Rate: cfg.RankRate, Burst: cfg.RankBurst},
		middleware.NewRateLimiter(nil),
	))
	ranked.POST("/rank", rankHandler.Rank)

	rankHandler.RegisterRoutes(root)
	usageHandler.RegisterRoutes(root)

	return r
}

// connectDB opens the ranking history database when DATABASE_URL is set.
// Connection or migration failures are logged and history falls back to the
// in-memory repo; the API stays up either way.
func connectDB(cfg config.Config) *sql.DB {
	if cfg.DatabaseURL == "" {
		return nil
	}
	conn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.ServerPool().FromEnv())
	if err != nil {
		telemetry.Error("db.connect.failed", map[string]any{"error": err.Error()})
		return nil
	}
	if err := db.RunMigrations(context.Background(), conn); err != nil {
		telemetry.Error("db.migrate.failed", map[string]any{"error": err.Error()})
		_ = conn.Close()
		return nil
	}
	return conn
}

// newModelClient builds the Gemini client. Without an API key (or when the
// client cannot be constructed) the server still starts with the
// unconfigured stub; every analysis then produces the fallback record.
func newModelClient(cfg config.Config) (llm.Client, llm.ModelLister, string) {
	client, err := gemini.NewClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		telemetry.Warn("gemini.client.unconfigured", map[string]any{"error": err.Error()})
		model := cfg.GeminiModel
		if model == "" {
			model = gemini.DefaultModel
		}
		return llm.Unconfigured{}, llm.Unconfigured{}, model
	}
	return client, client, client.Model()
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
