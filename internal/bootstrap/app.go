package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"feedback-backend/internal/analyses"
	"feedback-backend/internal/llm"
	"feedback-backend/internal/llm/gemini"
	"feedback-backend/internal/queue"
	"feedback-backend/internal/shared/config"
	"feedback-backend/internal/shared/server"
	"feedback-backend/internal/shared/storage/db"
)

// App holds shared dependencies wired once at startup.
type App struct {
	Config     config.Config
	Router     *gin.Engine
	DB         *sql.DB
	Repo       analyses.Repo
	Service    *analyses.Service
	Dispatcher *queue.Dispatcher
	Handler    *analyses.Handler
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var repo analyses.Repo
	if sqlDB != nil {
		repo = &analyses.PGRepo{DB: sqlDB}
	} else {
		repo = analyses.NewMemoryRepo()
	}

	llmClient, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	svc := &analyses.Service{
		Repo: repo,
		Classifier: &analyses.Classifier{
			LLM:      llmClient,
			MaxChars: cfg.MaxFeedbackChars,
		},
		AlertThreshold: cfg.AlertThreshold,
	}

	dispatcher := queue.NewDispatcher(cfg.QueueCapacity, cfg.WorkerCount, func(ctx context.Context, msg queue.Message) {
		svc.Process(analyses.WithRequestID(ctx, msg.RequestID), msg.JobID)
	})
	svc.Queue = dispatcher

	handler := analyses.NewHandler(svc)

	router := server.NewRouter(server.RouterDeps{
		Config:          cfg,
		AnalysisHandler: handler,
	})

	return &App{
		Config:     cfg,
		Router:     router,
		DB:         sqlDB,
		Repo:       repo,
		Service:    svc,
		Dispatcher: dispatcher,
		Handler:    handler,
	}, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repository")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repository: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return sqlDB, nil
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: GEMINI_API_KEY empty; classifications will fail until configured")
			return llm.PlaceholderClient{}, nil
		}
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	return gemini.NewClient(cfg.GeminiAPIKey, cfg.LLMModel)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
