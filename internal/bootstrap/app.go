// Package bootstrap assembles the application dependency graph.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"exam-backend/internal/analyses"
	"exam-backend/internal/generate"
	"exam-backend/internal/llm"
	"exam-backend/internal/llm/gemini"
	"exam-backend/internal/llm/groq"
	"exam-backend/internal/llm/openrouter"
	"exam-backend/internal/questionbank"
	"exam-backend/internal/rag"
	"exam-backend/internal/shared/config"
	"exam-backend/internal/shared/server"
	"exam-backend/internal/shared/storage/db"
)

// App holds shared dependencies.
type App struct {
	Config    config.Config
	Router    *gin.Engine
	DB        *sql.DB
	Clients   map[string]llm.Client
	Curricula *rag.Store

	AnalysesRepo    analyses.Repo
	BankRepo        questionbank.Repo
	AnalysesService *analyses.Service
	GenerateService *generate.Service
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	clients, defaultProvider, err := buildClients(cfg)
	if err != nil {
		return nil, err
	}
	cfg.DefaultProvider = defaultProvider

	var analysesRepo analyses.Repo
	var bankRepo questionbank.Repo
	if sqlDB != nil {
		analysesRepo = &analyses.PGRepo{DB: sqlDB}
		bankRepo = &questionbank.PGRepo{DB: sqlDB}
	} else {
		analysesRepo = analyses.NewMemoryRepo()
		bankRepo = questionbank.NewMemoryRepo()
	}

	curricula := rag.NewStore()
	analysesSvc := analyses.NewService(&cfg, analysesRepo, clients, curricula)
	generateSvc := &generate.Service{Clients: clients, DefaultProvider: cfg.DefaultProvider}

	app := &App{
		Config:          cfg,
		DB:              sqlDB,
		Clients:         clients,
		Curricula:       curricula,
		AnalysesRepo:    analysesRepo,
		BankRepo:        bankRepo,
		AnalysesService: analysesSvc,
		GenerateService: generateSvc,
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            cfg,
		AnalysisHandler:   analyses.NewHandler(analysesSvc),
		CurriculumHandler: rag.NewHandler(curricula),
		BankHandler:       questionbank.NewHandler(bankRepo),
		GenerateHandler:   generate.NewHandler(generateSvc),
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			_ = sqlDB.Close()
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

// buildClients registers every provider with a usable credential and returns
// the effective default provider. At least one provider must be configured,
// and the default must be among them so a zero-config analyze request works.
func buildClients(cfg config.Config) (map[string]llm.Client, string, error) {
	clients := make(map[string]llm.Client)

	if cfg.GeminiAvailable() {
		client, err := gemini.NewClient(cfg.GeminiAPIKey, cfg.ModelFor(config.ProviderGemini))
		if err != nil {
			return nil, "", fmt.Errorf("gemini client: %w", err)
		}
		clients[config.ProviderGemini] = client
	}
	if cfg.GroqAvailable() {
		client, err := groq.NewClient(cfg.GroqAPIKey, cfg.ModelFor(config.ProviderGroq))
		if err != nil {
			return nil, "", fmt.Errorf("groq client: %w", err)
		}
		clients[config.ProviderGroq] = client
	}
	if cfg.OpenRouterAvailable() {
		client, err := openrouter.NewClient(cfg.OpenRouterAPIKey, cfg.ModelFor(config.ProviderOpenRouter))
		if err != nil {
			return nil, "", fmt.Errorf("openrouter client: %w", err)
		}
		clients[config.ProviderOpenRouter] = client
	}

	if len(clients) == 0 {
		return nil, "", fmt.Errorf("no LLM provider configured; set GEMINI_API_KEY, GROQ_API_KEY, or OPENROUTER_API_KEY")
	}
	provider := cfg.DefaultProvider
	if _, ok := clients[provider]; !ok {
		for _, candidate := range []string{config.ProviderGemini, config.ProviderGroq, config.ProviderOpenRouter} {
			if _, ok := clients[candidate]; ok {
				log.Printf("bootstrap: provider %q not configured; defaulting to %q", provider, candidate)
				provider = candidate
				break
			}
		}
	}
	return clients, provider, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
