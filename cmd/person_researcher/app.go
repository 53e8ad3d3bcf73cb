package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonathan/person-researcher/internal/config"
	"github.com/jonathan/person-researcher/internal/db"
	"github.com/jonathan/person-researcher/internal/dossier"
	"github.com/jonathan/person-researcher/internal/fetch"
	"github.com/jonathan/person-researcher/internal/llm"
	"github.com/jonathan/person-researcher/internal/research"
	"github.com/jonathan/person-researcher/internal/search"
	"github.com/jonathan/person-researcher/internal/telemetry"
)

// app holds the services shared by the commands
type app struct {
	db       *db.DB // nil without DATABASE_URL
	llm      llm.Client
	research *research.Service
	dossiers *dossier.Orchestrator
	shutdown telemetry.ShutdownFunc
}

// newApp validates cfg and builds every service. Close must be called when done.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	shutdown, err := telemetry.Init(serviceName, version, cfg.ExporterConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	a := &app{shutdown: shutdown}

	if cfg.Database.URL != "" {
		a.db, err = openDatabase(ctx, cfg)
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	// Page cache is only used when a database is configured
	var pages fetch.PageStore
	var store dossier.Store
	if a.db != nil {
		pages = a.db
		store = a.db
	}
	fetcher := fetch.NewCachedFetcher(pages, cfg.FetcherConfig())

	provider, err := search.NewProvider(ctx, cfg.SearchProviderConfig(), fetcher)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create search provider: %w", err)
	}

	a.llm, err = llm.NewClient(ctx, cfg.LLMClientConfig(), cfg.LLM.APIKey)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	a.research = research.NewService(provider, a.llm, research.WithInstruments(telemetry.Default()))
	a.dossiers = dossier.New(a.research, store, cfg.OrchestratorConfig())

	slog.Debug("services ready",
		"search_provider", a.research.SearchProviderName(),
		"llm_provider", cfg.LLM.Provider,
		"research_tasks", a.research.CanResearch(),
		"database", a.db != nil,
	)
	return a, nil
}

// openDatabase connects and, unless disabled, applies migrations
func openDatabase(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	database, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Database.Migrate {
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	return database, nil
}

// Close releases the LLM client and database and flushes telemetry.
func (a *app) Close() {
	if a.llm != nil {
		if err := a.llm.Close(); err != nil {
			slog.Warn("failed to close LLM client", "error", err)
		}
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.shutdown != nil {
		if err := a.shutdown(context.Background()); err != nil {
			slog.Warn("failed to shut down telemetry", "error", err)
		}
	}
}
