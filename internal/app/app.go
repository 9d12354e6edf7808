// Package app wires the stores, services and language model described by a
// config.Config into one runnable application.
package app

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/abhisek/adapted/internal/achievements"
	"github.com/abhisek/adapted/internal/api"
	"github.com/abhisek/adapted/internal/assistant"
	"github.com/abhisek/adapted/internal/config"
	"github.com/abhisek/adapted/internal/llm"
	"github.com/abhisek/adapted/internal/orchestrator"
	"github.com/abhisek/adapted/internal/personality"
	"github.com/abhisek/adapted/internal/profile"
	"github.com/abhisek/adapted/internal/store"
	"github.com/abhisek/adapted/internal/taskgen"
)

// App holds the wired services. Close releases the database.
type App struct {
	Config *config.Config

	// Store is nil when the in-memory backend is selected.
	Store         *store.Store
	Events        store.EventRepo
	Profiles      profile.Store
	Documents     store.DocumentRepo
	Personalities personality.Store

	// Provider is nil when no language model is configured.
	Provider     llm.Provider
	Achievements *achievements.Service
	Orchestrator *orchestrator.Orchestrator
	Assistant    *assistant.Service

	logger *zap.Logger
}

// New builds an App from cfg.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, logger: logger}

	if err := a.openStores(); err != nil {
		return nil, err
	}

	bank, err := loadBank(cfg.TaskBank)
	if err != nil {
		a.Close()
		return nil, err
	}

	if cfg.LLM.Provider != "" {
		a.Provider, err = llm.NewProvider(ctx, cfg.LLM, a.Events, logger.Named("llm"))
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("create LLM provider: %w", err)
		}
	} else {
		logger.Info("no LLM provider configured, assistant replies will use the fallback message")
	}

	a.Achievements = achievements.NewService(a.Events, logger)
	a.Orchestrator = orchestrator.New(orchestrator.Options{
		Profiles:     a.Profiles,
		Collector:    orchestrator.NewStoreCollector(a.Profiles, cfg.Classes),
		Achievements: a.Achievements,
		TaskBank:     bank,
		Seed:         cfg.Random.Seed,
		Logger:       logger,
	})
	a.Assistant = assistant.New(assistant.Options{
		Provider:      a.Provider,
		Documents:     a.Documents,
		Personalities: a.Personalities,
		Profiles:      a.Profiles,
		Timeout:       cfg.AssistantTimeout,
		Logger:        logger,
	})
	return a, nil
}

func (a *App) openStores() error {
	if a.Config.InMemory() {
		a.Profiles = profile.NewMemoryStore()
		a.Documents = store.NewMemoryDocumentRepo()
		a.Personalities = personality.NewMemoryStore()
		a.logger.Info("using in-memory stores")
		return nil
	}

	path := a.Config.Store.Path
	if path == "" {
		var err error
		if path, err = store.DefaultDBPath(); err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
	} else if err := store.EnsureDir(path); err != nil {
		return err
	}

	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	a.Store = st
	a.Events = st.EventRepo()
	a.Profiles = st.ProfileRepo()
	a.Documents = st.DocumentRepo()
	a.Personalities = st.PersonalityRepo()
	a.logger.Info("opened database", zap.String("path", path))
	return nil
}

// Server returns the HTTP server over the app's services.
func (a *App) Server() *api.Server {
	return api.NewServer(api.Options{
		Orchestrator:   a.Orchestrator,
		Assistant:      a.Assistant,
		AllowedOrigins: a.Config.Server.AllowedOrigins,
		MaxUploadBytes: a.Config.Server.MaxUploadBytes,
		LLMProvider:    a.Config.LLM.Provider,
		Logger:         a.logger,
	})
}

// Close releases the database, if any.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

func loadBank(path string) (taskgen.Bank, error) {
	if path == "" {
		return taskgen.DefaultBank(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open task bank: %w", err)
	}
	defer f.Close()
	return taskgen.LoadBank(f)
}
