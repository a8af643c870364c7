package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpadapter "github.com/PabloGalante/shop-assistant/internal/adapters/http"
	"github.com/PabloGalante/shop-assistant/internal/adapters/llm"
	firestorestore "github.com/PabloGalante/shop-assistant/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/shop-assistant/internal/adapters/storage/memory"
	"github.com/PabloGalante/shop-assistant/internal/adapters/storage/seed"
	sqlstore "github.com/PabloGalante/shop-assistant/internal/adapters/storage/sql"
	"github.com/PabloGalante/shop-assistant/internal/app/conversation"
	"github.com/PabloGalante/shop-assistant/internal/config"
	"github.com/PabloGalante/shop-assistant/internal/domain"
	"github.com/PabloGalante/shop-assistant/internal/observability"
)

func main() {
	if err := run(); err != nil {
		observability.Logger().Error("assistant api stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	observability.Init(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	log := observability.Logger()

	llmClient, err := llm.NewClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init llm client: %w", err)
	}
	log.Info("llm client ready", "provider", cfg.LLMProvider)

	history, catalog, closeStore, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := conversation.NewService(llmClient, history, catalog, conversation.Settings{
		Temperature:        cfg.Temperature,
		MaxOutputTokens:    cfg.MaxTokens,
		MaxHistoryMessages: cfg.MaxHistoryMessages,
		MaxProductContext:  cfg.MaxProductContext,
		MaxRecommendations: cfg.MaxRecommendations,
		LLMTimeout:         cfg.LLMTimeout,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpadapter.NewServer(svc),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.LLMTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("assistant api listening", "addr", srv.Addr, "mode", cfg.Mode, "storage", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStorage picks the backend named in cfg. One store serves both ports.
func openStorage(ctx context.Context, cfg *config.Config) (domain.HistoryStore, domain.CatalogProvider, func(), error) {
	log := observability.Logger()
	products := func() []domain.CatalogEntry {
		if !cfg.SeedCatalog {
			return nil
		}
		return seed.Products(cfg.SeedSize)
	}

	switch cfg.StorageBackend {
	case config.StorageFirestore:
		log.Info("using firestore storage", "project", cfg.GCPProjectID)
		store, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("init firestore store: %w", err)
		}
		if entries := products(); len(entries) > 0 {
			seeded, err := store.SeedProducts(ctx, entries)
			if err != nil {
				_ = store.Close()
				return nil, nil, nil, err
			}
			log.Info("catalog seed", "seeded", seeded)
		}
		return store, store, func() { _ = store.Close() }, nil

	case config.StorageSQL:
		log.Info("using sql storage", "driver", cfg.SQLDriver)
		store, err := sqlstore.Open(cfg.SQLDriver, cfg.SQLDSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("init sql store: %w", err)
		}
		if entries := products(); len(entries) > 0 {
			seeded, err := store.SeedProducts(ctx, entries)
			if err != nil {
				_ = store.Close()
				return nil, nil, nil, err
			}
			log.Info("catalog seed", "seeded", seeded)
		}
		return store, store, func() { _ = store.Close() }, nil

	default:
		log.Info("using in-memory storage")
		return memstore.NewHistoryStore(), memstore.NewCatalogStore(products()...), func() {}, nil
	}
}
