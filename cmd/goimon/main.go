// Command goimon is a conversational ordering assistant for a Vietnamese
// restaurant, driven from the terminal, a TUI or an MCP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goimon-labs/goimon-cli/internal/adapters/driven/ai"
	catalogfile "github.com/goimon-labs/goimon-cli/internal/adapters/driven/catalog/file"
	configfile "github.com/goimon-labs/goimon-cli/internal/adapters/driven/config/file"
	"github.com/goimon-labs/goimon-cli/internal/adapters/driven/storage/memory"
	"github.com/goimon-labs/goimon-cli/internal/adapters/driven/storage/sqlite"
	"github.com/goimon-labs/goimon-cli/internal/adapters/driving/cli"
	"github.com/goimon-labs/goimon-cli/internal/core/ports/driven"
	"github.com/goimon-labs/goimon-cli/internal/core/services"
	"github.com/goimon-labs/goimon-cli/internal/logger"
)

// sweepInterval is how often expired sessions are collected.
const sweepInterval = time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("initialising config store: %w", err)
	}

	settings, err := configStore.LoadSettings()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	// AI collaborators are optional. The assistant degrades to keyword
	// handling and canned replies when they are unreachable.
	embedder, err := ai.CreateAndValidateEmbeddingService(&settings.Embedding)
	if err != nil {
		logger.Warn("embedding service unavailable: %v", err)
		embedder = nil
	}
	if embedder != nil {
		defer embedder.Close()
	}

	llm, err := ai.CreateAndValidateLLMService(&settings.LLM)
	if err != nil {
		logger.Warn("LLM service unavailable: %v", err)
		llm = nil
	}
	if llm != nil {
		defer llm.Close()
	}

	source := catalogfile.NewCatalogSource(settings.MenuPath)
	catalog := services.NewCatalogService(source, embedder)
	if err := catalog.Reload(ctx); err != nil {
		return fmt.Errorf("loading menu from %s: %w", settings.MenuPath, err)
	}
	go func() {
		if err := catalog.WatchSource(ctx); err != nil {
			logger.Warn("menu watcher stopped: %v", err)
		}
	}()

	sessions := services.NewSessionService(time.Duration(settings.Sessions.TTL) * time.Second)
	if settings.Sessions.TTL > 0 {
		sessions.StartSweeper(ctx, sweepInterval)
	}

	var store driven.OrderStore
	store, err = sqlite.NewOrderStore(settings.DataDir)
	if err != nil {
		logger.Warn("order database unavailable, using in-memory store: %v", err)
		store = memory.NewOrderStore()
	}
	defer store.Close()

	orders := services.NewOrderService(store)
	dialogue := services.NewDialogueService(catalog, sessions, orders, llm)

	cli.SetServices(cli.Services{
		Chat:    dialogue,
		Catalog: catalog,
		Orders:  orders,
		Config:  configStore,
	})

	return cli.Execute(ctx)
}
