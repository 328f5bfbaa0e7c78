package cmd

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"cantina/bot"
	"cantina/config"
	"cantina/events"
	"cantina/game"
	"cantina/repository"
	"cantina/service"
	"cantina/storage"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting cantina bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize the document store
	log.WithField("dataDir", cfg.DataDir).Info("Opening document store...")
	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open document store: %w", err)
	}

	// Initialize the balance audit database
	historyRepo, err := repository.NewBalanceHistoryRepository(cfg.HistoryDBPath)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(store, cfg.UsersDocument)
	jobCatalog := repository.NewJobCatalog(store, cfg.JobsDocument)

	// Initialize services
	economyService := service.NewEconomyService(profileRepo, jobCatalog, historyRepo, eventBus)
	casinoService := service.NewCasinoService(profileRepo, historyRepo, eventBus,
		service.WithTableTTL(cfg.BlackjackTableTTL))
	eliminationManager := game.NewEliminationManager(eventBus,
		game.WithTurnTimeout(cfg.TurnTimeout))
	log.Info("Services initialized successfully")

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:   cfg.DiscordToken,
		GuildID: cfg.DiscordGuildID,
	}
	discordBot, err := bot.New(botConfig, economyService, casinoService, eliminationManager, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Info("Shutting down bot...")

	// Close Discord bot connection
	if err := discordBot.Close(); err != nil {
		log.Errorf("Error closing Discord bot: %v", err)
	}

	// Close the audit database
	if err := historyRepo.Close(); err != nil {
		log.Errorf("Error closing history database: %v", err)
	}

	// Give async event handlers time to drain
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("Shutdown completed")
	}

	return nil
}
