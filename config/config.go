package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string
	DiscordGuildID string

	// Storage configuration
	DataDir       string // directory holding the JSON documents and the audit database
	UsersDocument string // document name for profiles
	JobsDocument  string // document name for the job catalog
	HistoryDBPath string // path of the balance audit database

	// Game configuration
	TurnTimeout       time.Duration // elimination game per-turn countdown
	BlackjackTableTTL time.Duration // how long an untouched blackjack table stays open

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from the environment, with a .env file as
// fallback for local development.
func load() (*Config, error) {
	// A missing .env file is fine; real deployments set the environment.
	_ = godotenv.Load()

	config := &Config{
		// Discord
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),

		// Storage with defaults
		DataDir:       "data",
		UsersDocument: "users",
		JobsDocument:  "jobs",

		// Game settings with defaults
		TurnTimeout:       60 * time.Second,
		BlackjackTableTTL: 10 * time.Minute,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if dir := os.Getenv("DATA_DIR"); dir != "" {
		config.DataDir = dir
	}
	if doc := os.Getenv("USERS_FILE"); doc != "" {
		config.UsersDocument = doc
	}
	if doc := os.Getenv("JOBS_FILE"); doc != "" {
		config.JobsDocument = doc
	}
	config.HistoryDBPath = filepath.Join(config.DataDir, "history.db")
	if path := os.Getenv("HISTORY_DB"); path != "" {
		config.HistoryDBPath = path
	}
	if seconds := os.Getenv("TURN_TIMEOUT_SECONDS"); seconds != "" {
		if parsed, err := strconv.Atoi(seconds); err == nil && parsed > 0 {
			config.TurnTimeout = time.Duration(parsed) * time.Second
		}
	}
	if minutes := os.Getenv("TABLE_TTL_MINUTES"); minutes != "" {
		if parsed, err := strconv.Atoi(minutes); err == nil && parsed > 0 {
			config.BlackjackTableTTL = time.Duration(parsed) * time.Minute
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
	}

	return config, nil
}
