package inkflow

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkflow/inkflow/pkg/ai"
	"github.com/inkflow/inkflow/pkg/editor"
	"github.com/inkflow/inkflow/pkg/store"
	"github.com/inkflow/inkflow/pkg/store/memory"
	"github.com/inkflow/inkflow/pkg/store/postgres"
	"github.com/inkflow/inkflow/pkg/store/surrealdb"
)

// Config holds application configuration.
type Config struct {
	// Database configuration. StoreBackend selects which one is used:
	// "postgres", "surrealdb", or "memory".
	StoreBackend  string
	PostgresDSN   string
	SurrealDBURL  string
	SurrealDBNS   string
	SurrealDBDB   string
	SurrealDBUser string
	SurrealDBPass string

	// When true, all write operations are rejected.
	ReadOnly bool

	// Quiet period before an editor autosave fires. Zero means the
	// editor default.
	DebounceInterval time.Duration

	// Gemini API key for the assistant endpoints. Empty disables them.
	GeminiAPIKey string

	ServerPort string
}

// App holds the application state.
type App struct {
	store    store.Store
	ai       *ai.Generator
	config   *Config
	log      zerolog.Logger
	readOnly bool
}

// New creates a new application instance, connecting to the store named by
// config.StoreBackend and wrapping it with read-only protection.
func New(config *Config) (*App, error) {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var appStore store.Store
	var err error

	switch config.StoreBackend {
	case "postgres":
		appStore, err = postgres.NewPostgresStore(config.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		log.Info().Msg("connected to PostgreSQL")
	case "surrealdb":
		appStore, err = surrealdb.NewSurrealStore(
			config.SurrealDBURL,
			config.SurrealDBNS,
			config.SurrealDBDB,
			config.SurrealDBUser,
			config.SurrealDBPass,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
		}
		log.Info().Msg("connected to SurrealDB")
	case "memory":
		appStore = memory.NewMemoryStore()
		log.Info().Msg("using in-memory store")
	default:
		return nil, fmt.Errorf("unknown store backend: %q", config.StoreBackend)
	}

	app := &App{
		ai:       ai.NewGenerator(config.GeminiAPIKey, log.With().Str("component", "ai").Logger()),
		config:   config,
		log:      log,
		readOnly: config.ReadOnly,
	}
	app.store = store.NewReadOnlyStore(appStore, app.IsReadOnly)

	return app, nil
}

// Close closes the application and its resources
func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// Store returns the underlying store (useful for testing)
func (a *App) Store() store.Store {
	return a.store
}

// SetReadOnly toggles the application's read-only mode at runtime. When
// enabled, all write operations are rejected while reads continue to work,
// which makes maintenance windows and migrations safe without a restart.
// The state is checked by the ReadOnlyStore wrapper on every write.
func (a *App) SetReadOnly(readOnly bool) {
	a.readOnly = readOnly
	a.log.Info().Bool("read_only", readOnly).Msg("read-only mode changed")
}

// IsReadOnly reports whether the application is currently in read-only mode.
// Called on every write operation, so it stays lightweight.
func (a *App) IsReadOnly() bool {
	return a.readOnly
}

// DebounceInterval returns the editor autosave quiet period this deployment
// uses. The health endpoint advertises it so every connecting editor
// debounces at the configured rate rather than a client-side constant.
func (a *App) DebounceInterval() time.Duration {
	if a.config.DebounceInterval > 0 {
		return a.config.DebounceInterval
	}
	return editor.DefaultDebounceInterval
}

// getEnv retrieves an environment variable value, treating an empty value
// the same as unset.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
