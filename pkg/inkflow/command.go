package inkflow

// Command represents a discrete application operation with its specific
// configuration.
//
// The interface separates command parsing from execution: each
// implementation carries the parameters for its operation, and [Main] routes
// it to the matching method on [App]. The returned name must match the CLI
// sub-command name.
type Command interface {
	// Name returns the command identifier used for routing.
	Name() string
}

// MigrateCommand initializes or updates the database schema to match the
// current data model. For the PostgreSQL backend this runs GORM's
// AutoMigrate; SurrealDB and the in-memory store are schemaless so the
// command is a no-op for them.
//
// Safe to run multiple times: it only creates missing schema elements and
// never drops data. Run it on initial deployment and after model changes.
type MigrateCommand struct {
	// Currently empty - all configuration comes from App.Config
}

// Name returns the command name for routing.
func (c *MigrateCommand) Name() string {
	return "migrate"
}

// RunCommand starts the HTTP server providing the full REST API: login,
// document, collection, connection, reading-list, prompt, and settings
// operations, plus the writing-assistant endpoints.
//
// The server adapts to the configured store backend and honors read-only
// mode, and shuts down gracefully when the context is cancelled.
type RunCommand struct {
	// Currently empty - all configuration comes from App.Config
}

// Name returns the command name for routing.
func (c *RunCommand) Name() string {
	return "run"
}
