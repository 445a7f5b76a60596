package inkflow

import (
	"context"
	"fmt"
)

// Main is the entry point for the inkflow application. It parses the
// arguments, builds the [App], and executes the requested command. Taking a
// context and the argument slice keeps it directly callable from tests
// without building the binary; cancellation shuts the server down
// gracefully.
//
// # Command Line Usage
//
//	inkflow run                          # serve with PostgreSQL (default)
//	inkflow -store surrealdb run         # serve with SurrealDB
//	inkflow -store memory run            # serve with the in-memory store
//	inkflow -read-only run               # serve rejecting all writes
//	inkflow migrate                      # run schema migrations
//
// # Environment Variables
//
//	POSTGRES_DSN     - PostgreSQL connection string
//	SURREALDB_URL    - SurrealDB WebSocket URL (default: ws://localhost:8000/rpc)
//	SURREALDB_NS     - SurrealDB namespace (default: inkflow)
//	SURREALDB_DB     - SurrealDB database (default: inkflow)
//	SURREALDB_USER   - SurrealDB username (default: root)
//	SURREALDB_PASS   - SurrealDB password (default: root)
//	GEMINI_API_KEY   - API key for the writing-assistant endpoints
//	PORT             - Server port (default: 8080, -port flag wins)
func Main(ctx context.Context, args []string) error {
	cmd, config, err := Parse(args)
	if err != nil {
		return fmt.Errorf("failed to parse configuration: %w", err)
	}

	app, err := New(config)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer app.Close()

	switch c := cmd.(type) {
	case *MigrateCommand:
		if err := app.Migrate(ctx, c); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	case *RunCommand:
		if err := app.Run(ctx, c); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	default:
		return fmt.Errorf("unknown command type: %T", cmd)
	}

	return nil
}
