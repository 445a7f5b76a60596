package inkflow

import (
	"context"
	"fmt"
)

// Migrate brings the configured store's schema up to date. PostgreSQL runs
// GORM AutoMigrate; SurrealDB and the in-memory store are schemaless so
// this completes immediately for them. Safe to run repeatedly.
func (a *App) Migrate(ctx context.Context, cmd *MigrateCommand) error {
	if err := a.store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate store: %w", err)
	}
	a.log.Info().Str("backend", a.config.StoreBackend).Msg("migration complete")
	return nil
}
