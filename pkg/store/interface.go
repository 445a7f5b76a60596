// Package store provides the data persistence layer abstraction for the
// InkFlow application.
//
// This package defines the [Store] interface which enables the application to
// work with different database backends while maintaining a unified API:
// PostgreSQL through GORM, SurrealDB through its native CBOR protocol, and an
// in-memory map store used by tests and local development. Handlers depend
// only on this interface, so the backend is chosen at startup without
// touching any calling code.
//
// Conventions shared by all implementations:
//
//   - Get returns (nil, nil) when the record does not exist. Absence is an
//     expected condition, not an error; callers translate nil into a 404 or
//     an upsert as appropriate.
//   - Create assigns the ID and timestamps when they are zero.
//   - Update refreshes UpdatedAt and persists the full entity; the caller
//     observes the refreshed value through the same pointer.
//   - List operations are scoped to a single owner. ListDocuments returns
//     documents most-recently-updated first, the order the editor sidebar
//     presents.
//   - DeleteCollection and DeleteConnection cascade: any document
//     referencing the deleted row has that reference cleared before the row
//     is removed, so a subsequent list never observes a dangling reference.
package store

import (
	"context"

	"github.com/inkflow/inkflow/pkg/models"
)

// Store is the persistence contract for all InkFlow entities.
type Store interface {
	// User operations. Login is an upsert keyed by email, so
	// GetUserByEmail is part of the contract alongside ID lookup.
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id models.UserID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id models.UserID) error

	// Document operations
	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id models.DocumentID) (*models.Document, error)
	UpdateDocument(ctx context.Context, doc *models.Document) error
	DeleteDocument(ctx context.Context, id models.DocumentID) error
	ListDocuments(ctx context.Context, ownerID models.UserID) ([]*models.Document, error)

	// Collection operations
	CreateCollection(ctx context.Context, col *models.Collection) error
	GetCollection(ctx context.Context, id models.CollectionID) (*models.Collection, error)
	UpdateCollection(ctx context.Context, col *models.Collection) error
	DeleteCollection(ctx context.Context, id models.CollectionID) error
	ListCollections(ctx context.Context, ownerID models.UserID) ([]*models.Collection, error)

	// Connection operations
	CreateConnection(ctx context.Context, conn *models.Connection) error
	GetConnection(ctx context.Context, id models.ConnectionID) (*models.Connection, error)
	UpdateConnection(ctx context.Context, conn *models.Connection) error
	DeleteConnection(ctx context.Context, id models.ConnectionID) error
	ListConnections(ctx context.Context, ownerID models.UserID) ([]*models.Connection, error)

	// Reading list operations
	CreateReadingItem(ctx context.Context, item *models.ReadingItem) error
	GetReadingItem(ctx context.Context, id models.ReadingItemID) (*models.ReadingItem, error)
	UpdateReadingItem(ctx context.Context, item *models.ReadingItem) error
	DeleteReadingItem(ctx context.Context, id models.ReadingItemID) error
	ListReadingItems(ctx context.Context, ownerID models.UserID) ([]*models.ReadingItem, error)

	// Prompt operations
	CreatePrompt(ctx context.Context, prompt *models.Prompt) error
	GetPrompt(ctx context.Context, id models.PromptID) (*models.Prompt, error)
	UpdatePrompt(ctx context.Context, prompt *models.Prompt) error
	DeletePrompt(ctx context.Context, id models.PromptID) error
	ListPrompts(ctx context.Context, ownerID models.UserID) ([]*models.Prompt, error)

	// Settings operations. GetSettings returns the defaults when the user
	// has never saved settings.
	GetSettings(ctx context.Context, userID models.UserID) (*models.Settings, error)
	PutSettings(ctx context.Context, settings *models.Settings) error

	// Migrate creates or updates the schema for this backend
	Migrate(ctx context.Context) error

	// Close releases the backend's resources
	Close() error
}
