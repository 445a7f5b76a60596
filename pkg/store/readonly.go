package store

import (
	"context"
	"fmt"

	"github.com/inkflow/inkflow/pkg/models"
)

// ReadOnlyStore wraps a Store and prevents write operations when in read-only
// mode.
//
// The read-only state is determined dynamically by the isReadOnly function,
// allowing the application to toggle between read-write and read-only modes
// without recreating the store instance. This is used for maintenance
// windows: reads keep serving while every write returns an error the
// handlers surface as an error status.
//
// All write operations (Create, Update, Delete, PutSettings, Migrate) check
// the mode first; read operations pass through unchanged via the embedded
// Store.
type ReadOnlyStore struct {
	Store
	isReadOnly func() bool
}

// NewReadOnlyStore creates a new read-only wrapper for a store
func NewReadOnlyStore(store Store, isReadOnly func() bool) Store {
	return &ReadOnlyStore{
		Store:      store,
		isReadOnly: isReadOnly,
	}
}

// Unwrap returns the underlying store
func (r *ReadOnlyStore) Unwrap() Store {
	return r.Store
}

// checkReadOnly returns an error if the store is in read-only mode
func (r *ReadOnlyStore) checkReadOnly() error {
	if r.isReadOnly() {
		return fmt.Errorf("operation denied: application is in read-only mode")
	}
	return nil
}

// Write operations - check read-only mode first

func (r *ReadOnlyStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.CreateUser(ctx, user)
}

func (r *ReadOnlyStore) UpdateUser(ctx context.Context, user *models.User) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.UpdateUser(ctx, user)
}

func (r *ReadOnlyStore) DeleteUser(ctx context.Context, id models.UserID) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.DeleteUser(ctx, id)
}

func (r *ReadOnlyStore) CreateDocument(ctx context.Context, doc *models.Document) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.CreateDocument(ctx, doc)
}

func (r *ReadOnlyStore) UpdateDocument(ctx context.Context, doc *models.Document) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.UpdateDocument(ctx, doc)
}

func (r *ReadOnlyStore) DeleteDocument(ctx context.Context, id models.DocumentID) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.DeleteDocument(ctx, id)
}

func (r *ReadOnlyStore) CreateCollection(ctx context.Context, col *models.Collection) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.CreateCollection(ctx, col)
}

func (r *ReadOnlyStore) UpdateCollection(ctx context.Context, col *models.Collection) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.UpdateCollection(ctx, col)
}

func (r *ReadOnlyStore) DeleteCollection(ctx context.Context, id models.CollectionID) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.DeleteCollection(ctx, id)
}

func (r *ReadOnlyStore) CreateConnection(ctx context.Context, conn *models.Connection) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.CreateConnection(ctx, conn)
}

func (r *ReadOnlyStore) UpdateConnection(ctx context.Context, conn *models.Connection) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.UpdateConnection(ctx, conn)
}

func (r *ReadOnlyStore) DeleteConnection(ctx context.Context, id models.ConnectionID) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.DeleteConnection(ctx, id)
}

func (r *ReadOnlyStore) CreateReadingItem(ctx context.Context, item *models.ReadingItem) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.CreateReadingItem(ctx, item)
}

func (r *ReadOnlyStore) UpdateReadingItem(ctx context.Context, item *models.ReadingItem) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.UpdateReadingItem(ctx, item)
}

func (r *ReadOnlyStore) DeleteReadingItem(ctx context.Context, id models.ReadingItemID) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.DeleteReadingItem(ctx, id)
}

func (r *ReadOnlyStore) CreatePrompt(ctx context.Context, prompt *models.Prompt) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.CreatePrompt(ctx, prompt)
}

func (r *ReadOnlyStore) UpdatePrompt(ctx context.Context, prompt *models.Prompt) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.UpdatePrompt(ctx, prompt)
}

func (r *ReadOnlyStore) DeletePrompt(ctx context.Context, id models.PromptID) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.DeletePrompt(ctx, id)
}

func (r *ReadOnlyStore) PutSettings(ctx context.Context, settings *models.Settings) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.PutSettings(ctx, settings)
}

func (r *ReadOnlyStore) Migrate(ctx context.Context) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.Migrate(ctx)
}

// Read operations pass through without checks via the embedded Store
