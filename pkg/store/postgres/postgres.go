// Package postgres provides the PostgreSQL implementation of the
// [github.com/inkflow/inkflow/pkg/store.Store] interface using GORM.
//
// This is the default production backend. GORM handles SQL generation,
// connection pooling, and schema migration through AutoMigrate, while the
// typed IDs in pkg/models store as plain UUID columns via their
// driver.Valuer/sql.Scanner implementations. Document tags and properties
// are serialized text columns (see models.StringList and models.JSONMap);
// the structured form never leaves the model types, so handlers and clients
// only ever see slices and maps.
//
// # Consistency
//
// Each Store operation runs in its own implicit transaction. The two cascade
// deletes (DeleteCollection, DeleteConnection) use an explicit transaction so
// the reference-clearing update and the row deletion commit together; a
// concurrent ListDocuments either sees the reference intact or fully cleared,
// never a dangling ID.
//
// # Schema Migration
//
// [PostgresStore.Migrate] uses GORM's AutoMigrate, which only adds missing
// tables, columns, and indexes. It is safe to run on every startup. Renames
// and column removals require manual migration scripts.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/inkflow/inkflow/pkg/models"
	"github.com/inkflow/inkflow/pkg/store"
)

// PostgresStore implements the Store interface using PostgreSQL with GORM.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore creates a new PostgreSQL store.
func NewPostgresStore(dsn string) (store.Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// getDB returns the database connection
func (s *PostgresStore) getDB() *gorm.DB {
	return s.db
}

// Migrate creates missing tables, columns, and indexes for the InkFlow
// data model. Safe to run repeatedly; it never drops existing data.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return s.db.AutoMigrate(
		&models.User{},
		&models.Document{},
		&models.Collection{},
		&models.Connection{},
		&models.ReadingItem{},
		&models.Prompt{},
		&models.Settings{},
	)
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// User operations
func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	return s.getDB().WithContext(ctx).Create(user).Error
}

func (s *PostgresStore) GetUser(ctx context.Context, id models.UserID) (*models.User, error) {
	var user models.User
	err := s.getDB().WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.getDB().WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *PostgresStore) UpdateUser(ctx context.Context, user *models.User) error {
	return s.getDB().WithContext(ctx).Save(user).Error
}

func (s *PostgresStore) DeleteUser(ctx context.Context, id models.UserID) error {
	return s.getDB().WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error
}

// Document operations
func (s *PostgresStore) CreateDocument(ctx context.Context, doc *models.Document) error {
	return s.getDB().WithContext(ctx).Create(doc).Error
}

func (s *PostgresStore) GetDocument(ctx context.Context, id models.DocumentID) (*models.Document, error) {
	var doc models.Document
	err := s.getDB().WithContext(ctx).First(&doc, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (s *PostgresStore) UpdateDocument(ctx context.Context, doc *models.Document) error {
	return s.getDB().WithContext(ctx).Save(doc).Error
}

func (s *PostgresStore) DeleteDocument(ctx context.Context, id models.DocumentID) error {
	return s.getDB().WithContext(ctx).Delete(&models.Document{}, "id = ?", id).Error
}

func (s *PostgresStore) ListDocuments(ctx context.Context, ownerID models.UserID) ([]*models.Document, error) {
	var docs []*models.Document
	err := s.getDB().WithContext(ctx).Where("owner_id = ?", ownerID).Order("updated_at DESC").Find(&docs).Error
	return docs, err
}

// Collection operations
func (s *PostgresStore) CreateCollection(ctx context.Context, col *models.Collection) error {
	return s.getDB().WithContext(ctx).Create(col).Error
}

func (s *PostgresStore) GetCollection(ctx context.Context, id models.CollectionID) (*models.Collection, error) {
	var col models.Collection
	err := s.getDB().WithContext(ctx).First(&col, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &col, nil
}

func (s *PostgresStore) UpdateCollection(ctx context.Context, col *models.Collection) error {
	return s.getDB().WithContext(ctx).Save(col).Error
}

// DeleteCollection clears the collection reference on every document that
// carries it, then removes the collection, in one transaction.
func (s *PostgresStore) DeleteCollection(ctx context.Context, id models.CollectionID) error {
	return s.getDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Document{}).Where("collection_id = ?", id).Update("collection_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Collection{}, "id = ?", id).Error
	})
}

func (s *PostgresStore) ListCollections(ctx context.Context, ownerID models.UserID) ([]*models.Collection, error) {
	var cols []*models.Collection
	err := s.getDB().WithContext(ctx).Where("owner_id = ?", ownerID).Find(&cols).Error
	return cols, err
}

// Connection operations
func (s *PostgresStore) CreateConnection(ctx context.Context, conn *models.Connection) error {
	return s.getDB().WithContext(ctx).Create(conn).Error
}

func (s *PostgresStore) GetConnection(ctx context.Context, id models.ConnectionID) (*models.Connection, error) {
	var conn models.Connection
	err := s.getDB().WithContext(ctx).First(&conn, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conn, nil
}

func (s *PostgresStore) UpdateConnection(ctx context.Context, conn *models.Connection) error {
	return s.getDB().WithContext(ctx).Save(conn).Error
}

// DeleteConnection clears the connection reference on every document that
// carries it, then removes the connection, in one transaction.
func (s *PostgresStore) DeleteConnection(ctx context.Context, id models.ConnectionID) error {
	return s.getDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Document{}).Where("connection_id = ?", id).Update("connection_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Connection{}, "id = ?", id).Error
	})
}

func (s *PostgresStore) ListConnections(ctx context.Context, ownerID models.UserID) ([]*models.Connection, error) {
	var conns []*models.Connection
	err := s.getDB().WithContext(ctx).Where("owner_id = ?", ownerID).Find(&conns).Error
	return conns, err
}

// Reading list operations
func (s *PostgresStore) CreateReadingItem(ctx context.Context, item *models.ReadingItem) error {
	return s.getDB().WithContext(ctx).Create(item).Error
}

func (s *PostgresStore) GetReadingItem(ctx context.Context, id models.ReadingItemID) (*models.ReadingItem, error) {
	var item models.ReadingItem
	err := s.getDB().WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (s *PostgresStore) UpdateReadingItem(ctx context.Context, item *models.ReadingItem) error {
	return s.getDB().WithContext(ctx).Save(item).Error
}

func (s *PostgresStore) DeleteReadingItem(ctx context.Context, id models.ReadingItemID) error {
	return s.getDB().WithContext(ctx).Delete(&models.ReadingItem{}, "id = ?", id).Error
}

func (s *PostgresStore) ListReadingItems(ctx context.Context, ownerID models.UserID) ([]*models.ReadingItem, error) {
	var items []*models.ReadingItem
	err := s.getDB().WithContext(ctx).Where("owner_id = ?", ownerID).Order("added_at DESC").Find(&items).Error
	return items, err
}

// Prompt operations
func (s *PostgresStore) CreatePrompt(ctx context.Context, prompt *models.Prompt) error {
	return s.getDB().WithContext(ctx).Create(prompt).Error
}

func (s *PostgresStore) GetPrompt(ctx context.Context, id models.PromptID) (*models.Prompt, error) {
	var prompt models.Prompt
	err := s.getDB().WithContext(ctx).First(&prompt, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prompt, nil
}

func (s *PostgresStore) UpdatePrompt(ctx context.Context, prompt *models.Prompt) error {
	return s.getDB().WithContext(ctx).Save(prompt).Error
}

func (s *PostgresStore) DeletePrompt(ctx context.Context, id models.PromptID) error {
	return s.getDB().WithContext(ctx).Delete(&models.Prompt{}, "id = ?", id).Error
}

func (s *PostgresStore) ListPrompts(ctx context.Context, ownerID models.UserID) ([]*models.Prompt, error) {
	var prompts []*models.Prompt
	err := s.getDB().WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&prompts).Error
	return prompts, err
}

// Settings operations
func (s *PostgresStore) GetSettings(ctx context.Context, userID models.UserID) (*models.Settings, error) {
	var settings models.Settings
	err := s.getDB().WithContext(ctx).First(&settings, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DefaultSettings(userID), nil
		}
		return nil, err
	}
	return &settings, nil
}

func (s *PostgresStore) PutSettings(ctx context.Context, settings *models.Settings) error {
	return s.getDB().WithContext(ctx).Save(settings).Error
}
