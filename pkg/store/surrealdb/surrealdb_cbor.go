// Package surrealdb provides the SurrealDB implementation of the
// [github.com/inkflow/inkflow/pkg/store.Store] interface using native
// SurrealQL.
//
// This backend stores the same models as the PostgreSQL implementation
// without an ORM layer. The typed IDs in pkg/models marshal to SurrealDB
// RecordIDs through their CBOR implementations, so a Document's OwnerID,
// CollectionID, and ConnectionID fields become real record references while
// the Go code keeps working with plain typed IDs.
//
// # CBOR Marshaling
//
// SurrealDB speaks CBOR internally, and the default Go marshaling does not
// produce compatible output for time.Time or RecordID values. The connection
// is therefore configured with the surrealcbor codec, which gives complete
// control over marshaling and keeps datetimes and record references in
// SurrealDB's native formats.
//
// # Query Safety
//
// All queries are parameterized ($param syntax); IDs are passed as RecordID
// values, never interpolated into query strings.
package surrealdb

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/connection/gorillaws"
	surrealdb_models "github.com/surrealdb/surrealdb.go/pkg/models"
	"github.com/surrealdb/surrealdb.go/surrealcbor"

	"github.com/inkflow/inkflow/pkg/models"
	"github.com/inkflow/inkflow/pkg/store"
)

// SurrealStore implements the Store interface using SurrealDB over a
// websocket connection with the surrealcbor codec.
type SurrealStore struct {
	db       *surrealdb.DB
	ns       string
	database string
}

// NewSurrealStore creates a new SurrealDB store. The connection is
// configured manually rather than through FromEndpointURLString so the
// surrealcbor codec can be installed; without it time.Time values marshal
// incorrectly and queries fail with invalid datetime errors.
func NewSurrealStore(wsURL, namespace, database, username, password string) (store.Store, error) {
	ctx := context.Background()

	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	conf := connection.NewConfig(u)

	codec := surrealcbor.New()
	conf.Marshaler = codec
	conf.Unmarshaler = codec

	conn := gorillaws.New(conf)

	db, err := surrealdb.FromConnection(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if username != "" && password != "" {
		if _, err := db.SignIn(ctx, map[string]any{
			"user": username,
			"pass": password,
		}); err != nil {
			return nil, fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err := db.Use(ctx, namespace, database); err != nil {
		return nil, fmt.Errorf("failed to use namespace/database: %w", err)
	}

	return &SurrealStore{
		db:       db,
		ns:       namespace,
		database: database,
	}, nil
}

// Migrate is a no-op: SurrealDB creates tables implicitly when the first
// record is inserted, and the schemaless mode needs no upfront definitions.
func (s *SurrealStore) Migrate(ctx context.Context) error {
	return nil
}

// Close closes the database connection
func (s *SurrealStore) Close() error {
	return s.db.Close(context.Background())
}

// Helper to handle not found errors from the CBOR codec
func handleNotFound(err error) error {
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "Expected a single or multiple results but got 0") ||
			strings.Contains(errStr, "cannot unmarshal array into Go value") {
			return nil
		}
	}
	return err
}

// queryList runs a list query and unwraps the first result set.
func queryList[T any](ctx context.Context, db *surrealdb.DB, query string, params map[string]any) ([]*T, error) {
	result, err := surrealdb.Query[[]*T](ctx, db, query, params)
	if err != nil {
		return nil, err
	}
	if result == nil || len(*result) == 0 {
		return nil, nil
	}
	return (*result)[0].Result, nil
}

// User operations
func (s *SurrealStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = models.NewUserID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = time.Now()
	}

	_, err := surrealdb.Create[models.User](ctx, s.db, "users", user)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *SurrealStore) GetUser(ctx context.Context, id models.UserID) (*models.User, error) {
	user, err := surrealdb.Select[models.User](ctx, s.db, id.RecordID())
	if err != nil {
		if handleNotFound(err) == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *SurrealStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := queryList[models.User](ctx, s.db, "SELECT * FROM users WHERE email = $email LIMIT 1", map[string]any{
		"email": email,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if len(users) == 0 {
		return nil, nil
	}
	return users[0], nil
}

func (s *SurrealStore) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	_, err := surrealdb.Update[models.User](ctx, s.db, user.ID.RecordID(), user)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (s *SurrealStore) DeleteUser(ctx context.Context, id models.UserID) error {
	_, err := surrealdb.Delete[models.User](ctx, s.db, id.RecordID())
	return err
}

// Document operations
func (s *SurrealStore) CreateDocument(ctx context.Context, doc *models.Document) error {
	if doc.ID.IsZero() {
		doc.ID = models.NewDocumentID()
	}
	if doc.Title == "" {
		doc.Title = models.DefaultPageTitle
	}
	if doc.Status == "" {
		doc.Status = models.StatusDraft
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now()
	}

	_, err := surrealdb.Create[models.Document](ctx, s.db, "documents", doc)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

func (s *SurrealStore) GetDocument(ctx context.Context, id models.DocumentID) (*models.Document, error) {
	doc, err := surrealdb.Select[models.Document](ctx, s.db, id.RecordID())
	if err != nil {
		if handleNotFound(err) == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

func (s *SurrealStore) UpdateDocument(ctx context.Context, doc *models.Document) error {
	doc.UpdatedAt = time.Now()
	_, err := surrealdb.Update[models.Document](ctx, s.db, doc.ID.RecordID(), doc)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	return nil
}

func (s *SurrealStore) DeleteDocument(ctx context.Context, id models.DocumentID) error {
	_, err := surrealdb.Delete[models.Document](ctx, s.db, id.RecordID())
	return err
}

func (s *SurrealStore) ListDocuments(ctx context.Context, ownerID models.UserID) ([]*models.Document, error) {
	docs, err := queryList[models.Document](ctx, s.db,
		"SELECT * FROM documents WHERE owner_id = $owner ORDER BY updated_at DESC",
		map[string]any{"owner": ownerID.RecordID()})
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// Collection operations
func (s *SurrealStore) CreateCollection(ctx context.Context, col *models.Collection) error {
	if col.ID.IsZero() {
		col.ID = models.NewCollectionID()
	}
	if col.ViewType == "" {
		col.ViewType = models.ViewList
	}
	if col.CreatedAt.IsZero() {
		col.CreatedAt = time.Now()
	}
	if col.UpdatedAt.IsZero() {
		col.UpdatedAt = time.Now()
	}

	_, err := surrealdb.Create[models.Collection](ctx, s.db, "collections", col)
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

func (s *SurrealStore) GetCollection(ctx context.Context, id models.CollectionID) (*models.Collection, error) {
	col, err := surrealdb.Select[models.Collection](ctx, s.db, id.RecordID())
	if err != nil {
		if handleNotFound(err) == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	return col, nil
}

func (s *SurrealStore) UpdateCollection(ctx context.Context, col *models.Collection) error {
	col.UpdatedAt = time.Now()
	_, err := surrealdb.Update[models.Collection](ctx, s.db, col.ID.RecordID(), col)
	if err != nil {
		return fmt.Errorf("failed to update collection: %w", err)
	}
	return nil
}

// DeleteCollection clears the collection reference on every document that
// carries it, then removes the collection. Both statements run in one Query
// call so they commit together.
func (s *SurrealStore) DeleteCollection(ctx context.Context, id models.CollectionID) error {
	query := `
		UPDATE documents SET collection_id = NONE WHERE collection_id = $collection;
		DELETE $collection;
	`
	_, err := surrealdb.Query[any](ctx, s.db, query, map[string]any{
		"collection": id.RecordID(),
	})
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	return nil
}

func (s *SurrealStore) ListCollections(ctx context.Context, ownerID models.UserID) ([]*models.Collection, error) {
	cols, err := queryList[models.Collection](ctx, s.db,
		"SELECT * FROM collections WHERE owner_id = $owner",
		map[string]any{"owner": ownerID.RecordID()})
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return cols, nil
}

// Connection operations
func (s *SurrealStore) CreateConnection(ctx context.Context, conn *models.Connection) error {
	if conn.ID.IsZero() {
		conn.ID = models.NewConnectionID()
	}
	if conn.CreatedAt.IsZero() {
		conn.CreatedAt = time.Now()
	}
	if conn.UpdatedAt.IsZero() {
		conn.UpdatedAt = time.Now()
	}

	_, err := surrealdb.Create[models.Connection](ctx, s.db, "connections", conn)
	if err != nil {
		return fmt.Errorf("failed to create connection: %w", err)
	}
	return nil
}

func (s *SurrealStore) GetConnection(ctx context.Context, id models.ConnectionID) (*models.Connection, error) {
	conn, err := surrealdb.Select[models.Connection](ctx, s.db, id.RecordID())
	if err != nil {
		if handleNotFound(err) == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	return conn, nil
}

func (s *SurrealStore) UpdateConnection(ctx context.Context, conn *models.Connection) error {
	conn.UpdatedAt = time.Now()
	_, err := surrealdb.Update[models.Connection](ctx, s.db, conn.ID.RecordID(), conn)
	if err != nil {
		return fmt.Errorf("failed to update connection: %w", err)
	}
	return nil
}

// DeleteConnection clears the connection reference on every document that
// carries it, then removes the connection.
func (s *SurrealStore) DeleteConnection(ctx context.Context, id models.ConnectionID) error {
	query := `
		UPDATE documents SET connection_id = NONE WHERE connection_id = $connection;
		DELETE $connection;
	`
	_, err := surrealdb.Query[any](ctx, s.db, query, map[string]any{
		"connection": id.RecordID(),
	})
	if err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}
	return nil
}

func (s *SurrealStore) ListConnections(ctx context.Context, ownerID models.UserID) ([]*models.Connection, error) {
	conns, err := queryList[models.Connection](ctx, s.db,
		"SELECT * FROM connections WHERE owner_id = $owner",
		map[string]any{"owner": ownerID.RecordID()})
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	return conns, nil
}

// Reading list operations
func (s *SurrealStore) CreateReadingItem(ctx context.Context, item *models.ReadingItem) error {
	if item.ID.IsZero() {
		item.ID = models.NewReadingItemID()
	}
	if item.Status == "" {
		item.Status = models.ReadingUnread
	}
	if item.SourceType == "" {
		item.SourceType = models.SourceManual
	}
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = time.Now()
	}

	_, err := surrealdb.Create[models.ReadingItem](ctx, s.db, "reading_items", item)
	if err != nil {
		return fmt.Errorf("failed to create reading item: %w", err)
	}
	return nil
}

func (s *SurrealStore) GetReadingItem(ctx context.Context, id models.ReadingItemID) (*models.ReadingItem, error) {
	item, err := surrealdb.Select[models.ReadingItem](ctx, s.db, id.RecordID())
	if err != nil {
		if handleNotFound(err) == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get reading item: %w", err)
	}
	return item, nil
}

func (s *SurrealStore) UpdateReadingItem(ctx context.Context, item *models.ReadingItem) error {
	item.UpdatedAt = time.Now()
	_, err := surrealdb.Update[models.ReadingItem](ctx, s.db, item.ID.RecordID(), item)
	if err != nil {
		return fmt.Errorf("failed to update reading item: %w", err)
	}
	return nil
}

func (s *SurrealStore) DeleteReadingItem(ctx context.Context, id models.ReadingItemID) error {
	_, err := surrealdb.Delete[models.ReadingItem](ctx, s.db, id.RecordID())
	return err
}

func (s *SurrealStore) ListReadingItems(ctx context.Context, ownerID models.UserID) ([]*models.ReadingItem, error) {
	items, err := queryList[models.ReadingItem](ctx, s.db,
		"SELECT * FROM reading_items WHERE owner_id = $owner ORDER BY added_at DESC",
		map[string]any{"owner": ownerID.RecordID()})
	if err != nil {
		return nil, fmt.Errorf("failed to list reading items: %w", err)
	}
	return items, nil
}

// Prompt operations
func (s *SurrealStore) CreatePrompt(ctx context.Context, prompt *models.Prompt) error {
	if prompt.ID.IsZero() {
		prompt.ID = models.NewPromptID()
	}
	if prompt.Category == "" {
		prompt.Category = "General"
	}
	if prompt.CreatedAt.IsZero() {
		prompt.CreatedAt = time.Now()
	}
	if prompt.UpdatedAt.IsZero() {
		prompt.UpdatedAt = time.Now()
	}

	_, err := surrealdb.Create[models.Prompt](ctx, s.db, "prompts", prompt)
	if err != nil {
		return fmt.Errorf("failed to create prompt: %w", err)
	}
	return nil
}

func (s *SurrealStore) GetPrompt(ctx context.Context, id models.PromptID) (*models.Prompt, error) {
	prompt, err := surrealdb.Select[models.Prompt](ctx, s.db, id.RecordID())
	if err != nil {
		if handleNotFound(err) == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get prompt: %w", err)
	}
	return prompt, nil
}

func (s *SurrealStore) UpdatePrompt(ctx context.Context, prompt *models.Prompt) error {
	prompt.UpdatedAt = time.Now()
	_, err := surrealdb.Update[models.Prompt](ctx, s.db, prompt.ID.RecordID(), prompt)
	if err != nil {
		return fmt.Errorf("failed to update prompt: %w", err)
	}
	return nil
}

func (s *SurrealStore) DeletePrompt(ctx context.Context, id models.PromptID) error {
	_, err := surrealdb.Delete[models.Prompt](ctx, s.db, id.RecordID())
	return err
}

func (s *SurrealStore) ListPrompts(ctx context.Context, ownerID models.UserID) ([]*models.Prompt, error) {
	prompts, err := queryList[models.Prompt](ctx, s.db,
		"SELECT * FROM prompts WHERE owner_id = $owner ORDER BY created_at DESC",
		map[string]any{"owner": ownerID.RecordID()})
	if err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}
	return prompts, nil
}

// Settings operations. Settings live in their own table keyed by the owning
// user's UUID so there is exactly one row per user.
func settingsRecordID(userID models.UserID) surrealdb_models.RecordID {
	return surrealdb_models.RecordID{
		Table: "settings",
		ID:    userID.String(),
	}
}

func (s *SurrealStore) GetSettings(ctx context.Context, userID models.UserID) (*models.Settings, error) {
	settings, err := surrealdb.Select[models.Settings](ctx, s.db, settingsRecordID(userID))
	if err != nil {
		if handleNotFound(err) == nil {
			return models.DefaultSettings(userID), nil
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	if settings == nil {
		return models.DefaultSettings(userID), nil
	}
	return settings, nil
}

func (s *SurrealStore) PutSettings(ctx context.Context, settings *models.Settings) error {
	settings.UpdatedAt = time.Now()
	_, err := surrealdb.Query[any](ctx, s.db, "UPSERT $record CONTENT $data", map[string]any{
		"record": settingsRecordID(settings.UserID),
		"data":   settings,
	})
	if err != nil {
		return fmt.Errorf("failed to put settings: %w", err)
	}
	return nil
}
