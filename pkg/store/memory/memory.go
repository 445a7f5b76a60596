// Package memory provides an in-memory implementation of the
// [github.com/inkflow/inkflow/pkg/store.Store] interface.
//
// It exists for tests and local development: the full handler stack and the
// HTTP client run against it without a database process. Semantics mirror
// the PostgreSQL backend: Get returns (nil, nil) for missing records,
// Create assigns IDs and timestamps, ListDocuments orders by UpdatedAt
// descending, and the collection/connection deletes cascade-clear document
// references.
//
// All returned entities are copies, so callers can mutate results without
// corrupting the store, matching how a real backend behaves.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/inkflow/inkflow/pkg/models"
	"github.com/inkflow/inkflow/pkg/store"
)

// MemoryStore implements the Store interface with mutex-guarded maps.
type MemoryStore struct {
	mu           sync.RWMutex
	users        map[models.UserID]*models.User
	documents    map[models.DocumentID]*models.Document
	collections  map[models.CollectionID]*models.Collection
	connections  map[models.ConnectionID]*models.Connection
	readingItems map[models.ReadingItemID]*models.ReadingItem
	prompts      map[models.PromptID]*models.Prompt
	settings     map[models.UserID]*models.Settings
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() store.Store {
	return &MemoryStore{
		users:        make(map[models.UserID]*models.User),
		documents:    make(map[models.DocumentID]*models.Document),
		collections:  make(map[models.CollectionID]*models.Collection),
		connections:  make(map[models.ConnectionID]*models.Connection),
		readingItems: make(map[models.ReadingItemID]*models.ReadingItem),
		prompts:      make(map[models.PromptID]*models.Prompt),
		settings:     make(map[models.UserID]*models.Settings),
	}
}

// Migrate is a no-op for the in-memory store
func (s *MemoryStore) Migrate(ctx context.Context) error { return nil }

// Close is a no-op for the in-memory store
func (s *MemoryStore) Close() error { return nil }

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func copyDocument(d *models.Document) *models.Document {
	c := *d
	if d.ConnectionID != nil {
		id := *d.ConnectionID
		c.ConnectionID = &id
	}
	if d.CollectionID != nil {
		id := *d.CollectionID
		c.CollectionID = &id
	}
	if d.Tags != nil {
		c.Tags = append(models.StringList{}, d.Tags...)
	}
	if d.Properties != nil {
		c.Properties = make(models.JSONMap, len(d.Properties))
		for k, v := range d.Properties {
			c.Properties[k] = v
		}
	}
	return &c
}

func copyCollection(c *models.Collection) *models.Collection {
	cp := *c
	return &cp
}

func copyConnection(c *models.Connection) *models.Connection {
	cp := *c
	return &cp
}

func copyReadingItem(r *models.ReadingItem) *models.ReadingItem {
	c := *r
	if r.Tags != nil {
		c.Tags = append(models.StringList{}, r.Tags...)
	}
	return &c
}

func copyPrompt(p *models.Prompt) *models.Prompt {
	c := *p
	if p.Tags != nil {
		c.Tags = append(models.StringList{}, p.Tags...)
	}
	return &c
}

// User operations
func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = models.NewUserID()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}
	s.users[user.ID] = copyUser(user)
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id models.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return copyUser(u), nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) UpdateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.UpdatedAt = time.Now()
	s.users[user.ID] = copyUser(user)
	return nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id models.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}

// Document operations
func (s *MemoryStore) CreateDocument(ctx context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc.ID.IsZero() {
		doc.ID = models.NewDocumentID()
	}
	if doc.Title == "" {
		doc.Title = models.DefaultPageTitle
	}
	if doc.Status == "" {
		doc.Status = models.StatusDraft
	}
	now := time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = now
	}
	s.documents[doc.ID] = copyDocument(doc)
	return nil
}

func (s *MemoryStore) GetDocument(ctx context.Context, id models.DocumentID) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.documents[id]
	if !ok {
		return nil, nil
	}
	return copyDocument(d), nil
}

func (s *MemoryStore) UpdateDocument(ctx context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc.UpdatedAt = time.Now()
	s.documents[doc.ID] = copyDocument(doc)
	return nil
}

func (s *MemoryStore) DeleteDocument(ctx context.Context, id models.DocumentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, id)
	return nil
}

func (s *MemoryStore) ListDocuments(ctx context.Context, ownerID models.UserID) ([]*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []*models.Document
	for _, d := range s.documents {
		if d.OwnerID == ownerID {
			docs = append(docs, copyDocument(d))
		}
	}
	// Most recently updated first; ID tie-break keeps the order stable.
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].UpdatedAt.Equal(docs[j].UpdatedAt) {
			return docs[i].UpdatedAt.After(docs[j].UpdatedAt)
		}
		return docs[i].ID.String() < docs[j].ID.String()
	})
	return docs, nil
}

// Collection operations
func (s *MemoryStore) CreateCollection(ctx context.Context, col *models.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if col.ID.IsZero() {
		col.ID = models.NewCollectionID()
	}
	if col.ViewType == "" {
		col.ViewType = models.ViewList
	}
	now := time.Now()
	if col.CreatedAt.IsZero() {
		col.CreatedAt = now
	}
	if col.UpdatedAt.IsZero() {
		col.UpdatedAt = now
	}
	s.collections[col.ID] = copyCollection(col)
	return nil
}

func (s *MemoryStore) GetCollection(ctx context.Context, id models.CollectionID) (*models.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[id]
	if !ok {
		return nil, nil
	}
	return copyCollection(c), nil
}

func (s *MemoryStore) UpdateCollection(ctx context.Context, col *models.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	col.UpdatedAt = time.Now()
	s.collections[col.ID] = copyCollection(col)
	return nil
}

func (s *MemoryStore) DeleteCollection(ctx context.Context, id models.CollectionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.documents {
		if d.CollectionID != nil && *d.CollectionID == id {
			d.CollectionID = nil
		}
	}
	delete(s.collections, id)
	return nil
}

func (s *MemoryStore) ListCollections(ctx context.Context, ownerID models.UserID) ([]*models.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var cols []*models.Collection
	for _, c := range s.collections {
		if c.OwnerID == ownerID {
			cols = append(cols, copyCollection(c))
		}
	}
	sort.Slice(cols, func(i, j int) bool {
		if !cols[i].CreatedAt.Equal(cols[j].CreatedAt) {
			return cols[i].CreatedAt.Before(cols[j].CreatedAt)
		}
		return cols[i].ID.String() < cols[j].ID.String()
	})
	return cols, nil
}

// Connection operations
func (s *MemoryStore) CreateConnection(ctx context.Context, conn *models.Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conn.ID.IsZero() {
		conn.ID = models.NewConnectionID()
	}
	now := time.Now()
	if conn.CreatedAt.IsZero() {
		conn.CreatedAt = now
	}
	if conn.UpdatedAt.IsZero() {
		conn.UpdatedAt = now
	}
	s.connections[conn.ID] = copyConnection(conn)
	return nil
}

func (s *MemoryStore) GetConnection(ctx context.Context, id models.ConnectionID) (*models.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.connections[id]
	if !ok {
		return nil, nil
	}
	return copyConnection(c), nil
}

func (s *MemoryStore) UpdateConnection(ctx context.Context, conn *models.Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn.UpdatedAt = time.Now()
	s.connections[conn.ID] = copyConnection(conn)
	return nil
}

func (s *MemoryStore) DeleteConnection(ctx context.Context, id models.ConnectionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.documents {
		if d.ConnectionID != nil && *d.ConnectionID == id {
			d.ConnectionID = nil
		}
	}
	delete(s.connections, id)
	return nil
}

func (s *MemoryStore) ListConnections(ctx context.Context, ownerID models.UserID) ([]*models.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var conns []*models.Connection
	for _, c := range s.connections {
		if c.OwnerID == ownerID {
			conns = append(conns, copyConnection(c))
		}
	}
	sort.Slice(conns, func(i, j int) bool {
		if !conns[i].CreatedAt.Equal(conns[j].CreatedAt) {
			return conns[i].CreatedAt.Before(conns[j].CreatedAt)
		}
		return conns[i].ID.String() < conns[j].ID.String()
	})
	return conns, nil
}

// Reading list operations
func (s *MemoryStore) CreateReadingItem(ctx context.Context, item *models.ReadingItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID.IsZero() {
		item.ID = models.NewReadingItemID()
	}
	if item.Status == "" {
		item.Status = models.ReadingUnread
	}
	if item.SourceType == "" {
		item.SourceType = models.SourceManual
	}
	now := time.Now()
	if item.AddedAt.IsZero() {
		item.AddedAt = now
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = now
	}
	s.readingItems[item.ID] = copyReadingItem(item)
	return nil
}

func (s *MemoryStore) GetReadingItem(ctx context.Context, id models.ReadingItemID) (*models.ReadingItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.readingItems[id]
	if !ok {
		return nil, nil
	}
	return copyReadingItem(r), nil
}

func (s *MemoryStore) UpdateReadingItem(ctx context.Context, item *models.ReadingItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.UpdatedAt = time.Now()
	s.readingItems[item.ID] = copyReadingItem(item)
	return nil
}

func (s *MemoryStore) DeleteReadingItem(ctx context.Context, id models.ReadingItemID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.readingItems, id)
	return nil
}

func (s *MemoryStore) ListReadingItems(ctx context.Context, ownerID models.UserID) ([]*models.ReadingItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []*models.ReadingItem
	for _, r := range s.readingItems {
		if r.OwnerID == ownerID {
			items = append(items, copyReadingItem(r))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].AddedAt.Equal(items[j].AddedAt) {
			return items[i].AddedAt.After(items[j].AddedAt)
		}
		return items[i].ID.String() < items[j].ID.String()
	})
	return items, nil
}

// Prompt operations
func (s *MemoryStore) CreatePrompt(ctx context.Context, prompt *models.Prompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prompt.ID.IsZero() {
		prompt.ID = models.NewPromptID()
	}
	if prompt.Category == "" {
		prompt.Category = "General"
	}
	now := time.Now()
	if prompt.CreatedAt.IsZero() {
		prompt.CreatedAt = now
	}
	if prompt.UpdatedAt.IsZero() {
		prompt.UpdatedAt = now
	}
	s.prompts[prompt.ID] = copyPrompt(prompt)
	return nil
}

func (s *MemoryStore) GetPrompt(ctx context.Context, id models.PromptID) (*models.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prompts[id]
	if !ok {
		return nil, nil
	}
	return copyPrompt(p), nil
}

func (s *MemoryStore) UpdatePrompt(ctx context.Context, prompt *models.Prompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prompt.UpdatedAt = time.Now()
	s.prompts[prompt.ID] = copyPrompt(prompt)
	return nil
}

func (s *MemoryStore) DeletePrompt(ctx context.Context, id models.PromptID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.prompts, id)
	return nil
}

func (s *MemoryStore) ListPrompts(ctx context.Context, ownerID models.UserID) ([]*models.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var prompts []*models.Prompt
	for _, p := range s.prompts {
		if p.OwnerID == ownerID {
			prompts = append(prompts, copyPrompt(p))
		}
	}
	sort.Slice(prompts, func(i, j int) bool {
		if !prompts[i].CreatedAt.Equal(prompts[j].CreatedAt) {
			return prompts[i].CreatedAt.After(prompts[j].CreatedAt)
		}
		return prompts[i].ID.String() < prompts[j].ID.String()
	})
	return prompts, nil
}

// Settings operations
func (s *MemoryStore) GetSettings(ctx context.Context, userID models.UserID) (*models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	settings, ok := s.settings[userID]
	if !ok {
		return models.DefaultSettings(userID), nil
	}
	c := *settings
	return &c, nil
}

func (s *MemoryStore) PutSettings(ctx context.Context, settings *models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings.UpdatedAt = time.Now()
	c := *settings
	s.settings[settings.UserID] = &c
	return nil
}
