// Package inkflowtesting provides testing utilities for the InkFlow
// application.
//
// The central tool is [VirtualWriter]: a stateful simulated user that
// drives a live server through [github.com/inkflow/inkflow/pkg/client],
// exercising the same paths a real front end would: login, document
// editing through the debounced sync controller, collection and connection
// management with cascade deletes, prompt library batches, and settings.
//
// # Deterministic behavior
//
// Each writer seeds its random number generator with its index, so a
// scenario replays identically run over run. Even-indexed writers bias
// toward creating content; odd-indexed writers delete more aggressively.
//
// # Data verification
//
// Writers track everything they create and delete. [VirtualWriter.VerifyAllData]
// re-reads the server state and checks it against the tracked expectations,
// including that deleted documents stay deleted and that removing a
// collection or connection cleared the references on surviving documents.
//
// # Usage
//
//	w := inkflowtesting.NewVirtualWriter(0, srv.URL)
//	if err := w.RunScenario(ctx); err != nil {
//		t.Fatalf("scenario failed: %v", err)
//	}
//	if err := w.VerifyAllData(ctx); err != nil {
//		t.Fatalf("verification failed: %v", err)
//	}
//
// Multiple writers can run concurrently against one server for load
// testing; each maintains independent session state.
package inkflowtesting

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkflow/inkflow/pkg/client"
	"github.com/inkflow/inkflow/pkg/editor"
	"github.com/inkflow/inkflow/pkg/models"
)

// VirtualWriter is a stateful simulated user driving the InkFlow API.
//
// It owns a typed API client, a document set, and a sync controller wired
// to the client, so edits flow through the same debounce and flush
// machinery the real editor uses.
type VirtualWriter struct {
	Index  int // writer index (0, 1, 2...) - NOT the database user ID
	Name   string
	Email  string
	Client *client.Client
	RNG    *rand.Rand // seeded with Index for reproducible scenarios

	// Editing state
	User       *models.User
	Set        *editor.DocumentSet
	Controller *editor.SyncController

	// Tracking data created by this writer
	Documents   []*models.Document
	Collections []*models.Collection
	Connections []*models.Connection
	Prompts     []*models.Prompt

	// Deletions tracked for verification
	DeletedDocuments   []models.DocumentID
	DeletedCollections []models.CollectionID
	DeletedConnections []models.ConnectionID

	mu sync.RWMutex
}

// NewVirtualWriter creates a virtual writer with its own client and editor
// stack. The sync controller is built on Login, once the server has
// advertised its autosave interval.
func NewVirtualWriter(index int, baseURL string) *VirtualWriter {
	return &VirtualWriter{
		Index:  index,
		Name:   fmt.Sprintf("Virtual Writer %d", index),
		Email:  fmt.Sprintf("writer%d-%d@test.com", index, time.Now().UnixNano()),
		Client: client.NewClient(baseURL),
		RNG:    rand.New(rand.NewSource(int64(index))),
		Set:    editor.NewDocumentSet(),
	}
}

// Login upserts this writer's account, primes the document set from the
// server, and wires the sync controller with the server-advertised autosave
// interval, the way the app boots a session.
func (w *VirtualWriter) Login(ctx context.Context) error {
	user, err := w.Client.Login(ctx, w.Email, w.Name)
	if err != nil {
		return fmt.Errorf("writer %d login failed: %w", w.Index, err)
	}

	interval, err := w.Client.AutosaveInterval(ctx)
	if err != nil {
		return fmt.Errorf("writer %d failed to read autosave interval: %w", w.Index, err)
	}

	docs, err := w.Client.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("writer %d failed to list documents: %w", w.Index, err)
	}

	w.mu.Lock()
	w.User = user
	w.mu.Unlock()
	w.Set.ReplaceAll(docs)
	w.Controller = editor.NewSyncController(w.Client, w.Set, zerolog.Nop(), interval)

	return nil
}

// Logout clears the session and editor state.
func (w *VirtualWriter) Logout() {
	if w.Controller != nil {
		w.Controller.Reset()
	}
	w.Client.Logout()
	w.mu.Lock()
	w.User = nil
	w.mu.Unlock()
}

// CreateDocument creates a document, caches it, and selects it for editing.
func (w *VirtualWriter) CreateDocument(ctx context.Context, title string) (*models.Document, error) {
	created, err := w.Client.CreateDocument(ctx, &models.Document{Title: title})
	if err != nil {
		return nil, fmt.Errorf("writer %d failed to create document: %w", w.Index, err)
	}

	w.mu.Lock()
	w.Documents = append(w.Documents, created)
	w.mu.Unlock()

	w.Set.UpsertOne(created)
	w.Controller.Select(created)

	return created, nil
}

// EditDocument selects a document, types the given content through the
// sync controller, and flushes. The tracked copy is refreshed from the
// server's response.
func (w *VirtualWriter) EditDocument(ctx context.Context, id models.DocumentID, content string) error {
	doc := w.Set.Get(id)
	if doc == nil {
		return fmt.Errorf("writer %d has no cached document %s", w.Index, id)
	}

	w.Controller.Select(doc)
	w.Controller.Mutate(content)
	if err := w.Controller.Flush(ctx); err != nil {
		return fmt.Errorf("writer %d flush failed: %w", w.Index, err)
	}

	updated := w.Set.Get(id)
	w.mu.Lock()
	for i, d := range w.Documents {
		if d.ID == id {
			w.Documents[i] = updated
			break
		}
	}
	w.mu.Unlock()

	return nil
}

// DeleteDocument deletes a document on the server and mirrors the removal
// locally.
func (w *VirtualWriter) DeleteDocument(ctx context.Context, id models.DocumentID) error {
	if err := w.Client.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("writer %d failed to delete document: %w", w.Index, err)
	}

	w.Set.RemoveOne(id)
	if w.Controller.ActiveID() == id {
		w.Controller.Select(nil)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.DeletedDocuments = append(w.DeletedDocuments, id)
	kept := make([]*models.Document, 0, len(w.Documents))
	for _, d := range w.Documents {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	w.Documents = kept

	return nil
}

// CreateCollection creates a collection and tracks it.
func (w *VirtualWriter) CreateCollection(ctx context.Context, name string) (*models.Collection, error) {
	created, err := w.Client.CreateCollection(ctx, &models.Collection{Name: name})
	if err != nil {
		return nil, fmt.Errorf("writer %d failed to create collection: %w", w.Index, err)
	}

	w.mu.Lock()
	w.Collections = append(w.Collections, created)
	w.mu.Unlock()

	return created, nil
}

// AssignToCollection puts a document into a collection.
func (w *VirtualWriter) AssignToCollection(ctx context.Context, docID models.DocumentID, colID models.CollectionID) error {
	doc := w.Set.Get(docID)
	if doc == nil {
		return fmt.Errorf("writer %d has no cached document %s", w.Index, docID)
	}
	doc.CollectionID = &colID

	updated, err := w.Client.UpdateDocument(ctx, doc)
	if err != nil {
		return fmt.Errorf("writer %d failed to assign collection: %w", w.Index, err)
	}
	w.Set.UpsertOne(updated)

	return nil
}

// DeleteCollection deletes a collection and mirrors the server's cascade by
// clearing the reference on cached documents.
func (w *VirtualWriter) DeleteCollection(ctx context.Context, id models.CollectionID) error {
	if err := w.Client.DeleteCollection(ctx, id); err != nil {
		return fmt.Errorf("writer %d failed to delete collection: %w", w.Index, err)
	}

	w.Set.ClearCollectionRefs(id)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.DeletedCollections = append(w.DeletedCollections, id)
	kept := make([]*models.Collection, 0, len(w.Collections))
	for _, c := range w.Collections {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	w.Collections = kept

	return nil
}

// CreateConnection registers a CMS connection and tracks it.
func (w *VirtualWriter) CreateConnection(ctx context.Context, name string, platform models.Platform) (*models.Connection, error) {
	created, err := w.Client.CreateConnection(ctx, &models.Connection{
		Name:     name,
		Platform: platform,
		URL:      fmt.Sprintf("https://%s.example.com", name),
	})
	if err != nil {
		return nil, fmt.Errorf("writer %d failed to create connection: %w", w.Index, err)
	}

	w.mu.Lock()
	w.Connections = append(w.Connections, created)
	w.mu.Unlock()

	return created, nil
}

// DeleteConnection deletes a connection and mirrors the cascade locally.
func (w *VirtualWriter) DeleteConnection(ctx context.Context, id models.ConnectionID) error {
	if err := w.Client.DeleteConnection(ctx, id); err != nil {
		return fmt.Errorf("writer %d failed to delete connection: %w", w.Index, err)
	}

	w.Set.ClearConnectionRefs(id)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.DeletedConnections = append(w.DeletedConnections, id)
	kept := make([]*models.Connection, 0, len(w.Connections))
	for _, c := range w.Connections {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	w.Connections = kept

	return nil
}

// ImportPrompts loads a batch of prompts into the library and tracks them.
func (w *VirtualWriter) ImportPrompts(ctx context.Context, count int) error {
	batch := make([]*models.Prompt, count)
	for i := range batch {
		batch[i] = &models.Prompt{
			Title:   fmt.Sprintf("Prompt %d-%d", w.Index, i),
			Content: fmt.Sprintf("Template %d for writer %d", i, w.Index),
		}
	}

	imported, err := w.Client.ImportPrompts(ctx, batch)
	if err != nil {
		return fmt.Errorf("writer %d failed to import prompts: %w", w.Index, err)
	}

	w.mu.Lock()
	w.Prompts = append(w.Prompts, imported...)
	w.mu.Unlock()

	return nil
}

// VerifyAllData re-reads the server and checks it against everything this
// writer tracked: survivors present, deletions gone, cascades applied.
func (w *VirtualWriter) VerifyAllData(ctx context.Context) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	docs, err := w.Client.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("writer %d failed to list documents: %w", w.Index, err)
	}
	if len(docs) != len(w.Documents) {
		return fmt.Errorf("writer %d document count mismatch: expected %d, got %d", w.Index, len(w.Documents), len(docs))
	}

	byID := make(map[models.DocumentID]*models.Document, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}
	for _, expected := range w.Documents {
		got, ok := byID[expected.ID]
		if !ok {
			return fmt.Errorf("writer %d: document %s missing from server", w.Index, expected.ID)
		}
		if got.Content != expected.Content {
			return fmt.Errorf("writer %d: document %s content mismatch", w.Index, expected.ID)
		}
	}

	for _, deletedID := range w.DeletedDocuments {
		if _, ok := byID[deletedID]; ok {
			return fmt.Errorf("writer %d: deleted document %s still exists", w.Index, deletedID)
		}
	}

	// Cascade check: no surviving document may reference a deleted
	// collection or connection.
	for _, d := range docs {
		for _, deletedCol := range w.DeletedCollections {
			if d.CollectionID != nil && *d.CollectionID == deletedCol {
				return fmt.Errorf("writer %d: document %s still references deleted collection %s", w.Index, d.ID, deletedCol)
			}
		}
		for _, deletedConn := range w.DeletedConnections {
			if d.ConnectionID != nil && *d.ConnectionID == deletedConn {
				return fmt.Errorf("writer %d: document %s still references deleted connection %s", w.Index, d.ID, deletedConn)
			}
		}
	}

	cols, err := w.Client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("writer %d failed to list collections: %w", w.Index, err)
	}
	if len(cols) != len(w.Collections) {
		return fmt.Errorf("writer %d collection count mismatch: expected %d, got %d", w.Index, len(w.Collections), len(cols))
	}

	conns, err := w.Client.ListConnections(ctx)
	if err != nil {
		return fmt.Errorf("writer %d failed to list connections: %w", w.Index, err)
	}
	if len(conns) != len(w.Connections) {
		return fmt.Errorf("writer %d connection count mismatch: expected %d, got %d", w.Index, len(w.Connections), len(conns))
	}

	prompts, err := w.Client.ListPrompts(ctx)
	if err != nil {
		return fmt.Errorf("writer %d failed to list prompts: %w", w.Index, err)
	}
	if len(prompts) != len(w.Prompts) {
		return fmt.Errorf("writer %d prompt count mismatch: expected %d, got %d", w.Index, len(w.Prompts), len(prompts))
	}

	return nil
}

// RunScenario executes a complete writing session: login, document
// creation and editing through the sync controller, organizing into
// collections and connections, cascade deletes, and prompt imports.
func (w *VirtualWriter) RunScenario(ctx context.Context) error {
	if err := w.Login(ctx); err != nil {
		return err
	}

	// Even indices create more, odd indices delete more.
	createBias := w.Index%2 == 0

	col, err := w.CreateCollection(ctx, fmt.Sprintf("Collection %d", w.Index))
	if err != nil {
		return err
	}

	conn, err := w.CreateConnection(ctx, fmt.Sprintf("blog-%d", w.Index), models.PlatformGhost)
	if err != nil {
		return err
	}

	numDocs := w.RNG.Intn(4) + 2
	for i := 0; i < numDocs; i++ {
		doc, err := w.CreateDocument(ctx, "")
		if err != nil {
			return err
		}

		// Type a few revisions; each flush goes through the controller.
		numEdits := w.RNG.Intn(3) + 1
		for j := 0; j < numEdits; j++ {
			content := fmt.Sprintf("Draft %d-%d revision %d\n\nBody text %d.", w.Index, i, j, w.RNG.Intn(100))
			if err := w.EditDocument(ctx, doc.ID, content); err != nil {
				return err
			}
		}

		if w.RNG.Float32() < 0.5 {
			if err := w.AssignToCollection(ctx, doc.ID, col.ID); err != nil {
				return err
			}
		}

		deleteChance := float32(0.1)
		if !createBias {
			deleteChance = 0.3
		}
		if w.RNG.Float32() < deleteChance {
			if err := w.DeleteDocument(ctx, doc.ID); err != nil {
				return err
			}
		}
	}

	if err := w.ImportPrompts(ctx, w.RNG.Intn(3)+1); err != nil {
		return err
	}

	// Odd writers tear down their organizational structures, exercising
	// the cascades.
	if !createBias {
		if err := w.DeleteCollection(ctx, col.ID); err != nil {
			return err
		}
		if err := w.DeleteConnection(ctx, conn.ID); err != nil {
			return err
		}
	}

	return w.VerifyAllData(ctx)
}
