package inkflow

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkflow/inkflow/pkg/client"
	"github.com/inkflow/inkflow/pkg/editor"
	"github.com/inkflow/inkflow/pkg/models"
)

// newTestServer spins up the full API over the in-memory store and returns
// a typed client already logged in as a fresh user.
func newTestServer(t *testing.T) (*App, *client.Client, *models.User) {
	t.Helper()

	app, err := New(&Config{StoreBackend: "memory", ServerPort: "0"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	srv := httptest.NewServer(app.Router())
	t.Cleanup(srv.Close)

	c := client.NewClient(srv.URL)
	user, err := c.Login(context.Background(), "writer@example.com", "Writer")
	require.NoError(t, err)

	return app, c, user
}

func TestHealth(t *testing.T) {
	_, c, _ := newTestServer(t)

	health, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "memory", health["backend"])
	assert.Equal(t, float64(editor.DefaultDebounceInterval.Milliseconds()), health["autosave_ms"])
}

func TestHealthAdvertisesConfiguredAutosaveInterval(t *testing.T) {
	app, err := New(&Config{
		StoreBackend:     "memory",
		ServerPort:       "0",
		DebounceInterval: 250 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	srv := httptest.NewServer(app.Router())
	defer srv.Close()

	c := client.NewClient(srv.URL)
	interval, err := c.AutosaveInterval(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, interval)
}

func TestLoginUpsertsByEmail(t *testing.T) {
	app, _, user := newTestServer(t)

	srv := httptest.NewServer(app.Router())
	defer srv.Close()

	c2 := client.NewClient(srv.URL)
	again, err := c2.Login(context.Background(), "writer@example.com", "Renamed")
	require.NoError(t, err)

	assert.Equal(t, user.ID, again.ID, "same email must resolve to the same user")
	assert.Equal(t, "Renamed", again.Name)
}

func TestRequestsWithoutUserHeaderAreRejected(t *testing.T) {
	app, _, _ := newTestServer(t)

	srv := httptest.NewServer(app.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/documents")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDocumentLifecycle(t *testing.T) {
	_, c, user := newTestServer(t)
	ctx := context.Background()

	created, err := c.CreateDocument(ctx, &models.Document{
		Content: "first words",
		Tags:    models.StringList{"go", "draft"},
	})
	require.NoError(t, err)
	assert.False(t, created.ID.IsZero())
	assert.Equal(t, user.ID, created.OwnerID)
	assert.Equal(t, models.DefaultPageTitle, created.Title, "empty title defaults to the placeholder")
	assert.Equal(t, models.StatusDraft, created.Status)

	created.Title = "Morning pages"
	created.Content = "first words, revised"
	updated, err := c.UpdateDocument(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "Morning pages", updated.Title)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))
	assert.Equal(t, created.CreatedAt.Unix(), updated.CreatedAt.Unix(), "update must not rewrite CreatedAt")

	got, err := c.GetDocument(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "first words, revised", got.Content)
	assert.Equal(t, models.StringList{"go", "draft"}, got.Tags, "tags come back structured, not serialized")

	require.NoError(t, c.DeleteDocument(ctx, created.ID))
	_, err = c.GetDocument(ctx, created.ID)
	assert.Error(t, err, "deleted document must 404")
}

func TestListDocumentsOrdersByRecency(t *testing.T) {
	_, c, _ := newTestServer(t)
	ctx := context.Background()

	older, err := c.CreateDocument(ctx, &models.Document{Title: "older"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	newer, err := c.CreateDocument(ctx, &models.Document{Title: "newer"})
	require.NoError(t, err)

	docs, err := c.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, newer.ID, docs[0].ID)
	assert.Equal(t, older.ID, docs[1].ID)

	// Touching the older one moves it to the front.
	older.Content = "touched"
	time.Sleep(5 * time.Millisecond)
	_, err = c.UpdateDocument(ctx, older)
	require.NoError(t, err)

	docs, err = c.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, older.ID, docs[0].ID)
}

func TestDeleteCollectionClearsDocumentRefs(t *testing.T) {
	_, c, _ := newTestServer(t)
	ctx := context.Background()

	col, err := c.CreateCollection(ctx, &models.Collection{Name: "Essays"})
	require.NoError(t, err)

	doc, err := c.CreateDocument(ctx, &models.Document{Title: "grouped", CollectionID: &col.ID})
	require.NoError(t, err)
	loose, err := c.CreateDocument(ctx, &models.Document{Title: "loose"})
	require.NoError(t, err)

	require.NoError(t, c.DeleteCollection(ctx, col.ID))

	got, err := c.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CollectionID, "deleting the collection must clear the reference")

	cols, err := c.ListCollections(ctx)
	require.NoError(t, err)
	assert.Empty(t, cols)

	got, err = c.GetDocument(ctx, loose.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CollectionID)
}

func TestDeleteConnectionClearsDocumentRefs(t *testing.T) {
	_, c, _ := newTestServer(t)
	ctx := context.Background()

	conn, err := c.CreateConnection(ctx, &models.Connection{
		Name:     "Blog",
		Platform: models.PlatformGhost,
		URL:      "https://blog.example.com",
	})
	require.NoError(t, err)

	doc, err := c.CreateDocument(ctx, &models.Document{Title: "publishable", ConnectionID: &conn.ID})
	require.NoError(t, err)

	require.NoError(t, c.DeleteConnection(ctx, conn.ID))

	got, err := c.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ConnectionID)
}

func TestOwnersAreIsolated(t *testing.T) {
	app, c, _ := newTestServer(t)
	ctx := context.Background()

	doc, err := c.CreateDocument(ctx, &models.Document{Title: "mine"})
	require.NoError(t, err)

	srv := httptest.NewServer(app.Router())
	defer srv.Close()
	other := client.NewClient(srv.URL)
	_, err = other.Login(ctx, "rival@example.com", "Rival")
	require.NoError(t, err)

	docs, err := other.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs, "owners must not see each other's documents")

	_, err = other.GetDocument(ctx, doc.ID)
	assert.Error(t, err, "foreign documents must 404")

	err = other.DeleteDocument(ctx, doc.ID)
	assert.Error(t, err)
}

func TestPromptImportAndBatchDelete(t *testing.T) {
	_, c, _ := newTestServer(t)
	ctx := context.Background()

	imported, err := c.ImportPrompts(ctx, []*models.Prompt{
		{Title: "Outline", Content: "Outline this topic: {topic}"},
		{Title: "Critique", Content: "Critique this draft harshly"},
		{Title: "Tighten", Content: "Cut 20% of the words"},
	})
	require.NoError(t, err)
	require.Len(t, imported, 3)
	for _, p := range imported {
		assert.False(t, p.ID.IsZero())
		assert.Equal(t, "General", p.Category)
	}

	require.NoError(t, c.DeletePromptsBatch(ctx, []models.PromptID{
		imported[0].ID, imported[2].ID,
	}))

	remaining, err := c.ListPrompts(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Critique", remaining[0].Title)
}

func TestSettingsDefaultAndRoundTrip(t *testing.T) {
	_, c, user := newTestServer(t)
	ctx := context.Background()

	settings, err := c.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, settings.UserID)
	assert.True(t, settings.FixGrammar, "settings default to all toggles enabled")
	assert.True(t, settings.Summarize)

	settings.Shorten = false
	saved, err := c.PutSettings(ctx, settings)
	require.NoError(t, err)
	assert.False(t, saved.Shorten)

	settings, err = c.GetSettings(ctx)
	require.NoError(t, err)
	assert.False(t, settings.Shorten)
	assert.True(t, settings.FixGrammar)
}

func TestReadingListLifecycle(t *testing.T) {
	_, c, _ := newTestServer(t)
	ctx := context.Background()

	item, err := c.CreateReadingItem(ctx, &models.ReadingItem{
		URL:   "https://example.com/on-writing",
		Title: "On Writing",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReadingUnread, item.Status)
	assert.Equal(t, models.SourceManual, item.SourceType)
	assert.False(t, item.AddedAt.IsZero())

	item.Status = models.ReadingFavorite
	updated, err := c.UpdateReadingItem(ctx, item)
	require.NoError(t, err)
	assert.Equal(t, models.ReadingFavorite, updated.Status)

	require.NoError(t, c.DeleteReadingItem(ctx, item.ID))
	items, err := c.ListReadingItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestReadOnlyModeRejectsWrites(t *testing.T) {
	app, c, _ := newTestServer(t)
	ctx := context.Background()

	doc, err := c.CreateDocument(ctx, &models.Document{Title: "before"})
	require.NoError(t, err)

	app.SetReadOnly(true)

	_, err = c.CreateDocument(ctx, &models.Document{Title: "during"})
	assert.Error(t, err)

	// Reads still work.
	got, err := c.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "before", got.Title)

	app.SetReadOnly(false)
	_, err = c.CreateDocument(ctx, &models.Document{Title: "after"})
	assert.NoError(t, err)
}

func TestParseCommands(t *testing.T) {
	cmd, config, err := Parse([]string{"-store", "memory", "-port", "9999", "run"})
	require.NoError(t, err)
	assert.Equal(t, "run", cmd.Name())
	assert.Equal(t, "memory", config.StoreBackend)
	assert.Equal(t, "9999", config.ServerPort)

	_, config, err = Parse([]string{"-debounce", "500ms", "run"})
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, config.DebounceInterval)

	cmd, _, err = Parse([]string{"migrate"})
	require.NoError(t, err)
	assert.Equal(t, "migrate", cmd.Name())

	_, _, err = Parse([]string{})
	assert.Error(t, err, "missing subcommand must error with usage")

	_, _, err = Parse([]string{"-store", "sqlite", "run"})
	assert.Error(t, err)

	_, _, err = Parse([]string{"destroy"})
	assert.Error(t, err)
}
