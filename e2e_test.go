// End-to-end tests running the full stack in process: the HTTP server over
// the in-memory store, the typed client, the editor's sync controller, and
// the virtual-writer scenario driver.
package inkflow_test

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkflow/inkflow/pkg/client"
	"github.com/inkflow/inkflow/pkg/editor"
	"github.com/inkflow/inkflow/pkg/inkflow"
	"github.com/inkflow/inkflow/pkg/inkflowtesting"
	"github.com/inkflow/inkflow/pkg/models"
)

func newTestStack(t *testing.T) *httptest.Server {
	t.Helper()

	app, err := inkflow.New(&inkflow.Config{
		StoreBackend:     "memory",
		ServerPort:       "0",
		DebounceInterval: 20 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	srv := httptest.NewServer(app.Router())
	t.Cleanup(srv.Close)
	return srv
}

// TestAutosaveEndToEnd runs the full editing loop against a live server:
// create an untitled document, type through the debounced controller, and
// verify the server ends up with exactly the final content and the
// inferred title.
func TestAutosaveEndToEnd(t *testing.T) {
	srv := newTestStack(t)
	ctx := context.Background()

	c := client.NewClient(srv.URL)
	_, err := c.Login(ctx, "e2e@example.com", "E2E")
	require.NoError(t, err)

	doc, err := c.CreateDocument(ctx, &models.Document{})
	require.NoError(t, err)
	require.Equal(t, models.DefaultPageTitle, doc.Title)

	// The server advertises the configured autosave interval; the editor
	// stack adopts it instead of a client-side constant.
	interval, err := c.AutosaveInterval(ctx)
	require.NoError(t, err)
	require.Equal(t, 20*time.Millisecond, interval)

	set := editor.NewDocumentSet()
	set.UpsertOne(doc)
	ctrl := editor.NewSyncController(c, set, zerolog.Nop(), interval)
	ctrl.Select(doc)

	ctrl.Mutate("Field Notes")
	ctrl.Mutate("Field Notes\n\nThe first observation.")

	require.Eventually(t, func() bool {
		return ctrl.Status() == editor.StatusSaved
	}, 2*time.Second, 5*time.Millisecond)

	stored, err := c.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Field Notes\n\nThe first observation.", stored.Content)
	assert.Equal(t, "Field Notes", stored.Title)

	// The local cache matches the server's representation.
	cached := set.Get(doc.ID)
	require.NotNil(t, cached)
	assert.Equal(t, stored.Content, cached.Content)
	assert.Equal(t, stored.UpdatedAt.Unix(), cached.UpdatedAt.Unix())
}

// TestDeleteWhileEditingEndToEnd deletes the active document and confirms
// neither the server nor the cache resurrects it.
func TestDeleteWhileEditingEndToEnd(t *testing.T) {
	srv := newTestStack(t)
	ctx := context.Background()

	c := client.NewClient(srv.URL)
	_, err := c.Login(ctx, "e2e@example.com", "E2E")
	require.NoError(t, err)

	doc, err := c.CreateDocument(ctx, &models.Document{Title: "doomed"})
	require.NoError(t, err)

	interval, err := c.AutosaveInterval(ctx)
	require.NoError(t, err)

	set := editor.NewDocumentSet()
	set.UpsertOne(doc)
	ctrl := editor.NewSyncController(c, set, zerolog.Nop(), interval)
	ctrl.Select(doc)
	ctrl.Mutate("about to be deleted")

	require.NoError(t, c.DeleteDocument(ctx, doc.ID))
	set.RemoveOne(doc.ID)
	ctrl.Select(nil)

	time.Sleep(100 * time.Millisecond)

	assert.Nil(t, set.Get(doc.ID))
	_, err = c.GetDocument(ctx, doc.ID)
	assert.Error(t, err, "deleted document must stay deleted")

	docs, err := c.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

// TestVirtualWriterScenario runs a single deterministic scenario covering
// documents, collections, connections, cascades, and prompt batches.
func TestVirtualWriterScenario(t *testing.T) {
	srv := newTestStack(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	for _, index := range []int{0, 1} {
		w := inkflowtesting.NewVirtualWriter(index, srv.URL)
		require.NoError(t, w.RunScenario(ctx), "writer %d scenario", index)
	}
}

// TestConcurrentWriters runs several writers against one server at once.
// Each owner's data stays isolated and every scenario verifies its own
// state at the end.
func TestConcurrentWriters(t *testing.T) {
	srv := newTestStack(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	const numWriters = 6
	errs := make([]error, numWriters)
	var wg sync.WaitGroup
	for i := 0; i < numWriters; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			w := inkflowtesting.NewVirtualWriter(index, srv.URL)
			errs[index] = w.RunScenario(ctx)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "writer %d", i)
	}
}
