package editor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkflow/inkflow/pkg/models"
)

const testInterval = 20 * time.Millisecond

// fakeGateway records every write and echoes the document back with a
// refreshed UpdatedAt, like the real server does.
type fakeGateway struct {
	mu    sync.Mutex
	calls []*models.Document
	err   error
}

func (g *fakeGateway) UpdateDocument(ctx context.Context, doc *models.Document) (*models.Document, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c := *doc
	g.calls = append(g.calls, &c)
	if g.err != nil {
		return nil, g.err
	}
	out := *doc
	out.UpdatedAt = time.Now()
	return &out, nil
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func (g *fakeGateway) lastCall() *models.Document {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.calls) == 0 {
		return nil
	}
	return g.calls[len(g.calls)-1]
}

func newTestController(t *testing.T, gw Gateway) (*SyncController, *DocumentSet) {
	t.Helper()
	set := NewDocumentSet()
	c := NewSyncController(gw, set, zerolog.Nop(), testInterval)
	return c, set
}

func selectDoc(set *DocumentSet, c *SyncController, title, content string) *models.Document {
	doc := &models.Document{
		ID:        models.NewDocumentID(),
		OwnerID:   models.NewUserID(),
		Title:     title,
		Content:   content,
		Status:    models.StatusDraft,
		UpdatedAt: time.Now(),
	}
	set.UpsertOne(doc)
	c.Select(doc)
	return doc
}

func TestDebounceCoalescesRapidMutations(t *testing.T) {
	gw := &fakeGateway{}
	c, set := newTestController(t, gw)
	doc := selectDoc(set, c, "notes", "")

	// Many mutations spaced well under the interval: exactly one flush,
	// carrying the last content.
	for _, text := range []string{"h", "he", "hel", "hell", "hello"} {
		c.Mutate(text)
		time.Sleep(testInterval / 10)
	}
	assert.Equal(t, StatusDirty, c.Status())

	require.Eventually(t, func() bool {
		return c.Status() == StatusSaved
	}, time.Second, time.Millisecond)

	require.Equal(t, 1, gw.callCount())
	assert.Equal(t, "hello", gw.lastCall().Content)

	// The set holds the server's representation.
	cached := set.Get(doc.ID)
	require.NotNil(t, cached)
	assert.Equal(t, "hello", cached.Content)
}

func TestQuietPeriodsProduceSeparateFlushes(t *testing.T) {
	gw := &fakeGateway{}
	c, set := newTestController(t, gw)
	selectDoc(set, c, "notes", "")

	c.Mutate("first")
	require.Eventually(t, func() bool { return c.Status() == StatusSaved }, time.Second, time.Millisecond)

	c.Mutate("second")
	require.Eventually(t, func() bool { return c.Status() == StatusSaved }, time.Second, time.Millisecond)

	require.Equal(t, 2, gw.callCount())
	assert.Equal(t, "second", gw.lastCall().Content)
}

func TestSelectionSwitchDiscardsPendingTimer(t *testing.T) {
	gw := &fakeGateway{}
	c, set := newTestController(t, gw)
	a := selectDoc(set, c, "a", "content a")

	b := &models.Document{
		ID:        models.NewDocumentID(),
		OwnerID:   a.OwnerID,
		Title:     "b",
		Content:   "content b",
		Status:    models.StatusDraft,
		UpdatedAt: time.Now(),
	}
	set.UpsertOne(b)

	// Mutate A, then switch to B before the quiet period elapses.
	c.Mutate("a edited")
	c.Select(b)

	assert.Equal(t, "content b", c.Read(), "A's buffer must not leak into B")
	assert.Equal(t, StatusSaved, c.Status())

	// A's stale timer must not fire against B or A.
	time.Sleep(4 * testInterval)
	assert.Zero(t, gw.callCount())
	assert.Equal(t, "content a", set.Get(a.ID).Content)
}

func TestMutateWithoutSelectionIsIgnored(t *testing.T) {
	gw := &fakeGateway{}
	c, _ := newTestController(t, gw)

	c.Mutate("anything")
	assert.Equal(t, StatusIdle, c.Status())
	time.Sleep(3 * testInterval)
	assert.Zero(t, gw.callCount())
}

func TestDeselectCancelsPendingWrite(t *testing.T) {
	gw := &fakeGateway{}
	c, set := newTestController(t, gw)
	selectDoc(set, c, "notes", "start")

	c.Mutate("edited")
	c.Select(nil)

	assert.Equal(t, StatusIdle, c.Status())
	assert.Equal(t, "", c.Read())
	time.Sleep(3 * testInterval)
	assert.Zero(t, gw.callCount())
}

// blockingGateway parks every write until the test releases it, so tests can
// interleave deletions with an in-flight flush deterministically.
type blockingGateway struct {
	started chan *models.Document
	release chan struct{}
}

func (g *blockingGateway) UpdateDocument(ctx context.Context, doc *models.Document) (*models.Document, error) {
	g.started <- doc
	<-g.release
	out := *doc
	out.UpdatedAt = time.Now()
	return &out, nil
}

func TestDeleteDuringFlightDoesNotResurrect(t *testing.T) {
	gw := &blockingGateway{
		started: make(chan *models.Document, 1),
		release: make(chan struct{}),
	}
	c, set := newTestController(t, gw)
	doc := selectDoc(set, c, "doomed", "start")

	c.Mutate("edited")

	// Wait for the flush to start, then delete the document while the
	// write is still in flight.
	select {
	case <-gw.started:
	case <-time.After(time.Second):
		t.Fatal("flush never started")
	}
	set.RemoveOne(doc.ID)
	c.Select(nil)

	close(gw.release)

	// The late response settles without re-inserting the document.
	require.Eventually(t, func() bool {
		return set.Get(doc.ID) == nil && set.Len() == 0
	}, time.Second, time.Millisecond)
	time.Sleep(2 * testInterval)
	assert.Nil(t, set.Get(doc.ID))
}

func TestFlushInfersTitleFromPlaceholderOnce(t *testing.T) {
	gw := &fakeGateway{}
	c, set := newTestController(t, gw)
	doc := selectDoc(set, c, models.DefaultPageTitle, "")

	c.Mutate("Hello world\nMore text")
	require.NoError(t, c.Flush(context.Background()))

	require.Equal(t, 1, gw.callCount())
	assert.Equal(t, "Hello world", gw.lastCall().Title)
	assert.Equal(t, "Hello world\nMore text", gw.lastCall().Content)
	assert.Equal(t, StatusSaved, c.Status())

	// Flushing again with the title no longer a placeholder must not
	// re-derive it, even if the first line changes.
	c.Mutate("Different first line\nMore text")
	require.NoError(t, c.Flush(context.Background()))

	require.Equal(t, 2, gw.callCount())
	assert.Equal(t, "Hello world", gw.lastCall().Title)

	cached := set.Get(doc.ID)
	require.NotNil(t, cached)
	assert.Equal(t, "Hello world", cached.Title)
}

func TestTitleInferenceEdgeCases(t *testing.T) {
	// Blank first line preserves the placeholder.
	assert.Equal(t, models.DefaultPageTitle, inferTitle(models.DefaultPageTitle, "\nbody below"))
	assert.Equal(t, models.DefaultPageTitle, inferTitle(models.DefaultPageTitle, "   \nbody"))
	assert.Equal(t, models.DefaultPageTitle, inferTitle(models.DefaultPageTitle, ""))

	// Both placeholder defaults trigger inference.
	assert.Equal(t, "Hi", inferTitle(models.DefaultDraftTitle, "Hi"))

	// Long first lines truncate to 30 characters.
	long := "This first line is definitely longer than thirty characters"
	assert.Equal(t, long[:30], inferTitle(models.DefaultPageTitle, long))

	// A real title is never overwritten.
	assert.Equal(t, "Kept", inferTitle("Kept", "New first line"))
}

func TestFailedFlushKeepsBufferAndRetriesNaturally(t *testing.T) {
	gw := &fakeGateway{err: errors.New("gateway down")}
	c, set := newTestController(t, gw)
	doc := selectDoc(set, c, "notes", "start")

	c.Mutate("edited")
	err := c.Flush(context.Background())
	require.Error(t, err)

	// Buffer keeps the user's keystrokes; the cached copy is unchanged.
	assert.Equal(t, StatusWriteFailed, c.Status())
	assert.Equal(t, "edited", c.Read())
	assert.Equal(t, "start", set.Get(doc.ID).Content)

	// No retry until the next mutation re-arms the timer.
	time.Sleep(3 * testInterval)
	require.Equal(t, 1, gw.callCount())

	gw.mu.Lock()
	gw.err = nil
	gw.mu.Unlock()

	c.Mutate("edited again")
	require.Eventually(t, func() bool { return c.Status() == StatusSaved }, time.Second, time.Millisecond)
	require.Equal(t, 2, gw.callCount())
	assert.Equal(t, "edited again", set.Get(doc.ID).Content)
}

func TestFlushIsNoOpWhenSaved(t *testing.T) {
	gw := &fakeGateway{}
	c, set := newTestController(t, gw)
	selectDoc(set, c, "notes", "start")

	require.NoError(t, c.Flush(context.Background()))
	assert.Zero(t, gw.callCount())
	assert.Equal(t, StatusSaved, c.Status())
}

func TestResetClearsEverything(t *testing.T) {
	gw := &fakeGateway{}
	c, set := newTestController(t, gw)
	selectDoc(set, c, "notes", "start")
	c.Mutate("edited")

	c.Reset()

	assert.Equal(t, StatusIdle, c.Status())
	assert.Equal(t, "", c.Read())
	assert.Zero(t, set.Len())
	time.Sleep(3 * testInterval)
	assert.Zero(t, gw.callCount())
}

// The end-to-end autosave scenario: create an untitled document, type two
// quick edits, wait out the quiet period. Exactly one update fires carrying
// the full content and the inferred title.
func TestAutosaveScenario(t *testing.T) {
	gw := &fakeGateway{}
	c, set := newTestController(t, gw)
	doc := selectDoc(set, c, models.DefaultPageTitle, "")

	assert.Equal(t, StatusSaved, c.Status())
	c.Mutate("Hello world")
	c.Mutate("Hello world\nMore text")
	assert.Equal(t, StatusDirty, c.Status())

	require.Eventually(t, func() bool { return c.Status() == StatusSaved }, time.Second, time.Millisecond)

	require.Equal(t, 1, gw.callCount())
	call := gw.lastCall()
	assert.Equal(t, "Hello world\nMore text", call.Content)
	assert.Equal(t, "Hello world", call.Title)

	cached := set.Get(doc.ID)
	require.NotNil(t, cached)
	assert.Equal(t, "Hello world", cached.Title)
}
