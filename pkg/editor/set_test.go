package editor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkflow/inkflow/pkg/models"
)

func newTestDoc(title string, updatedAt time.Time) *models.Document {
	return &models.Document{
		ID:        models.NewDocumentID(),
		OwnerID:   models.NewUserID(),
		Title:     title,
		Status:    models.StatusDraft,
		UpdatedAt: updatedAt,
	}
}

func TestDocumentSetUpsertPrependsNew(t *testing.T) {
	set := NewDocumentSet()
	now := time.Now()

	first := newTestDoc("first", now)
	second := newTestDoc("second", now)
	require.True(t, set.UpsertOne(first))
	require.True(t, set.UpsertOne(second))

	docs := set.List()
	require.Len(t, docs, 2)
	assert.Equal(t, second.ID, docs[0].ID, "newly created documents are prepended")
	assert.Equal(t, first.ID, docs[1].ID)
}

func TestDocumentSetUpsertReplacesInPlace(t *testing.T) {
	set := NewDocumentSet()
	now := time.Now()

	a := newTestDoc("a", now)
	b := newTestDoc("b", now)
	set.UpsertOne(a)
	set.UpsertOne(b)

	updated := *a
	updated.Title = "a2"
	updated.UpdatedAt = now.Add(time.Second)
	require.True(t, set.UpsertOne(&updated))

	docs := set.List()
	require.Len(t, docs, 2)
	assert.Equal(t, b.ID, docs[0].ID, "replacing keeps position")
	assert.Equal(t, "a2", docs[1].Title)
}

func TestDocumentSetRejectsStaleResponse(t *testing.T) {
	set := NewDocumentSet()
	base := time.Now()

	doc := newTestDoc("v1", base)
	set.UpsertOne(doc)

	// T2 response applied first.
	t2 := *doc
	t2.Content = "newer"
	t2.UpdatedAt = base.Add(2 * time.Second)
	require.True(t, set.UpsertOne(&t2))

	// T1 response arrives late and must be discarded.
	t1 := *doc
	t1.Content = "older"
	t1.UpdatedAt = base.Add(1 * time.Second)
	require.False(t, set.UpsertOne(&t1))

	got := set.Get(doc.ID)
	require.NotNil(t, got)
	assert.Equal(t, "newer", got.Content)
	assert.Equal(t, t2.UpdatedAt, got.UpdatedAt)
}

func TestDocumentSetRemoveThenUpsertIsFreshInsert(t *testing.T) {
	set := NewDocumentSet()
	base := time.Now()

	doc := newTestDoc("original", base.Add(time.Hour))
	set.UpsertOne(doc)
	set.RemoveOne(doc.ID)
	require.Nil(t, set.Get(doc.ID))

	// Re-inserting the same ID with an older timestamp must not be
	// treated as stale: removal wiped the cached fields.
	fresh := *doc
	fresh.Title = "fresh"
	fresh.UpdatedAt = base
	require.True(t, set.UpsertOne(&fresh))

	got := set.Get(doc.ID)
	require.NotNil(t, got)
	assert.Equal(t, "fresh", got.Title)
}

func TestDocumentSetCascadeClearRefs(t *testing.T) {
	set := NewDocumentSet()
	now := time.Now()

	connID := models.NewConnectionID()
	colID := models.NewCollectionID()

	linked := newTestDoc("linked", now)
	linked.ConnectionID = &connID
	linked.CollectionID = &colID
	other := newTestDoc("other", now)
	otherConn := models.NewConnectionID()
	other.ConnectionID = &otherConn

	set.UpsertOne(linked)
	set.UpsertOne(other)

	set.ClearConnectionRefs(connID)
	set.ClearCollectionRefs(colID)

	got := set.Get(linked.ID)
	require.NotNil(t, got)
	assert.Nil(t, got.ConnectionID, "dangling connection reference must be cleared")
	assert.Nil(t, got.CollectionID, "dangling collection reference must be cleared")

	// Unrelated references are untouched.
	kept := set.Get(other.ID)
	require.NotNil(t, kept)
	require.NotNil(t, kept.ConnectionID)
	assert.Equal(t, otherConn, *kept.ConnectionID)
}

func TestDocumentSetReplaceAll(t *testing.T) {
	set := NewDocumentSet()
	now := time.Now()

	set.UpsertOne(newTestDoc("stale", now))

	fresh := []*models.Document{
		newTestDoc("one", now),
		newTestDoc("two", now),
	}
	set.ReplaceAll(fresh)

	docs := set.List()
	require.Len(t, docs, 2)
	assert.Equal(t, "one", docs[0].Title)
	assert.Equal(t, "two", docs[1].Title)

	set.Clear()
	assert.Zero(t, set.Len())
}
