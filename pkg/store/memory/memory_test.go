package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkflow/inkflow/pkg/models"
)

func newStoreWithUser(t *testing.T) (context.Context, *MemoryStore, *models.User) {
	t.Helper()
	s := NewMemoryStore().(*MemoryStore)
	ctx := context.Background()
	user := &models.User{Email: "writer@example.com", Name: "Writer"}
	require.NoError(t, s.CreateUser(ctx, user))
	return ctx, s, user
}

func TestCreateAssignsIDsAndDefaults(t *testing.T) {
	ctx, s, user := newStoreWithUser(t)

	assert.False(t, user.ID.IsZero())
	assert.False(t, user.CreatedAt.IsZero())

	doc := &models.Document{OwnerID: user.ID}
	require.NoError(t, s.CreateDocument(ctx, doc))
	assert.False(t, doc.ID.IsZero())
	assert.Equal(t, models.DefaultPageTitle, doc.Title)
	assert.Equal(t, models.StatusDraft, doc.Status)

	item := &models.ReadingItem{OwnerID: user.ID, URL: "https://example.com", Title: "t"}
	require.NoError(t, s.CreateReadingItem(ctx, item))
	assert.Equal(t, models.ReadingUnread, item.Status)
	assert.Equal(t, models.SourceManual, item.SourceType)
	assert.False(t, item.AddedAt.IsZero())

	prompt := &models.Prompt{OwnerID: user.ID, Title: "p", Content: "c"}
	require.NoError(t, s.CreatePrompt(ctx, prompt))
	assert.Equal(t, "General", prompt.Category)
}

func TestGetMissingReturnsNilNil(t *testing.T) {
	ctx, s, _ := newStoreWithUser(t)

	doc, err := s.GetDocument(ctx, models.NewDocumentID())
	require.NoError(t, err)
	assert.Nil(t, doc)

	user, err := s.GetUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestReturnedEntitiesAreCopies(t *testing.T) {
	ctx, s, user := newStoreWithUser(t)

	doc := &models.Document{OwnerID: user.ID, Title: "original", Tags: models.StringList{"a"}}
	require.NoError(t, s.CreateDocument(ctx, doc))

	got, err := s.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	got.Title = "mutated"
	got.Tags[0] = "mutated"

	again, err := s.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", again.Title, "mutating a result must not corrupt the store")
	assert.Equal(t, models.StringList{"a"}, again.Tags)
}

func TestListDocumentsOrdering(t *testing.T) {
	ctx, s, user := newStoreWithUser(t)

	first := &models.Document{OwnerID: user.ID, Title: "first", UpdatedAt: time.Now().Add(-time.Hour)}
	second := &models.Document{OwnerID: user.ID, Title: "second", UpdatedAt: time.Now()}
	require.NoError(t, s.CreateDocument(ctx, first))
	require.NoError(t, s.CreateDocument(ctx, second))

	docs, err := s.ListDocuments(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "second", docs[0].Title)
	assert.Equal(t, "first", docs[1].Title)

	// Owner scoping.
	other := &models.User{Email: "other@example.com", Name: "Other"}
	require.NoError(t, s.CreateUser(ctx, other))
	docs, err = s.ListDocuments(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestUpdateRefreshesUpdatedAt(t *testing.T) {
	ctx, s, user := newStoreWithUser(t)

	doc := &models.Document{OwnerID: user.ID, Title: "v1", UpdatedAt: time.Now().Add(-time.Minute)}
	require.NoError(t, s.CreateDocument(ctx, doc))
	before := doc.UpdatedAt

	doc.Title = "v2"
	require.NoError(t, s.UpdateDocument(ctx, doc))
	assert.True(t, doc.UpdatedAt.After(before))
}

func TestDeleteCollectionCascadeClearsRefs(t *testing.T) {
	ctx, s, user := newStoreWithUser(t)

	col := &models.Collection{OwnerID: user.ID, Name: "Essays"}
	require.NoError(t, s.CreateCollection(ctx, col))
	keep := &models.Collection{OwnerID: user.ID, Name: "Keep"}
	require.NoError(t, s.CreateCollection(ctx, keep))

	inCol := &models.Document{OwnerID: user.ID, Title: "grouped", CollectionID: &col.ID}
	inKeep := &models.Document{OwnerID: user.ID, Title: "other", CollectionID: &keep.ID}
	require.NoError(t, s.CreateDocument(ctx, inCol))
	require.NoError(t, s.CreateDocument(ctx, inKeep))

	require.NoError(t, s.DeleteCollection(ctx, col.ID))

	got, err := s.GetCollection(ctx, col.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	d1, err := s.GetDocument(ctx, inCol.ID)
	require.NoError(t, err)
	assert.Nil(t, d1.CollectionID)

	d2, err := s.GetDocument(ctx, inKeep.ID)
	require.NoError(t, err)
	require.NotNil(t, d2.CollectionID, "unrelated references must survive")
	assert.Equal(t, keep.ID, *d2.CollectionID)
}

func TestDeleteConnectionCascadeClearsRefs(t *testing.T) {
	ctx, s, user := newStoreWithUser(t)

	conn := &models.Connection{OwnerID: user.ID, Name: "Blog", Platform: models.PlatformGhost}
	require.NoError(t, s.CreateConnection(ctx, conn))

	doc := &models.Document{OwnerID: user.ID, Title: "publishable", ConnectionID: &conn.ID}
	require.NoError(t, s.CreateDocument(ctx, doc))

	require.NoError(t, s.DeleteConnection(ctx, conn.ID))

	got, err := s.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ConnectionID)
}

func TestSettingsDefaultsAndRoundTrip(t *testing.T) {
	ctx, s, user := newStoreWithUser(t)

	settings, err := s.GetSettings(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, settings.UserID)
	assert.True(t, settings.FixGrammar)
	assert.True(t, settings.Concise)

	settings.Expand = false
	require.NoError(t, s.PutSettings(ctx, settings))

	settings, err = s.GetSettings(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, settings.Expand)
	assert.True(t, settings.FixGrammar)
}
