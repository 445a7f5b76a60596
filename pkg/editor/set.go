package editor

import (
	"sync"

	"github.com/inkflow/inkflow/pkg/models"
)

// DocumentSet is the authoritative local cache of the user's documents,
// kept in sync with the server through optimistic mutation followed by
// confirmation merges.
//
// Ordering is deterministic: ReplaceAll keeps the server's order, newly
// created documents are prepended, and replacing an existing document keeps
// its position. Confirmation merges apply last-confirmed-write-wins by the
// server's UpdatedAt timestamp rather than arrival order, so a response that
// was overtaken on the wire cannot clobber newer data.
type DocumentSet struct {
	mu   sync.RWMutex
	docs []*models.Document
}

// NewDocumentSet creates an empty document set
func NewDocumentSet() *DocumentSet {
	return &DocumentSet{}
}

// ReplaceAll discards the current contents and loads the given documents,
// preserving their order. Used after the initial fetch and after user switch.
func (s *DocumentSet) ReplaceAll(docs []*models.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make([]*models.Document, len(docs))
	copy(s.docs, docs)
}

// UpsertOne merges a server response into the set. A document with a known
// ID replaces the cached entry wholesale, keeping its position, unless the
// incoming UpdatedAt is older than the cached one, in which case the stale
// response is discarded. Unknown IDs are prepended, most-recent-first.
//
// The return value reports whether the document was applied.
func (s *DocumentSet) UpsertOne(doc *models.Document) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.docs {
		if d.ID == doc.ID {
			if doc.UpdatedAt.Before(d.UpdatedAt) {
				return false
			}
			s.docs[i] = doc
			return true
		}
	}
	s.docs = append([]*models.Document{doc}, s.docs...)
	return true
}

// RemoveOne deletes the document with the given ID, if present.
func (s *DocumentSet) RemoveOne(id models.DocumentID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.docs {
		if d.ID == id {
			s.docs = append(s.docs[:i], s.docs[i+1:]...)
			return
		}
	}
}

// ClearCollectionRefs unsets CollectionID on every document referencing the
// given collection. Called after a collection is deleted so no cached
// document keeps a dangling reference.
func (s *DocumentSet) ClearCollectionRefs(id models.CollectionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.docs {
		if d.CollectionID != nil && *d.CollectionID == id {
			d.CollectionID = nil
		}
	}
}

// ClearConnectionRefs unsets ConnectionID on every document referencing the
// given CMS connection.
func (s *DocumentSet) ClearConnectionRefs(id models.ConnectionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.docs {
		if d.ConnectionID != nil && *d.ConnectionID == id {
			d.ConnectionID = nil
		}
	}
}

// Get returns the cached document with the given ID, or nil.
func (s *DocumentSet) Get(id models.DocumentID) *models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.docs {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// List returns the cached documents in order.
func (s *DocumentSet) List() []*models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Document, len(s.docs))
	copy(out, s.docs)
	return out
}

// Len returns the number of cached documents.
func (s *DocumentSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Clear empties the set. Used on logout.
func (s *DocumentSet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = nil
}
