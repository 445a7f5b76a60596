package editor

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkflow/inkflow/pkg/models"
)

// Status is the save indicator for the active document.
type Status string

const (
	// StatusIdle means no document is selected.
	StatusIdle Status = "idle"
	// StatusSaved means the buffer matches the last persisted value.
	StatusSaved Status = "saved"
	// StatusDirty means the buffer changed and the debounce timer is armed.
	StatusDirty Status = "pending"
	// StatusWriting means a write is in flight.
	StatusWriting Status = "saving"
	// StatusWriteFailed means the last flush failed; the buffer is intact
	// and the next mutation re-arms the timer naturally.
	StatusWriteFailed Status = "save_failed"
)

// Gateway is the persistence operation the controller needs: write a
// document and get back the server's representation with its refreshed
// UpdatedAt. The HTTP client satisfies this; tests use an in-process fake.
type Gateway interface {
	UpdateDocument(ctx context.Context, doc *models.Document) (*models.Document, error)
}

// DefaultDebounceInterval is the quiet period before a flush.
const DefaultDebounceInterval = 1200 * time.Millisecond

// SyncController coalesces rapid edits into a single debounced write and
// reconciles the result into the DocumentSet.
//
// State machine: Idle (no selection), Saved, Dirty (timer armed), Writing,
// WriteFailed. Every mutation cancels and re-arms the timer, so only a quiet
// period of the configured interval triggers a flush: this is a debounce,
// not a throttle. A flush writes the whole buffer; on success the server's
// returned document replaces the cached entry wholesale. On failure the
// controller logs, keeps the buffer untouched, and does not retry; the next
// keystroke re-arms the timer.
//
// Selection changes cancel any pending timer before loading the next
// document, so one document's edits can never flush against another. A
// response arriving after its document was deleted is dropped rather than
// merged, so a late write cannot resurrect a deleted document.
//
// The controller is safe for concurrent use from the UI goroutine and the
// timer goroutine. Every mutation and selection bumps an internal sequence
// number; a flush captures the sequence when it starts and only moves the
// status forward if nothing changed underneath it.
type SyncController struct {
	mu       sync.Mutex
	gateway  Gateway
	set      *DocumentSet
	buffer   *EditBuffer
	log      zerolog.Logger
	interval time.Duration

	timer  *time.Timer
	active models.DocumentID
	status Status
	seq    uint64
}

// NewSyncController creates a controller over the given gateway and document
// set. A non-positive interval selects DefaultDebounceInterval.
func NewSyncController(gateway Gateway, set *DocumentSet, log zerolog.Logger, interval time.Duration) *SyncController {
	if interval <= 0 {
		interval = DefaultDebounceInterval
	}
	return &SyncController{
		gateway:  gateway,
		set:      set,
		buffer:   NewEditBuffer(),
		log:      log,
		interval: interval,
		status:   StatusIdle,
	}
}

// Status returns the current save indicator.
func (c *SyncController) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// ActiveID returns the ID of the selected document, zero when none.
func (c *SyncController) ActiveID() models.DocumentID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Read returns the current buffer content.
func (c *SyncController) Read() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffer.Read()
}

// Select makes doc the active document, loading its content into the
// buffer. Any pending timer for the previous document is discarded first,
// so edits never bleed across documents. Passing nil deselects and clears
// the buffer.
func (c *SyncController) Select(doc *models.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
	c.seq++
	if doc == nil {
		c.active = models.DocumentID{}
		c.buffer.Clear()
		c.status = StatusIdle
		return
	}
	c.active = doc.ID
	c.buffer.Load(doc.Content)
	c.status = StatusSaved
}

// Mutate replaces the buffer content and re-arms the debounce timer. No
// network call happens here. Ignored when no document is selected.
func (c *SyncController) Mutate(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active.IsZero() {
		return
	}
	c.buffer.Set(text)
	c.markDirtyLocked()
}

// InsertAt inserts text at the given rune offset, clamping out-of-bounds
// positions, and re-arms the timer like Mutate.
func (c *SyncController) InsertAt(pos int, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active.IsZero() {
		return
	}
	c.buffer.InsertAt(pos, text)
	c.markDirtyLocked()
}

// Flush writes the buffer immediately if it is dirty, cancelling the
// pending timer. Returns the gateway error, if any.
func (c *SyncController) Flush(ctx context.Context) error {
	c.mu.Lock()
	if c.status != StatusDirty {
		c.mu.Unlock()
		return nil
	}
	c.stopTimerLocked()
	seq, docID := c.seq, c.active
	c.mu.Unlock()
	return c.flush(ctx, seq, docID)
}

// Reset discards everything: pending timer, buffer, selection, and the
// document set. Used on logout.
func (c *SyncController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
	c.seq++
	c.active = models.DocumentID{}
	c.buffer.Clear()
	c.set.Clear()
	c.status = StatusIdle
}

func (c *SyncController) markDirtyLocked() {
	c.status = StatusDirty
	c.seq++
	c.stopTimerLocked()
	seq, docID := c.seq, c.active
	c.timer = time.AfterFunc(c.interval, func() {
		_ = c.flush(context.Background(), seq, docID)
	})
}

func (c *SyncController) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// flush performs one debounced write. seq and docID were captured when the
// timer was armed; if either moved on, the flush is stale and does nothing.
func (c *SyncController) flush(ctx context.Context, seq uint64, docID models.DocumentID) error {
	c.mu.Lock()
	if c.seq != seq || c.active != docID || c.status != StatusDirty {
		c.mu.Unlock()
		return nil
	}
	cached := c.set.Get(docID)
	if cached == nil {
		// Deleted while the timer was pending.
		c.mu.Unlock()
		return nil
	}
	upd := *cached
	upd.Content = c.buffer.Read()
	upd.Title = inferTitle(cached.Title, upd.Content)
	c.status = StatusWriting
	c.mu.Unlock()

	resp, err := c.gateway.UpdateDocument(ctx, &upd)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.log.Warn().Err(err).Str("document_id", docID.String()).Msg("autosave failed")
		if c.seq == seq && c.active == docID && c.status == StatusWriting {
			c.status = StatusWriteFailed
		}
		return err
	}
	if c.set.Get(docID) == nil {
		// Deleted while the write was in flight; dropping the response
		// keeps the document from resurrecting.
		return nil
	}
	c.set.UpsertOne(resp)
	if c.seq == seq && c.active == docID && c.status == StatusWriting {
		c.status = StatusSaved
	}
	return nil
}

// inferTitle derives a title from the first line of content when the current
// title is still a placeholder. Runs once per flush, not per keystroke. A
// blank first line preserves the placeholder.
func inferTitle(current, content string) string {
	if current != models.DefaultPageTitle && current != models.DefaultDraftTitle {
		return current
	}
	firstLine := strings.TrimSpace(strings.SplitN(content, "\n", 2)[0])
	if firstLine == "" {
		return current
	}
	runes := []rune(firstLine)
	if len(runes) > 30 {
		runes = runes[:30]
	}
	return string(runes)
}
