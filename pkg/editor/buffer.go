package editor

// EditBuffer holds the working copy of the text being edited, decoupled from
// both the cached document and the remote store. It is purely local: no
// operation here performs I/O or can fail. At most one buffer is active per
// session; the SyncController loads and clears it on selection changes.
type EditBuffer struct {
	text string
}

// NewEditBuffer creates an empty buffer
func NewEditBuffer() *EditBuffer {
	return &EditBuffer{}
}

// Load replaces the buffer content with the given text. Called when the
// active document changes, including to "no selection" with an empty string.
func (b *EditBuffer) Load(text string) {
	b.text = text
}

// Set replaces the buffer content with new text.
func (b *EditBuffer) Set(text string) {
	b.text = text
}

// Read returns the current buffer content. Safe to call at any time for
// previews and word counts without waiting for persistence.
func (b *EditBuffer) Read() string {
	return b.text
}

// InsertAt inserts text at the given rune offset. Out-of-bounds positions
// are clamped to the valid range rather than rejected.
func (b *EditBuffer) InsertAt(pos int, text string) {
	runes := []rune(b.text)
	if pos < 0 {
		pos = 0
	}
	if pos > len(runes) {
		pos = len(runes)
	}
	b.text = string(runes[:pos]) + text + string(runes[pos:])
}

// Clear resets the buffer to empty.
func (b *EditBuffer) Clear() {
	b.text = ""
}

// Len returns the buffer length in runes.
func (b *EditBuffer) Len() int {
	return len([]rune(b.text))
}
