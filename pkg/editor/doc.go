// Package editor implements the debounced autosave core of InkFlow: the
// edit buffer, the sync controller, and the local document cache.
//
// The flow is: user input mutates the [EditBuffer] through the
// [SyncController], each mutation cancels and re-arms a debounce timer, and
// when the quiet period elapses the controller writes the buffer to the
// [Gateway] and merges the server's response into the [DocumentSet]. The
// buffer and the set are independent state slices joined only at flush and
// response boundaries; there is no operational transform or CRDT because
// only one buffer is ever active per session.
//
// Guarantees the package is built around:
//
//   - N rapid mutations produce exactly one write, carrying the last
//     mutation's content (debounce, not throttle).
//   - Switching documents discards the previous document's pending timer
//     and never leaks its buffer content into the next load.
//   - Write confirmations apply by the server's UpdatedAt, so responses
//     arriving out of order cannot roll the cache back.
//   - Deleting a document while its write is in flight leaves it deleted;
//     the late response is dropped.
//   - Title inference fires once per flush and only while the title is a
//     placeholder default.
//   - A failed flush keeps the user's keystrokes and schedules nothing; the
//     next mutation retries naturally.
package editor
