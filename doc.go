// Package inkflow is a writing and productivity service: a document editor
// with debounced autosave, collections for organizing documents, a CMS
// connection registry for publishing targets, a reading list, and an AI
// prompt library.
//
// The system is built around the optimistic-sync pattern used by modern
// writing apps: the UI mutates a local edit buffer immediately, a sync
// controller coalesces keystrokes into one write per quiet period, and a
// cached document set is reconciled against the server's responses with a
// timestamp tie-break so stale writes never clobber fresh state.
//
// # Features
//
//   - Debounced autosave: one persistence write per quiet period, with
//     title inference for untitled documents on the first flush
//   - Pluggable persistence: PostgreSQL (GORM), SurrealDB (CBOR over
//     WebSocket), or an in-memory store for tests and local development
//   - Typed IDs that move safely between JSON, CBOR/RecordID, and SQL
//   - RESTful API with a strongly-typed Go client
//   - Writing assistant backed by the Gemini API with typed fallbacks
//     that degrade gracefully when generation fails
//   - Read-only mode for maintenance windows
//
// # Architecture Overview
//
//   - [github.com/inkflow/inkflow/pkg/editor] - THE CORE: edit buffer, sync
//     controller state machine, and the ordered document set
//   - [github.com/inkflow/inkflow/pkg/store.Store] - persistence
//     abstraction implemented by the postgres, surrealdb, and memory
//     backends
//   - [github.com/inkflow/inkflow/pkg/inkflow.Command] - command pattern
//     organizing the run and migrate operations
//
// # Data Model
//
// Every entity is owned by exactly one user; there is no sharing or
// collaboration model. For entities, typed IDs, and the serialized-column
// boundary rule, see [github.com/inkflow/inkflow/pkg/models].
//
// # Getting Started
//
// For command-line usage and configuration, see
// [github.com/inkflow/inkflow/pkg/inkflow].
//
// # API Integration
//
// The [github.com/inkflow/inkflow/pkg/client] package provides a Go HTTP
// client for programmatic access to the InkFlow API; it doubles as the
// editor's persistence gateway. The
// [github.com/inkflow/inkflow/pkg/inkflowtesting] package includes a
// virtual-writer simulator for end-to-end testing.
package inkflow
