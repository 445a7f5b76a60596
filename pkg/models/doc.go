// Package models defines the domain entities for the InkFlow writing
// application.
//
// The model is deliberately flat: every entity is owned by exactly one
// [User] and there is no sharing or nesting. The entities are:
//
//   - [Document]: the core content unit, a plain markdown-like text body
//     plus publishing metadata (title, status, tags, free-form properties)
//   - [Collection]: a named grouping of documents with a view preference
//     (list, board, gallery)
//   - [Connection]: credentials for an external CMS platform a document
//     can be published to
//   - [ReadingItem]: a saved article in the user's reading list
//   - [Prompt]: a saved prompt-library entry
//   - [Settings]: the per-user quick-rewrite toggles
//
// A Document may reference a Collection and a Connection. Both references
// are optional, and deleting the referenced row clears the reference on
// every document that carried it; the store layer owns that cascade so a
// list call never returns a dangling reference.
//
// # Typed IDs
//
// Each entity has a strongly-typed identifier ([UserID], [DocumentID],
// [CollectionID], [ConnectionID], [ReadingItemID], [PromptID]) wrapping a
// UUID. The typed IDs serialize to plain UUID strings in JSON and SQL, and
// to SurrealDB RecordIDs in CBOR, so a single model definition works for
// both the PostgreSQL and SurrealDB backends. The compiler prevents mixing
// IDs of different kinds, and IsZero() detects uninitialized IDs.
//
// # Serialized columns
//
// Tags ([StringList]) and Properties ([JSONMap]) are stored as serialized
// text in the relational layer but are always structured at every API and
// in-memory boundary. Serialization lives entirely inside Value/Scan; no
// caller ever sees the encoded form.
//
// # Timestamps
//
// CreatedAt is set on creation and UpdatedAt is refreshed by the store on
// every successful write. UpdatedAt is load-bearing: the editor's document
// set uses it as the tie-break when write confirmations arrive out of
// order, so a stale response can never overwrite newer data.
package models
