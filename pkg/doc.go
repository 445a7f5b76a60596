// Package pkg contains all the sub-packages for the InkFlow application.
//
// # Application Layer
//
// [github.com/inkflow/inkflow/pkg/inkflow] - Application wiring, command
// orchestration, and HTTP handlers. Start here when extending the API or
// adding commands.
//
// # Domain Layer
//
// [github.com/inkflow/inkflow/pkg/models] - Entities and typed IDs.
//
// [github.com/inkflow/inkflow/pkg/editor] - The client-side editing core:
// edit buffer, debounced sync controller, and the ordered document set.
//
// [github.com/inkflow/inkflow/pkg/ai] - Gemini-backed writing assistant
// with typed fallbacks.
//
// # Infrastructure Layer
//
// [github.com/inkflow/inkflow/pkg/store] - Persistence abstraction with
// the [github.com/inkflow/inkflow/pkg/store.Store] interface and the
// read-only wrapper.
//
// [github.com/inkflow/inkflow/pkg/store/postgres] - PostgreSQL backend
// using GORM.
//
// [github.com/inkflow/inkflow/pkg/store/surrealdb] - SurrealDB backend
// using CBOR over WebSocket, no ORM.
//
// [github.com/inkflow/inkflow/pkg/store/memory] - In-memory backend for
// tests and local development.
//
// # Integration Layer
//
// [github.com/inkflow/inkflow/pkg/client] - Strongly-typed HTTP client;
// satisfies the editor's gateway interface.
//
// [github.com/inkflow/inkflow/pkg/inkflowtesting] - Virtual-writer
// simulation for end-to-end tests.
//
// # Package Dependencies
//
//	inkflow → store, models, ai
//	editor → models
//	store → models
//	store/postgres → store, models
//	store/surrealdb → store, models
//	store/memory → store, models
//	client → models
//	inkflowtesting → client, editor, models
package pkg
