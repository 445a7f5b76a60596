package inkflow

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Run starts the HTTP server with the full InkFlow API.
//
// # API Endpoints
//
// Health check:
//
//	GET  /health, /api/health                     - Service health status and autosave interval
//
// Authentication:
//
//	POST /api/users/login                         - Upsert a user by email
//
// Documents:
//
//	GET    /api/documents                         - List documents, most recently updated first
//	POST   /api/documents                         - Create document
//	GET    /api/documents/{id}                    - Get document by ID
//	PUT    /api/documents/{id}                    - Update document (autosave flush target)
//	DELETE /api/documents/{id}                    - Delete document
//
// Collections:
//
//	GET/POST /api/collections                     - List / create collections
//	PUT/DELETE /api/collections/{id}              - Update / delete (delete clears document refs)
//
// CMS connections:
//
//	GET/POST /api/connections                     - List / create connections
//	PUT/DELETE /api/connections/{id}              - Update / delete (delete clears document refs)
//
// Reading list:
//
//	GET/POST /api/reading-list                    - List / save articles
//	PUT/DELETE /api/reading-list/{id}             - Update / remove articles
//
// Prompt library:
//
//	GET/POST /api/prompts                         - List / create prompts
//	PUT/DELETE /api/prompts/{id}                  - Update / delete prompts
//	POST /api/prompts/import                      - Batch create
//	POST /api/prompts/delete-batch                - Batch delete
//
// Settings:
//
//	GET/PUT /api/settings                         - Quick-rewrite toggles
//
// Writing assistant:
//
//	POST /api/assistant/complete                  - Inline completion suggestion
//	POST /api/assistant/suggest                   - Proactive edit suggestion for the document tail
//	POST /api/assistant/rewrite                   - Rewrite a selection
//	POST /api/assistant/generate                  - Long-form draft generation
//	POST /api/assistant/fact-check                - Verify claims with web search grounding
//	POST /api/assistant/seo-article               - Search-optimized blog post drafting
//	POST /api/assistant/summarize                 - Reading-list article insights
//	POST /api/assistant/related-articles          - Discovery feed for the reading list
//	POST /api/assistant/social-share              - Social post drafting
//	POST /api/assistant/resume                    - Resume optimization for a job posting
//
// All routes except login and health require an X-User-Id header naming the
// owner; resources belonging to other owners answer 404.
//
// The method blocks until the context is cancelled or a fatal server error
// occurs. On graceful shutdown it allows up to 5 seconds for active
// requests to complete.
func (a *App) Run(ctx context.Context, cmd *RunCommand) error {
	addr := fmt.Sprintf(":%s", a.config.ServerPort)
	a.log.Info().
		Str("addr", addr).
		Str("backend", a.config.StoreBackend).
		Bool("read_only", a.readOnly).
		Msg("starting InkFlow server")

	server := &http.Server{
		Addr:    addr,
		Handler: a.Router(),
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}

// Router builds the API handler. Run serves it on the configured port;
// tests serve it through httptest.
func (a *App) Router() http.Handler {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", a.handleHealth).Methods("GET")
	api.HandleFunc("/users/login", a.handleLogin).Methods("POST")

	api.HandleFunc("/documents", a.handleListDocuments).Methods("GET")
	api.HandleFunc("/documents", a.handleCreateDocument).Methods("POST")
	api.HandleFunc("/documents/{id}", a.handleGetDocument).Methods("GET")
	api.HandleFunc("/documents/{id}", a.handleUpdateDocument).Methods("PUT")
	api.HandleFunc("/documents/{id}", a.handleDeleteDocument).Methods("DELETE")

	api.HandleFunc("/collections", a.handleListCollections).Methods("GET")
	api.HandleFunc("/collections", a.handleCreateCollection).Methods("POST")
	api.HandleFunc("/collections/{id}", a.handleUpdateCollection).Methods("PUT")
	api.HandleFunc("/collections/{id}", a.handleDeleteCollection).Methods("DELETE")

	api.HandleFunc("/connections", a.handleListConnections).Methods("GET")
	api.HandleFunc("/connections", a.handleCreateConnection).Methods("POST")
	api.HandleFunc("/connections/{id}", a.handleUpdateConnection).Methods("PUT")
	api.HandleFunc("/connections/{id}", a.handleDeleteConnection).Methods("DELETE")

	api.HandleFunc("/reading-list", a.handleListReadingItems).Methods("GET")
	api.HandleFunc("/reading-list", a.handleCreateReadingItem).Methods("POST")
	api.HandleFunc("/reading-list/{id}", a.handleUpdateReadingItem).Methods("PUT")
	api.HandleFunc("/reading-list/{id}", a.handleDeleteReadingItem).Methods("DELETE")

	api.HandleFunc("/prompts", a.handleListPrompts).Methods("GET")
	api.HandleFunc("/prompts", a.handleCreatePrompt).Methods("POST")
	api.HandleFunc("/prompts/import", a.handleImportPrompts).Methods("POST")
	api.HandleFunc("/prompts/delete-batch", a.handleDeletePromptsBatch).Methods("POST")
	api.HandleFunc("/prompts/{id}", a.handleUpdatePrompt).Methods("PUT")
	api.HandleFunc("/prompts/{id}", a.handleDeletePrompt).Methods("DELETE")

	api.HandleFunc("/settings", a.handleGetSettings).Methods("GET")
	api.HandleFunc("/settings", a.handlePutSettings).Methods("PUT")

	api.HandleFunc("/assistant/complete", a.handleAssistComplete).Methods("POST")
	api.HandleFunc("/assistant/suggest", a.handleAssistSuggest).Methods("POST")
	api.HandleFunc("/assistant/rewrite", a.handleAssistRewrite).Methods("POST")
	api.HandleFunc("/assistant/generate", a.handleAssistGenerate).Methods("POST")
	api.HandleFunc("/assistant/fact-check", a.handleAssistFactCheck).Methods("POST")
	api.HandleFunc("/assistant/seo-article", a.handleAssistSeoArticle).Methods("POST")
	api.HandleFunc("/assistant/summarize", a.handleAssistSummarize).Methods("POST")
	api.HandleFunc("/assistant/related-articles", a.handleAssistRelatedArticles).Methods("POST")
	api.HandleFunc("/assistant/social-share", a.handleAssistSocialShare).Methods("POST")
	api.HandleFunc("/assistant/resume", a.handleAssistOptimizeResume).Methods("POST")

	router.HandleFunc("/health", a.handleHealth).Methods("GET")
	return router
}
