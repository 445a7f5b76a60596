package inkflow

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/inkflow/inkflow/pkg/ai"
	"github.com/inkflow/inkflow/pkg/models"
)

// respondJSON writes a JSON response with the given status. A nil payload
// produces an empty body.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_, _ = w.Write(response)
	}
}

// respondError sends a standardized JSON error response:
//
//	{"error": "error message here"}
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// requireUser extracts the owner from the X-User-Id header. Every route
// except login and health is owner-scoped through this.
func requireUser(r *http.Request) (models.UserID, bool) {
	raw := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if raw == "" {
		return models.UserID{}, false
	}
	id, err := models.ParseUserID(raw)
	if err != nil {
		return models.UserID{}, false
	}
	return id, true
}

// handleHealth reports service status for load balancers and monitoring.
// Accessible without authentication at /health and /api/health. The payload
// carries the autosave quiet period so editor clients can configure their
// sync controller from the server.
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":      "healthy",
		"backend":     a.config.StoreBackend,
		"time":        time.Now().Unix(),
		"autosave_ms": a.DebounceInterval().Milliseconds(),
	}
	respondJSON(w, http.StatusOK, response)
}

// handleLogin upserts a user by email and returns it. This is the only way
// to obtain an owner ID; there are no passwords or sessions, matching the
// single-writer trust model of the app.
func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, "Email is required")
		return
	}

	ctx := r.Context()
	user, err := a.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if user == nil {
		user = &models.User{
			Email: req.Email,
			Name:  req.Name,
		}
		if err := a.store.CreateUser(ctx, user); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, http.StatusCreated, user)
		return
	}

	if req.Name != "" && req.Name != user.Name {
		user.Name = req.Name
		if err := a.store.UpdateUser(ctx, user); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	respondJSON(w, http.StatusOK, user)
}

// Document handlers. Update is the hot path: the editor's sync controller
// flushes through PUT /api/documents/{id} and replaces its cached copy with
// the response, so updates must return the full refreshed entity.

func (a *App) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	docs, err := a.store.ListDocuments(r.Context(), owner)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if docs == nil {
		docs = []*models.Document{}
	}

	respondJSON(w, http.StatusOK, docs)
}

func (a *App) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	var doc models.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	doc.OwnerID = owner

	if err := a.store.CreateDocument(r.Context(), &doc); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, doc)
}

func (a *App) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	id, err := models.ParseDocumentID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}

	doc, err := a.store.GetDocument(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if doc == nil || doc.OwnerID != owner {
		respondError(w, http.StatusNotFound, "Document not found")
		return
	}

	respondJSON(w, http.StatusOK, doc)
}

func (a *App) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	id, err := models.ParseDocumentID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}

	existing, err := a.store.GetDocument(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing == nil || existing.OwnerID != owner {
		respondError(w, http.StatusNotFound, "Document not found")
		return
	}

	var doc models.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	doc.ID = id
	doc.OwnerID = owner
	doc.CreatedAt = existing.CreatedAt

	if err := a.store.UpdateDocument(r.Context(), &doc); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, doc)
}

func (a *App) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	id, err := models.ParseDocumentID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}

	existing, err := a.store.GetDocument(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing == nil || existing.OwnerID != owner {
		respondError(w, http.StatusNotFound, "Document not found")
		return
	}

	if err := a.store.DeleteDocument(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Collection handlers. Deleting a collection clears the collection
// reference on every document that carried it, inside the store.

func (a *App) handleListCollections(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	cols, err := a.store.ListCollections(r.Context(), owner)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if cols == nil {
		cols = []*models.Collection{}
	}

	respondJSON(w, http.StatusOK, cols)
}

func (a *App) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	var col models.Collection
	if err := json.NewDecoder(r.Body).Decode(&col); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	col.OwnerID = owner

	if err := a.store.CreateCollection(r.Context(), &col); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, col)
}

func (a *App) handleUpdateCollection(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	id, err := models.ParseCollectionID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid collection ID")
		return
	}

	existing, err := a.store.GetCollection(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing == nil || existing.OwnerID != owner {
		respondError(w, http.StatusNotFound, "Collection not found")
		return
	}

	var col models.Collection
	if err := json.NewDecoder(r.Body).Decode(&col); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	col.ID = id
	col.OwnerID = owner
	col.CreatedAt = existing.CreatedAt

	if err := a.store.UpdateCollection(r.Context(), &col); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, col)
}

func (a *App) handleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	id, err := models.ParseCollectionID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid collection ID")
		return
	}

	existing, err := a.store.GetCollection(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing == nil || existing.OwnerID != owner {
		respondError(w, http.StatusNotFound, "Collection not found")
		return
	}

	if err := a.store.DeleteCollection(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Connection handlers follow the collection pattern, including the
// cascade-clear on delete.

func (a *App) handleListConnections(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	conns, err := a.store.ListConnections(r.Context(), owner)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if conns == nil {
		conns = []*models.Connection{}
	}

	respondJSON(w, http.StatusOK, conns)
}

func (a *App) handleCreateConnection(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	var conn models.Connection
	if err := json.NewDecoder(r.Body).Decode(&conn); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	conn.OwnerID = owner

	if err := a.store.CreateConnection(r.Context(), &conn); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, conn)
}

func (a *App) handleUpdateConnection(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	id, err := models.ParseConnectionID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid connection ID")
		return
	}

	existing, err := a.store.GetConnection(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing == nil || existing.OwnerID != owner {
		respondError(w, http.StatusNotFound, "Connection not found")
		return
	}

	var conn models.Connection
	if err := json.NewDecoder(r.Body).Decode(&conn); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	conn.ID = id
	conn.OwnerID = owner
	conn.CreatedAt = existing.CreatedAt

	if err := a.store.UpdateConnection(r.Context(), &conn); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, conn)
}

func (a *App) handleDeleteConnection(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	id, err := models.ParseConnectionID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid connection ID")
		return
	}

	existing, err := a.store.GetConnection(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing == nil || existing.OwnerID != owner {
		respondError(w, http.StatusNotFound, "Connection not found")
		return
	}

	if err := a.store.DeleteConnection(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Reading-list handlers

func (a *App) handleListReadingItems(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	items, err := a.store.ListReadingItems(r.Context(), owner)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []*models.ReadingItem{}
	}

	respondJSON(w, http.StatusOK, items)
}

func (a *App) handleCreateReadingItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	var item models.ReadingItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	item.OwnerID = owner

	if err := a.store.CreateReadingItem(r.Context(), &item); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

func (a *App) handleUpdateReadingItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	id, err := models.ParseReadingItemID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid reading item ID")
		return
	}

	existing, err := a.store.GetReadingItem(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing == nil || existing.OwnerID != owner {
		respondError(w, http.StatusNotFound, "Reading item not found")
		return
	}

	var item models.ReadingItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	item.ID = id
	item.OwnerID = owner
	item.AddedAt = existing.AddedAt

	if err := a.store.UpdateReadingItem(r.Context(), &item); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, item)
}

func (a *App) handleDeleteReadingItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	id, err := models.ParseReadingItemID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid reading item ID")
		return
	}

	existing, err := a.store.GetReadingItem(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing == nil || existing.OwnerID != owner {
		respondError(w, http.StatusNotFound, "Reading item not found")
		return
	}

	if err := a.store.DeleteReadingItem(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Prompt handlers, including the batch import and delete endpoints the
// prompt library UI uses.

func (a *App) handleListPrompts(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	prompts, err := a.store.ListPrompts(r.Context(), owner)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if prompts == nil {
		prompts = []*models.Prompt{}
	}

	respondJSON(w, http.StatusOK, prompts)
}

func (a *App) handleCreatePrompt(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	var prompt models.Prompt
	if err := json.NewDecoder(r.Body).Decode(&prompt); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	prompt.OwnerID = owner

	if err := a.store.CreatePrompt(r.Context(), &prompt); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, prompt)
}

func (a *App) handleUpdatePrompt(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	id, err := models.ParsePromptID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid prompt ID")
		return
	}

	existing, err := a.store.GetPrompt(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing == nil || existing.OwnerID != owner {
		respondError(w, http.StatusNotFound, "Prompt not found")
		return
	}

	var prompt models.Prompt
	if err := json.NewDecoder(r.Body).Decode(&prompt); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	prompt.ID = id
	prompt.OwnerID = owner
	prompt.CreatedAt = existing.CreatedAt

	if err := a.store.UpdatePrompt(r.Context(), &prompt); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, prompt)
}

func (a *App) handleDeletePrompt(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	id, err := models.ParsePromptID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid prompt ID")
		return
	}

	existing, err := a.store.GetPrompt(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing == nil || existing.OwnerID != owner {
		respondError(w, http.StatusNotFound, "Prompt not found")
		return
	}

	if err := a.store.DeletePrompt(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// handleImportPrompts creates a batch of prompts in one call. Import is
// best-effort atomic per item: a failure aborts with the items created so
// far already persisted, matching the reference behavior.
func (a *App) handleImportPrompts(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	var prompts []*models.Prompt
	if err := json.NewDecoder(r.Body).Decode(&prompts); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	ctx := r.Context()
	for _, prompt := range prompts {
		prompt.OwnerID = owner
		if err := a.store.CreatePrompt(ctx, prompt); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	respondJSON(w, http.StatusCreated, prompts)
}

// handleDeletePromptsBatch deletes several prompts in one call. Unknown or
// foreign IDs are skipped rather than failing the batch.
func (a *App) handleDeletePromptsBatch(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	var req struct {
		IDs []models.PromptID `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	ctx := r.Context()
	for _, id := range req.IDs {
		existing, err := a.store.GetPrompt(ctx, id)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if existing == nil || existing.OwnerID != owner {
			continue
		}
		if err := a.store.DeletePrompt(ctx, id); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Settings handlers. GET returns the stored toggles or the all-enabled
// defaults when the user has never saved any.

func (a *App) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	settings, err := a.store.GetSettings(r.Context(), owner)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, settings)
}

func (a *App) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	var settings models.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	settings.UserID = owner

	if err := a.store.PutSettings(r.Context(), &settings); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, settings)
}

// Assistant handlers wrap pkg/ai. Generation failures never surface as
// error statuses; the generator's typed fallbacks come back as normal
// responses so clients can use the result directly.

func (a *App) handleAssistComplete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(r); !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"completion": a.ai.Complete(r.Context(), req.Text),
	})
}

func (a *App) handleAssistRewrite(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(r); !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	var req struct {
		Selection   string `json:"selection"`
		Instruction string `json:"instruction"`
		Context     string `json:"context"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"text": a.ai.Rewrite(r.Context(), req.Selection, req.Instruction, req.Context),
	})
}

func (a *App) handleAssistGenerate(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(r); !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	var req struct {
		Prompt  string              `json:"prompt"`
		Context string              `json:"context"`
		Files   []ai.FileAttachment `json:"files"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"text": a.ai.Generate(r.Context(), req.Prompt, req.Context, req.Files),
	})
}

func (a *App) handleAssistSummarize(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(r); !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	var req struct {
		URL   string `json:"url"`
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"summary": a.ai.Summarize(r.Context(), req.URL, req.Title),
	})
}

func (a *App) handleAssistSocialShare(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(r); !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	var req struct {
		Title   string `json:"title"`
		Summary string `json:"summary"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"text": a.ai.SocialShare(r.Context(), req.Title, req.Summary),
	})
}

// handleAssistSuggest runs the proactive editor over the document tail. The
// suggestion field is null when the model has nothing worth proposing.
func (a *App) handleAssistSuggest(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(r); !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"suggestion": a.ai.Suggest(r.Context(), req.Text),
	})
}

func (a *App) handleAssistFactCheck(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(r); !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"text": a.ai.FactCheck(r.Context(), req.Text),
	})
}

func (a *App) handleAssistSeoArticle(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(r); !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	var req struct {
		Topic    string `json:"topic"`
		Keywords string `json:"keywords"`
		Audience string `json:"audience"`
		Tone     string `json:"tone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"text": a.ai.SeoArticle(r.Context(), req.Topic, req.Keywords, req.Audience, req.Tone),
	})
}

// handleAssistRelatedArticles backs the reading-list discovery feed; saved
// results arrive back through POST /api/reading-list with source_type
// "discovery".
func (a *App) handleAssistRelatedArticles(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(r); !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	var req struct {
		Topic string `json:"topic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	articles := a.ai.RelatedArticles(r.Context(), req.Topic)
	if articles == nil {
		articles = []ai.RelatedArticle{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"articles": articles,
	})
}

func (a *App) handleAssistOptimizeResume(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(r); !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid X-User-Id header")
		return
	}

	var req struct {
		Job   string              `json:"job"`
		Files []ai.FileAttachment `json:"files"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"text": a.ai.OptimizeResume(r.Context(), req.Job, req.Files),
	})
}
