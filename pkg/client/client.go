// Package client provides a Go HTTP client library for programmatic access
// to the InkFlow API.
//
// The client mirrors the server's endpoint structure with strongly-typed
// methods over the same [github.com/inkflow/inkflow/pkg/models] entities the
// server uses, so type safety holds across the API boundary. It also
// satisfies [github.com/inkflow/inkflow/pkg/editor.Gateway], making a remote
// InkFlow server the editor's persistence gateway.
//
// # Authentication
//
// InkFlow identifies callers by owner: [Client.Login] upserts a user by
// email and remembers the returned ID, which every subsequent request sends
// in the X-User-Id header. [Client.SetUserID] sets the ID directly when the
// caller already has one. [Client.Logout] clears it.
//
// # Errors
//
// Responses with status >= 400 become errors carrying the status code and
// body. Network failures and JSON problems are wrapped with context. The
// client never panics and is safe for concurrent use.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/inkflow/inkflow/pkg/models"
)

// Client provides strongly-typed access to the InkFlow REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu     sync.RWMutex
	userID string
}

// NewClient creates a new InkFlow API client.
//
// The baseURL should include the protocol and host (e.g.,
// "http://localhost:8080") without a trailing slash. The client is
// initialized with a 30-second timeout and is ready for immediate use.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetUserID sets the owner ID sent in the X-User-Id header.
func (c *Client) SetUserID(id models.UserID) {
	c.mu.Lock()
	c.userID = id.String()
	c.mu.Unlock()
}

// Logout clears the stored owner ID.
func (c *Client) Logout() {
	c.mu.Lock()
	c.userID = ""
	c.mu.Unlock()
}

// doRequest performs an HTTP request with proper headers
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	c.mu.RLock()
	userID := c.userID
	c.mu.RUnlock()
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}

	return c.httpClient.Do(req)
}

// decodeResponse decodes the JSON response into the target struct
func decodeResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	if target != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Health checks the health status of the server
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}

	var result map[string]any
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// AutosaveInterval returns the autosave quiet period the server advertises
// in its health payload. Editor stacks use it to configure their sync
// controller so every client debounces at the deployment's configured rate.
func (c *Client) AutosaveInterval(ctx context.Context) (time.Duration, error) {
	health, err := c.Health(ctx)
	if err != nil {
		return 0, err
	}
	ms, ok := health["autosave_ms"].(float64)
	if !ok || ms <= 0 {
		return 0, fmt.Errorf("server did not advertise an autosave interval")
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// Login upserts a user by email and remembers the returned ID for all
// subsequent requests.
func (c *Client) Login(ctx context.Context, email, name string) (*models.User, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/users/login", map[string]string{
		"email": email,
		"name":  name,
	})
	if err != nil {
		return nil, err
	}

	var result models.User
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.userID = result.ID.String()
	c.mu.Unlock()
	return &result, nil
}

// Document management

// ListDocuments retrieves the caller's documents, most recently updated first
func (c *Client) ListDocuments(ctx context.Context) ([]*models.Document, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/documents", nil)
	if err != nil {
		return nil, err
	}

	var result []*models.Document
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// CreateDocument creates a new document
func (c *Client) CreateDocument(ctx context.Context, doc *models.Document) (*models.Document, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/documents", doc)
	if err != nil {
		return nil, err
	}

	var result models.Document
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// GetDocument retrieves a document by ID
func (c *Client) GetDocument(ctx context.Context, id models.DocumentID) (*models.Document, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/documents/%s", id), nil)
	if err != nil {
		return nil, err
	}

	var result models.Document
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// UpdateDocument writes a document and returns the server's representation
// with its refreshed UpdatedAt. This is the editor gateway operation.
func (c *Client) UpdateDocument(ctx context.Context, doc *models.Document) (*models.Document, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/api/documents/%s", doc.ID), doc)
	if err != nil {
		return nil, err
	}

	var result models.Document
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// DeleteDocument deletes a document by ID
func (c *Client) DeleteDocument(ctx context.Context, id models.DocumentID) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/documents/%s", id), nil)
	if err != nil {
		return err
	}

	return decodeResponse(resp, nil)
}

// Collection management

// ListCollections retrieves the caller's collections
func (c *Client) ListCollections(ctx context.Context) ([]*models.Collection, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/collections", nil)
	if err != nil {
		return nil, err
	}

	var result []*models.Collection
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// CreateCollection creates a new collection
func (c *Client) CreateCollection(ctx context.Context, col *models.Collection) (*models.Collection, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/collections", col)
	if err != nil {
		return nil, err
	}

	var result models.Collection
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// UpdateCollection updates a collection
func (c *Client) UpdateCollection(ctx context.Context, col *models.Collection) (*models.Collection, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/api/collections/%s", col.ID), col)
	if err != nil {
		return nil, err
	}

	var result models.Collection
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// DeleteCollection deletes a collection; the server clears the collection
// reference on any document that carried it.
func (c *Client) DeleteCollection(ctx context.Context, id models.CollectionID) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/collections/%s", id), nil)
	if err != nil {
		return err
	}

	return decodeResponse(resp, nil)
}

// Connection management

// ListConnections retrieves the caller's CMS connections
func (c *Client) ListConnections(ctx context.Context) ([]*models.Connection, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/connections", nil)
	if err != nil {
		return nil, err
	}

	var result []*models.Connection
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// CreateConnection creates a new CMS connection
func (c *Client) CreateConnection(ctx context.Context, conn *models.Connection) (*models.Connection, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/connections", conn)
	if err != nil {
		return nil, err
	}

	var result models.Connection
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// UpdateConnection updates a CMS connection
func (c *Client) UpdateConnection(ctx context.Context, conn *models.Connection) (*models.Connection, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/api/connections/%s", conn.ID), conn)
	if err != nil {
		return nil, err
	}

	var result models.Connection
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// DeleteConnection deletes a CMS connection; the server clears the
// connection reference on any document that carried it.
func (c *Client) DeleteConnection(ctx context.Context, id models.ConnectionID) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/connections/%s", id), nil)
	if err != nil {
		return err
	}

	return decodeResponse(resp, nil)
}

// Reading list management

// ListReadingItems retrieves the caller's reading list, newest first
func (c *Client) ListReadingItems(ctx context.Context) ([]*models.ReadingItem, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/reading-list", nil)
	if err != nil {
		return nil, err
	}

	var result []*models.ReadingItem
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// CreateReadingItem adds an article to the reading list
func (c *Client) CreateReadingItem(ctx context.Context, item *models.ReadingItem) (*models.ReadingItem, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/reading-list", item)
	if err != nil {
		return nil, err
	}

	var result models.ReadingItem
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// UpdateReadingItem updates a reading-list item
func (c *Client) UpdateReadingItem(ctx context.Context, item *models.ReadingItem) (*models.ReadingItem, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/api/reading-list/%s", item.ID), item)
	if err != nil {
		return nil, err
	}

	var result models.ReadingItem
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// DeleteReadingItem removes an article from the reading list
func (c *Client) DeleteReadingItem(ctx context.Context, id models.ReadingItemID) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/reading-list/%s", id), nil)
	if err != nil {
		return err
	}

	return decodeResponse(resp, nil)
}

// Prompt management

// ListPrompts retrieves the caller's prompt library
func (c *Client) ListPrompts(ctx context.Context) ([]*models.Prompt, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/prompts", nil)
	if err != nil {
		return nil, err
	}

	var result []*models.Prompt
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// CreatePrompt saves a prompt to the library
func (c *Client) CreatePrompt(ctx context.Context, prompt *models.Prompt) (*models.Prompt, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/prompts", prompt)
	if err != nil {
		return nil, err
	}

	var result models.Prompt
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// UpdatePrompt updates a saved prompt
func (c *Client) UpdatePrompt(ctx context.Context, prompt *models.Prompt) (*models.Prompt, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/api/prompts/%s", prompt.ID), prompt)
	if err != nil {
		return nil, err
	}

	var result models.Prompt
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// DeletePrompt deletes a saved prompt
func (c *Client) DeletePrompt(ctx context.Context, id models.PromptID) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/prompts/%s", id), nil)
	if err != nil {
		return err
	}

	return decodeResponse(resp, nil)
}

// ImportPrompts creates a batch of prompts in one call
func (c *Client) ImportPrompts(ctx context.Context, prompts []*models.Prompt) ([]*models.Prompt, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/prompts/import", prompts)
	if err != nil {
		return nil, err
	}

	var result []*models.Prompt
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// DeletePromptsBatch deletes several prompts in one call
func (c *Client) DeletePromptsBatch(ctx context.Context, ids []models.PromptID) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/prompts/delete-batch", map[string]any{
		"ids": ids,
	})
	if err != nil {
		return err
	}

	return decodeResponse(resp, nil)
}

// Settings management

// GetSettings retrieves the caller's quick-rewrite settings
func (c *Client) GetSettings(ctx context.Context) (*models.Settings, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/settings", nil)
	if err != nil {
		return nil, err
	}

	var result models.Settings
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// PutSettings saves the caller's quick-rewrite settings
func (c *Client) PutSettings(ctx context.Context, settings *models.Settings) (*models.Settings, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, "/api/settings", settings)
	if err != nil {
		return nil, err
	}

	var result models.Settings
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
