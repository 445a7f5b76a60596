package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkflow/inkflow/pkg/models"
)

func TestRequestsCarryUserIDHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-User-Id")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	id := models.NewUserID()
	c.SetUserID(id)

	_, err := c.ListDocuments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, id.String(), got)
}

// TestUserIDSafeForConcurrentUse hammers the session state from several
// goroutines while requests are in flight. Run with -race.
func TestUserIDSafeForConcurrentUse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	id := models.NewUserID()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				c.SetUserID(id)
				_, err := c.Health(context.Background())
				assert.NoError(t, err)
				c.Logout()
			}
		}()
	}
	wg.Wait()
}
