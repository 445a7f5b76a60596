package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(t *testing.T, handler http.HandlerFunc) (*Generator, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g := NewGenerator("test-key", zerolog.Nop())
	g.SetBaseURL(srv.URL)
	g.SetHTTPClient(srv.Client())
	return g, srv
}

func respondWithText(t *testing.T, w http.ResponseWriter, text string) {
	t.Helper()
	resp := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
	require.NoError(t, json.NewEncoder(w).Encode(resp))
}

func TestCompleteReturnsSuggestion(t *testing.T) {
	g, _ := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-2.5-flash")
		respondWithText(t, w, " and then some\n")
	})

	got := g.Complete(context.Background(), "The quick brown fox jumps")
	assert.Equal(t, " and then some", got)
}

func TestCompleteSkipsShortInput(t *testing.T) {
	var calls atomic.Int32
	g, _ := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		respondWithText(t, w, "never")
	})

	assert.Equal(t, "", g.Complete(context.Background(), "short"))
	assert.Zero(t, calls.Load(), "short inputs must not hit the API")
}

func TestCompleteFallsBackToEmptyString(t *testing.T) {
	g, _ := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	assert.Equal(t, "", g.Complete(context.Background(), "a long enough input text"))
}

func TestRewriteReturnsReplacement(t *testing.T) {
	g, _ := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-3-pro-preview")
		respondWithText(t, w, "a sharper phrase")
	})

	got := g.Rewrite(context.Background(), "a dull phrase", "make it punchier", "surrounding text")
	assert.Equal(t, "a sharper phrase", got)
}

func TestRewriteFallsBackToSelection(t *testing.T) {
	g, _ := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	got := g.Rewrite(context.Background(), "keep me", "shorten", "ctx")
	assert.Equal(t, "keep me", got)
}

func TestRewriteEmptyResponseFallsBackToSelection(t *testing.T) {
	g, _ := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		respondWithText(t, w, "")
	})

	got := g.Rewrite(context.Background(), "keep me", "shorten", "ctx")
	assert.Equal(t, "keep me", got)
}

func TestGenerateSendsAttachmentsAndSystemInstruction(t *testing.T) {
	g, _ := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.SystemInstruction)
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 2)
		att := req.Contents[0].Parts[1].InlineData
		require.NotNil(t, att)
		assert.Equal(t, "image/png", att.MimeType)
		assert.Equal(t, "aGVsbG8=", att.Data, "data-URL prefix must be stripped")
		respondWithText(t, w, "# Draft\n\nBody")
	})

	got := g.Generate(context.Background(), "write about foxes", "background notes", []FileAttachment{
		{Name: "pic.png", MimeType: "image/png", Data: "data:image/png;base64,aGVsbG8="},
	})
	assert.Equal(t, "# Draft\n\nBody", got)
}

func TestGenerateFallsBackToPlaceholder(t *testing.T) {
	g, _ := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	got := g.Generate(context.Background(), "anything", "", nil)
	assert.Equal(t, draftErrorPlaceholder, got)
}

func TestSummarizeFallsBackToPlaceholder(t *testing.T) {
	g, _ := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	})

	got := g.Summarize(context.Background(), "https://example.com/a", "An Article")
	assert.Equal(t, insightsErrorPlaceholder, got)
}

func TestSocialShareFallsBackToEmpty(t *testing.T) {
	g, _ := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	assert.Equal(t, "", g.SocialShare(context.Background(), "Title", "Summary"))
}

func TestSuggestParsesStructuredResponse(t *testing.T) {
	g, _ := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.GenerationConfig)
		assert.Equal(t, "application/json", req.GenerationConfig.ResponseMimeType)
		respondWithText(t, w, `{"should_suggest": true, "original_text": "very unique", "suggestion": "unique", "rationale": "redundant intensifier", "type": "clarity"}`)
	})

	got := g.Suggest(context.Background(), "The results of the experiment were very unique and surprised everyone involved.")
	require.NotNil(t, got)
	assert.Equal(t, "very unique", got.OriginalText)
	assert.Equal(t, "unique", got.Suggestion)
	assert.Equal(t, "clarity", got.Type)
}

func TestSuggestSkipsShortInput(t *testing.T) {
	var calls atomic.Int32
	g, _ := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		respondWithText(t, w, "never")
	})

	assert.Nil(t, g.Suggest(context.Background(), "too short to analyze"))
	assert.Zero(t, calls.Load(), "short inputs must not hit the API")
}

func TestSuggestReturnsNilWhenNothingToSuggest(t *testing.T) {
	g, _ := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		respondWithText(t, w, `{"should_suggest": false}`)
	})

	text := "This paragraph is already perfectly clear and needs no editorial intervention at all."
	assert.Nil(t, g.Suggest(context.Background(), text))
}

func TestFactCheckEnablesWebSearch(t *testing.T) {
	g, _ := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Tools, 1)
		assert.NotNil(t, req.Tools[0].GoogleSearch)
		respondWithText(t, w, "Looks accurate")
	})

	got := g.FactCheck(context.Background(), "Water boils at 100C at sea level.")
	assert.Equal(t, "Looks accurate", got)
}

func TestFactCheckFallsBackToPlaceholder(t *testing.T) {
	g, _ := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	got := g.FactCheck(context.Background(), "Some dubious claim.")
	assert.Equal(t, factCheckErrorPlaceholder, got)
}

func TestSeoArticleFallsBackToPlaceholder(t *testing.T) {
	g, _ := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	got := g.SeoArticle(context.Background(), "home coffee roasting", "roast, beans", "hobbyists", "friendly")
	assert.Equal(t, seoErrorPlaceholder, got)
}

func TestRelatedArticlesFromGroundingSources(t *testing.T) {
	g, _ := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{"parts": []map[string]any{{"text": "1. Article A\n2. Article B"}}},
				"groundingMetadata": map[string]any{
					"groundingChunks": []map[string]any{
						{"web": map[string]any{"uri": "https://www.example.com/a", "title": "Article A"}},
						{"web": map[string]any{"uri": "https://www.example.com/a", "title": "Article A"}},
						{"web": map[string]any{"uri": "https://blog.example.org/b", "title": "Article B"}},
						{"web": map[string]any{"uri": "", "title": "missing uri"}},
					},
				},
			}},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	got := g.RelatedArticles(context.Background(), "static site generators")
	require.Len(t, got, 2, "duplicates and sourceless chunks must be dropped")
	assert.Equal(t, RelatedArticle{Title: "Article A", URL: "https://www.example.com/a", Domain: "example.com"}, got[0])
	assert.Equal(t, "blog.example.org", got[1].Domain)
}

func TestRelatedArticlesFallsBackToEmpty(t *testing.T) {
	g, _ := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	})

	assert.Empty(t, g.RelatedArticles(context.Background(), "anything"))
}

func TestOptimizeResumeSendsAttachmentsWithSearch(t *testing.T) {
	g, _ := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Tools, 1)
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 2)
		assert.NotNil(t, req.Contents[0].Parts[1].InlineData)
		respondWithText(t, w, "# Optimized Resume")
	})

	got := g.OptimizeResume(context.Background(), "https://jobs.example.com/123", []FileAttachment{
		{Name: "resume.pdf", MimeType: "application/pdf", Data: "aGVsbG8="},
	})
	assert.Equal(t, "# Optimized Resume", got)
}

func TestOptimizeResumeFallsBackToPlaceholder(t *testing.T) {
	g, _ := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	got := g.OptimizeResume(context.Background(), "backend engineer", nil)
	assert.Equal(t, resumeErrorPlaceholder, got)
}

func TestTailWindows(t *testing.T) {
	assert.Equal(t, "abc", tail("abc", 10))
	assert.Equal(t, "cde", tail("abcde", 3))
}
