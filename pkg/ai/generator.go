// Package ai wraps the Gemini generateContent REST API behind typed
// fallbacks.
//
// Every public operation degrades to a safe value instead of returning an
// error: completions and proactive suggestions fall back to empty results,
// rewrites fall back to the original selection, discovery falls back to an
// empty list, and long-form drafting (documents, SEO articles, resumes)
// falls back to a user-visible placeholder. Failures are logged and never
// cross this boundary, so the editor can call these inline without its own
// error handling.
//
// Fact checking, discovery, resume optimization, and article insights run
// with web search grounding; suggestions request a JSON response so the
// proposal can be applied to an exact substring of the document.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// flashModel handles quick background calls (completions, summaries);
	// proModel handles quality-sensitive rewriting and drafting.
	flashModel = "gemini-2.5-flash"
	proModel   = "gemini-3-pro-preview"

	// Context windows mirror the prompt budgets of the editor UI: short
	// tail for completions, shorter tail for rewrite context, longer tail
	// for proactive suggestion analysis.
	completionWindow = 500
	rewriteWindow    = 300
	suggestionWindow = 800

	// Completions and suggestions are skipped entirely for short inputs.
	minCompletionInput = 10
	minSuggestionInput = 50

	// Discovery returns at most this many articles.
	maxRelatedArticles = 5
)

// Fallback placeholders surfaced to the user when a generation fails.
const (
	draftErrorPlaceholder     = "Error generating draft. Please check your API key or connection."
	insightsErrorPlaceholder  = "Error generating insights."
	factCheckErrorPlaceholder = "Could not verify facts at this time."
	seoErrorPlaceholder       = "Error generating SEO content."
	resumeErrorPlaceholder    = "Error optimizing resume. Please ensure the Job URL is accessible or paste the description directly."
)

// FileAttachment is an inline file sent with a drafting request. Data is
// base64, optionally carrying a data-URL prefix which is stripped before
// sending.
type FileAttachment struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// Generator is the client for the Gemini REST API.
type Generator struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewGenerator creates a generator using the given API key.
func NewGenerator(apiKey string, log zerolog.Logger) *Generator {
	return &Generator{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (g *Generator) SetBaseURL(u string) {
	g.baseURL = strings.TrimSuffix(u, "/")
}

// SetHTTPClient overrides the underlying HTTP client. Used by tests.
func (g *Generator) SetHTTPClient(c *http.Client) {
	g.httpClient = c
}

// Wire types for the generateContent endpoint.

type generatePart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *generateInline `json:"inline_data,omitempty"`
}

type generateInline struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateContentBlock struct {
	Parts []generatePart `json:"parts"`
}

type generateTool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

type generateGenConfig struct {
	ResponseMimeType string `json:"response_mime_type,omitempty"`
}

type generateRequest struct {
	Contents          []generateContentBlock `json:"contents"`
	SystemInstruction *generateContentBlock  `json:"system_instruction,omitempty"`
	Tools             []generateTool         `json:"tools,omitempty"`
	GenerationConfig  *generateGenConfig     `json:"generation_config,omitempty"`
}

type generateWebSource struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []generatePart `json:"parts"`
		} `json:"content"`
		GroundingMetadata *struct {
			GroundingChunks []struct {
				Web *generateWebSource `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
}

// generateOpts selects per-call request features.
type generateOpts struct {
	// jsonOutput asks the model for an application/json response body.
	jsonOutput bool
	// webSearch enables the google_search grounding tool.
	webSearch bool
}

// call issues one generateContent request and returns the parsed response.
func (g *Generator) call(ctx context.Context, model string, reqBody generateRequest) (*generateResponse, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generate returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &parsed, nil
}

// generate issues one generateContent call and returns the first candidate's
// concatenated text.
func (g *Generator) generate(ctx context.Context, model, prompt, system string, files []FileAttachment, opts generateOpts) (string, error) {
	parts := []generatePart{{Text: prompt}}
	for _, f := range files {
		data := f.Data
		// Strip a data:mime;base64, prefix if present.
		if i := strings.Index(data, ","); i >= 0 && strings.HasPrefix(data, "data:") {
			data = data[i+1:]
		}
		parts = append(parts, generatePart{InlineData: &generateInline{
			MimeType: f.MimeType,
			Data:     data,
		}})
	}

	reqBody := generateRequest{
		Contents: []generateContentBlock{{Parts: parts}},
	}
	if system != "" {
		reqBody.SystemInstruction = &generateContentBlock{Parts: []generatePart{{Text: system}}}
	}
	if opts.webSearch {
		reqBody.Tools = []generateTool{{GoogleSearch: &struct{}{}}}
	}
	if opts.jsonOutput {
		reqBody.GenerationConfig = &generateGenConfig{ResponseMimeType: "application/json"}
	}

	parsed, err := g.call(ctx, model, reqBody)
	if err != nil {
		return "", err
	}
	if len(parsed.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	var sb strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

// tail returns the last n runes of s.
func tail(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}

// Complete returns a short continuation suggestion for the text being
// typed. Inputs shorter than ten characters are skipped without a call.
// Any failure returns an empty string, never an error.
func (g *Generator) Complete(ctx context.Context, text string) string {
	if len([]rune(text)) < minCompletionInput {
		return ""
	}
	prompt := fmt.Sprintf(`You are a helpful writing assistant. Provide a short completion (3-10 words) for the current sentence or thought.

Input text: %q

Return ONLY the completion text. No quotes.`, tail(text, completionWindow))

	out, err := g.generate(ctx, flashModel, prompt, "", nil, generateOpts{})
	if err != nil {
		// Completions fail silently; a missing suggestion is not an event
		// worth surfacing.
		g.log.Debug().Err(err).Msg("completion failed")
		return ""
	}
	return strings.TrimRight(out, " \t\n")
}

// Rewrite returns replacement text for a selection according to the user's
// instruction. On failure the original selection is returned unchanged.
func (g *Generator) Rewrite(ctx context.Context, selection, instruction, docContext string) string {
	prompt := fmt.Sprintf(`You are an expert editor.

Original Context (for reference): "...%s..."

Target Selection to Rewrite: %q

User Instruction: %q

Return ONLY the rewritten text. Do not add quotes or explanations.`, tail(docContext, rewriteWindow), selection, instruction)

	out, err := g.generate(ctx, proModel, prompt, "", nil, generateOpts{})
	if err != nil {
		g.log.Warn().Err(err).Msg("rewrite failed")
		return selection
	}
	if out == "" {
		return selection
	}
	return out
}

// Generate produces a long-form markdown draft from a request, optional
// background context, and inline file attachments. On failure it returns a
// user-visible placeholder string.
func (g *Generator) Generate(ctx context.Context, prompt, docContext string, files []FileAttachment) string {
	full := fmt.Sprintf("You are a thought partner. Write a draft based on this request: %s", prompt)
	if docContext != "" {
		full += fmt.Sprintf("\n\nAdditional Context/Background Information:\n%s", docContext)
	}

	system := "You are a professional writer using markdown formatting. Use headers, bullet points, and bold text where appropriate."
	out, err := g.generate(ctx, proModel, full, system, files, generateOpts{})
	if err != nil {
		g.log.Warn().Err(err).Msg("draft generation failed")
		return draftErrorPlaceholder
	}
	return out
}

// Summarize produces reading-list insights for a saved article: a short
// summary plus a key takeaway. On failure it returns a placeholder.
func (g *Generator) Summarize(ctx context.Context, url, title string) string {
	prompt := fmt.Sprintf(`I have saved this article to my reading list. Please provide a concise summary (3 bullet points) and one "Key Takeaway" for a writer.

Article Title: %q
Article URL: %q

If you can't access the specific URL content, infer the likely content from the title and domain, but mention that it is an estimation.`, title, url)

	out, err := g.generate(ctx, flashModel, prompt, "", nil, generateOpts{webSearch: true})
	if err != nil {
		g.log.Warn().Err(err).Msg("article summary failed")
		return insightsErrorPlaceholder
	}
	return out
}

// SocialShare drafts a social post for an article. Failures return an empty
// string.
func (g *Generator) SocialShare(ctx context.Context, title, summary string) string {
	prompt := fmt.Sprintf(`Write a catchy LinkedIn/Twitter post sharing this article. Use emojis and hashtags.

Article: %s
Summary: %s`, title, summary)

	out, err := g.generate(ctx, flashModel, prompt, "", nil, generateOpts{})
	if err != nil {
		g.log.Debug().Err(err).Msg("social share generation failed")
		return ""
	}
	return out
}

// Suggestion is a proactive edit proposal for one specific phrase of the
// text being written. OriginalText is the exact substring to replace so the
// editor can apply the change mechanically.
type Suggestion struct {
	OriginalText string `json:"original_text"`
	Suggestion   string `json:"suggestion"`
	Rationale    string `json:"rationale"`
	Type         string `json:"type"`
}

// Suggest analyzes the tail of the document and proposes a replacement for
// a specific phrase when a clear improvement exists. Inputs shorter than
// fifty characters are skipped without a call. Returns nil when there is
// nothing worth suggesting or on any failure.
func (g *Generator) Suggest(ctx context.Context, text string) *Suggestion {
	if len([]rune(text)) < minSuggestionInput {
		return nil
	}
	prompt := fmt.Sprintf(`You are a proactive editor. Analyze the following text snippet (which is the end of a user's document).

Focus on the last few sentences.
If you see a clear improvement (grammar, punchiness, clarity) or a creative enhancement, suggest a replacement for a SPECIFIC phrase or sentence.
Do not suggest changes for the sake of it. Only if it adds significant value.

Respond with a JSON object: {"should_suggest": bool, "original_text": "the EXACT substring from the input to replace", "suggestion": "the replacement text", "rationale": "why this change helps (very brief)", "type": "tone|grammar|clarity|creative"}.
Set should_suggest to true only if a suggestion is made.

Text to analyze: %q`, tail(text, suggestionWindow))

	out, err := g.generate(ctx, flashModel, prompt, "", nil, generateOpts{jsonOutput: true})
	if err != nil {
		g.log.Debug().Err(err).Msg("suggestion failed")
		return nil
	}

	var parsed struct {
		ShouldSuggest bool   `json:"should_suggest"`
		OriginalText  string `json:"original_text"`
		Suggestion    string `json:"suggestion"`
		Rationale     string `json:"rationale"`
		Type          string `json:"type"`
	}
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		g.log.Debug().Err(err).Msg("suggestion response was not valid JSON")
		return nil
	}
	if !parsed.ShouldSuggest || parsed.Suggestion == "" || parsed.OriginalText == "" {
		return nil
	}
	return &Suggestion{
		OriginalText: parsed.OriginalText,
		Suggestion:   parsed.Suggestion,
		Rationale:    parsed.Rationale,
		Type:         parsed.Type,
	}
}

// FactCheck verifies the claims in a text with web search grounding. On
// failure it returns a placeholder rather than an error.
func (g *Generator) FactCheck(ctx context.Context, text string) string {
	prompt := fmt.Sprintf(`Fact check this text. If specific claims are dubious, point them out. If generally accurate, say "Looks accurate".

Text: %q`, text)

	out, err := g.generate(ctx, flashModel, prompt, "", nil, generateOpts{webSearch: true})
	if err != nil {
		g.log.Warn().Err(err).Msg("fact check failed")
		return factCheckErrorPlaceholder
	}
	return out
}

// SeoArticle drafts a search-optimized blog post for the given topic,
// keywords, audience, and tone. On failure it returns a placeholder.
func (g *Generator) SeoArticle(ctx context.Context, topic, keywords, audience, tone string) string {
	prompt := fmt.Sprintf(`You are an expert SEO Content Writer.

Task: Write a high-ranking blog post.
Topic: %s
Target Keywords: %s
Target Audience: %s
Tone: %s

Requirements:
1. Create a catchy, SEO-optimized Title (H1).
2. Use proper Markdown structure (H2, H3, bullet points).
3. Include a Meta Description at the very top (in a blockquote).
4. Ensure natural keyword placement.
5. Content should be engaging and comprehensive.`, topic, keywords, audience, tone)

	out, err := g.generate(ctx, proModel, prompt, "", nil, generateOpts{})
	if err != nil {
		g.log.Warn().Err(err).Msg("seo draft failed")
		return seoErrorPlaceholder
	}
	return out
}

// RelatedArticle is a discovery result for the reading list.
type RelatedArticle struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Domain string `json:"domain"`
}

// RelatedArticles finds recent articles about a topic through web search
// grounding. Results come from the grounding sources rather than the model
// text, deduplicated by URL and capped at five. Failures return nil.
func (g *Generator) RelatedArticles(ctx context.Context, topic string) []RelatedArticle {
	prompt := fmt.Sprintf(`Find 5 high-quality, recent articles or blog posts about: %q.
Return them in a structured list with Title and URL.`, topic)

	reqBody := generateRequest{
		Contents: []generateContentBlock{{Parts: []generatePart{{Text: prompt}}}},
		Tools:    []generateTool{{GoogleSearch: &struct{}{}}},
	}
	parsed, err := g.call(ctx, flashModel, reqBody)
	if err != nil {
		g.log.Warn().Err(err).Msg("discovery failed")
		return nil
	}
	if len(parsed.Candidates) == 0 || parsed.Candidates[0].GroundingMetadata == nil {
		return nil
	}

	seen := make(map[string]bool)
	var articles []RelatedArticle
	for _, chunk := range parsed.Candidates[0].GroundingMetadata.GroundingChunks {
		web := chunk.Web
		if web == nil || web.URI == "" || web.Title == "" || seen[web.URI] {
			continue
		}
		seen[web.URI] = true
		domain := ""
		if u, err := url.Parse(web.URI); err == nil {
			domain = strings.TrimPrefix(u.Hostname(), "www.")
		}
		articles = append(articles, RelatedArticle{Title: web.Title, URL: web.URI, Domain: domain})
		if len(articles) == maxRelatedArticles {
			break
		}
	}
	return articles
}

// OptimizeResume rewrites the resume in the attached files for a specific
// job, described inline or by URL (web search resolves URLs). On failure it
// returns a placeholder.
func (g *Generator) OptimizeResume(ctx context.Context, jobInput string, files []FileAttachment) string {
	prompt := fmt.Sprintf(`You are an expert Resume Writer and Career Coach.

Task: Rewrite and optimize the user's resume for a specific job.

Job Description / URL: %q

Instructions:
1. Analyze the Job Description (if it is a URL, use your Google Search tool to find the job details).
2. Extract key skills and requirements.
3. Rewrite the provided resume to highlight these skills.
4. Improve bullet points to be impact-driven (Action Verb + Task + Result).
5. Add a tailored Summary section.
6. Output the full optimized resume in Markdown.

After the resume, include a brief Cover Letter draft.`, jobInput)

	out, err := g.generate(ctx, proModel, prompt, "", files, generateOpts{webSearch: true})
	if err != nil {
		g.log.Warn().Err(err).Msg("resume optimization failed")
		return resumeErrorPlaceholder
	}
	return out
}
