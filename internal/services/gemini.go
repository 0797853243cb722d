package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"corporate-agent/internal/models"
	"corporate-agent/pkg/log"
)

const maxResponseSize = 8 * 1024 * 1024

// GeminiClient talks to the Gemini REST API for document review and
// embeddings.
type GeminiClient struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	model      string
	embedModel string
}

// NewGeminiClient builds a client with a tuned HTTP transport. The timeout
// bounds a single API call; the dispatcher enforces its own per-file cap on
// top of it.
func NewGeminiClient(baseURL, apiKey, model, embedModel string, timeout time.Duration) *GeminiClient {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   true,
		},
	}

	return &GeminiClient{
		client:     client,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		embedModel: embedModel,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type embedRequest struct {
	Content content `json:"content"`
}

type embedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

const reviewPromptFormat = `You are an expert ADGM compliance reviewer.
Use the ADGM reference excerpts below to identify:
- Missing or incorrect clauses
- Wrong jurisdiction references
- Missing required sections/signatures
- Ambiguous language
- Non-compliance with ADGM templates

ADGM REFERENCE MATERIAL:
%s

DOCUMENT TO REVIEW:
%s

Return a JSON array of issues with fields:
document_section (approx), issue, severity (Low/Medium/High), suggestion, source_reference.
`

// Review asks the model for compliance issues in docText, grounded on the
// given reference excerpts. The model is asked for a JSON array; a reply
// that is not valid JSON degrades to a single marker issue carrying the raw
// text, so one bad completion never fails the file.
func (c *GeminiClient) Review(ctx context.Context, refs []string, docText string) ([]models.Issue, error) {
	prompt := fmt.Sprintf(reviewPromptFormat, strings.Join(refs, "\n---\n"), docText)

	var resp generateResponse
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	if err := c.post(ctx, url, generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}, &resp); err != nil {
		return nil, err
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("model returned no candidates")
	}
	raw := stripCodeFence(resp.Candidates[0].Content.Parts[0].Text)

	var issues []models.Issue
	if err := json.Unmarshal([]byte(raw), &issues); err != nil {
		log.Warnf("⚠️  Model reply was not valid JSON: %v", err)
		return []models.Issue{{
			Issue:           "analysis capability did not return valid JSON",
			Severity:        "Low",
			SourceReference: truncate(raw, 500),
		}}, nil
	}
	return issues, nil
}

// Embed returns the embedding vector for text.
func (c *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	var resp embedResponse
	url := fmt.Sprintf("%s/v1beta/models/%s:embedContent?key=%s", c.baseURL, c.embedModel, c.apiKey)
	if err := c.post(ctx, url, embedRequest{
		Content: content{Parts: []part{{Text: text}}},
	}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("empty embedding returned")
	}
	return resp.Embedding.Values, nil
}

func (c *GeminiClient) post(ctx context.Context, url string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("call model API: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model API returned HTTP %d: %s", resp.StatusCode, truncate(string(data), 200))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// stripCodeFence removes a surrounding ```json ... ``` wrapper if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.Trim(s, "`")
	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToLower(s), "json") {
		s = strings.TrimSpace(s[4:])
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
