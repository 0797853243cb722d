package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func geminiStub(t *testing.T, reply string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}

		if strings.Contains(r.URL.Path, ":embedContent") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"embedding":{"values":[0.1,0.2,0.3]}}`))
			return
		}

		body := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": reply}},
				}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
}

func TestGeminiReviewParsesFencedJSON(t *testing.T) {
	reply := "```json\n" +
		`[{"document_section":"Clause 3","issue":"wrong jurisdiction","severity":"High","suggestion":"refer to ADGM courts","source_reference":"Companies Regulations"}]` +
		"\n```"
	srv := geminiStub(t, reply, http.StatusOK)
	defer srv.Close()

	c := NewGeminiClient(srv.URL, "test-key", "gemini-1.5-flash", "text-embedding-004", time.Second)

	issues, err := c.Review(context.Background(), []string{"ADGM excerpt"}, "document body")
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	if issues[0].Severity != "High" || issues[0].DocumentSection != "Clause 3" {
		t.Errorf("issue not parsed: %+v", issues[0])
	}
}

func TestGeminiReviewInvalidJSONDegrades(t *testing.T) {
	srv := geminiStub(t, "I could not produce JSON, sorry.", http.StatusOK)
	defer srv.Close()

	c := NewGeminiClient(srv.URL, "test-key", "gemini-1.5-flash", "text-embedding-004", time.Second)

	issues, err := c.Review(context.Background(), nil, "document body")
	if err != nil {
		t.Fatalf("invalid JSON must degrade, not fail: %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("expected 1 marker issue, got %d", len(issues))
	}
	if !strings.Contains(issues[0].Issue, "valid JSON") {
		t.Errorf("unexpected marker issue: %+v", issues[0])
	}
	if !strings.Contains(issues[0].SourceReference, "could not produce") {
		t.Errorf("raw reply not carried: %+v", issues[0])
	}
}

func TestGeminiReviewHTTPError(t *testing.T) {
	srv := geminiStub(t, "irrelevant", http.StatusForbidden)
	defer srv.Close()

	c := NewGeminiClient(srv.URL, "bad-key", "gemini-1.5-flash", "text-embedding-004", time.Second)

	if _, err := c.Review(context.Background(), nil, "document body"); err == nil {
		t.Fatal("expected error on HTTP 403")
	}
}

func TestGeminiEmbed(t *testing.T) {
	srv := geminiStub(t, "", http.StatusOK)
	defer srv.Close()

	c := NewGeminiClient(srv.URL, "test-key", "gemini-1.5-flash", "text-embedding-004", time.Second)

	vec, err := c.Embed(context.Background(), "some reference text")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vec) != 3 || vec[0] != 0.1 {
		t.Errorf("unexpected vector: %v", vec)
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"[]", "[]"},
		{"```json\n[]\n```", "[]"},
		{"```\n[]\n```", "[]"},
		{"  ```JSON\n[1]\n```  ", "[1]"},
	}
	for _, tt := range tests {
		if got := stripCodeFence(tt.in); got != tt.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
