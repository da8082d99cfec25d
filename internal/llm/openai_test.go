package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func openAIStub(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		handler(w, r)
	}))
}

func TestOpenAIRevise(t *testing.T) {
	var gotBody map[string]any
	server := openAIStub(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		resp := map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]string{"role": "assistant", "content": "# Dosering\nAmoxicillin 50 mg/kg/d [DSI2023]"},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]int{"prompt_tokens": 100, "completion_tokens": 25, "total_tokens": 125},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	})
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{
		APIKey:  "sk-test",
		BaseURL: server.URL + "/v1",
		Model:   "gpt-4o-mini",
	})
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}

	resp, err := provider.Revise(context.Background(), ReviseRequest{
		ProcedureTitle: "Pneumoni hos børn",
		Draft:          "# Dosering\nAmoxicillin 50 mg/kg/d",
		Guidance:       []string{"[dose_without_evidence x1] Tilføj kildehenvisning."},
	})
	if err != nil {
		t.Fatalf("revise: %v", err)
	}

	if !strings.Contains(resp.Draft, "Amoxicillin") {
		t.Errorf("unexpected draft: %q", resp.Draft)
	}
	if resp.TokensUsed != 125 {
		t.Errorf("expected 125 tokens, got %d", resp.TokensUsed)
	}
	msgs, ok := gotBody["messages"].([]any)
	if !ok || len(msgs) != 2 {
		t.Fatalf("expected system+user messages, got %v", gotBody["messages"])
	}
}

func TestOpenAIRequiresAPIKey(t *testing.T) {
	if _, err := NewOpenAIProvider(Config{}); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestOpenAIConfiguredTimeoutAborts(t *testing.T) {
	server := openAIStub(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(3 * time.Second)
	})
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{
		APIKey:  "sk-test",
		BaseURL: server.URL + "/v1",
		Timeout: 1,
	})
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}

	start := time.Now()
	_, err = provider.Revise(context.Background(), ReviseRequest{Draft: "x", Guidance: []string{"y"}})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 2*time.Second {
		t.Errorf("request was not cut off by the configured timeout")
	}
}
