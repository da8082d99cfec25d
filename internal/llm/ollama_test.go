package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOllamaRevise(t *testing.T) {
	var gotReq ollamaRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/generate":
			if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
				t.Fatalf("decode request: %v", err)
			}
			json.NewEncoder(w).Encode(ollamaResponse{
				Model:           "llama3.2",
				Response:        "# Dosering\nBenzylpenicillin 100 mg/kg/d [DSI2023]",
				Done:            true,
				PromptEvalCount: 90,
				EvalCount:       30,
			})
		case "/api/tags":
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "llama3.2"})
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}

	if !provider.IsAvailable(context.Background()) {
		t.Error("provider should be available")
	}

	resp, err := provider.Revise(context.Background(), ReviseRequest{
		Draft:    "# Dosering\nBenzylpenicillin 100 mg/kg/d",
		Guidance: []string{"[dose_without_evidence x1] Tilføj kildehenvisning."},
	})
	if err != nil {
		t.Fatalf("revise: %v", err)
	}

	if !strings.Contains(resp.Draft, "Benzylpenicillin") {
		t.Errorf("unexpected draft: %q", resp.Draft)
	}
	if resp.TokensUsed != 120 {
		t.Errorf("expected 120 tokens, got %d", resp.TokensUsed)
	}
	if gotReq.Stream {
		t.Error("request should disable streaming")
	}
	if gotReq.System == "" {
		t.Error("request should carry the system prompt")
	}
}

func TestOllamaReviseEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaResponse{Model: "llama3.2", Response: "   ", Done: true})
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}

	if _, err := provider.Revise(context.Background(), ReviseRequest{Draft: "x", Guidance: []string{"y"}}); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestOllamaUnavailable(t *testing.T) {
	provider, err := NewOllamaProvider(Config{BaseURL: "http://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}
	if provider.IsAvailable(context.Background()) {
		t.Error("provider should not be available")
	}
}
