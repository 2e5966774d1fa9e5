package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOpenAICompatibleProviderComplete(t *testing.T) {
	var gotAuth string
	var gotBody chatCompletionBody

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Profit is revenue minus costs.  "}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAICompatibleProvider(srv.URL, "secret", "tutor-mini", 2*time.Second)
	reply, err := p.Complete(context.Background(), CompletionRequest{
		SystemPrompt: "You are a tutor.",
		UserMessage:  "What is profit?",
		MaxTokens:    200,
		Temperature:  0.5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if reply != "Profit is revenue minus costs." {
		t.Fatalf("reply = %q", reply)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if gotBody.Model != "tutor-mini" || gotBody.MaxTokens != 200 || len(gotBody.Messages) != 2 {
		t.Fatalf("request body = %+v", gotBody)
	}
	if gotBody.Messages[0].Role != "system" || gotBody.Messages[1].Content != "What is profit?" {
		t.Fatalf("messages = %+v", gotBody.Messages)
	}
}

func TestOpenAICompatibleProviderFailures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
	}{
		{"server error", http.StatusInternalServerError, "application/json", `{"error":{"message":"overloaded"}}`},
		{"server error without body", http.StatusBadGateway, "text/plain", ""},
		{"invalid json", http.StatusOK, "application/json", `{"choices":[`},
		{"no choices", http.StatusOK, "application/json", `{"choices":[]}`},
		{"empty content", http.StatusOK, "application/json", `{"choices":[{"message":{"role":"assistant","content":"   "}}]}`},
		{"html page", http.StatusOK, "text/html", `<html><body>maintenance</body></html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := NewOpenAICompatibleProvider(srv.URL, "", "tutor-mini", 2*time.Second)
			reply, err := p.Complete(context.Background(), CompletionRequest{UserMessage: "hi"})
			if err == nil {
				t.Fatalf("expected an error, got reply %q", reply)
			}
		})
	}
}

func TestOpenAICompatibleProviderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	p := NewOpenAICompatibleProvider(url, "", "tutor-mini", time.Second)
	if _, err := p.Complete(context.Background(), CompletionRequest{UserMessage: "hi"}); err == nil {
		t.Fatal("expected a network error")
	}

	unset := NewOpenAICompatibleProvider("", "", "tutor-mini", time.Second)
	if _, err := unset.Complete(context.Background(), CompletionRequest{UserMessage: "hi"}); err != errProviderNotConfigured {
		t.Fatalf("err = %v, want not configured", err)
	}
}
