package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/LuqmanKt98/testify-ai-avatar/pkg/config"
)

func TestIlmuChatCompletion_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected auth header %q", got)
		}
		var payload ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if len(payload.Messages) == 0 {
			t.Fatal("expected at least one message")
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "Good morning. Please state your name."}},
			},
		})
	}))
	defer ts.Close()

	client := NewIlmuClient(&config.LLMConfig{IlmuAPIKey: "test-key", IlmuBaseURL: ts.URL})

	got, err := client.ChatCompletion(context.Background(), []ChatMessage{
		{Role: "user", Content: "Hello"},
	}, 0.7, 500)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if got != "Good morning. Please state your name." {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestIlmuChatCompletion_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	client := NewIlmuClient(&config.LLMConfig{IlmuAPIKey: "test-key", IlmuBaseURL: ts.URL})

	if _, err := client.ChatCompletion(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}, 0.7, 100); err == nil {
		t.Fatal("expected error for 401 response")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected a single request, got %d", n)
	}
}

func TestIlmuChatCompletion_RetriesServerError(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "recovered"}},
			},
		})
	}))
	defer ts.Close()

	client := NewIlmuClient(&config.LLMConfig{IlmuAPIKey: "test-key", IlmuBaseURL: ts.URL})

	got, err := client.ChatCompletion(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}, 0.7, 100)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if got != "recovered" {
		t.Fatalf("unexpected content %q", got)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Fatalf("expected 3 requests, got %d", n)
	}
}

func TestIlmuChatCompletion_NotConfigured(t *testing.T) {
	client := &IlmuClient{client: http.DefaultClient}
	if _, err := client.ChatCompletion(context.Background(), nil, 0, 0); err == nil {
		t.Fatal("expected error when client is unconfigured")
	}
}

func TestOpenAIChatCompletion_EmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer ts.Close()

	client := NewOpenAIClient(&config.LLMConfig{OpenAIAPIKey: "test-key", OpenAIBaseURL: ts.URL})

	if _, err := client.ChatCompletion(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}, 0.3, 100); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
