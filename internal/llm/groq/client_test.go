package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"exam-backend/internal/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient("test-key-test-key-test", "llama-3.3-70b-versatile")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	c.baseURL = srv.URL
	return c
}

func TestGenerate(t *testing.T) {
	var captured map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key-test-key-test" {
			t.Errorf("Authorization = %q", got)
		}
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"is_good_question\":true}"}}]}`))
	})

	got, err := c.Generate(context.Background(), llm.Request{
		System:    "examiner",
		User:      "Question 1",
		ForceJSON: true,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != `{"is_good_question":true}` {
		t.Errorf("got %q", got)
	}

	rf, ok := captured["response_format"].(map[string]any)
	if !ok {
		t.Fatal("ForceJSON should send response_format")
	}
	if rf["type"] != "json_object" {
		t.Errorf("response_format type = %v", rf["type"])
	}
	msgs, _ := captured["messages"].([]any)
	if len(msgs) != 2 {
		t.Errorf("expected system and user messages, got %d", len(msgs))
	}
}

func TestGenerateRateLimited(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"Rate limit reached for model","type":"tokens"}}`))
	})

	_, err := c.Generate(context.Background(), llm.Request{User: "q"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !llm.RateLimited(err) {
		t.Errorf("rate-limit response should classify as rate limited, got %v", err)
	}
}
