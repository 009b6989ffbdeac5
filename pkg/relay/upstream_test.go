package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenRouterUpstreamComplete(t *testing.T) {
	var gotAuth string
	var gotBody struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"It helps to talk."}}]}`))
	}))
	defer srv.Close()

	u := &OpenRouterUpstream{baseURL: srv.URL}
	msgs := []WireMessage{
		{Role: "system", Content: "be kind"},
		{Role: "user", Content: "hi"},
	}

	content, err := u.Complete(context.Background(), "sk-test", "mistralai/mistral-7b-instruct", msgs)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if content != "It helps to talk." {
		t.Errorf("Unexpected content: %q", content)
	}

	if gotAuth != "Bearer sk-test" {
		t.Errorf("Key not sent as bearer token, got %q", gotAuth)
	}
	if gotBody.Model != "mistralai/mistral-7b-instruct" {
		t.Errorf("Model not forwarded: %q", gotBody.Model)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" || gotBody.Messages[1].Content != "hi" {
		t.Errorf("Messages not converted: %+v", gotBody.Messages)
	}
}

func TestOpenRouterUpstreamEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	u := &OpenRouterUpstream{baseURL: srv.URL}
	_, err := u.Complete(context.Background(), "sk-test", "m", []WireMessage{{Role: "user", Content: "hi"}})
	if !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("Expected ErrEmptyCompletion, got %v", err)
	}
}

func TestOpenRouterUpstreamHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	u := &OpenRouterUpstream{baseURL: srv.URL}
	_, err := u.Complete(context.Background(), "sk-test", "m", []WireMessage{{Role: "user", Content: "hi"}})
	if err == nil {
		t.Fatal("Expected an error for a non-success status")
	}
}
