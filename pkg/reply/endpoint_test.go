package reply

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(b)
}

func TestClientComplete(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected JSON content type, got %q", ct)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(completionBody("Hello from the model.")))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	req := &Request{
		Model:        "deepseek/deepseek-r1:free",
		Messages:     []WireMessage{{Role: "user", Content: "hi"}},
		CustomAPIKey: "sk-custom",
	}

	text, err := c.Complete(context.Background(), req)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != "Hello from the model." {
		t.Errorf("Unexpected content: %q", text)
	}

	if got.Model != req.Model {
		t.Errorf("Model not forwarded: %q", got.Model)
	}
	if got.CustomAPIKey != "sk-custom" {
		t.Errorf("Custom key not forwarded: %q", got.CustomAPIKey)
	}
	if len(got.Messages) != 1 || got.Messages[0].Content != "hi" {
		t.Errorf("Messages not forwarded: %+v", got.Messages)
	}
}

func TestClientCompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":{"message":"upstream completion failed"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Complete(context.Background(), &Request{Model: "m"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Errorf("Expected 502, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "upstream completion failed" {
		t.Errorf("Error message not extracted: %q", apiErr.Message)
	}
	if !apiErr.IsServerError() {
		t.Error("502 should count as a server error")
	}
}

func TestClientCompleteNoContent(t *testing.T) {
	cases := map[string]string{
		"no choices":    `{"choices":[]}`,
		"empty content": completionBody(""),
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL)
			_, err := c.Complete(context.Background(), &Request{Model: "m"})
			if !errors.Is(err, ErrNoContent) {
				t.Fatalf("Expected ErrNoContent, got %v", err)
			}
		})
	}
}

func TestClientCompleteContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL)
	_, err := c.Complete(ctx, &Request{Model: "m"})
	if err == nil {
		t.Fatal("Expected an error for a cancelled context")
	}
}
