package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

type capturedChat struct {
	Model          string `json:"model"`
	ResponseFormat *struct {
		Type       string `json:"type"`
		JSONSchema struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			Strict      bool   `json:"strict"`
		} `json:"json_schema"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func openaiServer(t *testing.T, status int, body string, seen *capturedChat) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if seen != nil {
			if err := json.NewDecoder(r.Body).Decode(seen); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func chatCompletion(content, finish string) string {
	quoted, _ := json.Marshal(content)
	return fmt.Sprintf(`{"id":"c1","object":"chat.completion","model":"gpt-4o-mini",
		"choices":[{"index":0,"message":{"role":"assistant","content":%s},"finish_reason":%q}],
		"usage":{"prompt_tokens":80,"completion_tokens":200,"total_tokens":280}}`, quoted, finish)
}

func TestOpenAIProvider_ModelMapping(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"gpt-4o-mini", "gpt-4o-mini"},
		{"gpt-mini", "gpt-4.1-mini"},
		{"gpt", "gpt-4.1"},
		{"o4-mini", "o4-mini"},
	}
	for _, tt := range tests {
		p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", Model: tt.name})
		if err != nil {
			t.Fatal(err)
		}
		if p.ModelID() != tt.want {
			t.Errorf("ModelID for %q = %q, want %q", tt.name, p.ModelID(), tt.want)
		}
	}
}

func TestOpenAIProvider_Generate(t *testing.T) {
	var seen capturedChat
	srv := openaiServer(t, http.StatusOK, chatCompletion(validBatch, "stop"), &seen)

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := p.Generate(context.Background(), Request{
		System: "write questions",
		Prompt: "level 2",
		Schema: batchSchema(),
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(resp.Content) != validBatch {
		t.Errorf("content = %s", resp.Content)
	}
	if resp.Usage.InputTokens != 80 || resp.Usage.OutputTokens != 200 || resp.Model != "gpt-4o-mini" {
		t.Errorf("resp = %+v", resp)
	}

	if seen.Model != "gpt-4o-mini" {
		t.Errorf("model sent = %q", seen.Model)
	}
	if len(seen.Messages) != 2 || seen.Messages[0].Role != "system" || seen.Messages[1].Content != "level 2" {
		t.Errorf("messages sent = %+v", seen.Messages)
	}
	if seen.ResponseFormat == nil || seen.ResponseFormat.Type != "json_schema" ||
		seen.ResponseFormat.JSONSchema.Name != "test-batch" || !seen.ResponseFormat.JSONSchema.Strict ||
		seen.ResponseFormat.JSONSchema.Description != "questions for one level" {
		t.Errorf("response format = %+v", seen.ResponseFormat)
	}
}

func TestOpenAIProvider_Truncated(t *testing.T) {
	srv := openaiServer(t, http.StatusOK, chatCompletion(`{"questions":[`, "length"), nil)
	p, _ := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL})

	_, err := p.Generate(context.Background(), Request{Schema: batchSchema()})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %T: %v", err, err)
	}
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	srv := openaiServer(t, http.StatusOK, `{"id":"c1","choices":[],"usage":{}}`, nil)
	p, _ := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL})

	_, err := p.Generate(context.Background(), Request{})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T: %v", err, err)
	}
	if inv.Index != -1 {
		t.Errorf("index = %d, want -1 for a missing batch", inv.Index)
	}
}

func TestOpenAIProvider_RateLimit(t *testing.T) {
	srv := openaiServer(t, http.StatusTooManyRequests,
		`{"error":{"message":"slow down","type":"rate_limit","code":"rate_limit"}}`, nil)
	p, _ := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL})

	_, err := p.Generate(context.Background(), Request{})
	var down *ErrUnavailable
	if !errors.As(err, &down) || !down.RateLimited() {
		t.Fatalf("expected a rate limited ErrUnavailable, got %T: %v", err, err)
	}
}

func TestOpenRouterProvider(t *testing.T) {
	if _, err := NewOpenRouterProvider(OpenRouterConfig{}); err == nil {
		t.Error("expected error for empty API key")
	}

	var seen capturedChat
	srv := openaiServer(t, http.StatusOK, chatCompletion(validBatch, "stop"), &seen)

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "or-test", Model: "gpt", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	// OpenRouter model IDs pass through without friendly-name mapping.
	if p.ModelID() != "gpt" {
		t.Errorf("ModelID = %q, want gpt", p.ModelID())
	}
	if _, err := p.Generate(context.Background(), Request{Schema: batchSchema()}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if seen.Model != "gpt" {
		t.Errorf("model sent = %q", seen.Model)
	}
}
