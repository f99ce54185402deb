package llm

import (
	"context"
	"encoding/json"
)

// Provider asks a model for one batch of questions.
type Provider interface {
	// Generate sends req and returns the model's JSON answer. When
	// req.Schema is set the answer has already been checked against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request is a single-turn batch request.
type Request struct {
	// System sets the question writer's role and rules.
	System string

	// Prompt names the chapter, level and count, plus the questions
	// already written.
	Prompt string

	// Schema is the shape the answer must take. Providers pass it to
	// their native structured output mode and validate the reply locally.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

// Schema is a named JSON Schema, e.g. "question-batch-5".
type Schema struct {
	// Name keys the compiled-schema cache and is sent as the tool or
	// response format name.
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a validated answer.
type Response struct {
	Content json.RawMessage
	Usage   Usage

	// Model is the model that served the request, which may be a dated
	// alias of ModelID.
	Model string
}

// Usage reports token consumption for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// answer checks a raw reply and wraps it as a Response. A truncated reply
// is rejected before validation since its JSON cannot be complete.
func answer(ctx context.Context, req Request, content json.RawMessage, truncated bool, usage Usage, model string) (*Response, error) {
	if truncated {
		return nil, &ErrMaxTokensExceeded{Level: batchLevel(ctx), Content: content}
	}
	if err := validateResponse(ctx, req.Schema, content); err != nil {
		return nil, err
	}
	return &Response{Content: content, Usage: usage, Model: model}, nil
}
