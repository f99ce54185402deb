package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/abhisek/calcquiz/internal/question"
)

// MockBatch is one canned answer. Raw, when set, is returned verbatim in
// place of Questions so malformed batches can be exercised.
type MockBatch struct {
	Questions []question.Record
	Raw       json.RawMessage
	Err       error
}

// MockProvider answers batch requests from a FIFO queue and records every
// request. Token usage is estimated at four bytes per token.
type MockProvider struct {
	mu      sync.Mutex
	batches []MockBatch
	Calls   []Request
}

// NewMockProvider creates a MockProvider with queued batches.
func NewMockProvider(batches ...MockBatch) *MockProvider {
	return &MockProvider{batches: batches}
}

// Generate pops the next batch. An empty queue is an *ErrUnavailable.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.batches) == 0 {
		return nil, &ErrUnavailable{Err: fmt.Errorf("no batch queued for level %d", batchLevel(ctx))}
	}
	b := m.batches[0]
	m.batches = m.batches[1:]

	if b.Err != nil {
		return nil, b.Err
	}

	content := b.Raw
	if content == nil {
		var err error
		content, err = json.Marshal(struct {
			Questions []question.Record `json:"questions"`
		}{b.Questions})
		if err != nil {
			return nil, err
		}
	}

	return &Response{
		Content: content,
		Usage: Usage{
			InputTokens:  (len(req.System) + len(req.Prompt)) / 4,
			OutputTokens: len(content) / 4,
		},
		Model: "mock",
	}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// Queue appends batches to the answer queue.
func (m *MockProvider) Queue(batches ...MockBatch) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, batches...)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
