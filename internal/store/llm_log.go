package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/abhisek/calcquiz/ent"
	"github.com/abhisek/calcquiz/ent/llmrequest"
)

// LLMRequestEventData captures a single generation request.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored request with its identity.
type LLMEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// QueryOpts filters LLM event queries.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	Purpose string // exact match when set
}

// UsageStats aggregates requests by purpose or model.
type UsageStats struct {
	Key          string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// AppendLLMRequest records an LLM API call.
func (s *Store) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	_, err := s.client.LLMRequest.Create().
		SetProvider(data.Provider).
		SetModel(data.Model).
		SetPurpose(data.Purpose).
		SetInputTokens(data.InputTokens).
		SetOutputTokens(data.OutputTokens).
		SetLatencyMs(data.LatencyMs).
		SetSuccess(data.Success).
		SetErrorMessage(data.ErrorMessage).
		SetRequestBody(data.RequestBody).
		SetResponseBody(data.ResponseBody).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

// QueryLLMEvents returns the newest events first.
func (s *Store) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error) {
	q := s.client.LLMRequest.Query().
		Order(ent.Desc(llmrequest.FieldID))
	if opts.Purpose != "" {
		q = q.Where(llmrequest.Purpose(opts.Purpose))
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	rows, err := q.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}

	out := make([]LLMEvent, 0, len(rows))
	for _, r := range rows {
		out = append(out, toLLMEvent(r))
	}
	return out, nil
}

// GetLLMEvent returns one event, or nil if id is unknown.
func (s *Store) GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error) {
	r, err := s.client.LLMRequest.Get(ctx, id)
	if ent.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get LLM event %d: %w", id, err)
	}
	e := toLLMEvent(r)
	return &e, nil
}

// LLMUsageByPurpose aggregates token usage per purpose.
func (s *Store) LLMUsageByPurpose(ctx context.Context) ([]UsageStats, error) {
	return s.usage(ctx, func(r *ent.LLMRequest) string { return r.Purpose })
}

// LLMUsageByModel aggregates token usage per model.
func (s *Store) LLMUsageByModel(ctx context.Context) ([]UsageStats, error) {
	return s.usage(ctx, func(r *ent.LLMRequest) string { return r.Model })
}

func (s *Store) usage(ctx context.Context, keyOf func(*ent.LLMRequest) string) ([]UsageStats, error) {
	rows, err := s.client.LLMRequest.Query().
		Select(
			llmrequest.FieldPurpose,
			llmrequest.FieldModel,
			llmrequest.FieldInputTokens,
			llmrequest.FieldOutputTokens,
			llmrequest.FieldLatencyMs,
		).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query usage: %w", err)
	}

	byKey := make(map[string]*UsageStats)
	latency := make(map[string]int64)
	for _, r := range rows {
		k := keyOf(r)
		u, ok := byKey[k]
		if !ok {
			u = &UsageStats{Key: k}
			byKey[k] = u
		}
		u.Calls++
		u.InputTokens += r.InputTokens
		u.OutputTokens += r.OutputTokens
		latency[k] += r.LatencyMs
	}

	out := make([]UsageStats, 0, len(byKey))
	for k, u := range byKey {
		u.AvgLatencyMs = latency[k] / int64(u.Calls)
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func toLLMEvent(r *ent.LLMRequest) LLMEvent {
	return LLMEvent{
		ID:        r.ID,
		Timestamp: r.CreatedAt,
		LLMRequestEventData: LLMRequestEventData{
			Provider:     r.Provider,
			Model:        r.Model,
			Purpose:      r.Purpose,
			InputTokens:  r.InputTokens,
			OutputTokens: r.OutputTokens,
			LatencyMs:    r.LatencyMs,
			Success:      r.Success,
			ErrorMessage: r.ErrorMessage,
			RequestBody:  r.RequestBody,
			ResponseBody: r.ResponseBody,
		},
	}
}
