package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/calcquiz/internal/store"
)

// Recorder persists request events. *store.Store satisfies it.
type Recorder interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

// LoggingProvider is a decorator that logs every LLM request and, when a
// Recorder is set, stores it for later inspection.
type LoggingProvider struct {
	inner    Provider
	provider string
	log      *zap.Logger
	rec      Recorder
}

// WithLogging wraps a Provider with request logging. log and rec may be nil.
func WithLogging(p Provider, provider string, log *zap.Logger, rec Recorder) Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoggingProvider{inner: p, provider: provider, log: log, rec: rec}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	latency := time.Since(start)

	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   latency.Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = string(resp.Content)
	}
	// Rejected batches keep their body for "llm view".
	var (
		inv   *ErrInvalidResponse
		trunc *ErrMaxTokensExceeded
	)
	switch {
	case errors.As(err, &inv):
		data.ResponseBody = string(inv.Content)
	case errors.As(err, &trunc):
		data.ResponseBody = string(trunc.Content)
	}

	fields := []zap.Field{
		zap.String("provider", data.Provider),
		zap.String("model", data.Model),
		zap.String("purpose", purpose),
	}
	if b, ok := BatchFrom(ctx); ok {
		fields = append(fields, zap.String("chapter", b.Chapter), zap.Int("level", b.Level))
	}
	fields = append(fields,
		zap.Duration("latency", latency),
		zap.Int("input_tokens", data.InputTokens),
		zap.Int("output_tokens", data.OutputTokens),
	)
	if c := LookupCost(data.Model); c != nil {
		fields = append(fields, zap.Float64("cost_usd", c.Cost(data.InputTokens, data.OutputTokens)))
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		l.log.Warn("llm request failed", append(fields, zap.Error(err))...)
	} else {
		l.log.Info("llm request", fields...)
	}

	// A failed write is logged but never fails the request.
	if l.rec != nil {
		if recErr := l.rec.AppendLLMRequest(ctx, data); recErr != nil {
			l.log.Warn("failed to record LLM request", zap.Error(recErr))
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest renders a request for the request log.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	if req.Prompt != "" {
		b.WriteString("[prompt]\n")
		b.WriteString(req.Prompt)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}

	return b.String()
}
