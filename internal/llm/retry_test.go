package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestRetry(t *testing.T) {
	ok := MockBatch{Raw: json.RawMessage(validBatch)}
	down := MockBatch{Err: &ErrUnavailable{Status: 503, Err: errors.New("down")}}
	limited := MockBatch{Err: &ErrUnavailable{Status: 429, RetryAfter: time.Millisecond, Err: errors.New("429")}}
	badKey := MockBatch{Err: &ErrUnavailable{Status: 401, Err: errors.New("bad key")}}
	network := MockBatch{Err: &ErrUnavailable{Err: errors.New("connection reset")}}
	invalid := MockBatch{Err: &ErrInvalidResponse{Level: 2, Index: 0, Err: errors.New("off schema")}}
	truncated := MockBatch{Err: &ErrMaxTokensExceeded{Level: 2}}

	tests := []struct {
		name      string
		batches   []MockBatch
		wantErr   bool
		wantCalls int
	}{
		{"first attempt succeeds", []MockBatch{ok}, false, 1},
		{"transient then success", []MockBatch{down, ok}, false, 2},
		{"network error then success", []MockBatch{network, ok}, false, 2},
		{"rate limit then success", []MockBatch{limited, ok}, false, 2},
		{"all attempts fail", []MockBatch{down, down, down, ok}, true, 3},
		{"bad key not retried", []MockBatch{badKey, ok}, true, 1},
		{"truncation not retried", []MockBatch{truncated, ok}, true, 1},
		{"invalid retried once", []MockBatch{invalid, ok}, false, 2},
		{"invalid twice gives up", []MockBatch{invalid, invalid, ok}, true, 2},
		{"invalid after outage still retried once", []MockBatch{down, invalid, ok}, false, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.batches...)
			p := WithRetry(mock, fastRetry())

			resp, err := p.Generate(context.Background(), Request{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(resp.Content) != validBatch {
				t.Errorf("content = %s", resp.Content)
			}
			if mock.CallCount() != tt.wantCalls {
				t.Errorf("calls = %d, want %d", mock.CallCount(), tt.wantCalls)
			}
		})
	}
}

func TestRetry_ZeroAttemptsStillAsksOnce(t *testing.T) {
	mock := NewMockProvider(MockBatch{Raw: json.RawMessage(validBatch)})
	resp, err := WithRetry(mock, RetryConfig{}).Generate(context.Background(), Request{})
	if err != nil || resp == nil {
		t.Fatalf("resp %v, err %v", resp, err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", mock.CallCount())
	}
}

func TestRetry_InvalidKeepsLevel(t *testing.T) {
	mock := NewMockProvider(
		MockBatch{Err: &ErrInvalidResponse{Level: 4, Index: 2, Err: errors.New("a")}},
		MockBatch{Err: &ErrInvalidResponse{Level: 4, Index: 0, Err: errors.New("b")}},
	)
	_, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})

	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T", err)
	}
	if inv.Level != 4 || inv.Index != 0 {
		t.Errorf("got level %d index %d; want the last failure", inv.Level, inv.Index)
	}
}

func TestRetry_CanceledContext(t *testing.T) {
	mock := NewMockProvider(
		MockBatch{Err: &ErrUnavailable{Status: 503, Err: errors.New("down")}},
		MockBatch{Raw: json.RawMessage(validBatch)},
	)
	cfg := fastRetry()
	cfg.InitialWait = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := WithRetry(mock, cfg).Generate(ctx, Request{}); err == nil {
		t.Fatal("expected error")
	}
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", mock.CallCount())
	}
}

func TestRetry_StopsWhenWaitPassesDeadline(t *testing.T) {
	mock := NewMockProvider(
		MockBatch{Err: &ErrUnavailable{Status: 429, RetryAfter: time.Hour, Err: errors.New("429")}},
		MockBatch{Raw: json.RawMessage(validBatch)},
	)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	start := time.Now()
	_, err := WithRetry(mock, fastRetry()).Generate(ctx, Request{})

	var down *ErrUnavailable
	if !errors.As(err, &down) || !down.RateLimited() {
		t.Fatalf("expected the rate limit error back, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("retry slept past the deadline")
	}
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", mock.CallCount())
	}
}

func TestRetry_Backoff(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{InitialWait: time.Second, MaxWait: 2 * time.Second, Multiplier: 10}}
	for attempt := range 4 {
		w := r.backoff(attempt, errors.New("x"))
		if w > 2400*time.Millisecond {
			t.Errorf("attempt %d wait %s exceeds cap plus jitter", attempt, w)
		}
		if attempt == 0 && (w < 800*time.Millisecond || w > 1200*time.Millisecond) {
			t.Errorf("first wait %s outside InitialWait ±20%%", w)
		}
	}

	hinted := &ErrUnavailable{Status: 429, RetryAfter: 7 * time.Second}
	if w := r.backoff(0, hinted); w != 7*time.Second {
		t.Errorf("Retry-After wait = %s, want 7s", w)
	}
}

func TestRetry_ModelIDDelegates(t *testing.T) {
	if got := WithRetry(NewMockProvider(), fastRetry()).ModelID(); got != "mock" {
		t.Errorf("ModelID = %q", got)
	}
}
