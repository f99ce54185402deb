package llm

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrUnavailable is an API failure: the service was down, overloaded, rate
// limiting, or refused the request. Status is the HTTP status when known.
type ErrUnavailable struct {
	Status     int
	RetryAfter time.Duration
	Err        error
}

func (e *ErrUnavailable) Error() string {
	switch {
	case e.RateLimited():
		return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
	case e.Err == nil:
		return "question source unavailable"
	default:
		return fmt.Sprintf("question source unavailable: %v", e.Err)
	}
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// RateLimited reports a 429 response.
func (e *ErrUnavailable) RateLimited() bool {
	return e.Status == http.StatusTooManyRequests
}

// Permanent reports a client error that asking again will not fix, such
// as a bad key or an unknown model.
func (e *ErrUnavailable) Permanent() bool {
	return e.Status >= 400 && e.Status < 500 &&
		e.Status != http.StatusTooManyRequests && e.Status != http.StatusRequestTimeout
}

// unavailable wraps an API error with its status and Retry-After hint.
func unavailable(status int, header http.Header, err error) *ErrUnavailable {
	e := &ErrUnavailable{Status: status, Err: err}
	if header != nil {
		if secs, perr := strconv.Atoi(header.Get("Retry-After")); perr == nil && secs > 0 {
			e.RetryAfter = time.Duration(secs) * time.Second
		}
	}
	return e
}

// ErrInvalidResponse is a batch that does not match its schema. Index is
// the first offending entry of the questions array, or -1 when the batch
// as a whole is malformed.
type ErrInvalidResponse struct {
	Level   int
	Index   int
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	var b strings.Builder
	b.WriteString("invalid question batch")
	if e.Level > 0 {
		fmt.Fprintf(&b, " for level %d", e.Level)
	}
	if e.Index >= 0 {
		fmt.Fprintf(&b, ", question %d", e.Index+1)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded is a batch cut off by the token budget.
type ErrMaxTokensExceeded struct {
	Level   int
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	if e.Level > 0 {
		return fmt.Sprintf("question batch for level %d truncated: max tokens exceeded", e.Level)
	}
	return "question batch truncated: max tokens exceeded"
}
