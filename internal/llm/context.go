package llm

import (
	"context"
	"fmt"
)

// Batch identifies the chapter level a request is filling.
type Batch struct {
	Chapter string
	Level   int
}

type batchKey struct{}

// WithBatch tags ctx with the batch being generated. Providers use the tag
// to label request logs and errors.
func WithBatch(ctx context.Context, b Batch) context.Context {
	return context.WithValue(ctx, batchKey{}, b)
}

// BatchFrom returns the batch tag set by WithBatch.
func BatchFrom(ctx context.Context) (Batch, bool) {
	b, ok := ctx.Value(batchKey{}).(Batch)
	return b, ok
}

// PurposeFrom labels a request for the request log: "generate-level-N"
// for a tagged batch, "unknown" otherwise.
func PurposeFrom(ctx context.Context) string {
	if b, ok := BatchFrom(ctx); ok {
		return fmt.Sprintf("generate-level-%d", b.Level)
	}
	return "unknown"
}

func batchLevel(ctx context.Context) int {
	b, _ := BatchFrom(ctx)
	return b.Level
}
