package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid batch", validBatch, false},
		{"not json", `questions: 1`, true},
		{"empty batch", `{"questions":[]}`, true},
		{"three choices", `{"questions":[{"question":"q","choices":["a","b","c"],"correctIndex":0}]}`, true},
		{"index out of range", `{"questions":[{"question":"q","choices":["a","b","c","d"],"correctIndex":4}]}`, true},
		{"missing answer key", `{"questions":[{"question":"q","choices":["a","b","c","d"]}]}`, true},
		{"extra field", `{"questions":[{"question":"q","choices":["a","b","c","d"],"correctIndex":1,"hint":"x"}]}`, true},
		{"empty question", `{"questions":[{"question":"","choices":["a","b","c","d"],"correctIndex":1}]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(context.Background(), batchSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var inv *ErrInvalidResponse
				if !errors.As(err, &inv) {
					t.Fatalf("expected ErrInvalidResponse, got %T", err)
				}
				if string(inv.Content) != tt.raw {
					t.Errorf("error content = %s", inv.Content)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(context.Background(), nil, json.RawMessage(`anything`)); err != nil {
		t.Errorf("nil schema should accept anything, got %v", err)
	}
}

func TestValidateResponse_SchemaCompiledOnce(t *testing.T) {
	ctx := context.Background()
	s := &Schema{Name: "cache-check", Definition: map[string]any{"type": "object"}}
	if err := validateResponse(ctx, s, json.RawMessage(`{}`)); err != nil {
		t.Fatal(err)
	}
	first, _ := schemaCache.Load("cache-check")

	if err := validateResponse(ctx, s, json.RawMessage(`{}`)); err != nil {
		t.Fatal(err)
	}
	second, _ := schemaCache.Load("cache-check")
	if first != second {
		t.Error("schema recompiled on second use")
	}
}

func TestValidateResponse_NamesFailingQuestion(t *testing.T) {
	ctx := WithBatch(context.Background(), Batch{Chapter: "limits", Level: 3})
	raw := `{"questions":[
		{"question":"a","choices":["1","2","3","4"],"correctIndex":0},
		{"question":"b","choices":["1","2","3","4"],"correctIndex":1},
		{"question":"c","choices":["1","2","3"],"correctIndex":2}
	]}`

	err := validateResponse(ctx, batchSchema(), json.RawMessage(raw))
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
	if inv.Level != 3 || inv.Index != 2 {
		t.Errorf("level %d index %d, want 3 and 2", inv.Level, inv.Index)
	}
}

func TestValidateResponse_WholeBatchHasNoIndex(t *testing.T) {
	tests := []string{`not json`, `{"questions":[]}`, `{}`}
	for _, raw := range tests {
		err := validateResponse(context.Background(), batchSchema(), json.RawMessage(raw))
		var inv *ErrInvalidResponse
		if !errors.As(err, &inv) {
			t.Fatalf("%s: expected ErrInvalidResponse, got %v", raw, err)
		}
		if inv.Index != -1 || inv.Level != 0 {
			t.Errorf("%s: level %d index %d, want 0 and -1", raw, inv.Level, inv.Index)
		}
	}
}
