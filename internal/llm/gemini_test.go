package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGeminiProvider_ModelMapping(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.5-flash-lite", "gemini-2.5-flash-lite"},
	}
	for _, tt := range tests {
		p, err := NewGeminiProvider(context.Background(), GeminiConfig{APIKey: "g-test", Model: tt.name})
		require.NoError(t, err)
		assert.Equal(t, tt.want, p.ModelID(), tt.name)
	}
}

func TestGeminiProvider_RequiresKey(t *testing.T) {
	_, err := NewGeminiProvider(context.Background(), GeminiConfig{})
	assert.Error(t, err)
}

func TestBuildGeminiSchema(t *testing.T) {
	s := buildGeminiSchema(batchSchema().Definition)

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, []string{"questions"}, s.Required)

	qs := s.Properties["questions"]
	require.NotNil(t, qs)
	assert.Equal(t, genai.TypeArray, qs.Type)
	require.NotNil(t, qs.MinItems)
	require.NotNil(t, qs.MaxItems)
	assert.Equal(t, int64(1), *qs.MinItems)
	assert.Equal(t, int64(10), *qs.MaxItems)

	item := qs.Items
	require.NotNil(t, item)
	assert.ElementsMatch(t, []string{"question", "choices", "correctIndex"}, item.Required)

	choices := item.Properties["choices"]
	require.NotNil(t, choices.MinItems)
	assert.Equal(t, int64(4), *choices.MinItems)
	assert.Equal(t, genai.TypeString, choices.Items.Type)

	q := item.Properties["question"]
	require.NotNil(t, q.MinLength)
	assert.Equal(t, int64(1), *q.MinLength)

	idx := item.Properties["correctIndex"]
	assert.Equal(t, genai.TypeInteger, idx.Type)
	require.NotNil(t, idx.Minimum)
	require.NotNil(t, idx.Maximum)
	assert.Equal(t, 0.0, *idx.Minimum)
	assert.Equal(t, 3.0, *idx.Maximum)
}

func TestBuildGeminiSchema_FromDecodedJSON(t *testing.T) {
	// Numbers decoded from JSON arrive as float64.
	s := buildGeminiSchema(map[string]any{
		"type":     "array",
		"minItems": float64(2),
		"enum":     []any{"a", "b"},
	})
	require.NotNil(t, s.MinItems)
	assert.Equal(t, int64(2), *s.MinItems)
	assert.Nil(t, s.MaxItems)
	assert.Equal(t, []string{"a", "b"}, s.Enum)
}

func TestGeminiTruncated(t *testing.T) {
	resp := func(r genai.FinishReason) *genai.GenerateContentResponse {
		return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: r}}}
	}
	assert.False(t, geminiTruncated(resp(genai.FinishReasonStop)))
	assert.True(t, geminiTruncated(resp(genai.FinishReasonMaxTokens)))
	assert.False(t, geminiTruncated(&genai.GenerateContentResponse{}))
}
