package generate

import (
	"strings"
	"testing"

	"github.com/abhisek/calcquiz/internal/question"
)

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Validator: "structural", Message: "needs 4 choices"}
	want := `validator "structural": needs 4 choices`
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestDefaultConfig_ValidatorChain(t *testing.T) {
	cfg := DefaultConfig()
	names := []string{"structural", "distinct-choices"}
	if len(cfg.Validators) != len(names) {
		t.Fatalf("expected %d validators, got %d", len(names), len(cfg.Validators))
	}
	for i, v := range cfg.Validators {
		if v.Name() != names[i] {
			t.Errorf("validator %d: expected %q, got %q", i, names[i], v.Name())
		}
	}
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name string
		r    question.Record
		want string // failing validator, "" for pass
	}{
		{"valid", rec("lim x"), ""},
		{"empty question", question.Record{Question: " ", Choices: []string{"a", "b", "c", "d"}}, "structural"},
		{"three choices", question.Record{Question: "q", Choices: []string{"a", "b", "c"}}, "structural"},
		{"index out of range", question.Record{Question: "q", Choices: []string{"a", "b", "c", "d"}, CorrectIndex: 4}, "structural"},
		{"repeated choice", question.Record{Question: "q", Choices: []string{"x", "y", " X", "z"}}, "distinct-choices"},
		{"blank choice", question.Record{Question: "q", Choices: []string{"x", "y", "   ", "z"}}, "structural"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := New(nil, DefaultConfig())
			verr := gen.validate(tt.r, Input{})
			switch {
			case tt.want == "" && verr != nil:
				t.Errorf("unexpected failure: %v", verr)
			case tt.want != "" && verr == nil:
				t.Errorf("expected %s failure", tt.want)
			case tt.want != "" && verr.Validator != tt.want:
				t.Errorf("failed in %s, want %s", verr.Validator, tt.want)
			}
		})
	}
}

func TestBuildDedup(t *testing.T) {
	if got := buildDedup(nil, 5); got != "None" {
		t.Errorf("empty = %q", got)
	}
	got := buildDedup([]string{"a", "b", "c"}, 2)
	if got != "1. b\n2. c" {
		t.Errorf("capped = %q", got)
	}
}

func TestBuildUserMessage(t *testing.T) {
	in := Input{Chapter: question.Chapter{Key: "deriv", Title: "Derivatives"}, Level: 5, Count: 7}
	msg := buildUserMessage(in, DefaultConfig())

	for _, want := range []string{
		"Chapter: Derivatives",
		"Difficulty level: 5 of 5 (hard",
		"Problems requested: 7",
		"Already written for this chapter:\nNone",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "Focus:") {
		t.Error("focus line should be omitted without a description")
	}
}
