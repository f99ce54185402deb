package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/abhisek/calcquiz/internal/question"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "bank.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func rec(q string, correct int) question.Record {
	return question.Record{Question: q, Choices: []string{"a", "b", "c", "d"}, CorrectIndex: correct}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestImportAndLoad(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	pools := question.Pools{
		1: {rec("one-a", 0), rec("one-b", 1)},
		3: {rec("three", 3)},
	}
	n, err := s.ImportChapter(ctx, question.Chapter{Key: "limits", Title: "Limits"}, pools)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 3 {
		t.Errorf("imported %d, want 3", n)
	}

	got, err := s.LoadPools(ctx, "limits")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got[1]) != 2 || got[1][0].Question != "one-a" || got[1][1].Question != "one-b" {
		t.Errorf("level 1 = %+v, want one-a, one-b in order", got[1])
	}
	if len(got[3]) != 1 || got[3][0].CorrectIndex != 3 {
		t.Errorf("level 3 = %+v", got[3])
	}
	if len(got[3][0].Choices) != question.ChoiceCount {
		t.Errorf("choices = %v", got[3][0].Choices)
	}
	if len(got[2]) != 0 {
		t.Errorf("level 2 should be empty, got %d", len(got[2]))
	}
}

func TestReimportReplacesProblems(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.ImportChapter(ctx, question.Chapter{Key: "a", Title: "A"}, question.Pools{2: {rec("old", 0)}}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ImportChapter(ctx, question.Chapter{Key: "b", Title: "B"}, question.Pools{2: {rec("b", 0)}}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ImportChapter(ctx, question.Chapter{Key: "a", Title: "A2"}, question.Pools{4: {rec("new", 0)}}); err != nil {
		t.Fatal(err)
	}

	chapters, err := s.ListChapters(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []question.Chapter{{Key: "a", Title: "A2"}, {Key: "b", Title: "B"}}
	if len(chapters) != len(want) || chapters[0] != want[0] || chapters[1] != want[1] {
		t.Errorf("chapters = %+v, want %+v", chapters, want)
	}

	counts, err := s.CountByLevel(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if counts[2] != 0 || counts[4] != 1 {
		t.Errorf("counts = %v, want only level 4", counts)
	}
}

func TestImportRejectsInvalid(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	bad := question.Pools{1: {{Question: "q", Choices: []string{"a"}, CorrectIndex: 0}}}
	if _, err := s.ImportChapter(ctx, question.Chapter{Key: "x", Title: "X"}, bad); err == nil {
		t.Error("expected validation error")
	}
	if _, err := s.ImportChapter(ctx, question.Chapter{Title: "no key"}, question.Pools{}); err == nil {
		t.Error("expected error for empty key")
	}

	chapters, _ := s.ListChapters(ctx)
	if len(chapters) != 0 {
		t.Errorf("rejected imports left chapters behind: %+v", chapters)
	}
}

func TestLoadPoolsUnknownChapter(t *testing.T) {
	s := openTestStore(t)
	_, err := s.LoadPools(context.Background(), "nope")
	if !errors.Is(err, ErrChapterNotFound) {
		t.Errorf("err = %v, want ErrChapterNotFound", err)
	}
}

func TestDeleteChapter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.ImportChapter(ctx, question.Chapter{Key: "a", Title: "A"}, question.Pools{1: {rec("q", 0)}}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteChapter(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.LoadPools(ctx, "a"); !errors.Is(err, ErrChapterNotFound) {
		t.Errorf("load after delete: %v", err)
	}
	if err := s.DeleteChapter(ctx, "a"); !errors.Is(err, ErrChapterNotFound) {
		t.Errorf("second delete: %v", err)
	}

	left, err := s.Client().Problem.Query().Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if left != 0 {
		t.Errorf("%d orphan problems", left)
	}
}

func TestOpenClose(t *testing.T) {
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.Client() == nil {
		t.Fatal("Client() returned nil")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestImportKeepsChapterPosition(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, key := range []string{"b", "a", "c"} {
		if _, err := s.ImportChapter(ctx, question.Chapter{Key: key, Title: key}, question.Pools{1: {rec("q", 0)}}); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.DeleteChapter(ctx, "c"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ImportChapter(ctx, question.Chapter{Key: "b", Title: "B"}, question.Pools{2: {rec("q", 1)}}); err != nil {
		t.Fatal(err)
	}

	chs, err := s.ListChapters(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []question.Chapter{{Key: "b", Title: "B"}, {Key: "a", Title: "a"}}
	if len(chs) != len(want) {
		t.Fatalf("chapters = %v, want %v", chs, want)
	}
	for i := range want {
		if chs[i] != want[i] {
			t.Errorf("chapters[%d] = %v, want %v", i, chs[i], want[i])
		}
	}
}

func TestLLMRequestLog(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "anthropic", Model: "claude-haiku-4-5-20251001", Purpose: "generate-level", InputTokens: 100, OutputTokens: 400, LatencyMs: 900, Success: true, RequestBody: "req", ResponseBody: "[]"},
		{Provider: "anthropic", Model: "claude-haiku-4-5-20251001", Purpose: "generate-level", InputTokens: 50, OutputTokens: 0, LatencyMs: 100, Success: false, ErrorMessage: "rate limited"},
		{Provider: "mock", Model: "mock", Purpose: "other", Success: true},
	}
	for _, e := range events {
		if err := s.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := s.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].Purpose != "other" {
		t.Fatalf("events = %+v, want 3 newest first", all)
	}

	gen, err := s.QueryLLMEvents(ctx, QueryOpts{Purpose: "generate-level", Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(gen) != 1 || gen[0].Success || gen[0].ErrorMessage != "rate limited" {
		t.Errorf("filtered = %+v", gen)
	}

	first, err := s.GetLLMEvent(ctx, all[2].ID)
	if err != nil {
		t.Fatal(err)
	}
	if first == nil || first.RequestBody != "req" || !first.Success || first.Timestamp.IsZero() {
		t.Errorf("GetLLMEvent = %+v", first)
	}
	if missing, err := s.GetLLMEvent(ctx, 999); err != nil || missing != nil {
		t.Errorf("GetLLMEvent(999) = %v, %v; want nil, nil", missing, err)
	}

	byPurpose, err := s.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(byPurpose) != 2 || byPurpose[0].Key != "generate-level" || byPurpose[0].Calls != 2 || byPurpose[0].InputTokens != 150 {
		t.Errorf("usage by purpose = %+v", byPurpose)
	}
	if byPurpose[0].AvgLatencyMs != 500 {
		t.Errorf("avg latency = %d, want 500", byPurpose[0].AvgLatencyMs)
	}
}
