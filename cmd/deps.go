package cmd

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/abhisek/calcquiz/internal/config"
	"github.com/abhisek/calcquiz/internal/llm"
	"github.com/abhisek/calcquiz/internal/loader"
	"github.com/abhisek/calcquiz/internal/logging"
	"github.com/abhisek/calcquiz/internal/session"
	"github.com/abhisek/calcquiz/internal/store"
)

// chapterSource is what the quiz needs from a content backend. Both
// *loader.Dir and *store.Store satisfy it.
type chapterSource interface {
	loader.ChapterLister
	session.PoolLoader
}

var (
	_ chapterSource = (*loader.Dir)(nil)
	_ chapterSource = (*store.Store)(nil)

	_ llm.Recorder = (*store.Store)(nil)
)

// newLogger builds the process logger. A nil console keeps log lines
// off the terminal, which the TUI needs.
func newLogger(console io.Writer) (*zap.Logger, error) {
	lc := cfg.Log
	if lc.File == "" {
		p, err := config.DefaultLogPath()
		if err != nil {
			return nil, err
		}
		lc.File = p
	}
	return logging.New(lc, console)
}

// openStore opens the question bank at the configured or default path.
func openStore() (*store.Store, error) {
	p := cfg.Source.DB
	if p == "" {
		var err error
		if p, err = store.DefaultDBPath(); err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	} else if err := store.EnsureDir(p); err != nil {
		return nil, err
	}
	s, err := store.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open question bank: %w", err)
	}
	return s, nil
}

// openSource returns the configured chapter backend and a close func.
func openSource(log *zap.Logger) (chapterSource, func() error, error) {
	switch cfg.Source.Type {
	case config.SourceSQLite:
		s, err := openStore()
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		d := loader.NewDir(cfg.Source.Dir, loader.WithLogger(log))
		return d, func() error { return nil }, nil
	}
}

// newProvider builds the configured LLM provider, recording requests in
// rec when it is non-nil.
func newProvider(ctx context.Context, log *zap.Logger, rec llm.Recorder) (llm.Provider, error) {
	p, err := llm.NewProvider(ctx, cfg.LLMProviderConfig(), log, rec)
	if err != nil {
		return nil, fmt.Errorf("LLM provider: %w", err)
	}
	return p, nil
}
