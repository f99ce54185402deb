package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/abhisek/calcquiz/internal/generate"
	"github.com/abhisek/calcquiz/internal/loader"
	"github.com/abhisek/calcquiz/internal/question"
	"github.com/abhisek/calcquiz/internal/store"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a chapter's problems with an LLM",
	Long: `Generate problems for all five difficulty levels of a chapter and save them
either to a content directory (--out) or to the SQLite question bank (--bank).
Problems already present for the chapter are passed along so they are not
written twice, and new ones are appended.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("chapter", "", "Chapter key (required)")
	generateCmd.Flags().String("title", "", "Chapter title (defaults to the key)")
	generateCmd.Flags().String("description", "", "Topics the chapter should focus on")
	generateCmd.Flags().Int("per-level", 10, "Problems to generate per level")
	generateCmd.Flags().String("out", "", "Content directory to write to")
	generateCmd.Flags().Bool("bank", false, "Write to the SQLite question bank")
	_ = generateCmd.MarkFlagRequired("chapter")
	generateCmd.MarkFlagsOneRequired("out", "bank")
	generateCmd.MarkFlagsMutuallyExclusive("out", "bank")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	var key, title, description, out string
	err := stringFlags(cmd, map[string]*string{"chapter": &key, "title": &title, "description": &description, "out": &out})
	if err != nil {
		return err
	}
	perLevel, err := cmd.Flags().GetInt("per-level")
	if err != nil {
		return err
	}
	if title == "" {
		title = key
	}
	if perLevel <= 0 {
		return fmt.Errorf("--per-level must be positive, got %d", perLevel)
	}
	ch := question.Chapter{Key: key, Title: title}

	log, err := newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer log.Sync()

	// Requests are always recorded in the bank so `calcquiz llm` can show them.
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	provider, err := newProvider(ctx, log, s)
	if err != nil {
		return err
	}

	existing, err := existingPools(ctx, out, s, key)
	if err != nil {
		return err
	}

	gen := generate.New(provider, generate.DefaultConfig(), generate.WithLogger(log))
	fmt.Printf("Generating %d problems per level for %q with %s...\n", perLevel, key, provider.ModelID())
	fresh, err := gen.GenerateChapter(ctx, ch, description, perLevel, existing)
	if err != nil {
		return err
	}

	merged := make(question.Pools, question.MaxLevel)
	for _, l := range question.Levels() {
		merged[l] = append(append([]question.Record(nil), existing[l]...), fresh[l]...)
		fmt.Printf("  level %d: %d new, %d total\n", l, len(fresh[l]), len(merged[l]))
	}

	if out != "" {
		if err := loader.WriteChapter(out, ch, merged); err != nil {
			return err
		}
		fmt.Printf("Wrote %s to %s\n", key, out)
		return nil
	}
	n, err := s.ImportChapter(ctx, ch, merged)
	if err != nil {
		return err
	}
	fmt.Printf("Stored %d problems for %s in the question bank\n", n, key)
	return nil
}

// existingPools returns what the target already holds for key, or empty
// pools for a new chapter.
func existingPools(ctx context.Context, out string, s *store.Store, key string) (question.Pools, error) {
	var (
		pools question.Pools
		err   error
	)
	if out != "" {
		pools, err = loader.NewDir(out).LoadPools(ctx, key)
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, loader.ErrChapterNotFound) {
			return question.Pools{}, nil
		}
	} else {
		pools, err = s.LoadPools(ctx, key)
		if errors.Is(err, store.ErrChapterNotFound) {
			return question.Pools{}, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("read existing problems: %w", err)
	}
	return pools, nil
}
