package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/calcquiz/ent"
	"github.com/abhisek/calcquiz/ent/chapter"
	"github.com/abhisek/calcquiz/ent/problem"
	"github.com/abhisek/calcquiz/internal/question"
)

// ErrChapterNotFound is returned when the bank has no chapter with a key.
var ErrChapterNotFound = errors.New("chapter not found in bank")

// ImportChapter replaces a chapter's problems in one transaction. New
// chapters are appended after the existing ones; re-imports keep their
// place. It returns the number of problems stored.
func (s *Store) ImportChapter(ctx context.Context, ch question.Chapter, pools question.Pools) (int, error) {
	if ch.Key == "" {
		return 0, fmt.Errorf("chapter key is required")
	}
	if err := question.ValidatePools(pools); err != nil {
		return 0, fmt.Errorf("chapter %q: %w", ch.Key, err)
	}

	n := 0
	err := s.withTx(ctx, func(tx *ent.Tx) error {
		c, err := upsertChapter(ctx, tx, ch)
		if err != nil {
			return err
		}

		if _, err := tx.Problem.Delete().Where(problem.HasChapterWith(chapter.ID(c.ID))).Exec(ctx); err != nil {
			return fmt.Errorf("clear chapter %q: %w", ch.Key, err)
		}

		var builders []*ent.ProblemCreate
		for _, lvl := range question.Levels() {
			for pos, r := range pools[lvl] {
				builders = append(builders, tx.Problem.Create().
					SetChapter(c).
					SetLevel(int(lvl)).
					SetPosition(pos).
					SetQuestion(r.Question).
					SetChoices(r.Choices).
					SetCorrectIndex(r.CorrectIndex))
			}
		}
		if len(builders) == 0 {
			return nil
		}
		saved, err := tx.Problem.CreateBulk(builders...).Save(ctx)
		if err != nil {
			return fmt.Errorf("insert problems: %w", err)
		}
		n = len(saved)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// upsertChapter updates the title of a known chapter or appends a new one.
func upsertChapter(ctx context.Context, tx *ent.Tx, ch question.Chapter) (*ent.Chapter, error) {
	c, err := tx.Chapter.Query().Where(chapter.Key(ch.Key)).Only(ctx)
	switch {
	case err == nil:
		c, err = tx.Chapter.UpdateOne(c).SetTitle(ch.Title).Save(ctx)
		if err != nil {
			return nil, fmt.Errorf("update chapter %q: %w", ch.Key, err)
		}
		return c, nil
	case !ent.IsNotFound(err):
		return nil, fmt.Errorf("lookup chapter %q: %w", ch.Key, err)
	}

	pos := 1
	last, err := tx.Chapter.Query().Order(ent.Desc(chapter.FieldPosition)).First(ctx)
	switch {
	case err == nil:
		pos = last.Position + 1
	case !ent.IsNotFound(err):
		return nil, fmt.Errorf("last chapter position: %w", err)
	}

	c, err = tx.Chapter.Create().
		SetKey(ch.Key).
		SetTitle(ch.Title).
		SetPosition(pos).
		Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("create chapter %q: %w", ch.Key, err)
	}
	return c, nil
}

// DeleteChapter removes a chapter and its problems.
func (s *Store) DeleteChapter(ctx context.Context, key string) error {
	return s.withTx(ctx, func(tx *ent.Tx) error {
		if _, err := tx.Problem.Delete().Where(problem.HasChapterWith(chapter.Key(key))).Exec(ctx); err != nil {
			return fmt.Errorf("delete problems: %w", err)
		}
		n, err := tx.Chapter.Delete().Where(chapter.Key(key)).Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete chapter: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %q", ErrChapterNotFound, key)
		}
		return nil
	})
}

// ListChapters returns the bank's chapters in import order.
func (s *Store) ListChapters(ctx context.Context) ([]question.Chapter, error) {
	rows, err := s.client.Chapter.Query().
		Order(ent.Asc(chapter.FieldPosition)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query chapters: %w", err)
	}

	out := make([]question.Chapter, 0, len(rows))
	for _, c := range rows {
		out = append(out, question.Chapter{Key: c.Key, Title: c.Title})
	}
	return out, nil
}

// LoadPools returns a chapter's problems grouped by level in stored order.
func (s *Store) LoadPools(ctx context.Context, key string) (question.Pools, error) {
	c, err := s.client.Chapter.Query().Where(chapter.Key(key)).Only(ctx)
	if ent.IsNotFound(err) {
		return nil, fmt.Errorf("%w: %q", ErrChapterNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup chapter %q: %w", key, err)
	}

	rows, err := c.QueryProblems().
		Order(ent.Asc(problem.FieldLevel), ent.Asc(problem.FieldPosition)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query problems: %w", err)
	}

	pools := make(question.Pools, question.MaxLevel)
	for _, p := range rows {
		lvl := question.Level(p.Level)
		pools[lvl] = append(pools[lvl], question.Record{
			Question:     p.Question,
			Choices:      p.Choices,
			CorrectIndex: p.CorrectIndex,
		})
	}
	return pools, nil
}

// CountByLevel reports how many problems each level of a chapter holds.
func (s *Store) CountByLevel(ctx context.Context, key string) (map[question.Level]int, error) {
	var rows []struct {
		Level int `json:"level"`
		Count int `json:"count"`
	}
	err := s.client.Problem.Query().
		Where(problem.HasChapterWith(chapter.Key(key))).
		GroupBy(problem.FieldLevel).
		Aggregate(ent.Count()).
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("count problems: %w", err)
	}

	out := make(map[question.Level]int, question.MaxLevel)
	for _, r := range rows {
		out[question.Level(r.Level)] = r.Count
	}
	return out, nil
}

// withTx runs fn in a transaction, rolling back when fn fails.
func (s *Store) withTx(ctx context.Context, fn func(tx *ent.Tx) error) error {
	tx, err := s.client.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("%w: rollback: %v", err, rerr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
