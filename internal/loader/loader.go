// Package loader reads chapters of leveled problems from a content
// directory:
//
//	chapters.json
//	problems/<key>/level1.json ... level5.json
//
// Every file is checked against a JSON Schema before it is decoded.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"go.uber.org/zap"
	"golang.org/x/mod/semver"

	"github.com/abhisek/calcquiz/internal/question"
)

// ManifestFile is the chapter index at the content root.
const ManifestFile = "chapters.json"

// SupportedMajor is the manifest major version this build understands.
const SupportedMajor = "v1"

// ErrChapterNotFound is returned for a key missing from the manifest.
var ErrChapterNotFound = errors.New("chapter not found")

// ChapterLister enumerates the chapters a source offers.
type ChapterLister interface {
	ListChapters(ctx context.Context) ([]question.Chapter, error)
}

// Manifest is the decoded chapters.json.
type Manifest struct {
	Version  string             `json:"version,omitempty"`
	Chapters []question.Chapter `json:"chapters"`
}

// Find returns the chapter with key.
func (m Manifest) Find(key string) (question.Chapter, bool) {
	for _, ch := range m.Chapters {
		if ch.Key == key {
			return ch, true
		}
	}
	return question.Chapter{}, false
}

// LevelFile is the path of one level's problems relative to the content root.
func LevelFile(key string, level question.Level) string {
	return path.Join("problems", key, fmt.Sprintf("level%d.json", level))
}

// Option configures a Dir.
type Option func(*Dir)

// WithLogger sets the logger used for content warnings.
func WithLogger(l *zap.Logger) Option {
	return func(d *Dir) {
		if l != nil {
			d.log = l
		}
	}
}

// Dir loads chapters from a content tree.
type Dir struct {
	fsys fs.FS
	log  *zap.Logger
}

// NewDir loads from a directory on disk.
func NewDir(root string, opts ...Option) *Dir {
	return NewFS(os.DirFS(root), opts...)
}

// NewFS loads from any fs.FS rooted at the content directory.
func NewFS(fsys fs.FS, opts ...Option) *Dir {
	d := &Dir{fsys: fsys, log: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Manifest reads and validates chapters.json.
func (d *Dir) Manifest(ctx context.Context) (Manifest, error) {
	if err := ctx.Err(); err != nil {
		return Manifest{}, err
	}
	if err := compileSchemas(); err != nil {
		return Manifest{}, err
	}

	raw, err := fs.ReadFile(d.fsys, ManifestFile)
	if err != nil {
		return Manifest{}, fmt.Errorf("read %s: %w", ManifestFile, err)
	}
	var m Manifest
	if err := decodeValidated(manifestSchema, raw, &m); err != nil {
		return Manifest{}, fmt.Errorf("%s: %w", ManifestFile, err)
	}
	if err := checkVersion(m.Version); err != nil {
		return Manifest{}, fmt.Errorf("%s: %w", ManifestFile, err)
	}
	return m, nil
}

// ListChapters returns the chapters in manifest order.
func (d *Dir) ListChapters(ctx context.Context) ([]question.Chapter, error) {
	m, err := d.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	return m.Chapters, nil
}

// LoadPools reads the five level files of a chapter. A missing level file
// yields an empty level; a malformed one is an error.
func (d *Dir) LoadPools(ctx context.Context, key string) (question.Pools, error) {
	m, err := d.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := m.Find(key); !ok {
		return nil, fmt.Errorf("%w: %q", ErrChapterNotFound, key)
	}

	pools := make(question.Pools, question.MaxLevel)
	for _, lvl := range question.Levels() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := LevelFile(key, lvl)
		raw, err := fs.ReadFile(d.fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			d.log.Warn("level file missing, treating as empty",
				zap.String("chapter", key),
				zap.Int("level", int(lvl)),
				zap.String("file", name),
			)
			pools[lvl] = nil
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		var recs []question.Record
		if err := decodeValidated(levelSchema, raw, &recs); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		pools[lvl] = recs
	}

	if err := question.ValidatePools(pools); err != nil {
		return nil, fmt.Errorf("chapter %q: %w", key, err)
	}

	d.log.Debug("chapter loaded",
		zap.String("chapter", key),
		zap.Int("problems", pools.Count()),
	)
	return pools, nil
}

// checkVersion accepts an empty version or any semver with the supported major.
func checkVersion(v string) error {
	if v == "" {
		return nil
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("invalid manifest version %q", v)
	}
	if major := semver.Major(v); major != SupportedMajor {
		return fmt.Errorf("unsupported manifest version %s (want %s.x)", v, SupportedMajor)
	}
	return nil
}
