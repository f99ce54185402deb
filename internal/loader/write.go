package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/abhisek/calcquiz/internal/question"
)

// DefaultManifestVersion is stamped on manifests created by WriteChapter.
const DefaultManifestVersion = "v1.0.0"

// WriteChapter stores pools under root in the layout Dir reads and adds or
// replaces the chapter's manifest entry. All five level files are written,
// empty levels as "[]".
func WriteChapter(root string, ch question.Chapter, pools question.Pools) error {
	if err := question.ValidatePools(pools); err != nil {
		return fmt.Errorf("chapter %q: %w", ch.Key, err)
	}
	if err := compileSchemas(); err != nil {
		return err
	}

	m, err := NewDir(root).Manifest(context.Background())
	switch {
	case errors.Is(err, fs.ErrNotExist):
		m = Manifest{Version: DefaultManifestVersion}
	case err != nil:
		return err
	}

	replaced := false
	for i := range m.Chapters {
		if m.Chapters[i].Key == ch.Key {
			m.Chapters[i] = ch
			replaced = true
		}
	}
	if !replaced {
		m.Chapters = append(m.Chapters, ch)
	}

	manifest, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	// Reject keys that would escape the problems directory before touching disk.
	var check Manifest
	if err := decodeValidated(manifestSchema, manifest, &check); err != nil {
		return fmt.Errorf("chapter %q: %w", ch.Key, err)
	}

	for _, lvl := range question.Levels() {
		recs := pools[lvl]
		if recs == nil {
			recs = []question.Record{}
		}
		data, err := json.MarshalIndent(recs, "", "  ")
		if err != nil {
			return fmt.Errorf("encode level %d: %w", lvl, err)
		}
		if err := writeFile(filepath.Join(root, filepath.FromSlash(LevelFile(ch.Key, lvl))), data); err != nil {
			return err
		}
	}

	return writeFile(filepath.Join(root, ManifestFile), manifest)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
