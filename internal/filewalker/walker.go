package filewalker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// Walker locates string resource files under a resource root.
type Walker struct {
	dirPrefix string
	fileName  string
}

// NewWalker creates a Walker selecting files named fileName whose parent
// directory name starts with dirPrefix.
func NewWalker(dirPrefix, fileName string) *Walker {
	return &Walker{
		dirPrefix: dirPrefix,
		fileName:  fileName,
	}
}

// FileEntry represents a discovered file ready for processing.
type FileEntry struct {
	Path string
	// Dir is the name of the directory containing the file, e.g. values-fr.
	Dir string
}

// Matches reports whether the file at path is in scope.
func (w *Walker) Matches(path string) bool {
	if filepath.Base(path) != w.fileName {
		return false
	}
	return strings.HasPrefix(filepath.Base(filepath.Dir(path)), w.dirPrefix)
}

// Walk discovers matching files under root in lexical order. A missing or
// unreadable root yields no entries rather than an error.
func (w *Walker) Walk(root string) ([]FileEntry, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn().Str("root", root).Msg("Resource root does not exist")
		} else {
			log.Warn().Err(err).Str("root", root).Msg("Cannot stat resource root")
		}
		return nil, nil
	}
	if !info.IsDir() {
		log.Warn().Str("root", root).Msg("Resource root is not a directory")
		return nil, nil
	}

	// WalkDir would not descend into a symlinked root.
	if li, err := os.Lstat(root); err == nil && li.Mode()&fs.ModeSymlink != 0 {
		if resolved, err := filepath.EvalSymlinks(root); err == nil {
			root = resolved
		}
	}

	var entries []FileEntry

	// WalkDir visits entries in lexical order and does not follow symlinks.
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || !w.Matches(path) {
			return nil
		}

		entries = append(entries, FileEntry{
			Path: path,
			Dir:  filepath.Base(filepath.Dir(path)),
		})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	log.Info().Int("count", len(entries)).Str("root", root).Msg("Discovered files")
	return entries, nil
}
