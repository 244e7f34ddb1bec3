package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/modernapi/modernapi/internal/models"
)

// ErrRootNotFound is the only fatal error class of a run: the project root
// does not exist or is not a directory. Everything else degrades to a
// report warning.
var ErrRootNotFound = errors.New("project root not found")

// DefaultIncludes matches candidate source files by base name.
var DefaultIncludes = []string{"*.go"}

// DefaultExcludes matches path segments (directories or base names) that
// never contain auditable route declarations.
var DefaultExcludes = []string{"*_test.go", "vendor", "testdata", "node_modules", ".git", "_*"}

// Walker enumerates candidate source files under a project root.
type Walker struct {
	includes []string
	excludes []string
}

// New creates a walker. Nil pattern slices fall back to the defaults.
func New(includes, excludes []string) *Walker {
	if includes == nil {
		includes = DefaultIncludes
	}
	if excludes == nil {
		excludes = DefaultExcludes
	}
	return &Walker{includes: includes, excludes: excludes}
}

// Walk returns the candidate files under root sorted lexicographically by
// slash-separated relative path, so downstream ordering never depends on
// filesystem enumeration order. Unreadable entries are skipped and recorded
// as warnings; only a missing root aborts.
func (w *Walker) Walk(root string) ([]string, []models.Warning, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}

	var files []string
	var warnings []models.Warning

	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// One bad entry must not kill the audit.
			warnings = append(warnings, models.Warning{
				Kind:     models.WarningFileRead,
				FilePath: relPath(root, p),
				Message:  err.Error(),
			})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if p != root && w.excluded(name) {
				return fs.SkipDir
			}
			return nil
		}
		if w.excluded(name) || !w.included(name) {
			return nil
		}

		files = append(files, relPath(root, p))
		return nil
	})
	if walkErr != nil {
		return nil, warnings, fmt.Errorf("walking %s: %w", root, walkErr)
	}

	sort.Strings(files)
	return files, warnings, nil
}

func (w *Walker) included(name string) bool {
	for _, pattern := range w.includes {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func (w *Walker) excluded(name string) bool {
	for _, pattern := range w.excludes {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// relPath converts an absolute walk path to a slash-separated path relative
// to root. Report paths must look the same on every platform.
func relPath(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		rel = p
	}
	return strings.ReplaceAll(rel, string(filepath.Separator), "/")
}
