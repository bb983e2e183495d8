// Package picker turns command-line patterns into files ready for upload.
package picker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ziadkadry99/docchat/internal/backend"
)

// ErrNoMatch is returned when a pattern matches no regular file.
var ErrNoMatch = errors.New("no files match")

// Expand resolves each pattern to regular files. Patterns may use doublestar
// syntax (**, {a,b}). A directory expands to every PDF beneath it, skipping
// DefaultExcludes. Results keep pattern order and contain no duplicates.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string

	for _, pattern := range patterns {
		matches, err := expandOne(pattern)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w %q", ErrNoMatch, pattern)
		}
		for _, m := range matches {
			abs, err := filepath.Abs(m)
			if err != nil {
				return nil, fmt.Errorf("picker: resolve %s: %w", m, err)
			}
			if seen[abs] {
				continue
			}
			seen[abs] = true
			out = append(out, m)
		}
	}
	return out, nil
}

func expandOne(pattern string) ([]string, error) {
	if !hasMeta(pattern) {
		info, err := os.Stat(pattern)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, fmt.Errorf("picker: stat %s: %w", pattern, err)
		}
		if !info.IsDir() {
			return []string{pattern}, nil
		}
		return expandDir(pattern)
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("picker: glob %q: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

func expandDir(dir string) ([]string, error) {
	fsys := os.DirFS(dir)
	rels, err := doublestar.Glob(fsys, "**/*.{pdf,PDF}", doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("picker: walk %s: %w", dir, err)
	}

	var out []string
	for _, rel := range rels {
		if excludedPath(rel) {
			continue
		}
		out = append(out, filepath.Join(dir, filepath.FromSlash(rel)))
	}
	sort.Strings(out)
	return out, nil
}

// Open opens every path for reading. The returned close function releases
// all of them; call it once the upload has finished.
func Open(paths []string) ([]backend.File, func() error, error) {
	files := make([]backend.File, 0, len(paths))
	handles := make([]*os.File, 0, len(paths))

	closeAll := func() error {
		var errs []error
		for _, h := range handles {
			if err := h.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			_ = closeAll()
			return nil, nil, fmt.Errorf("picker: open %s: %w", p, err)
		}
		handles = append(handles, f)
		files = append(files, backend.File{Name: filepath.Base(p), Content: f})
	}
	return files, closeAll, nil
}
