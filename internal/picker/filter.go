package picker

import (
	"path/filepath"
	"strings"
)

// DefaultExcludes are directory names skipped when a directory is expanded.
var DefaultExcludes = []string{
	".git",
	"node_modules",
	"vendor",
	"__pycache__",
	".venv",
	".idea",
	".vscode",
}

// excludedPath reports whether any directory component of rel is in
// DefaultExcludes.
func excludedPath(rel string) bool {
	parts := strings.Split(filepath.ToSlash(filepath.Dir(rel)), "/")
	for _, part := range parts {
		for _, excl := range DefaultExcludes {
			if strings.EqualFold(part, excl) {
				return true
			}
		}
	}
	return false
}

// hasMeta reports whether pattern contains glob syntax.
func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// isPDF reports whether name carries a .pdf extension.
func isPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
