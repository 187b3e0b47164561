package domain

import (
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// NormalizeAssetPath converts an OS-specific path relative to the scan root
// into a canonical asset path: slash-separated, no leading slash, no empty,
// "." or ".." segments, case preserved. It returns an error for paths that
// cannot be represented.
func NormalizeAssetPath(rel string) (string, error) {
	if rel == "" {
		return "", zerr.New("empty asset path")
	}
	if strings.ContainsRune(rel, 0) {
		return "", zerr.With(zerr.New("NUL in asset path"), "path", rel)
	}

	p := filepath.ToSlash(rel)
	if strings.ContainsRune(p, '\\') {
		return "", zerr.With(zerr.New("backslash in asset path"), "path", rel)
	}
	if strings.HasPrefix(p, "/") {
		return "", zerr.With(zerr.New("absolute asset path"), "path", rel)
	}

	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "":
			return "", zerr.With(zerr.New("empty segment in asset path"), "path", rel)
		case ".", "..":
			return "", zerr.With(zerr.New("relative segment in asset path"), "path", rel)
		}
	}

	return p, nil
}
