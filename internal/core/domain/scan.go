package domain

import (
	"path"
	"strings"
)

// SymlinkPolicy controls how the scanner treats symbolic links.
type SymlinkPolicy string

const (
	// SymlinkReject fails the scan when any symbolic link is encountered.
	SymlinkReject SymlinkPolicy = "reject"

	// SymlinkFollow resolves symbolic links to files, as long as the target
	// stays inside the scan root. Symlinked directories are always rejected
	// so a scan cannot cycle.
	SymlinkFollow SymlinkPolicy = "follow"
)

// ScanRules configures how a source tree scan classifies files.
type ScanRules struct {
	// Preprocess maps a lowercase file extension (including the leading dot)
	// to the name of the preprocessor handling it.
	Preprocess map[string]string

	// Ignore lists glob patterns matched against file base names.
	Ignore []string

	// Symlinks selects the symbolic link policy. The zero value rejects.
	Symlinks SymlinkPolicy
}

// Classify returns the Kind of a scanned file and the preprocessor
// responsible for it. Files with an extension registered in Preprocess are
// sources; an underscore name prefix marks them as partials.
func (r ScanRules) Classify(name string) (Kind, string) {
	ext := strings.ToLower(path.Ext(name))
	pp, ok := r.Preprocess[ext]
	if !ok {
		return KindAsset, ""
	}
	if strings.HasPrefix(path.Base(name), "_") {
		return KindPartial, pp
	}
	return KindSource, pp
}

// Ignored reports whether a file base name matches one of the ignore globs.
// Malformed patterns never match.
func (r ScanRules) Ignored(base string) bool {
	for _, pattern := range r.Ignore {
		if ok, err := path.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}
