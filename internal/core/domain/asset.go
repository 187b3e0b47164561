// Package domain contains the core domain models for the asset pipeline.
package domain

import "time"

// Kind classifies a file discovered by a scan.
type Kind int

const (
	// KindAsset is a static file carried into the manifest verbatim.
	KindAsset Kind = iota
	// KindSource is a preprocessable file that compiles into a derived asset.
	KindSource
	// KindPartial is an underscore-prefixed source file that is only ever
	// consumed as a dependency of other sources and never emitted on its own.
	KindPartial
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindAsset:
		return "asset"
	case KindSource:
		return "source"
	case KindPartial:
		return "partial"
	default:
		return "unknown"
	}
}

// Entry is a single file discovered by a scan.
type Entry struct {
	// Rel is the slash-separated path relative to the scan root.
	Rel string

	// Abs is the absolute path of the file on disk.
	Abs string

	// Kind classifies how the pipeline treats the file.
	Kind Kind

	// Preprocessor names the preprocessor responsible for the file.
	// It is empty for KindAsset entries.
	Preprocessor string
}

// Asset is one entry of a build manifest.
type Asset struct {
	// Path is the normalized public path the asset is addressed by.
	Path string

	// Source is the scan-relative path of the file the asset was built from.
	Source string

	// MIME is the content type derived from the path extension.
	MIME string

	// Hash is the hex content hash of Data.
	Hash string

	// Size is the length of Data in bytes.
	Size int64

	// ModTime is the source modification time truncated to second precision.
	// For compiled assets it is the most recent time across the source and
	// its dependencies.
	ModTime time.Time

	// Data is the asset content.
	Data []byte

	// Deps lists the scan-relative paths consulted while producing Data,
	// sorted and without duplicates. Empty for verbatim assets.
	Deps []string

	// Encodings maps a content encoding name to a precompressed variant of
	// Data. A variant is only present when it came out smaller than Data.
	Encodings map[string][]byte
}
