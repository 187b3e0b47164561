// Package asset provides the runtime lookup and serving layer for embedded
// static assets produced by the baler build.
//
// A generated package embeds the processed files with go:embed, constructs
// a Table at init time via MustLoad, and exposes the table plus one
// variable per asset. Consumers address assets by logical path
// ("css/style.css") or by the cache-busting alias File.HashedPath, and
// serve them over HTTP through Handler or any framework adapter built on
// the pure Lookup and Conditional primitives.
package asset

import (
	"slices"
	"time"
)

// File is one embedded asset and its serving metadata.
// A File is immutable after table construction.
type File struct {
	// Path is the logical, slash-separated path of the asset.
	Path string

	// HashedPath is the cache-busting alias with a short content hash
	// embedded in the file name.
	HashedPath string

	// MIME is the content type served for the asset.
	MIME string

	// Hash is the full hex content hash. It doubles as the ETag value.
	Hash string

	// Size is the content length in bytes.
	Size int64

	// ModTime is the source modification time at second precision.
	ModTime time.Time

	data     []byte
	variants map[string][]byte
}

// FileMeta carries the metadata needed to construct a File.
type FileMeta struct {
	// MIME overrides the content type. Empty derives it from the path.
	MIME string

	// Hash is the hex content hash of the file data.
	Hash string

	// ModTime is the source modification time.
	ModTime time.Time

	// Variants maps a content encoding to precompressed bytes.
	Variants map[string][]byte
}

// NewFile constructs a File from its content and metadata.
// The data slice is retained, not copied.
func NewFile(path string, data []byte, meta FileMeta) *File {
	mime := meta.MIME
	if mime == "" {
		mime = TypeByPath(path)
	}
	return &File{
		Path:       path,
		HashedPath: HashedPathFor(path, meta.Hash),
		MIME:       mime,
		Hash:       meta.Hash,
		Size:       int64(len(data)),
		ModTime:    meta.ModTime.Truncate(time.Second),
		data:       data,
		variants:   meta.Variants,
	}
}

// Bytes returns the asset content. The slice is shared with the table;
// callers must not modify it.
func (f *File) Bytes() []byte {
	return f.data
}

// Variant returns the precompressed content for an encoding, if present.
func (f *File) Variant(encoding string) ([]byte, bool) {
	b, ok := f.variants[encoding]
	return b, ok
}

// Encodings returns the available precompressed encodings, sorted.
func (f *File) Encodings() []string {
	names := make([]string, 0, len(f.variants))
	for name := range f.variants {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ETag returns the strong entity tag for the file: the quoted content hash.
func (f *File) ETag() string {
	return `"` + f.Hash + `"`
}
