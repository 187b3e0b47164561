package asset

import (
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"time"

	"go.trai.ch/zerr"
)

// DefaultIndex is the file name a directory-style lookup resolves to when
// no other index is configured.
const DefaultIndex = "index.html"

// ErrDuplicate is returned when two files share a path.
var ErrDuplicate = zerr.New("duplicate asset path")

// Table is an immutable set of files addressable by logical path or
// hashed alias. A table is built once and never mutated, so lookups are
// safe for concurrent use without locking.
type Table struct {
	byPath   map[string]*File
	byHashed map[string]*File
	index    string
}

// TableOption configures table construction.
type TableOption func(*Table)

// WithIndex sets the file name directory-style lookups resolve to.
func WithIndex(name string) TableOption {
	return func(t *Table) {
		if name != "" {
			t.index = name
		}
	}
}

// NewTable builds a table from files. It returns an error when two files
// share a logical path.
func NewTable(files []*File, opts ...TableOption) (*Table, error) {
	t := &Table{
		byPath:   make(map[string]*File, len(files)),
		byHashed: make(map[string]*File, len(files)),
		index:    DefaultIndex,
	}
	for _, opt := range opts {
		opt(t)
	}

	for _, f := range files {
		if _, exists := t.byPath[f.Path]; exists {
			return nil, zerr.With(zerr.Wrap(ErrDuplicate, "conflicting logical path"), "path", f.Path)
		}
		t.byPath[f.Path] = f
		t.byHashed[f.HashedPath] = f
	}
	return t, nil
}

// Len returns the number of files in the table.
func (t *Table) Len() int {
	return len(t.byPath)
}

// Paths returns all logical paths in lexicographic order.
func (t *Table) Paths() []string {
	paths := make([]string, 0, len(t.byPath))
	for p := range t.byPath {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// Lookup resolves a request path to a file.
//
// The path is normalized first: a leading slash is stripped and empty or
// "." segments collapse. Paths containing "..", a backslash, or a NUL
// byte never match, by construction rather than by resolution. The empty
// path and directory-style paths resolve through the configured index
// name. Both the logical path and the hashed alias are recognized.
//
// Lookup never fails other than by reporting false; a missing asset is
// an expected outcome, not an error.
func (t *Table) Lookup(p string) (*File, bool) {
	norm, ok := normalizeRequestPath(p)
	if !ok {
		return nil, false
	}

	if norm == "" {
		f, ok := t.byPath[t.index]
		return f, ok
	}
	if f, ok := t.byPath[norm]; ok {
		return f, true
	}
	if f, ok := t.byHashed[norm]; ok {
		return f, true
	}

	// Directory-style path: fall back to its index file.
	f, ok := t.byPath[norm+"/"+t.index]
	return f, ok
}

// MustGet returns the file stored under the exact logical path, and
// panics when it is absent. It is intended for generated code, where the
// path is known to exist.
func (t *Table) MustGet(path string) *File {
	f, ok := t.byPath[path]
	if !ok {
		panic(fmt.Sprintf("asset: no file %q in table", path))
	}
	return f
}

// normalizeRequestPath canonicalizes an incoming request path, reporting
// false for paths that can never address an embedded asset.
func normalizeRequestPath(p string) (string, bool) {
	if strings.ContainsRune(p, '\\') || strings.ContainsRune(p, 0) {
		return "", false
	}
	segs := strings.Split(p, "/")
	out := make([]string, 0, len(segs))
	for _, s := range segs {
		switch s {
		case "", ".":
			continue
		case "..":
			return "", false
		default:
			out = append(out, s)
		}
	}
	return strings.Join(out, "/"), true
}

// Config describes a generated table for MustLoad.
type Config struct {
	// Algorithm names the content hash algorithm the Meta hashes use.
	Algorithm string

	// Index is the directory index file name. Empty means DefaultIndex.
	Index string

	// Meta lists one row per embedded asset.
	Meta []Meta
}

// Meta is the generated metadata row for one embedded asset.
type Meta struct {
	// Path is the logical asset path below the embedded directory.
	Path string

	// Hash is the hex content hash of the asset.
	Hash string

	// Size is the content length in bytes.
	Size int64

	// ModTime is the source modification time in Unix seconds.
	ModTime int64

	// Encodings lists the precompressed variants embedded next to the
	// asset, stored as the asset path plus the encoding's extension.
	Encodings []string
}

// MustLoad reads every asset listed in cfg from fsys below dir, verifies
// its content hash and size, and builds the lookup table. It panics when
// the embedded data does not match the metadata, which only happens when
// generated artifacts were edited or partially regenerated.
func MustLoad(fsys fs.FS, dir string, cfg Config) *Table {
	files := make([]*File, 0, len(cfg.Meta))
	for _, m := range cfg.Meta {
		data, err := fs.ReadFile(fsys, path.Join(dir, m.Path))
		if err != nil {
			panic(fmt.Sprintf("asset: reading embedded %q: %v", m.Path, err))
		}
		digest, err := Sum(cfg.Algorithm, data)
		if err != nil {
			panic(fmt.Sprintf("asset: %v", err))
		}
		if digest != m.Hash {
			panic(fmt.Sprintf("asset: embedded %q does not match its recorded hash", m.Path))
		}
		if int64(len(data)) != m.Size {
			panic(fmt.Sprintf("asset: embedded %q does not match its recorded size", m.Path))
		}

		var variants map[string][]byte
		for _, enc := range m.Encodings {
			ext, ok := EncodingExt(enc)
			if !ok {
				panic(fmt.Sprintf("asset: embedded %q lists unknown encoding %q", m.Path, enc))
			}
			b, err := fs.ReadFile(fsys, path.Join(dir, m.Path+ext))
			if err != nil {
				panic(fmt.Sprintf("asset: reading embedded %q variant %s: %v", m.Path, enc, err))
			}
			if variants == nil {
				variants = make(map[string][]byte, len(m.Encodings))
			}
			variants[enc] = b
		}

		files = append(files, NewFile(m.Path, data, FileMeta{
			Hash:     m.Hash,
			ModTime:  time.Unix(m.ModTime, 0).UTC(),
			Variants: variants,
		}))
	}

	t, err := NewTable(files, WithIndex(cfg.Index))
	if err != nil {
		panic(fmt.Sprintf("asset: %v", err))
	}
	return t
}
