// Package config provides the configuration loader for baler.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/baler/asset"
	"go.trai.ch/baler/internal/adapters/hashing"
	"go.trai.ch/baler/internal/adapters/scss"
	"go.trai.ch/baler/internal/core/domain"
	"go.trai.ch/baler/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// invalidConfig reports a validation failure for a single field.
func invalidConfig(reason, field string, value any) error {
	err := zerr.With(zerr.Wrap(domain.ErrConfigInvalid, reason), "field", field)
	return zerr.With(err, "value", value)
}

const (
	defaultOut       = "internal/site"
	supportedVersion = "1"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the configuration. A file path is used directly; a
// directory is searched upwards until a baler.yaml is found.
func (l *Loader) Load(start string) (*domain.Config, error) {
	file, err := discover(start)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", file)
	}

	var raw Balerfile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigInvalid, err.Error()), "path", file)
	}

	dir, err := filepath.Abs(filepath.Dir(file))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve config directory")
	}

	cfg, err := validate(dir, raw)
	if err != nil {
		return nil, zerr.With(err, "path", file)
	}
	return cfg, nil
}

// discover locates the configuration file. Starting from a directory it
// walks towards the filesystem root, matching how the tool is invoked
// from anywhere inside a project.
func discover(start string) (string, error) {
	info, err := os.Stat(start)
	switch {
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return "", zerr.With(zerr.Wrap(err, "failed to stat config path"), "path", start)
	case err == nil && !info.IsDir():
		return start, nil
	case err != nil:
		return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "config path does not exist"), "path", start)
	}

	dir, err := filepath.Abs(start)
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve search directory")
	}
	for {
		candidate := filepath.Join(dir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "no "+domain.ConfigFileName+" in any parent directory"), "start", start)
		}
		dir = parent
	}
}

// validate applies defaults and checks every field, reporting the
// offending field as error metadata.
func validate(dir string, raw Balerfile) (*domain.Config, error) {
	if raw.Version != "" && raw.Version != supportedVersion {
		return nil, invalidConfig("unsupported version", "version", raw.Version)
	}

	if raw.Root == "" {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "root is required"), "field", "root")
	}
	rootAbs := filepath.Join(dir, filepath.FromSlash(raw.Root))
	if info, err := os.Stat(rootAbs); err != nil || !info.IsDir() {
		return nil, invalidConfig("root is not a directory", "root", raw.Root)
	}

	out := raw.Out
	if out == "" {
		out = defaultOut
	}

	pkg := raw.Package
	if pkg == "" {
		pkg = packageName(out)
	}
	if !validIdentifier(pkg) {
		return nil, invalidConfig("not a valid Go identifier", "package", pkg)
	}

	index := raw.Index
	if index == "" {
		index = asset.DefaultIndex
	}

	algorithm := raw.Hash
	if algorithm == "" {
		algorithm = asset.AlgorithmXXHash64
	}
	if !slices.Contains(hashing.Algorithms(), algorithm) {
		return nil, invalidConfig("unknown hash algorithm", "hash", algorithm)
	}

	for _, enc := range raw.Encodings {
		if !slices.Contains(asset.KnownEncodings(), enc) {
			return nil, invalidConfig("unknown content encoding", "encodings", enc)
		}
	}

	preprocess := raw.Preprocess
	if preprocess == nil {
		preprocess = map[string]string{".scss": scss.Name}
	}
	rules := domain.ScanRules{
		Preprocess: make(map[string]string, len(preprocess)),
		Ignore:     raw.Ignore,
	}
	for ext, kind := range preprocess {
		if !strings.HasPrefix(ext, ".") {
			return nil, invalidConfig("extension must start with a dot", "preprocess", ext)
		}
		if kind != scss.Name {
			return nil, invalidConfig("unknown preprocessor", "preprocess", kind)
		}
		rules.Preprocess[strings.ToLower(ext)] = kind
	}

	switch raw.Symlinks {
	case "", string(domain.SymlinkReject):
		rules.Symlinks = domain.SymlinkReject
	case string(domain.SymlinkFollow):
		rules.Symlinks = domain.SymlinkFollow
	default:
		return nil, invalidConfig("unknown symlink policy", "symlinks", raw.Symlinks)
	}

	requireAssets := true
	if raw.RequireAssets != nil {
		requireAssets = *raw.RequireAssets
	}

	return &domain.Config{
		Dir:           dir,
		Root:          raw.Root,
		Out:           out,
		Package:       pkg,
		Index:         index,
		Hash:          algorithm,
		Encodings:     slices.Clone(raw.Encodings),
		Rules:         rules,
		RequireAssets: requireAssets,
	}, nil
}

// packageName derives a Go package name from the output directory.
func packageName(out string) string {
	base := path.Base(filepath.ToSlash(out))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}

func validIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		letter := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if i == 0 && !letter {
			return false
		}
		if !letter && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
