// Package codegen renders a build manifest into on-disk artifacts: the
// processed asset tree under files/ and a generated Go source file that
// embeds it and constructs the lookup table at init time.
package codegen

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.trai.ch/baler/asset"
	"go.trai.ch/baler/internal/core/domain"
	"go.trai.ch/baler/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Generator = (*Generator)(nil)

// Generator implements ports.Generator.
type Generator struct{}

// NewGenerator creates a new Generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate writes the artifacts for the manifest under the configured
// output directory. Identical manifests produce byte-identical output,
// unchanged files are left untouched to keep rebuilds quiet, and files
// from a previous build that no longer correspond to a manifest entry
// are pruned.
func (g *Generator) Generate(cfg *domain.Config, manifest *domain.Manifest) error {
	if manifest.Len() == 0 && cfg.RequireAssets {
		return zerr.Wrap(domain.ErrGenerate, "manifest is empty")
	}

	idents, err := identifiers(manifest)
	if err != nil {
		return err
	}

	outDir := filepath.Join(cfg.Dir, filepath.FromSlash(cfg.Out))
	filesDir := filepath.Join(outDir, domain.FilesDirName)

	wanted := make(map[string]bool)
	for a := range manifest.Assets() {
		if err := writeAssetFiles(filesDir, a, wanted); err != nil {
			return err
		}
	}

	if err := prune(filesDir, wanted); err != nil {
		return err
	}

	source := render(cfg, manifest, idents)
	genPath := filepath.Join(outDir, domain.GeneratedFileName)
	if err := writeIfChanged(genPath, source); err != nil {
		return err
	}
	return nil
}

func writeAssetFiles(filesDir string, a *domain.Asset, wanted map[string]bool) error {
	rel := filepath.FromSlash(a.Path)
	wanted[a.Path] = true
	if err := writeIfChanged(filepath.Join(filesDir, rel), a.Data); err != nil {
		return err
	}

	for _, enc := range sortedEncodings(a) {
		ext, ok := asset.EncodingExt(enc)
		if !ok {
			return zerr.With(zerr.Wrap(domain.ErrGenerate, "unknown encoding"), "encoding", enc)
		}
		wanted[a.Path+ext] = true
		if err := writeIfChanged(filepath.Join(filesDir, rel+ext), a.Encodings[enc]); err != nil {
			return err
		}
	}
	return nil
}

// writeIfChanged writes data to path unless the file already holds
// exactly those bytes. Skipping the rewrite preserves timestamps, so a
// no-change rebuild leaves the output tree untouched.
func writeIfChanged(path string, data []byte) error {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", path)
	}
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write artifact"), "path", path)
	}
	return nil
}

// prune removes files under filesDir that no manifest entry accounts
// for, then drops directories left empty.
func prune(filesDir string, wanted map[string]bool) error {
	var stale []string
	var dirs []string

	err := filepath.WalkDir(filesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipAll
			}
			return err
		}
		rel, relErr := filepath.Rel(filesDir, path)
		if relErr != nil || rel == "." {
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, path)
			return nil
		}
		if !wanted[filepath.ToSlash(rel)] {
			stale = append(stale, path)
		}
		return nil
	})
	if err != nil {
		return zerr.Wrap(err, "failed to prune output directory")
	}

	for _, path := range stale {
		if err := os.Remove(path); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to remove stale artifact"), "path", path)
		}
	}

	// Deepest first, so emptied parents are caught too.
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err == nil && len(entries) == 0 {
			_ = os.Remove(dir)
		}
	}
	return nil
}

// render produces the generated Go source. The output is gofmt-clean
// and fully determined by the manifest and configuration.
func render(cfg *domain.Config, manifest *domain.Manifest, idents []ident) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "// Code generated by baler; DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", cfg.Package)
	fmt.Fprintf(&b, "import (\n\t\"embed\"\n\n\t\"go.trai.ch/baler/asset\"\n)\n\n")
	fmt.Fprintf(&b, "//go:embed all:%s\nvar embedded embed.FS\n\n", domain.FilesDirName)

	fmt.Fprintf(&b, "// Table holds every embedded asset.\n")
	fmt.Fprintf(&b, "var Table = asset.MustLoad(embedded, %q, asset.Config{\n", domain.FilesDirName)
	fmt.Fprintf(&b, "\tAlgorithm: %q,\n", manifest.Algorithm())
	fmt.Fprintf(&b, "\tIndex:     %q,\n", cfg.Index)
	if manifest.Len() == 0 {
		fmt.Fprintf(&b, "\tMeta:      nil,\n")
	} else {
		fmt.Fprintf(&b, "\tMeta: []asset.Meta{\n")
		for a := range manifest.Assets() {
			fmt.Fprintf(&b, "\t\t{Path: %q, Hash: %q, Size: %d, ModTime: %d%s},\n",
				a.Path, a.Hash, a.Size, a.ModTime.Unix(), encodingsLiteral(a))
		}
		fmt.Fprintf(&b, "\t},\n")
	}
	fmt.Fprintf(&b, "})\n")

	if len(idents) > 0 {
		width := 0
		for _, id := range idents {
			if len(id.name) > width {
				width = len(id.name)
			}
		}
		fmt.Fprintf(&b, "\n// Exported handles, one per asset.\nvar (\n")
		for _, id := range idents {
			fmt.Fprintf(&b, "\t%-*s = Table.MustGet(%q)\n", width, id.name, id.path)
		}
		fmt.Fprintf(&b, ")\n")
	}

	return b.Bytes()
}

func encodingsLiteral(a *domain.Asset) string {
	encs := sortedEncodings(a)
	if len(encs) == 0 {
		return ""
	}
	quoted := make([]string, len(encs))
	for i, enc := range encs {
		quoted[i] = fmt.Sprintf("%q", enc)
	}
	return ", Encodings: []string{" + strings.Join(quoted, ", ") + "}"
}

func sortedEncodings(a *domain.Asset) []string {
	encs := make([]string, 0, len(a.Encodings))
	for enc := range a.Encodings {
		encs = append(encs, enc)
	}
	sort.Strings(encs)
	return encs
}

type ident struct {
	name string
	path string
}

// identifiers mangles every asset path into an exported Go identifier,
// in manifest order. Two paths mangling to the same identifier is a
// generation error naming both, since silently dropping one would leave
// an asset unreachable by its handle.
func identifiers(manifest *domain.Manifest) ([]ident, error) {
	seen := make(map[string]string)
	var out []ident
	for a := range manifest.Assets() {
		name := mangle(a.Path)
		if prev, ok := seen[name]; ok {
			err := zerr.With(zerr.Wrap(domain.ErrGenerate, "identifier collision"), "identifier", name)
			err = zerr.With(err, "path_a", prev)
			return nil, zerr.With(err, "path_b", a.Path)
		}
		seen[name] = a.Path
		out = append(out, ident{name: name, path: a.Path})
	}
	return out, nil
}

// mangle turns an asset path into an exported identifier: every path
// and word segment is capitalized and the final extension is uppercased,
// so "css/site.min.css" becomes "CssSiteMinCSS". A leading digit gets an
// "Asset" prefix and a clash with the Table variable gets an "Asset"
// suffix.
func mangle(path string) string {
	ext := ""
	stem := path
	if idx := strings.LastIndexByte(path, '.'); idx > strings.LastIndexByte(path, '/') && idx >= 0 {
		stem, ext = path[:idx], path[idx+1:]
	}

	var b strings.Builder
	for _, word := range splitWords(stem) {
		b.WriteString(capitalize(word))
	}
	b.WriteString(strings.ToUpper(sanitize(ext)))

	name := b.String()
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "Asset" + name
	}
	if name == "Table" {
		name += "Asset"
	}
	return name
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9')
	})
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
