// Package fs provides the file system scanner for the asset pipeline.
package fs

import (
	"fmt"
	iofs "io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/baler/internal/core/domain"
	"go.trai.ch/baler/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Scanner = (*Walker)(nil)

// scanError classifies cause as a scan failure while keeping the
// underlying error visible to errors.Is.
func scanError(cause error) error {
	return fmt.Errorf("%w: %w", domain.ErrScan, cause)
}

// Walker implements ports.Scanner on the local file system.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// Scan yields all files under root in deterministic lexicographic order,
// classified by rules. Dot-files and dot-directories are skipped, as are
// files matching the ignore globs. The iterator yields at most one error,
// then stops; a scan that cannot complete never yields a partial tail.
func (w *Walker) Scan(root string, rules domain.ScanRules) iter.Seq2[domain.Entry, error] {
	return func(yield func(domain.Entry, error) bool) {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			yield(domain.Entry{}, zerr.With(scanError(err), "root", root))
			return
		}

		info, err := os.Stat(absRoot)
		if err != nil {
			yield(domain.Entry{}, zerr.With(scanError(err), "root", root))
			return
		}
		if !info.IsDir() {
			err := zerr.With(zerr.Wrap(domain.ErrScan, "root is not a directory"), "root", root)
			yield(domain.Entry{}, err)
			return
		}

		// Containment checks compare resolved paths, so a symlinked root
		// (temp dirs on some platforms) does not flag its own files.
		resolvedRoot, err := filepath.EvalSymlinks(absRoot)
		if err != nil {
			yield(domain.Entry{}, zerr.With(scanError(err), "root", root))
			return
		}

		walkErr := filepath.WalkDir(absRoot, func(path string, d iofs.DirEntry, err error) error {
			if err != nil {
				return zerr.With(scanError(err), "path", path)
			}
			if path == absRoot {
				return nil
			}

			name := d.Name()
			if strings.HasPrefix(name, ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if rules.Ignored(name) {
					return filepath.SkipDir
				}
				return nil
			}
			if rules.Ignored(name) {
				return nil
			}

			if d.Type()&iofs.ModeSymlink != 0 {
				if err := w.checkSymlink(resolvedRoot, path, rules.Symlinks); err != nil {
					return err
				}
			}

			rel, err := filepath.Rel(absRoot, path)
			if err != nil {
				return zerr.With(scanError(err), "path", path)
			}
			normalized, err := domain.NormalizeAssetPath(rel)
			if err != nil {
				return scanError(err)
			}

			kind, pp := rules.Classify(normalized)
			entry := domain.Entry{
				Rel:          normalized,
				Abs:          path,
				Kind:         kind,
				Preprocessor: pp,
			}
			if !yield(entry, nil) {
				return filepath.SkipAll
			}
			return nil
		})

		if walkErr != nil {
			yield(domain.Entry{}, walkErr)
		}
	}
}

// checkSymlink enforces the symlink policy for a symlinked file. Under
// SymlinkFollow the resolved target must be a regular file inside root;
// everything else, and every symlink under SymlinkReject, fails the scan.
func (w *Walker) checkSymlink(root, path string, policy domain.SymlinkPolicy) error {
	if policy != domain.SymlinkFollow {
		return zerr.With(zerr.Wrap(domain.ErrSymlink, "symlinks are rejected"), "path", path)
	}

	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "broken symlink"), "path", path)
	}

	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		werr := zerr.With(zerr.Wrap(domain.ErrSymlink, "target escapes scan root"), "path", path)
		return zerr.With(werr, "target", target)
	}

	info, err := os.Stat(target)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "broken symlink"), "path", path)
	}
	if !info.Mode().IsRegular() {
		werr := zerr.With(zerr.Wrap(domain.ErrSymlink, "target is not a regular file"), "path", path)
		return zerr.With(werr, "target", target)
	}
	return nil
}
