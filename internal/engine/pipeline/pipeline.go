// Package pipeline implements the build pipeline: scan the source tree,
// preprocess and hash every file in parallel, and reduce the per-file
// results into a canonical manifest.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"go.trai.ch/baler/asset"
	"go.trai.ch/baler/internal/core/domain"
	"go.trai.ch/baler/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Pipeline turns a configured source tree into a manifest.
type Pipeline struct {
	scanner   ports.Scanner
	compilers map[string]ports.Preprocessor
	hashers   map[string]ports.Hasher
	cache     ports.CompileCache
	telemetry ports.Telemetry
	logger    ports.Logger
}

// New creates a Pipeline from its collaborators. The compilers map is
// keyed by preprocessor name, the hashers map by algorithm name. A nil
// cache disables compile caching entirely.
func New(
	scanner ports.Scanner,
	compilers map[string]ports.Preprocessor,
	hashers map[string]ports.Hasher,
	cache ports.CompileCache,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Pipeline {
	return &Pipeline{
		scanner:   scanner,
		compilers: compilers,
		hashers:   hashers,
		cache:     cache,
		telemetry: telemetry,
		logger:    logger,
	}
}

// RunOptions control a single pipeline run.
type RunOptions struct {
	// NoCache forces preprocessing even when a valid cache entry exists.
	NoCache bool
}

// Run executes the build pipeline. Workers produce immutable per-file
// assets; a single-threaded reduction imposes the global path order and
// duplicate detection. Any per-file error aborts the whole run, so a
// partial manifest can never reach the generator.
func (p *Pipeline) Run(ctx context.Context, cfg *domain.Config, opts RunOptions) (*domain.Manifest, error) {
	hasher, ok := p.hashers[cfg.Hash]
	if !ok {
		err := zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "unknown hash algorithm"), "field", "hash")
		return nil, zerr.With(err, "value", cfg.Hash)
	}

	root := filepath.Join(cfg.Dir, filepath.FromSlash(cfg.Root))
	entries, err := p.collect(ctx, root, cfg.Rules)
	if err != nil {
		return nil, err
	}

	results := make([]*domain.Asset, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, entry := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a, err := p.buildAsset(gctx, root, cfg, hasher, entry, opts)
			if err != nil {
				return err
			}
			results[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reduce(cfg.Hash, results)
}

// collect drains the scanner, keeping only entries that produce output.
// Partials never become assets; the preprocessor rediscovers them as
// dependencies of the sources that import them.
func (p *Pipeline) collect(ctx context.Context, root string, rules domain.ScanRules) ([]domain.Entry, error) {
	_, vertex := p.telemetry.Record(ctx, "scan "+root, ports.WithInternal())

	var entries []domain.Entry
	for entry, err := range p.scanner.Scan(root, rules) {
		if err != nil {
			vertex.Complete(err)
			return nil, err
		}
		if entry.Kind == domain.KindPartial {
			continue
		}
		entries = append(entries, entry)
	}

	vertex.Complete(nil)
	return entries, nil
}

func (p *Pipeline) buildAsset(ctx context.Context, root string, cfg *domain.Config, hasher ports.Hasher, entry domain.Entry, opts RunOptions) (*domain.Asset, error) {
	var (
		a   *domain.Asset
		err error
	)
	switch entry.Kind {
	case domain.KindSource:
		_, vertex := p.telemetry.Record(ctx, "compile "+entry.Rel)
		a, err = p.compile(root, hasher, entry, opts, vertex)
		vertex.Complete(err)
	default:
		_, vertex := p.telemetry.Record(ctx, "embed "+entry.Rel)
		a, err = p.embed(hasher, entry)
		vertex.Complete(err)
	}
	if err != nil {
		return nil, err
	}

	if err := compressVariants(a, cfg.Encodings); err != nil {
		return nil, err
	}
	return a, nil
}

// embed builds the asset record for a file carried into the manifest
// verbatim.
func (p *Pipeline) embed(hasher ports.Hasher, entry domain.Entry) (*domain.Asset, error) {
	data, err := os.ReadFile(entry.Abs)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read asset"), "path", entry.Rel)
	}
	modTime, err := mtime(entry.Abs)
	if err != nil {
		return nil, zerr.With(err, "path", entry.Rel)
	}

	return &domain.Asset{
		Path:    entry.Rel,
		Source:  entry.Rel,
		MIME:    asset.TypeByPath(entry.Rel),
		Hash:    hasher.Hash(data),
		Size:    int64(len(data)),
		ModTime: modTime,
		Data:    data,
	}, nil
}

// compile builds the asset record for a preprocessable source, consulting
// the compile cache first. The cache key covers the source bytes and the
// bytes of every dependency recorded by the previous run, so a changed
// partial invalidates each asset compiled from it.
func (p *Pipeline) compile(root string, hasher ports.Hasher, entry domain.Entry, opts RunOptions, vertex ports.Vertex) (*domain.Asset, error) {
	compiler, ok := p.compilers[entry.Preprocessor]
	if !ok {
		err := zerr.With(zerr.Wrap(domain.ErrCompile, "no preprocessor registered"), "file", entry.Rel)
		return nil, zerr.With(err, "preprocessor", entry.Preprocessor)
	}
	outPath := compiler.OutputPath(entry.Rel)

	if p.cache != nil && !opts.NoCache {
		if a, ok := p.fromCache(root, hasher, entry, outPath); ok {
			vertex.Cached()
			return a, nil
		}
	}

	result, err := compiler.Compile(root, entry)
	if err != nil {
		return nil, err
	}

	outputHash := hasher.Hash(result.Output)
	if p.cache != nil {
		inputHash, err := inputKey(root, hasher, entry.Rel, result.Deps)
		if err == nil {
			if err := p.cache.PutObject(outputHash, result.Output); err != nil {
				p.logger.Warn("compile cache write failed: " + err.Error())
			} else if err := p.cache.Put(domain.CompileInfo{
				Source:     entry.Rel,
				InputHash:  inputHash,
				OutputHash: outputHash,
				Deps:       result.Deps,
				Timestamp:  time.Now().UTC(),
			}); err != nil {
				p.logger.Warn("compile cache write failed: " + err.Error())
			}
		}
	}

	modTime, err := latestMtime(root, entry, result.Deps)
	if err != nil {
		return nil, err
	}

	return &domain.Asset{
		Path:    outPath,
		Source:  entry.Rel,
		MIME:    asset.TypeByPath(outPath),
		Hash:    outputHash,
		Size:    int64(len(result.Output)),
		ModTime: modTime,
		Data:    result.Output,
		Deps:    result.Deps,
	}, nil
}

// fromCache attempts to satisfy a source entry from the compile cache.
// Every failure path is a miss, never an error: a cold or damaged cache
// degrades to compilation.
func (p *Pipeline) fromCache(root string, hasher ports.Hasher, entry domain.Entry, outPath string) (*domain.Asset, bool) {
	prev, err := p.cache.Get(entry.Rel)
	if err != nil || prev == nil {
		return nil, false
	}

	key, err := inputKey(root, hasher, entry.Rel, prev.Deps)
	if err != nil || key != prev.InputHash {
		return nil, false
	}

	data, err := p.cache.Object(prev.OutputHash)
	if err != nil || data == nil {
		return nil, false
	}
	if hasher.Hash(data) != prev.OutputHash {
		return nil, false
	}

	modTime, err := latestMtime(root, entry, prev.Deps)
	if err != nil {
		return nil, false
	}

	return &domain.Asset{
		Path:    outPath,
		Source:  entry.Rel,
		MIME:    asset.TypeByPath(outPath),
		Hash:    prev.OutputHash,
		Size:    int64(len(data)),
		ModTime: modTime,
		Data:    data,
		Deps:    slices.Clone(prev.Deps),
	}, true
}

// inputKey hashes the source file and every dependency, framing each
// path with its content so renames invalidate too.
func inputKey(root string, hasher ports.Hasher, source string, deps []string) (string, error) {
	parts := make([][]byte, 0, 2*(len(deps)+1))
	for _, rel := range append([]string{source}, deps...) {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, "failed to read input"), "path", rel)
		}
		parts = append(parts, []byte(rel), data)
	}
	return hasher.HashInputs(parts...), nil
}

// latestMtime returns the most recent modification time across the
// source and its dependencies. Content hashes drive change detection;
// the timestamp only feeds HTTP Last-Modified.
func latestMtime(root string, entry domain.Entry, deps []string) (time.Time, error) {
	latest, err := mtime(entry.Abs)
	if err != nil {
		return time.Time{}, zerr.With(err, "path", entry.Rel)
	}
	for _, rel := range deps {
		t, err := mtime(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return time.Time{}, zerr.With(err, "path", rel)
		}
		if t.After(latest) {
			latest = t
		}
	}
	return latest, nil
}

func mtime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, zerr.Wrap(err, "failed to stat input")
	}
	return info.ModTime().UTC().Truncate(time.Second), nil
}

// reduce is the single-threaded merge stage. Results are ordered by
// output path before insertion so the first-reported duplicate is the
// same on every run regardless of worker scheduling.
func reduce(algorithm string, results []*domain.Asset) (*domain.Manifest, error) {
	slices.SortFunc(results, func(a, b *domain.Asset) int {
		if c := strings.Compare(a.Path, b.Path); c != 0 {
			return c
		}
		return strings.Compare(a.Source, b.Source)
	})

	manifest := domain.NewManifest(algorithm)
	for _, a := range results {
		if err := manifest.Add(a); err != nil {
			return nil, err
		}
	}
	return manifest, nil
}
