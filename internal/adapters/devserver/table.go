// Package devserver serves a built manifest over HTTP for local
// development, rebuilding and atomically swapping the asset table when
// watched sources change.
package devserver

import (
	"go.trai.ch/baler/asset"
	"go.trai.ch/baler/internal/core/domain"
)

// TableFromManifest builds a runtime lookup table directly from a build
// manifest, bypassing the generated artifact entirely.
func TableFromManifest(m *domain.Manifest, index string) (*asset.Table, error) {
	files := make([]*asset.File, 0, m.Len())
	for a := range m.Assets() {
		files = append(files, asset.NewFile(a.Path, a.Data, asset.FileMeta{
			MIME:     a.MIME,
			Hash:     a.Hash,
			ModTime:  a.ModTime,
			Variants: a.Encodings,
		}))
	}
	return asset.NewTable(files, asset.WithIndex(index))
}
