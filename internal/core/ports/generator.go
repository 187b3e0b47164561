package ports

import "go.trai.ch/baler/internal/core/domain"

// Generator renders a manifest into on-disk build artifacts.
//
//go:generate mockgen -source=generator.go -destination=mocks/mock_generator.go -package=mocks
type Generator interface {
	// Generate writes the artifacts for the manifest under the configured
	// output directory. Identical manifests produce byte-identical
	// artifacts; files whose content is unchanged are not rewritten.
	Generate(cfg *domain.Config, manifest *domain.Manifest) error
}
