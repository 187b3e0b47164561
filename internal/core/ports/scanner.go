// Package ports defines the interfaces between the core and the adapters.
package ports

import (
	"iter"

	"go.trai.ch/baler/internal/core/domain"
)

// Scanner walks a source tree and yields classified entries.
//
//go:generate mockgen -source=scanner.go -destination=mocks/mock_scanner.go -package=mocks
type Scanner interface {
	// Scan returns an iterator over the files under root, in deterministic
	// lexicographic order. The iterator yields at most one error, then stops.
	Scan(root string, rules domain.ScanRules) iter.Seq2[domain.Entry, error]
}
