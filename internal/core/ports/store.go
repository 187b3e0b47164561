package ports

import "go.trai.ch/baler/internal/core/domain"

// CompileCache stores preprocessor results between builds so unchanged
// sources can skip compilation.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type CompileCache interface {
	// Get retrieves the compile info for a given source path.
	// Returns nil, nil if not found.
	Get(source string) (*domain.CompileInfo, error)

	// Put stores the compile info.
	Put(info domain.CompileInfo) error

	// Object retrieves the compiled bytes stored under an output hash.
	// Returns nil, nil if not found.
	Object(outputHash string) ([]byte, error)

	// PutObject stores compiled bytes under their output hash.
	PutObject(outputHash string, data []byte) error
}
