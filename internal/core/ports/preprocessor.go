package ports

import "go.trai.ch/baler/internal/core/domain"

//go:generate mockgen -source=preprocessor.go -destination=mocks/mock_preprocessor.go -package=mocks

// CompileResult is the output of one preprocessor run.
type CompileResult struct {
	// Output is the compiled asset content.
	Output []byte

	// Deps lists the scan-relative paths read during compilation, sorted
	// and without duplicates. It includes every resolved import but never
	// the entry itself.
	Deps []string
}

// Preprocessor compiles a source entry into an emitted asset.
type Preprocessor interface {
	// Compile processes the entry. The root is the absolute scan root used
	// to resolve imports. Compilation is pure per (root, entry, file
	// contents) and must produce identical bytes for identical inputs.
	Compile(root string, entry domain.Entry) (*CompileResult, error)

	// OutputPath maps a source path to the path the compiled asset is
	// emitted under.
	OutputPath(source string) string
}
