package domain

import "go.trai.ch/zerr"

var (
	// ErrScan is returned when the source tree cannot be walked.
	ErrScan = zerr.New("scan failed")

	// ErrSymlink is returned when a symbolic link violates the configured policy.
	ErrSymlink = zerr.New("symlink not allowed")

	// ErrCompile is returned when a preprocessor rejects a source file.
	ErrCompile = zerr.New("compile failed")

	// ErrDuplicateAsset is returned when two source files map to the same asset path.
	ErrDuplicateAsset = zerr.New("duplicate asset path")

	// ErrGenerate is returned when the generator cannot produce a valid artifact.
	ErrGenerate = zerr.New("generation failed")

	// ErrConfigNotFound is returned when no configuration file exists in the working directory.
	ErrConfigNotFound = zerr.New("configuration not found")

	// ErrConfigInvalid is returned when the configuration fails validation.
	ErrConfigInvalid = zerr.New("invalid configuration")
)
