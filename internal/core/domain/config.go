package domain

// Config is the validated project configuration.
type Config struct {
	// Dir is the directory containing the configuration file. All relative
	// paths below resolve against it.
	Dir string

	// Root is the asset source directory.
	Root string

	// Out is the output directory for generated artifacts.
	Out string

	// Package is the package name of the generated source file.
	Package string

	// Index is the file name a directory-style lookup resolves to.
	Index string

	// Hash names the content hash algorithm.
	Hash string

	// Encodings lists the precompressed variants to build, in the order
	// they are preferred when a client accepts several.
	Encodings []string

	// Rules configures the source tree scan.
	Rules ScanRules

	// RequireAssets makes an empty manifest a generation error.
	RequireAssets bool
}
