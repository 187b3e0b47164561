package domain

const (
	// BalerDirName is the name of the internal workspace directory.
	BalerDirName = ".baler"

	// CacheFileName is the name of the compile cache manifest.
	CacheFileName = "cache.json"

	// ObjectsDirName is the name of the compiled object store directory.
	ObjectsDirName = "objects"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "baler.yaml"

	// GeneratedFileName is the name of the generated table source file.
	GeneratedFileName = "assets_gen.go"

	// FilesDirName is the name of the embedded payload directory inside the
	// output directory.
	FilesDirName = "files"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultBalerPath returns the default root directory for baler metadata.
func DefaultBalerPath() string {
	return BalerDirName
}
