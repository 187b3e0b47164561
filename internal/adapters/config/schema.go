package config

// Balerfile represents the structure of the baler.yaml configuration file.
type Balerfile struct {
	Version       string            `yaml:"version"`
	Root          string            `yaml:"root"`
	Out           string            `yaml:"out"`
	Package       string            `yaml:"package"`
	Index         string            `yaml:"index"`
	Hash          string            `yaml:"hash"`
	Encodings     []string          `yaml:"encodings"`
	Preprocess    map[string]string `yaml:"preprocess"`
	Ignore        []string          `yaml:"ignore"`
	Symlinks      string            `yaml:"symlinks"`
	RequireAssets *bool             `yaml:"require_assets"`
}
