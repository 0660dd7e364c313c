// Package config loads the optional teachlang.yaml project file: the
// handful of knobs that govern a run without belonging in the language
// itself (recursion depth, where import resolves relative paths from).
package config

import (
	"os"

	"github.com/goccy/go-yaml"
)

// Config holds the settings read from a project's teachlang.yaml.
// Zero values mean "use the interpreter's built-in default".
type Config struct {
	// MaxCallDepth overrides the interpreter's recursion limit.
	MaxCallDepth int `yaml:"max_call_depth"`

	// ImportPaths lists extra directories searched for a non-absolute
	// import path, checked in order after the working directory and the
	// importing file's own directory.
	ImportPaths []string `yaml:"import_paths"`
}

// Load reads and parses path. A missing file is not an error: it
// returns the zero Config, so callers can unconditionally call Load on
// a well-known default path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
