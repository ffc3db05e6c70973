// Package config loads the node's YAML configuration file into the flat
// key/value map that internal/blob.Apply drives its ConfigEntries table
// from.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ioremap/blobnode/internal/shared"
)

// File is the top-level shape of a node's config file: one "blob" section
// holding the settings named by blob.ConfigEntries, plus the node-wide
// log level, which does not belong to the backend itself.
type File struct {
	Log  string            `yaml:"log"`
	Blob map[string]string `yaml:"blob"`
}

// Load reads and parses path. A missing "blob" section is not an error at
// this layer; blob.Apply is what rejects a config with no data/history
// path.
func Load(path string) (File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("config: failed to read %q: %v: %w", path, err, shared.ErrConfig)
	}

	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return File{}, fmt.Errorf("config: failed to parse %q: %v: %w", path, err, shared.ErrConfig)
	}
	if f.Blob == nil {
		f.Blob = map[string]string{}
	}
	return f, nil
}
