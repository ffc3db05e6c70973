package blob

import (
	"fmt"
	"strconv"

	"github.com/ioremap/blobnode/internal/shared"
)

// Config carries the recognized options: the two file paths, the two
// block sizes, the index sizing/flags, the reserved sync knob, and the
// optional payload compression toggle.
type Config struct {
	DataPath         string
	HistoryPath      string
	DataBlockSize    uint64
	HistoryBlockSize uint64
	HashTableSize    int
	HashTableFlags   uint32

	// Sync is parsed but has no effect on correctness; it is reserved in
	// the original backend too.
	Sync bool

	// Compression enables s2 compression of record payloads.
	Compression bool
}

// entry pairs a config key with the setter that applies it, mirroring
// struct dnet_config_entry / dnet_cfg_entries_blobsystem in the original
// backend.
type entry struct {
	Key string
	Set func(*Config, string) error
}

// ConfigEntries is the recognized configuration surface. An external
// loader (internal/config in this repo) drives it from a tokenized
// config file, the same way dnet's config loader drove
// dnet_cfg_entries_blobsystem from libdnet's ini-style files.
var ConfigEntries = []entry{
	{"data", func(c *Config, v string) error { c.DataPath = v; return nil }},
	{"history", func(c *Config, v string) error { c.HistoryPath = v; return nil }},
	{"data_block_size", func(c *Config, v string) error { return setUint(&c.DataBlockSize, v) }},
	{"history_block_size", func(c *Config, v string) error { return setUint(&c.HistoryBlockSize, v) }},
	{"hash_table_size", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("blob: invalid hash_table_size %q: %v: %w", v, err, shared.ErrConfig)
		}
		c.HashTableSize = n
		return nil
	}},
	{"hash_table_flags", func(c *Config, v string) error {
		n, err := strconv.ParseUint(v, 0, 32)
		if err != nil {
			return fmt.Errorf("blob: invalid hash_table_flags %q: %v: %w", v, err, shared.ErrConfig)
		}
		c.HashTableFlags = uint32(n)
		return nil
	}},
	{"sync", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("blob: invalid sync %q: %v: %w", v, err, shared.ErrConfig)
		}
		c.Sync = n != 0
		return nil
	}},
	{"compression", func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("blob: invalid compression %q: %v: %w", v, err, shared.ErrConfig)
		}
		c.Compression = b
		return nil
	}},
}

func setUint(dst *uint64, v string) error {
	n, err := strconv.ParseUint(v, 0, 64)
	if err != nil {
		return fmt.Errorf("blob: invalid block size %q: %v: %w", v, err, shared.ErrConfig)
	}
	*dst = n
	return nil
}

// Apply drives ConfigEntries from a raw key/value map, the same shape
// internal/config produces after tokenizing a YAML file.
func Apply(cfg *Config, raw map[string]string) error {
	for _, e := range ConfigEntries {
		v, ok := raw[e.Key]
		if !ok {
			continue
		}
		if err := e.Set(cfg, v); err != nil {
			return err
		}
	}
	if cfg.DataPath == "" || cfg.HistoryPath == "" {
		return fmt.Errorf("blob: no data/history file present: %w", shared.ErrConfig)
	}
	return nil
}
