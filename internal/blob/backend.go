// Package blob implements a durable append-only blob backend: two flat
// files (data and history), an in-memory index rebuilt at startup,
// tombstone-based deletion of history records, block-aligned padding,
// and a history-mutation protocol that rewrites a per-object append-only
// log in place.
package blob

import (
	"fmt"
	"os"
	"sync"

	"github.com/ioremap/blobnode/internal/index"
	"github.com/ioremap/blobnode/internal/logging"
	"github.com/ioremap/blobnode/internal/shared"
)

// Backend is a single blob backend instance: two file descriptors, one
// index, one mutex. Two Backend instances over different files are fully
// independent; nothing is shared as global state.
type Backend struct {
	mu sync.Mutex

	dataFile    *os.File
	historyFile *os.File

	dataOffset    uint64
	historyOffset uint64

	dataBlockSize    uint64
	historyBlockSize uint64

	index *index.Table

	log         logging.Sink
	compress    bool
	processMeta ProcessMeta
}

// Open creates or opens cfg's data and history files, rebuilds the index
// from their existing contents, and returns a ready Backend. It fails
// with shared.ErrConfig if either path is missing from cfg or cannot be
// opened.
func Open(cfg Config, log logging.Sink) (*Backend, error) {
	if log == nil {
		log = logging.Discard{}
	}
	if cfg.DataPath == "" || cfg.HistoryPath == "" {
		return nil, fmt.Errorf("blob: no data/history file present: %w", shared.ErrConfig)
	}

	dataFile, dataOffset, err := openStream(cfg.DataPath)
	if err != nil {
		return nil, err
	}
	historyFile, historyOffset, err := openStream(cfg.HistoryPath)
	if err != nil {
		dataFile.Close()
		return nil, err
	}

	b := &Backend{
		dataFile:         dataFile,
		historyFile:      historyFile,
		dataOffset:       dataOffset,
		historyOffset:    historyOffset,
		dataBlockSize:    cfg.DataBlockSize,
		historyBlockSize: cfg.HistoryBlockSize,
		index:            index.New(cfg.HashTableSize, cfg.HashTableFlags),
		log:              log,
		compress:         cfg.Compression,
		processMeta:      IdentityProcessMeta,
	}

	if err := b.rebuild(); err != nil {
		dataFile.Close()
		historyFile.Close()
		return nil, err
	}

	adviseRandom(dataFile)
	adviseRandom(historyFile)

	return b, nil
}

func openStream(path string) (*os.File, uint64, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, 0, fmt.Errorf("blob: failed to open %q: %v: %w", path, err, shared.ErrConfig)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("blob: failed to stat %q: %v: %w", path, err, shared.ErrConfig)
	}
	adviseSequential(f)
	return f, uint64(info.Size()), nil
}

// Close releases the backend's two file descriptors.
func (b *Backend) Close() error {
	err1 := b.dataFile.Close()
	err2 := b.historyFile.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// SetProcessMeta overrides the identity default with an
// application-supplied merge callback for history writes.
func (b *Backend) SetProcessMeta(fn ProcessMeta) {
	if fn == nil {
		fn = IdentityProcessMeta
	}
	b.processMeta = fn
}
