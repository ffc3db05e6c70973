package blob

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ioremap/blobnode/internal/index"
	"github.com/ioremap/blobnode/internal/logging"
	"github.com/ioremap/blobnode/internal/shared"
)

// iterateStream walks f from offset 0 in on-disk order, honoring
// blockSize padding, and calls visit for every record header, the file
// position of that header, and the record's total on-disk length
// (header + payload + padding). It mirrors blob_iterate's contract: an
// external iterator returning (header, payload_ptr, position) tuples.
func iterateStream(f *os.File, blockSize uint64, visit func(hdr shared.RecordHeader, position uint64, total uint64) error) error {
	var pos uint64
	headerBuf := make([]byte, shared.HeaderSize)

	for {
		n, err := f.ReadAt(headerBuf, int64(pos))
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("blob: failed to read record header at %d: %v: %w", pos, err, shared.ErrIO)
		}
		if n == 0 {
			return nil
		}
		if n < shared.HeaderSize {
			// Trailing garbage shorter than a header; nothing more to
			// recover from this stream.
			return nil
		}

		var hdr shared.RecordHeader
		if err := hdr.UnmarshalBinary(headerBuf); err != nil {
			return err
		}

		total := shared.PaddedSize(hdr.Size, blockSize)

		if err := visit(hdr, pos, total); err != nil {
			return err
		}

		pos += total
	}
}

// rebuild reconstructs the index from the existing contents of the data
// and history files. Data is iterated first, then history; within each
// stream, on-disk order guarantees the last surviving record for any key
// is encountered last and wins, since the append protocol always
// tombstones the prior history record before appending its successor.
func (b *Backend) rebuild() error {
	if err := b.rebuildStream(b.dataFile, b.dataBlockSize, shared.StreamData); err != nil {
		return fmt.Errorf("blob: data iteration failed: %w", err)
	}
	if err := b.rebuildStream(b.historyFile, b.historyBlockSize, shared.StreamHistory); err != nil {
		return fmt.Errorf("blob: history iteration failed: %w", err)
	}
	return nil
}

func (b *Backend) rebuildStream(f *os.File, blockSize uint64, tag shared.StreamTag) error {
	return iterateStream(f, blockSize, func(hdr shared.RecordHeader, position uint64, total uint64) error {
		b.log.Log(logging.LevelInfo, "blob: %s (tag: %d): position: %d, size: %d, flags: %#x.", hdr.ID, tag, position, hdr.Size, hdr.Flags)

		if hdr.Flags.Has(shared.FlagRemove) {
			return nil
		}

		b.index.Replace(shared.MakeIndexKey(hdr.ID, tag), index.Entry{Offset: position, Size: total})
		return nil
	})
}
