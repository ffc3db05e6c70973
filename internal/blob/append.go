package blob

import (
	"fmt"
	"os"

	"github.com/ioremap/blobnode/internal/shared"
)

// stagingBufSize bounds each individual padding write, mirroring the
// original backend's fixed 40KiB blob_empty_buf.
const stagingBufSize = 40960

var zeroStagingBuf [stagingBufSize]byte

// writeAtRobust retries partial writes the way blob_write_low_level did
// around pwrite: a short write just advances the offset and continues,
// and any error is surfaced as shared.ErrIO without rolling anything
// back. The stream offset the caller tracks is left untouched by the
// caller on error, so the half-written bytes become unreachable garbage.
func writeAtRobust(f *os.File, data []byte, offset uint64) error {
	for len(data) > 0 {
		n, err := f.WriteAt(data, int64(offset))
		if n <= 0 {
			if err == nil {
				err = fmt.Errorf("zero-byte write")
			}
			return fmt.Errorf("blob: failed to write %d bytes at offset %d: %v: %w", len(data), offset, err, shared.ErrIO)
		}
		data = data[n:]
		offset += uint64(n)
	}
	return nil
}

// writePadding zero-fills the gap between the end of a record's payload
// and the next block boundary, in chunks bounded by the fixed staging
// buffer, exactly like the original loop over blob_empty_buf.
func writePadding(f *os.File, offset uint64, pad uint64) error {
	for pad > 0 {
		n := pad
		if n > stagingBufSize {
			n = stagingBufSize
		}
		if err := writeAtRobust(f, zeroStagingBuf[:n], offset); err != nil {
			return err
		}
		offset += n
		pad -= n
	}
	return nil
}

// appendResult describes where and how large a freshly appended record
// landed, for installing the corresponding index entry.
type appendResult struct {
	offset uint64 // byte offset of the record header
	total  uint64 // header + on-disk payload + padding
}

// appendRecord fixes the offset, writes the header, writes the payload,
// pads to blockSize if configured, and reports the total on-disk length.
// The caller must hold the backend's mutex and is responsible for
// installing the index entry and advancing the stream offset afterward,
// so that the whole sequence is observed atomically by readers.
func appendRecord(f *os.File, streamOffset uint64, id shared.ObjectID, flags shared.Flags, payload []byte, blockSize uint64) (appendResult, error) {
	offset := streamOffset

	header := shared.RecordHeader{ID: id, Flags: flags, Size: uint64(len(payload))}
	headerBytes, _ := header.MarshalBinary()

	if err := writeAtRobust(f, headerBytes, offset); err != nil {
		return appendResult{}, err
	}

	if err := writeAtRobust(f, payload, offset+shared.HeaderSize); err != nil {
		return appendResult{}, err
	}

	total := shared.HeaderSize + uint64(len(payload))

	if blockSize > 0 {
		pad := blockSize - (total % blockSize)
		if pad > 0 && pad < blockSize {
			if err := writePadding(f, offset+total, pad); err != nil {
				return appendResult{}, err
			}
			total += pad
		}
	}

	return appendResult{offset: offset, total: total}, nil
}

// tombstoneHeader rewrites only the header bytes of the record at offset
// so that FlagRemove is set, without touching the payload that follows.
func tombstoneHeader(f *os.File, offset uint64, header shared.RecordHeader) error {
	header.Flags |= shared.FlagRemove
	buf, _ := header.MarshalBinary()
	return writeAtRobust(f, buf, offset)
}
