package blob

import (
	"fmt"

	"github.com/ioremap/blobnode/internal/index"
	"github.com/ioremap/blobnode/internal/logging"
	"github.com/ioremap/blobnode/internal/shared"
)

// ProcessMeta is the external callback that drives the history-mutation
// protocol: given the bytes of the previous history record for an id
// (nil if there was none) and the newly supplied payload, it returns the
// bytes that should actually be appended. The enclosing framework owns
// the merge semantics; the identity implementation below just lets the
// new payload win outright.
type ProcessMeta func(old, newPayload []byte) ([]byte, error)

// IdentityProcessMeta discards old and returns newPayload unchanged.
func IdentityProcessMeta(_, newPayload []byte) ([]byte, error) {
	return newPayload, nil
}

// writeHistory implements the read-tombstone-append protocol: it reads
// and tombstones any existing history record for id, then appends the
// merged bytes as a new record. The caller must hold b.mu so the
// tombstone and the new append are observed atomically by readers.
func (b *Backend) writeHistory(id shared.ObjectID, payload []byte) error {
	key := shared.MakeIndexKey(id, shared.StreamHistory)

	var old []byte
	if entry, ok := b.index.Lookup(key); ok {
		raw := make([]byte, entry.Size)
		if _, err := b.historyFile.ReadAt(raw, int64(entry.Offset)); err != nil {
			return fmt.Errorf("blob: %s: failed to read existing history record: %v: %w", id, err, shared.ErrIO)
		}

		var hdr shared.RecordHeader
		if err := hdr.UnmarshalBinary(raw); err != nil {
			return err
		}
		old = raw[shared.HeaderSize : shared.HeaderSize+hdr.Size]

		if err := tombstoneHeader(b.historyFile, entry.Offset, hdr); err != nil {
			return fmt.Errorf("blob: %s: failed to tombstone existing history record: %w", id, err)
		}
	}

	merged, err := b.processMeta(old, payload)
	if err != nil {
		return fmt.Errorf("blob: %s: process_meta failed: %v: %w", id, err, shared.ErrResource)
	}

	// The on-disk record header itself carries no flags for a history
	// append, matching the original backend's disk_ctl.flags = 0; flags
	// only mattered for routing the request to this stream in the first
	// place. tombstoneHeader is what later sets FlagRemove on this header.
	res, err := appendRecord(b.historyFile, b.historyOffset, id, 0, merged, b.historyBlockSize)
	if err != nil {
		return err
	}

	b.index.Replace(key, index.Entry{Offset: res.offset, Size: res.total})
	b.historyOffset += res.total

	b.log.Log(logging.LevelNotice, "blob: %s: written history: position: %d, size: %d, on-disk-size: %d.", id, res.offset, len(merged), res.total)
	return nil
}
