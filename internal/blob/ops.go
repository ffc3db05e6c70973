package blob

import (
	"fmt"
	"os"

	"github.com/ioremap/blobnode/internal/index"
	"github.com/ioremap/blobnode/internal/logging"
	"github.com/ioremap/blobnode/internal/shared"
)

// Reply is what a READ produces for the dispatcher: either a fully
// inlined payload, or a descriptor asking the dispatcher to sendfile
// Size bytes at Offset from File, the zero-copy path. Exactly one of
// Payload or SendfileFile is set.
type Reply struct {
	Payload []byte

	SendfileFile   *os.File
	SendfileOffset int64
	SendfileSize   int64
}

// Write stores payload for id. size must equal
// len(payload); flags.HISTORY routes the payload into the history stream
// via the history-mutation protocol, otherwise it is appended to the
// data stream and, unless flags.NO_HISTORY_UPDATE is set, a synthetic
// history entry is appended for the same id.
func (b *Backend) Write(id shared.ObjectID, offset uint64, size uint64, flags shared.Flags, payload []byte) error {
	if size != uint64(len(payload)) {
		return fmt.Errorf("blob: %s: size %d does not match payload length %d: %w", id, size, len(payload), shared.ErrIO)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if flags.Has(shared.FlagHistory) {
		return b.writeHistory(id, payload)
	}

	stored, compressed := b.maybeCompress(payload)
	writeFlags := shared.Flags(0)
	if compressed {
		writeFlags |= shared.FlagCompressed
	}

	res, err := appendRecord(b.dataFile, b.dataOffset, id, writeFlags, stored, b.dataBlockSize)
	if err != nil {
		b.log.Log(logging.LevelError, "blob: %s: failed to write data: %v", id, err)
		return err
	}
	b.index.Replace(shared.MakeIndexKey(id, shared.StreamData), index.Entry{Offset: res.offset, Size: res.total})
	b.dataOffset += res.total

	b.log.Log(logging.LevelNotice, "blob: %s: written data: position: %d, size: %d, on-disk-size: %d.", id, res.offset, len(payload), res.total)

	if flags.Has(shared.FlagNoHistoryUpdate) {
		return nil
	}

	entry := shared.HistoryEntry{ID: id, Size: size, Offset: offset, Flags: flags}
	entryBytes, _ := entry.MarshalBinary()

	if err := b.writeHistory(id, entryBytes); err != nil {
		return err
	}

	b.log.Log(logging.LevelNotice, "blob: %s: IO offset: %d, size: %d.", id, offset, size)
	return nil
}

// Read returns id's stored payload, or the requested slice of it. If
// size == 0 the full stored payload is returned. wantSendfile asks for a
// sendfile descriptor back instead of inlined bytes, mirroring how
// attr->size drives the zero-copy decision in the original backend; Read
// only honors that when the record is not compressed, since a compressed
// record must be decoded before its true size and bytes are known.
func (b *Backend) Read(id shared.ObjectID, offset uint64, size uint64, flags shared.Flags, wantSendfile bool) (Reply, error) {
	key := shared.MakeIndexKey(id, tagFor(flags))

	b.mu.Lock()
	entry, ok := b.index.Lookup(key)
	f := b.streamFile(flags)
	b.mu.Unlock()

	if !ok {
		b.log.Log(logging.LevelError, "blob: %s: could not find data.", id)
		return Reply{}, shared.ErrNotFound
	}

	headerBuf := make([]byte, shared.HeaderSize)
	if _, err := f.ReadAt(headerBuf, int64(entry.Offset)); err != nil {
		return Reply{}, fmt.Errorf("blob: %s: failed to read record header: %v: %w", id, err, shared.ErrIO)
	}
	var hdr shared.RecordHeader
	if err := hdr.UnmarshalBinary(headerBuf); err != nil {
		return Reply{}, err
	}

	if wantSendfile && !hdr.Flags.Has(shared.FlagCompressed) {
		payloadLen := hdr.Size
		want := size
		if want == 0 {
			want = payloadLen
		}
		if offset+want > payloadLen {
			return Reply{}, shared.ErrRange
		}
		b.log.Log(logging.LevelNotice, "blob: %s: read: requested offset: %d, size: %d, stored-size: %d, data lives at: %d.", id, offset, want, entry.Size, entry.Offset)
		return Reply{
			SendfileFile:   f,
			SendfileOffset: int64(entry.Offset) + int64(shared.HeaderSize) + int64(offset),
			SendfileSize:   int64(want),
		}, nil
	}

	raw := make([]byte, hdr.Size)
	if _, err := f.ReadAt(raw, int64(entry.Offset)+int64(shared.HeaderSize)); err != nil {
		return Reply{}, fmt.Errorf("blob: %s: failed to read object data: %v: %w", id, err, shared.ErrIO)
	}

	payload, err := decompressIfNeeded(raw, hdr.Flags)
	if err != nil {
		return Reply{}, err
	}

	payloadLen := uint64(len(payload))
	want := size
	if want == 0 {
		want = payloadLen
	}
	if offset+want > payloadLen {
		return Reply{}, shared.ErrRange
	}

	return Reply{Payload: payload[offset : offset+want]}, nil
}

// Delete is deliberately unimplemented: the intended semantics are
// almost certainly to tombstone the current data and history records for
// id, but the original backend this was ported from never implemented it
// either. TODO: implement once tombstone-on-delete semantics are decided.
func (b *Backend) Delete(id shared.ObjectID) error {
	return shared.ErrUnsupported
}

func tagFor(flags shared.Flags) shared.StreamTag {
	if flags.Has(shared.FlagHistory) {
		return shared.StreamHistory
	}
	return shared.StreamData
}

func (b *Backend) streamFile(flags shared.Flags) *os.File {
	if flags.Has(shared.FlagHistory) {
		return b.historyFile
	}
	return b.dataFile
}
