package shared

import (
	"encoding/binary"
	"fmt"
)

// byteOrder is the fixed external byte order every on-disk integer is
// stored in; conversion happens at read and at write, exactly as the
// original backend's dnet_convert_* helpers did.
var byteOrder = binary.BigEndian

// HeaderSize is the packed, wire size of a RecordHeader.
const HeaderSize = IDSize + 8 + 8 // id + flags + size

// RecordHeader is the fixed header that precedes every on-disk record's
// payload.
type RecordHeader struct {
	ID    ObjectID
	Flags Flags
	Size  uint64 // payload size in bytes, excluding the header
}

// MarshalBinary encodes the header in the fixed external byte order.
func (h RecordHeader) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	copy(buf[:IDSize], h.ID[:])
	byteOrder.PutUint64(buf[IDSize:IDSize+8], uint64(h.Flags))
	byteOrder.PutUint64(buf[IDSize+8:], h.Size)
	return buf, nil
}

// UnmarshalBinary decodes a header previously produced by MarshalBinary.
func (h *RecordHeader) UnmarshalBinary(buf []byte) error {
	if len(buf) < HeaderSize {
		return fmt.Errorf("shared: short record header (%d bytes, want %d): %w", len(buf), HeaderSize, ErrIO)
	}
	copy(h.ID[:], buf[:IDSize])
	h.Flags = Flags(byteOrder.Uint64(buf[IDSize : IDSize+8]))
	h.Size = byteOrder.Uint64(buf[IDSize+8:])
	return nil
}

// HistoryEntrySize is the packed, wire size of a HistoryEntry.
const HistoryEntrySize = IDSize + 8 + 8 + 8 // id + size + offset + flags

// HistoryEntry is the synthetic, fixed-length record appended to the
// history stream after every data-stream WRITE that does not set
// FlagNoHistoryUpdate.
type HistoryEntry struct {
	ID     ObjectID
	Size   uint64
	Offset uint64
	Flags  Flags
}

// MarshalBinary encodes the entry in the fixed external byte order.
func (e HistoryEntry) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HistoryEntrySize)
	copy(buf[:IDSize], e.ID[:])
	byteOrder.PutUint64(buf[IDSize:IDSize+8], e.Size)
	byteOrder.PutUint64(buf[IDSize+8:IDSize+16], e.Offset)
	byteOrder.PutUint64(buf[IDSize+16:], uint64(e.Flags))
	return buf, nil
}

// UnmarshalBinary decodes an entry previously produced by MarshalBinary.
func (e *HistoryEntry) UnmarshalBinary(buf []byte) error {
	if len(buf) < HistoryEntrySize {
		return fmt.Errorf("shared: short history entry (%d bytes, want %d): %w", len(buf), HistoryEntrySize, ErrIO)
	}
	copy(e.ID[:], buf[:IDSize])
	e.Size = byteOrder.Uint64(buf[IDSize : IDSize+8])
	e.Offset = byteOrder.Uint64(buf[IDSize+8 : IDSize+16])
	e.Flags = Flags(byteOrder.Uint64(buf[IDSize+16:]))
	return nil
}

// PaddedSize returns the total on-disk length (header + payload +
// zero padding) for a record of the given payload size, once aligned to
// blockSize. blockSize == 0 disables padding.
func PaddedSize(payloadSize uint64, blockSize uint64) uint64 {
	total := HeaderSize + payloadSize
	if blockSize == 0 {
		return total
	}
	pad := blockSize - (total % blockSize)
	if pad == blockSize {
		return total
	}
	return total + pad
}
