package shared

// Flags is the 64-bit bitfield carried by every record header and every
// WRITE/READ request, mirroring struct dnet_io_attr's flags field and
// struct blob_disk_control's flags field in the original backend.
type Flags uint64

const (
	// FlagRemove marks a record as tombstoned; it is never reachable
	// from the index and is skipped by rebuild iteration.
	FlagRemove Flags = 1 << iota

	// FlagHistory routes a WRITE/READ to the history stream instead of
	// the data stream.
	FlagHistory

	// FlagNoHistoryUpdate suppresses the synthetic history append that
	// normally follows a data-stream WRITE.
	FlagNoHistoryUpdate

	// FlagAppend marks a request as targeting an append-only log entry.
	FlagAppend

	// FlagMeta marks a request as carrying metadata rather than payload
	// bytes.
	FlagMeta

	// FlagCompressed marks a record's payload as s2-compressed on disk;
	// it has no equivalent flag in the original protocol and rides in an
	// otherwise-unused bit.
	FlagCompressed
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }
