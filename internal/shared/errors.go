package shared

import "errors"

// The core never aborts the process; every failure is one of these
// sentinels, propagated as a normal Go error and translated to a
// protocol status by the dispatcher.
var (
	// ErrNotFound is an index lookup miss or a cache miss.
	ErrNotFound = errors.New("blobnode: not found")

	// ErrRange is a read whose offset+size exceeds the record's payload.
	ErrRange = errors.New("blobnode: range")

	// ErrIO is any underlying pwrite/pread failure, a record header or
	// payload that cannot be decoded, or a WRITE whose size does not match
	// its payload length. The stream offset is left unchanged; the
	// half-written bytes, if any, become garbage.
	ErrIO = errors.New("blobnode: io")

	// ErrResource is an allocation failure during history rewrite.
	ErrResource = errors.New("blobnode: resource")

	// ErrUnsupported covers DELETE on the blob backend, LIST on the blob
	// backend, and any unrecognized sub-command.
	ErrUnsupported = errors.New("blobnode: unsupported")

	// ErrConfig is a missing mandatory file at init, a failed file open,
	// or a failed index/mutex init.
	ErrConfig = errors.New("blobnode: config")
)
