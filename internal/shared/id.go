// Package shared holds the wire types and error taxonomy that the blob
// backend and the memory cache both build on: object identifiers, the
// on-disk record header, and the stream tag that tells data and history
// records apart.
package shared

import "encoding/hex"

// IDSize is the fixed length of an object identifier in bytes.
const IDSize = 20

// ObjectID is an opaque, fixed-length content-addressed key. Equality is
// byte-wise; ObjectID is comparable and safe to use as a map key.
type ObjectID [IDSize]byte

// String renders all IDSize bytes of the id as hex, for log lines.
func (id ObjectID) String() string {
	return hex.EncodeToString(id[:])
}

// StreamTag distinguishes the data stream (0) from the history stream (1)
// for a given object id. It is the second half of an index key.
type StreamTag byte

const (
	StreamData    StreamTag = 0
	StreamHistory StreamTag = 1
)

// IndexKeySize is the length of the key used by the shared index: the
// object id followed by a single stream-tag byte.
const IndexKeySize = IDSize + 1

// IndexKey is the concatenation id‖tag used to address the fixed-bucket
// hash table in internal/index.
type IndexKey [IndexKeySize]byte

// MakeIndexKey concatenates an id and a stream tag into an index key.
func MakeIndexKey(id ObjectID, tag StreamTag) IndexKey {
	var k IndexKey
	copy(k[:IDSize], id[:])
	k[IDSize] = byte(tag)
	return k
}
