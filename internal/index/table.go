// Package index implements the fixed-bucket chained hash table that the
// blob backend uses to map an (id, stream-tag) key to the offset and
// on-disk size of the most recently written record for that key.
//
// The table mirrors dnet_hash_replace/dnet_hash_lookup from the original
// backend: sizing is fixed at init via hash_table_size, the table is
// never resized, and it does not need to preserve insertion order. Bucket
// selection uses murmur3, an external fixed hash rather than Go's
// built-in map hashing, to spread keys across buckets.
package index

import (
	"github.com/spaolacci/murmur3"

	"github.com/ioremap/blobnode/internal/shared"
)

// DefaultSize is used when a caller does not configure hash_table_size,
// matching DNET_BLOB_DEFAULT_HASH_SIZE's role in the original backend
// (there sized in bytes; here sized in buckets, since Go's runtime map
// bucket layout is opaque and this table replaces it directly).
const DefaultSize = 1 << 16

// Entry is the value half of an index record: the byte offset of the
// record's header in its file, and the record's total on-disk length
// including header and padding.
type Entry struct {
	Offset uint64
	Size   uint64
}

type node struct {
	key   shared.IndexKey
	value Entry
	next  *node
}

// Table is a fixed-bucket chained hash table keyed by shared.IndexKey.
// It carries no lock of its own; it is a pure data structure owned and
// serialized by the blob backend's mutex.
type Table struct {
	buckets []*node
	flags   uint32
}

// New allocates a table with the given number of buckets. size <= 0
// falls back to DefaultSize. flags is opaque, mirroring hash_table_flags
// in the original config surface; it is stored but not interpreted.
func New(size int, flags uint32) *Table {
	if size <= 0 {
		size = DefaultSize
	}
	return &Table{
		buckets: make([]*node, size),
		flags:   flags,
	}
}

func (t *Table) bucketFor(key shared.IndexKey) int {
	sum := murmur3.Sum64(key[:])
	return int(sum % uint64(len(t.buckets)))
}

// Replace installs value under key, replacing any prior entry for that
// key: at most one entry per key, pointing at the most recent record.
func (t *Table) Replace(key shared.IndexKey, value Entry) {
	idx := t.bucketFor(key)
	for n := t.buckets[idx]; n != nil; n = n.next {
		if n.key == key {
			n.value = value
			return
		}
	}
	t.buckets[idx] = &node{key: key, value: value, next: t.buckets[idx]}
}

// Lookup returns the entry for key, or ok=false if the key is absent.
func (t *Table) Lookup(key shared.IndexKey) (Entry, bool) {
	idx := t.bucketFor(key)
	for n := t.buckets[idx]; n != nil; n = n.next {
		if n.key == key {
			return n.value, true
		}
	}
	return Entry{}, false
}

// Delete removes the entry for key, if any.
func (t *Table) Delete(key shared.IndexKey) {
	idx := t.bucketFor(key)
	var prev *node
	for n := t.buckets[idx]; n != nil; n = n.next {
		if n.key == key {
			if prev == nil {
				t.buckets[idx] = n.next
			} else {
				prev.next = n.next
			}
			return
		}
		prev = n
	}
}

// Len walks every bucket and counts entries. It is meant for tests and
// diagnostics, not the request path.
func (t *Table) Len() int {
	n := 0
	for _, head := range t.buckets {
		for cur := head; cur != nil; cur = cur.next {
			n++
		}
	}
	return n
}

// Table intentionally carries no per-bucket striping. Per-bucket locking
// appears as a disabled alternative in the original backend's source but
// is not required here: the blob backend already serializes all index
// access under its own single mutex.
