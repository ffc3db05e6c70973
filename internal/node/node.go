// Package node wires the durable blob backend and the in-memory cache
// sitting in front of it behind one facade, so a caller has a single
// place to send WRITE/READ/DEL requests to.
package node

import (
	"github.com/ioremap/blobnode/internal/blob"
	"github.com/ioremap/blobnode/internal/cache"
	"github.com/ioremap/blobnode/internal/logging"
	"github.com/ioremap/blobnode/internal/shared"
)

// Node owns one blob.Backend and one cache.Cache.
type Node struct {
	backend *blob.Backend
	cache   *cache.Cache
	log     logging.Sink
}

// Open opens the backend at cfg and returns a ready Node.
func Open(cfg blob.Config, log logging.Sink) (*Node, error) {
	if log == nil {
		log = logging.Discard{}
	}
	b, err := blob.Open(cfg, log)
	if err != nil {
		return nil, err
	}
	return &Node{backend: b, cache: cache.New(), log: log}, nil
}

// Close releases the backend's file descriptors. The cache holds no
// resources of its own and needs no explicit teardown.
func (n *Node) Close() error {
	return n.backend.Close()
}

// Write stores payload in the backend and, for a plain data-stream write,
// refreshes the cache entry for id so a following Read sees it without
// touching disk.
func (n *Node) Write(id shared.ObjectID, offset, size uint64, flags shared.Flags, payload []byte) error {
	if err := n.backend.Write(id, offset, size, flags, payload); err != nil {
		return err
	}
	if !flags.Has(shared.FlagHistory) {
		n.cache.Write(id, payload)
	}
	return nil
}

// Read serves id from the cache when possible and falls through to the
// backend on a miss, populating the cache from the resulting bytes. A
// history-stream read or a sendfile request always goes straight to the
// backend: history entries are never cached, and a cached buffer cannot
// be handed to a caller expecting a file descriptor. The cache is only
// populated from a full, unranged read (offset 0, whole payload), never
// from a partial one -- caching a truncated slice under id's key would
// make a later full read return the truncated bytes instead of the
// complete value.
func (n *Node) Read(id shared.ObjectID, offset, size uint64, flags shared.Flags, wantSendfile bool) (blob.Reply, error) {
	if !flags.Has(shared.FlagHistory) && !wantSendfile {
		if buf, err := n.cache.Read(id); err == nil {
			defer buf.Release()
			data := buf.Bytes()
			want := size
			if want == 0 {
				want = uint64(len(data))
			}
			if offset+want > uint64(len(data)) {
				return blob.Reply{}, shared.ErrRange
			}
			out := make([]byte, want)
			copy(out, data[offset:offset+want])
			return blob.Reply{Payload: out}, nil
		}
	}

	reply, err := n.backend.Read(id, offset, size, flags, wantSendfile)
	if err != nil {
		return blob.Reply{}, err
	}
	if !flags.Has(shared.FlagHistory) && reply.Payload != nil && offset == 0 && size == 0 {
		n.cache.Write(id, reply.Payload)
	}
	return reply, nil
}

// Delete removes id's cache entry and forwards to the backend, which
// currently always reports shared.ErrUnsupported.
func (n *Node) Delete(id shared.ObjectID) error {
	n.cache.Remove(id)
	return n.backend.Delete(id)
}
