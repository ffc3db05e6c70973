package blob

import (
	"fmt"

	"github.com/klauspost/compress/s2"

	"github.com/ioremap/blobnode/internal/shared"
)

// maybeCompress compresses payload with s2 when the backend is
// configured for compression and payload is not empty. It returns the bytes to store on disk and whether
// FlagCompressed should be set on the header.
//
// The original wire protocol has no compression bit of its own, so this
// rides in an otherwise-unused flag bit and is fully transparent to
// READ.
func (b *Backend) maybeCompress(payload []byte) ([]byte, bool) {
	if !b.compress || len(payload) == 0 {
		return payload, false
	}
	return s2.Encode(nil, payload), true
}

func decompressIfNeeded(payload []byte, flags shared.Flags) ([]byte, error) {
	if !flags.Has(shared.FlagCompressed) {
		return payload, nil
	}
	out, err := s2.Decode(nil, payload)
	if err != nil {
		return nil, fmt.Errorf("blob: failed to decompress payload: %w: %v", shared.ErrIO, err)
	}
	return out, nil
}
