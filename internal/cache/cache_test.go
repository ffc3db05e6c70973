package cache_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ioremap/blobnode/internal/cache"
	"github.com/ioremap/blobnode/internal/shared"
)

func TestWriteReadRoundTrip(t *testing.T) {
	c := cache.New()
	var id shared.ObjectID
	id[0] = 0xbb

	c.Write(id, []byte("hello"))

	buf, err := c.Read(id)
	require.NoError(t, err)
	defer buf.Release()
	require.Equal(t, []byte("hello"), buf.Bytes())
}

func TestReadMissingIsNotFound(t *testing.T) {
	c := cache.New()
	var id shared.ObjectID
	_, err := c.Read(id)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSecondWriteSupersedesFirst(t *testing.T) {
	c := cache.New()
	var id shared.ObjectID
	id[0] = 1

	c.Write(id, []byte("v1"))
	c.Write(id, []byte("v2"))

	buf, err := c.Read(id)
	require.NoError(t, err)
	defer buf.Release()
	require.Equal(t, []byte("v2"), buf.Bytes())
}

// TestOutstandingReadersSurviveRemove writes a 4KiB buffer, spawns 8
// parallel readers, removes the entry, and confirms every reader still
// sees the original bytes.
func TestOutstandingReadersSurviveRemove(t *testing.T) {
	c := cache.New()
	var id shared.ObjectID
	id[0] = 0xbb

	want := make([]byte, 4096)
	for i := range want {
		want[i] = byte(i)
	}
	c.Write(id, want)

	const readers = 8
	bufs := make([]*cache.Buffer, readers)
	var wg sync.WaitGroup
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func(i int) {
			defer wg.Done()
			buf, err := c.Read(id)
			require.NoError(t, err)
			bufs[i] = buf
		}(i)
	}
	wg.Wait()

	c.Remove(id)

	_, err := c.Read(id)
	require.ErrorIs(t, err, shared.ErrNotFound)

	for _, buf := range bufs {
		require.Equal(t, want, buf.Bytes())
		buf.Release()
	}
}

func TestWriteMutatingCallerSliceDoesNotAffectCache(t *testing.T) {
	c := cache.New()
	var id shared.ObjectID
	src := []byte("original")
	c.Write(id, src)
	src[0] = 'X'

	buf, err := c.Read(id)
	require.NoError(t, err)
	defer buf.Release()
	require.Equal(t, []byte("original"), buf.Bytes())
}
