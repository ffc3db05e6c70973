package index_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ioremap/blobnode/internal/index"
	"github.com/ioremap/blobnode/internal/shared"
)

func idKey(b byte, tag shared.StreamTag) shared.IndexKey {
	var id shared.ObjectID
	id[0] = b
	return shared.MakeIndexKey(id, tag)
}

func TestTableReplaceLookup(t *testing.T) {
	tbl := index.New(8, 0)

	key := idKey(1, shared.StreamData)
	_, ok := tbl.Lookup(key)
	require.False(t, ok)

	tbl.Replace(key, index.Entry{Offset: 0, Size: 64})
	got, ok := tbl.Lookup(key)
	require.True(t, ok)
	require.Equal(t, index.Entry{Offset: 0, Size: 64}, got)

	// Replace supersedes the prior entry rather than appending.
	tbl.Replace(key, index.Entry{Offset: 64, Size: 128})
	got, ok = tbl.Lookup(key)
	require.True(t, ok)
	require.Equal(t, index.Entry{Offset: 64, Size: 128}, got)
	require.Equal(t, 1, tbl.Len())
}

func TestTableDataAndHistoryAreIndependentKeys(t *testing.T) {
	tbl := index.New(8, 0)
	var id shared.ObjectID
	id[0] = 7

	dataKey := shared.MakeIndexKey(id, shared.StreamData)
	histKey := shared.MakeIndexKey(id, shared.StreamHistory)

	tbl.Replace(dataKey, index.Entry{Offset: 10, Size: 20})
	tbl.Replace(histKey, index.Entry{Offset: 30, Size: 40})

	d, ok := tbl.Lookup(dataKey)
	require.True(t, ok)
	require.Equal(t, uint64(10), d.Offset)

	h, ok := tbl.Lookup(histKey)
	require.True(t, ok)
	require.Equal(t, uint64(30), h.Offset)
}

func TestTableDelete(t *testing.T) {
	tbl := index.New(4, 0)
	key := idKey(3, shared.StreamData)
	tbl.Replace(key, index.Entry{Offset: 1, Size: 1})
	tbl.Delete(key)
	_, ok := tbl.Lookup(key)
	require.False(t, ok)
}

func TestTableHandlesCollisions(t *testing.T) {
	// A single-bucket table forces every key into the same chain.
	tbl := index.New(1, 0)
	for i := 0; i < 50; i++ {
		key := idKey(byte(i), shared.StreamData)
		tbl.Replace(key, index.Entry{Offset: uint64(i), Size: 1})
	}
	require.Equal(t, 50, tbl.Len())
	for i := 0; i < 50; i++ {
		key := idKey(byte(i), shared.StreamData)
		got, ok := tbl.Lookup(key)
		require.True(t, ok)
		require.Equal(t, uint64(i), got.Offset)
	}
}
