package dispatch

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ioremap/blobnode/internal/blob"
	"github.com/ioremap/blobnode/internal/node"
	"github.com/ioremap/blobnode/internal/shared"
)

func openTestNode(t *testing.T) *node.Node {
	t.Helper()
	dir := t.TempDir()
	n, err := node.Open(blob.Config{
		DataPath:      filepath.Join(dir, "data"),
		HistoryPath:   filepath.Join(dir, "history"),
		HashTableSize: 16,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { n.Close() })
	return n
}

func TestDispatchWriteThenRead(t *testing.T) {
	n := openTestNode(t)

	var id shared.ObjectID
	id[0] = 0x21
	payload := []byte("dispatched")

	_, err := Dispatch(n, Command{Cmd: CmdWrite}, Attr{}, IOAttr{ID: id, Size: uint64(len(payload)), Flags: shared.FlagNoHistoryUpdate}, payload)
	require.NoError(t, err)

	reply, err := Dispatch(n, Command{Cmd: CmdRead}, Attr{}, IOAttr{ID: id}, nil)
	require.NoError(t, err)
	require.Equal(t, payload, reply.Payload)
	require.EqualValues(t, len(payload), reply.IOAttr.Size)
}

func TestDispatchListAndStatAreUnsupported(t *testing.T) {
	n := openTestNode(t)

	_, err := Dispatch(n, Command{Cmd: CmdList}, Attr{}, IOAttr{}, nil)
	require.ErrorIs(t, err, shared.ErrUnsupported)

	_, err = Dispatch(n, Command{Cmd: CmdStat}, Attr{}, IOAttr{}, nil)
	require.ErrorIs(t, err, shared.ErrUnsupported)
}

func TestDispatchDeleteIsUnsupported(t *testing.T) {
	n := openTestNode(t)
	var id shared.ObjectID
	id[0] = 0x22

	_, err := Dispatch(n, Command{Cmd: CmdDel}, Attr{}, IOAttr{ID: id}, nil)
	require.ErrorIs(t, err, shared.ErrUnsupported)
}

func TestDispatchUnknownCommand(t *testing.T) {
	n := openTestNode(t)
	_, err := Dispatch(n, Command{Cmd: CommandCode(99)}, Attr{}, IOAttr{}, nil)
	require.ErrorIs(t, err, shared.ErrUnsupported)
}
