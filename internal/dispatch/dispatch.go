// Package dispatch implements the single command entry point the core
// exposes: cmd/attr/io_attr framing in, a Reply out, backed by a
// node.Node.
package dispatch

import (
	"fmt"

	"github.com/ioremap/blobnode/internal/blob"
	"github.com/ioremap/blobnode/internal/node"
	"github.com/ioremap/blobnode/internal/shared"
)

// CommandCode is one of the five sub-commands the core answers.
type CommandCode int

const (
	CmdWrite CommandCode = iota
	CmdRead
	CmdDel
	CmdList
	CmdStat
)

// Command mirrors struct dnet_cmd: which sub-command to run and the
// pass-through flags attached to the request.
type Command struct {
	Cmd   CommandCode
	Flags shared.Flags
}

// Attr is the outer request attribute; WantSendfile asks Read to hand
// back a sendfile descriptor instead of inlined bytes when possible.
type Attr struct {
	Flags        shared.Flags
	WantSendfile bool
}

// IOAttr is the fixed-size header that precedes every request's payload,
// named io_attr in the original protocol: {origin_id, id, offset, size,
// flags, type}. OriginID and Type are carried through unmodified; the
// core itself only consults ID/Offset/Size/Flags.
type IOAttr struct {
	OriginID shared.ObjectID
	ID       shared.ObjectID
	Offset   uint64
	Size     uint64
	Flags    shared.Flags
	Type     uint32
}

// Reply is what Dispatch hands back to the caller: either inlined bytes
// or a sendfile descriptor, alongside the io_attr the caller should
// re-frame into the wire reply.
type Reply struct {
	IOAttr IOAttr
	blob.Reply
}

// Dispatch routes cmd to n, the way the original core's single entry
// point fanned WRITE/READ/DEL/LIST/STAT out to the blob backend. LIST and
// STAT have no core implementation and report ErrUnsupported; an unknown
// CommandCode does too.
func Dispatch(n *node.Node, cmd Command, attr Attr, io IOAttr, payload []byte) (Reply, error) {
	switch cmd.Cmd {
	case CmdWrite:
		if err := n.Write(io.ID, io.Offset, io.Size, io.Flags, payload); err != nil {
			return Reply{}, err
		}
		return Reply{IOAttr: io}, nil

	case CmdRead:
		r, err := n.Read(io.ID, io.Offset, io.Size, io.Flags, attr.WantSendfile)
		if err != nil {
			return Reply{}, err
		}
		out := io
		if r.Payload != nil {
			out.Size = uint64(len(r.Payload))
		} else {
			out.Size = uint64(r.SendfileSize)
		}
		return Reply{IOAttr: out, Reply: r}, nil

	case CmdDel:
		if err := n.Delete(io.ID); err != nil {
			return Reply{}, err
		}
		return Reply{IOAttr: io}, nil

	case CmdList, CmdStat:
		return Reply{}, shared.ErrUnsupported

	default:
		return Reply{}, fmt.Errorf("dispatch: unknown command %d: %w", cmd.Cmd, shared.ErrUnsupported)
	}
}
