package tcp

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"sync"
	"time"

	"github.com/dungph/yanet-go/codec"
	"github.com/dungph/yanet-go/core"
)

// zeroTime clears a previously set read/write deadline.
var zeroTime time.Time

// channel frames a net.Conn with a 4-byte big-endian length prefix per
// message, the same scheme transport.TCPTransport used for Tox relay
// packets, generalized to arbitrary opaque frames.
type channel struct {
	conn        net.Conn
	isInitiator bool
	readMu      sync.Mutex
	writeMu     sync.Mutex
}

func newChannel(conn net.Conn, isInitiator bool) *channel {
	return &channel{conn: conn, isInitiator: isInitiator}
}

func (c *channel) IsInitiator() bool { return c.isInitiator }

// Close tears down the underlying connection. A peer blocked in Recv
// observes this as core.ErrChannelClosed.
func (c *channel) Close() error { return c.conn.Close() }

// wrapErr translates a raw net.Conn error into a core.ChannelError carrying
// the operation and peer address, with io.EOF/io.ErrClosedPipe normalized
// to core.ErrChannelClosed so callers can errors.Is against one sentinel
// regardless of the underlying OS error text.
func (c *channel) wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if err == io.EOF || err == io.ErrClosedPipe || err == io.ErrUnexpectedEOF {
		err = core.ErrChannelClosed
	}
	peer := ""
	if a := c.conn.RemoteAddr(); a != nil {
		peer = a.String()
	}
	return &core.ChannelError{Op: op, Peer: peer, Err: err}
}

func (c *channel) Send(ctx context.Context, frame core.Frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if dl, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(dl)
	} else {
		_ = c.conn.SetWriteDeadline(zeroTime)
	}

	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(frame)))
	if _, err := c.conn.Write(header[:]); err != nil {
		return c.wrapErr("send", err)
	}
	if len(frame) == 0 {
		return nil
	}
	_, err := c.conn.Write(frame)
	return c.wrapErr("send", err)
}

func (c *channel) Recv(ctx context.Context) (core.Frame, error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	if dl, ok := ctx.Deadline(); ok {
		_ = c.conn.SetReadDeadline(dl)
	} else {
		_ = c.conn.SetReadDeadline(zeroTime)
	}

	var header [4]byte
	if _, err := io.ReadFull(c.conn, header[:]); err != nil {
		return nil, c.wrapErr("recv", err)
	}
	length := binary.BigEndian.Uint32(header[:])
	if length > codec.MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	if length == 0 {
		return core.Frame{}, nil
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(c.conn, buf); err != nil {
		return nil, c.wrapErr("recv", err)
	}
	return core.Frame(buf), nil
}

var _ core.Channel = (*channel)(nil)
