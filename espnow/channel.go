package espnow

import (
	"bytes"
	"context"
	"time"

	"github.com/dungph/yanet-go/core"
	"github.com/dungph/yanet-go/mailbox"
)

func translateRecvErr(err error) error {
	if err == mailbox.ErrClosed {
		return ErrTransportClosed
	}
	return err
}

// sendPacing matches the native driver's recommended gap between
// back-to-back sends to the same peer.
const sendPacing = 10 * time.Millisecond

// Channel is one peer's view onto a Transport, discovered via ping/pong
// rendezvous.
type Channel struct {
	transport *Transport
	peerMAC   MAC
	inbox     *mailbox.Bounded[[]byte]
}

// IsInitiator reports our_mac > remote_mac: the greater MAC deterministically
// wins the Noise initiator role.
func (c *Channel) IsInitiator() bool {
	return bytes.Compare(c.transport.mac[:], c.peerMAC[:]) > 0
}

func (c *Channel) Send(ctx context.Context, frame core.Frame) error {
	dst := c.peerMAC
	if err := c.transport.sendRaw(rawPacket{destination: &dst, payload: packet{kind: packetMessage, message: frame}}); err != nil {
		return err
	}
	select {
	case <-time.After(sendPacing):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Channel) Recv(ctx context.Context) (core.Frame, error) {
	b, err := c.inbox.Recv(ctx)
	if err != nil {
		return nil, translateRecvErr(err)
	}
	return core.Frame(b), nil
}

// Close marks this peer as closed: a later Message from the same MAC opens
// a fresh Channel rather than reusing this one, mirroring the sender-closed
// detection the reference rendezvous relies on.
func (c *Channel) Close() {
	c.transport.mu.Lock()
	if ps, ok := c.transport.peers[c.peerMAC]; ok && ps.inbox == c.inbox {
		ps.status = statusClosed
	}
	c.transport.mu.Unlock()
	c.inbox.Close()
}

var _ core.Channel = (*Channel)(nil)
