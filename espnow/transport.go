package espnow

import (
	"context"
	"sync"
	"time"

	"github.com/dungph/yanet-go/core"
	"github.com/dungph/yanet-go/crypto"
	"github.com/dungph/yanet-go/mailbox"
	"github.com/sirupsen/logrus"
)

// onlineWindow is how recently an online Ping or Pong must have arrived for the
// advertising loop to stop hopping channels and for this node to report
// itself as "online" in its own Ping/Pong replies.
const onlineWindow = 5 * time.Second

const advertiseInterval = 100 * time.Millisecond

// Transport turns a Radio into a core.Transport[core.Channel]: one Channel
// per peer MAC discovered through ping/pong rendezvous.
type Transport struct {
	radio Radio
	mac   MAC
	log   *logrus.Entry
	clock crypto.TimeProvider

	incoming *mailbox.Unbounded[core.Channel]

	mu             sync.Mutex
	peers          map[MAC]*peerState
	lastOnlinePong time.Time

	stop chan struct{}
}

// NewTransport wraps radio, registering the broadcast peer and starting the
// background advertising loop.
func NewTransport(radio Radio) (*Transport, error) {
	return newTransport(radio, crypto.DefaultTimeProvider{})
}

// newTransport is the injectable-clock constructor used by tests that need
// to control the online window deterministically instead of sleeping.
func newTransport(radio Radio, clock crypto.TimeProvider) (*Transport, error) {
	if err := radio.AddPeer(BroadcastMAC); err != nil {
		return nil, err
	}
	t := &Transport{
		radio:    radio,
		mac:      radio.GetMac(),
		log:      logrus.WithField("component", "espnow"),
		clock:    clock,
		incoming: mailbox.NewUnbounded[core.Channel](),
		peers:    make(map[MAC]*peerState),
		stop:     make(chan struct{}),
	}
	radio.RegisterRecvCallback(t.onRecv)
	go t.advertiseLoop()
	return t, nil
}

// Close stops the advertising loop. Channels already handed out are
// unaffected; peers discovered after Close are silently missed.
func (t *Transport) Close() error {
	close(t.stop)
	t.incoming.Close()
	return nil
}

func (t *Transport) Get(ctx context.Context) (core.Channel, bool, error) {
	ch, err := t.incoming.Recv(ctx)
	if err != nil {
		if err == mailbox.ErrClosed {
			return nil, false, nil
		}
		return nil, false, err
	}
	return ch, true, nil
}

func (t *Transport) online() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.clock.Since(t.lastOnlinePong) < onlineWindow
}

func (t *Transport) sendRaw(rp rawPacket) error {
	return t.radio.Send(BroadcastMAC, encodeRawPacket(rp))
}

func (t *Transport) sendPing() {
	if err := t.sendRaw(rawPacket{payload: packet{kind: packetPing, online: t.online()}}); err != nil {
		t.log.WithError(err).Debug("send ping failed")
	}
}

func (t *Transport) sendPong(dst MAC) {
	if err := t.sendRaw(rawPacket{destination: &dst, payload: packet{kind: packetPong, online: t.online()}}); err != nil {
		t.log.WithError(err).Debug("send pong failed")
	}
}

func (t *Transport) sendBegin(dst MAC) {
	if err := t.sendRaw(rawPacket{destination: &dst, payload: packet{kind: packetBegin}}); err != nil {
		t.log.WithError(err).Debug("send begin failed")
	}
}

func (t *Transport) advertiseLoop() {
	ticker := time.NewTicker(advertiseInterval)
	defer ticker.Stop()
	ch := uint8(1)
	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			if !t.radio.InfrastructureConnected() && !t.online() {
				if err := t.radio.SetChannel(ch); err != nil {
					t.log.WithError(err).Debug("set channel failed")
				}
				ch++
				if ch > 14 {
					ch = 1
				}
			}
			t.sendPing()
		}
	}
}

// ensurePeer returns the active peerState for mac, creating it (and
// emitting a fresh Channel) if mac is unknown or its previous state was
// closed.
func (t *Transport) ensurePeer(mac MAC) *peerState {
	t.mu.Lock()
	defer t.mu.Unlock()

	ps, ok := t.peers[mac]
	if ok && ps.status == statusActive {
		return ps
	}
	ps = newPeerState()
	t.peers[mac] = ps
	t.incoming.Send(core.Channel(&Channel{transport: t, peerMAC: mac, inbox: ps.inbox}))
	return ps
}

func (t *Transport) onRecv(src MAC, data []byte) {
	rp, err := decodeRawPacket(data)
	if err != nil {
		t.log.WithError(err).Debug("dropping malformed packet")
		return
	}
	if rp.destination != nil && *rp.destination != t.mac {
		return
	}

	switch rp.payload.kind {
	case packetPing:
		if rp.payload.online {
			t.mu.Lock()
			t.lastOnlinePong = t.clock.Now()
			t.mu.Unlock()
		}
		t.sendPong(src)

	case packetPong:
		t.mu.Lock()
		ps, knownActive := t.peers[src]
		known := knownActive && ps.status == statusActive
		if rp.payload.online {
			t.lastOnlinePong = t.clock.Now()
		}
		t.mu.Unlock()
		if !known {
			t.ensurePeer(src)
			t.sendBegin(src)
		}

	case packetBegin:
		t.ensurePeer(src)

	case packetMessage:
		ps := t.ensurePeer(src)
		ps.inbox.TrySend(rp.payload.message)
	}
}

var _ core.Transport[core.Channel] = (*Transport)(nil)
