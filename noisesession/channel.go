package noisesession

import (
	"context"
	"sync"

	"github.com/dungph/yanet-go/core"
	"github.com/dungph/yanet-go/mailbox"
	"github.com/flynn/noise"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type sessionState int

const (
	stateTransport sessionState = iota
	stateHandshaking
)

type role int

const (
	roleInitiator role = iota
	roleResponder
)

// inflightHandshake tracks a re-handshake attempt in progress, whichever
// side started it.
type inflightHandshake struct {
	role     role
	hs       *noise.HandshakeState
	firstMsg []byte // the XX initiator's message-1 bytes, for collision comparison
}

// Channel is an AuthenticatedChannel backed by a Noise_XX_25519_ChaChaPoly_BLAKE2s
// session. It owns the underlying raw core.Channel exclusively: nothing else
// may call Send or Recv on it once a Channel wraps it.
type Channel struct {
	underlying core.Channel
	localPriv  [32]byte
	sessionID  uuid.UUID // correlation ID for log fields only, never on the wire
	log        *logrus.Entry

	writeMu sync.Mutex // serializes writes to the underlying channel

	mu            sync.Mutex
	state         sessionState
	sendCipher    *noise.CipherState
	recvCipher    *noise.CipherState
	sendNonce     uint64
	recvNonce     uint64
	remoteStatic  [32]byte
	inflight      *inflightHandshake
	handshakeDone *mailbox.Event
	fatalErr      error

	inbound *mailbox.Unbounded[core.Frame]
}

func newChannel(underlying core.Channel, priv [32]byte, send, recv *noise.CipherState, remoteStatic [32]byte) *Channel {
	id := uuid.New()
	c := &Channel{
		underlying:    underlying,
		localPriv:     priv,
		sessionID:     id,
		log:           logrus.WithFields(logrus.Fields{"component": "noisesession", "session": id}),
		state:         stateTransport,
		sendCipher:    send,
		recvCipher:    recv,
		remoteStatic:  remoteStatic,
		handshakeDone: mailbox.NewEvent(),
		inbound:       mailbox.NewUnbounded[core.Frame](),
	}
	c.handshakeDone.Fire() // already in transport state
	go c.pump()
	return c
}

func (c *Channel) IsInitiator() bool { return c.underlying.IsInitiator() }

func (c *Channel) PeerId() core.PeerId {
	c.mu.Lock()
	defer c.mu.Unlock()
	return core.PeerId(c.remoteStatic)
}

// Rehandshake triggers a forward-secrecy refresh: a fresh Noise XX exchange
// replacing the transport ciphers without dropping the underlying link. It
// is a no-op if a re-handshake is already in flight (including one the peer
// started).
func (c *Channel) Rehandshake(ctx context.Context) error {
	c.mu.Lock()
	if c.inflight != nil {
		c.mu.Unlock()
		return nil
	}
	hs, err := newHandshakeState(c.localPriv, true)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	msg1, _, _, err := hs.WriteMessage(nil, nil)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.inflight = &inflightHandshake{role: roleInitiator, hs: hs, firstMsg: append([]byte(nil), msg1...)}
	c.state = stateHandshaking
	c.handshakeDone = mailbox.NewEvent()
	c.mu.Unlock()
	c.log.Debug("initiating re-handshake")
	return c.sendRaw(ctx, encodeRehandshake1(msg1))
}

func (c *Channel) Send(ctx context.Context, frame core.Frame) error {
	for {
		c.mu.Lock()
		if c.state == stateTransport {
			nonce := c.sendNonce
			c.sendNonce++
			c.sendCipher.SetNonce(nonce)
			ciphertext := c.sendCipher.Encrypt(nil, nil, frame)
			c.mu.Unlock()
			return c.sendRaw(ctx, encodePayload(nonce, ciphertext))
		}
		ev := c.handshakeDone
		c.mu.Unlock()
		if err := ev.Wait(ctx); err != nil {
			return err
		}
	}
}

func (c *Channel) Recv(ctx context.Context) (core.Frame, error) {
	f, err := c.inbound.Recv(ctx)
	if err != nil {
		c.mu.Lock()
		ferr := c.fatalErr
		c.mu.Unlock()
		if ferr != nil {
			return nil, ferr
		}
		return nil, err
	}
	return f, nil
}

func (c *Channel) sendRaw(ctx context.Context, f core.Frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.underlying.Send(ctx, f)
}

// pump is the sole reader of the underlying channel. It classifies every
// incoming frame, advances the re-handshake state machine inline, and
// delivers decrypted application frames to the inbound mailbox.
func (c *Channel) pump() {
	ctx := context.Background()
	for {
		raw, err := c.underlying.Recv(ctx)
		if err != nil {
			c.fail(err)
			return
		}
		df, err := decodeFrame(raw)
		if err != nil {
			c.fail(err)
			return
		}
		switch df.tag {
		case tagPayload:
			err = c.handlePayload(df)
		case tagRehandshake1:
			err = c.handleRehandshake1(ctx, df)
		case tagRehandshake2:
			err = c.handleRehandshake2(ctx, df)
		default:
			err = ErrUnexpectedFrame
		}
		if err != nil {
			c.fail(err)
			return
		}
	}
}

func (c *Channel) fail(err error) {
	c.mu.Lock()
	if c.fatalErr == nil {
		c.fatalErr = err
	}
	c.mu.Unlock()
	c.log.WithError(err).Debug("session closing")
	c.inbound.Close()
}

func (c *Channel) handlePayload(df decodedFrame) error {
	c.mu.Lock()
	if c.state != stateTransport {
		c.mu.Unlock()
		return ErrUnexpectedFrame
	}
	if df.nonce < c.recvNonce {
		c.mu.Unlock()
		return ErrNonceReplay
	}
	c.recvCipher.SetNonce(df.nonce)
	plaintext, err := c.recvCipher.Decrypt(nil, nil, df.data)
	if err != nil {
		c.mu.Unlock()
		return ErrAuthenticationFailed
	}
	c.recvNonce = df.nonce + 1
	c.mu.Unlock()
	c.inbound.Send(core.Frame(plaintext))
	return nil
}

func (c *Channel) adoptTransport(send, recv *noise.CipherState, remoteStatic [32]byte) error {
	if c.remoteStatic != ([32]byte{}) && c.remoteStatic != remoteStatic {
		return ErrPeerIdentityChanged
	}
	c.remoteStatic = remoteStatic
	c.sendCipher, c.recvCipher = send, recv
	c.sendNonce, c.recvNonce = 0, 0
	c.state = stateTransport
	c.inflight = nil
	return nil
}

// handleRehandshake1 processes a frame carrying the re-handshake initiator's
// message 1 (fresh or colliding attempt) or message 3 (if we are already
// responding to this same attempt).
func (c *Channel) handleRehandshake1(ctx context.Context, df decodedFrame) error {
	c.mu.Lock()

	if c.inflight != nil && c.inflight.role == roleResponder {
		// message 3: completes the handshake we're responding to.
		hs := c.inflight.hs
		_, recvCipher, sendCipher, err := hs.ReadMessage(nil, df.data)
		if err != nil {
			c.mu.Unlock()
			return ErrHandshakeFailed
		}
		if err := c.adoptTransport(sendCipher, recvCipher, fixed32(hs.PeerStatic())); err != nil {
			c.mu.Unlock()
			return err
		}
		ev := c.handshakeDone
		c.handshakeDone = mailbox.NewEvent()
		c.mu.Unlock()
		ev.Fire()
		return nil
	}

	if c.inflight != nil && c.inflight.role == roleInitiator {
		// Collision: the peer also believes it is the initiator. The
		// greater first-message bytes win the initiator role.
		if bytesLess(df.data, c.inflight.firstMsg) {
			c.mu.Unlock()
			c.log.Debug("re-handshake collision: remaining initiator")
			return nil
		}
		c.log.Debug("re-handshake collision: yielding to peer, becoming responder")
	}

	// Fresh (or collision-losing) responder entry.
	hs, err := newHandshakeState(c.localPriv, false)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	if _, _, _, err := hs.ReadMessage(nil, df.data); err != nil {
		c.mu.Unlock()
		return ErrHandshakeFailed
	}
	msg2, _, _, err := hs.WriteMessage(nil, nil)
	if err != nil {
		c.mu.Unlock()
		return ErrHandshakeFailed
	}
	c.inflight = &inflightHandshake{role: roleResponder, hs: hs, firstMsg: append([]byte(nil), df.data...)}
	c.state = stateHandshaking
	c.mu.Unlock()
	return c.sendRaw(ctx, encodeRehandshake2(msg2))
}

// handleRehandshake2 processes message 2, the reply to a re-handshake we
// initiated.
func (c *Channel) handleRehandshake2(ctx context.Context, df decodedFrame) error {
	c.mu.Lock()
	if c.inflight == nil || c.inflight.role != roleInitiator {
		c.mu.Unlock()
		return ErrUnexpectedFrame
	}
	hs := c.inflight.hs
	if _, _, _, err := hs.ReadMessage(nil, df.data); err != nil {
		c.mu.Unlock()
		return ErrHandshakeFailed
	}
	msg3, sendCipher, recvCipher, err := hs.WriteMessage(nil, nil)
	if err != nil {
		c.mu.Unlock()
		return ErrHandshakeFailed
	}
	if err := c.adoptTransport(sendCipher, recvCipher, fixed32(hs.PeerStatic())); err != nil {
		c.mu.Unlock()
		return err
	}
	ev := c.handshakeDone
	c.handshakeDone = mailbox.NewEvent()
	c.mu.Unlock()
	if err := c.sendRaw(ctx, encodeRehandshake1(msg3)); err != nil {
		return err
	}
	ev.Fire()
	return nil
}

var _ core.AuthenticatedChannel = (*Channel)(nil)
