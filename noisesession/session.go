package noisesession

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"

	"github.com/dungph/yanet-go/core"
	"github.com/flynn/noise"
)

func newHandshakeState(priv [32]byte, initiator bool) (*noise.HandshakeState, error) {
	kp, err := dhKeypair(priv)
	if err != nil {
		return nil, err
	}
	return noise.NewHandshakeState(noise.Config{
		CipherSuite:   cipherSuite,
		Random:        rand.Reader,
		Pattern:       noise.HandshakeXX,
		Initiator:     initiator,
		StaticKeypair: kp,
	})
}

func fixed32(b []byte) [32]byte {
	var out [32]byte
	copy(out[:], b)
	return out
}

// bytesLess reports whether a sorts before b, used to break re-handshake
// collisions: the greater first-message bytes keep the initiator role.
func bytesLess(a, b []byte) bool { return bytes.Compare(a, b) < 0 }

// performInitialHandshake runs the three-message Noise XX exchange over ch,
// sending and receiving each message as a raw, unwrapped frame. It returns
// the resulting transport ciphers (send, recv, from the local side's
// perspective) and the peer's static public key.
func performInitialHandshake(ctx context.Context, priv [32]byte, ch core.Channel) (send, recv *noise.CipherState, remoteStatic [32]byte, err error) {
	hs, err := newHandshakeState(priv, ch.IsInitiator())
	if err != nil {
		return nil, nil, [32]byte{}, fmt.Errorf("noisesession: build handshake state: %w", err)
	}

	if ch.IsInitiator() {
		msg1, _, _, err := hs.WriteMessage(nil, nil)
		if err != nil {
			return nil, nil, [32]byte{}, fmt.Errorf("%w: write message 1: %v", ErrHandshakeFailed, err)
		}
		if err := ch.Send(ctx, core.Frame(msg1)); err != nil {
			return nil, nil, [32]byte{}, err
		}

		msg2, err := ch.Recv(ctx)
		if err != nil {
			return nil, nil, [32]byte{}, err
		}
		if _, _, _, err := hs.ReadMessage(nil, msg2); err != nil {
			return nil, nil, [32]byte{}, fmt.Errorf("%w: read message 2: %v", ErrHandshakeFailed, err)
		}

		msg3, sendCipher, recvCipher, err := hs.WriteMessage(nil, nil)
		if err != nil {
			return nil, nil, [32]byte{}, fmt.Errorf("%w: write message 3: %v", ErrHandshakeFailed, err)
		}
		if err := ch.Send(ctx, core.Frame(msg3)); err != nil {
			return nil, nil, [32]byte{}, err
		}
		return sendCipher, recvCipher, fixed32(hs.PeerStatic()), nil
	}

	msg1, err := ch.Recv(ctx)
	if err != nil {
		return nil, nil, [32]byte{}, err
	}
	if _, _, _, err := hs.ReadMessage(nil, msg1); err != nil {
		return nil, nil, [32]byte{}, fmt.Errorf("%w: read message 1: %v", ErrHandshakeFailed, err)
	}

	msg2, _, _, err := hs.WriteMessage(nil, nil)
	if err != nil {
		return nil, nil, [32]byte{}, fmt.Errorf("%w: write message 2: %v", ErrHandshakeFailed, err)
	}
	if err := ch.Send(ctx, core.Frame(msg2)); err != nil {
		return nil, nil, [32]byte{}, err
	}

	msg3, err := ch.Recv(ctx)
	if err != nil {
		return nil, nil, [32]byte{}, err
	}
	_, recvCipher, sendCipher, err := hs.ReadMessage(nil, msg3)
	if err != nil {
		return nil, nil, [32]byte{}, fmt.Errorf("%w: read message 3: %v", ErrHandshakeFailed, err)
	}
	return sendCipher, recvCipher, fixed32(hs.PeerStatic()), nil
}
