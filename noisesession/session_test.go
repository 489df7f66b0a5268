package noisesession

import (
	"context"
	"testing"
	"time"

	"github.com/dungph/yanet-go/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handshakePair(t *testing.T, ctx context.Context, a, b core.Channel) (*Channel, *Channel, [32]byte, [32]byte) {
	t.Helper()

	keyA, err := GenerateStaticKey()
	require.NoError(t, err)
	keyB, err := GenerateStaticKey()
	require.NoError(t, err)

	uA := NewUpgrade(keyA)
	uB := NewUpgrade(keyB)

	type result struct {
		ch  core.AuthenticatedChannel
		err error
	}
	resA := make(chan result, 1)
	resB := make(chan result, 1)
	go func() {
		ch, err := uA.Upgrade(ctx, a)
		resA <- result{ch, err}
	}()
	go func() {
		ch, err := uB.Upgrade(ctx, b)
		resB <- result{ch, err}
	}()

	ra := <-resA
	rb := <-resB
	require.NoError(t, ra.err)
	require.NoError(t, rb.err)

	pubA, err := StaticPublicKey(keyA)
	require.NoError(t, err)
	pubB, err := StaticPublicKey(keyB)
	require.NoError(t, err)

	return ra.ch.(*Channel), rb.ch.(*Channel), pubA, pubB
}

func TestInitialHandshakeRoundTrip(t *testing.T) {
	a, b := core.NewPipe()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	chA, chB, pubA, pubB := handshakePair(t, ctx, a, b)

	assert.Equal(t, core.PeerId(pubB), chA.PeerId())
	assert.Equal(t, core.PeerId(pubA), chB.PeerId())

	require.NoError(t, chA.Send(ctx, core.Frame("hello")))
	got, err := chB.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.Frame("hello"), got)

	require.NoError(t, chB.Send(ctx, core.Frame("world")))
	got, err = chA.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.Frame("world"), got)
}

func TestResponderTimesOutWithoutInitiator(t *testing.T) {
	_, b := core.NewPipe() // the initiator side is never driven

	key, err := GenerateStaticKey()
	require.NoError(t, err)

	_, err = NewUpgrade(key).Upgrade(context.Background(), b)
	assert.ErrorIs(t, err, ErrHandshakeTimeout)
}

// tamperChannel inverts the first ciphertext byte of every Payload frame it
// forwards, to exercise
// the authentication-failure path without needing to know Noise internals
// from outside the package.
type tamperChannel struct {
	core.Channel
}

func (t *tamperChannel) Recv(ctx context.Context) (core.Frame, error) {
	f, err := t.Channel.Recv(ctx)
	if err != nil {
		return f, err
	}
	df, decodeErr := decodeFrame(f)
	if decodeErr != nil || df.tag != tagPayload {
		return f, nil
	}
	tampered := append([]byte(nil), df.data...)
	tampered[0] ^= 0xFF
	return encodePayload(df.nonce, tampered), nil
}

func TestBadAuthenticationRejected(t *testing.T) {
	a, bRaw := core.NewPipe()
	b := &tamperChannel{Channel: bRaw}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	chA, chB, _, _ := handshakePair(t, ctx, a, b)

	require.NoError(t, chA.Send(ctx, core.Frame("hello")))
	_, err := chB.Recv(ctx)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestRehandshakeCollisionResolvesToSingleInitiator(t *testing.T) {
	a, b := core.NewPipe()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	chA, chB, pubA, pubB := handshakePair(t, ctx, a, b)

	go func() { _ = chA.Rehandshake(ctx) }()
	go func() { _ = chB.Rehandshake(ctx) }()

	require.NoError(t, chA.Send(ctx, core.Frame("post-rehandshake-a")))
	got, err := chB.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.Frame("post-rehandshake-a"), got)

	require.NoError(t, chB.Send(ctx, core.Frame("post-rehandshake-b")))
	got, err = chA.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.Frame("post-rehandshake-b"), got)

	assert.Equal(t, core.PeerId(pubB), chA.PeerId())
	assert.Equal(t, core.PeerId(pubA), chB.PeerId())
}
