package mux

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dungph/yanet-go/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCarrier wraps a plain core.Channel with a fixed PeerId so tests can
// exercise NewRouter, which requires an authenticated carrier (spec §4.3).
type fakeCarrier struct {
	core.Channel
	peerID core.PeerId
}

func (c fakeCarrier) PeerId() core.PeerId { return c.peerID }

// newAuthenticatedPipe wires a core.NewPipe pair, wrapping the initiator
// side in a fakeCarrier for use as a Router's carrier.
func newAuthenticatedPipe() (core.AuthenticatedChannel, core.Channel) {
	a, b := core.NewPipe()
	var id core.PeerId
	copy(id[:], []byte("test-peer"))
	return fakeCarrier{Channel: a, peerID: id}, b
}

func TestRouterRoutesFramesByService(t *testing.T) {
	a, b := newAuthenticatedPipe()
	r := NewRouter(a)
	chFoo := r.Open("foo")
	chBar := r.Open("bar")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, b.Send(ctx, encodeMuxFrame("bar", core.Frame("bar-1"))))
	require.NoError(t, b.Send(ctx, encodeMuxFrame("foo", core.Frame("foo-1"))))

	gotFoo, err := chFoo.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.Frame("foo-1"), gotFoo)

	gotBar, err := chBar.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.Frame("bar-1"), gotBar)
}

func TestRouterPreservesPerServiceOrder(t *testing.T) {
	a, b := newAuthenticatedPipe()
	r := NewRouter(a)
	ch := r.Open("foo")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 5; i++ {
		require.NoError(t, b.Send(ctx, encodeMuxFrame("foo", core.Frame(fmt.Sprintf("m%d", i)))))
	}
	for i := 0; i < 5; i++ {
		got, err := ch.Recv(ctx)
		require.NoError(t, err)
		assert.Equal(t, core.Frame(fmt.Sprintf("m%d", i)), got)
	}
}

func TestRouterDropsFramesForUnopenedService(t *testing.T) {
	a, b := newAuthenticatedPipe()
	r := NewRouter(a)
	ch := r.Open("known")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, b.Send(ctx, encodeMuxFrame("ghost", core.Frame("x"))))
	require.NoError(t, b.Send(ctx, encodeMuxFrame("known", core.Frame("y"))))

	got, err := ch.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.Frame("y"), got)
}

func TestMuxChannelSendEncodesServiceName(t *testing.T) {
	a, b := newAuthenticatedPipe()
	r := NewRouter(a)
	ch := r.Open("svc")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, ch.Send(ctx, core.Frame("payload")))

	raw, err := b.Recv(ctx)
	require.NoError(t, err)
	service, payload, err := decodeMuxFrame(raw)
	require.NoError(t, err)
	assert.Equal(t, "svc", service)
	assert.Equal(t, core.Frame("payload"), payload)
}

func TestMuxChannelInheritsCarrierPeerId(t *testing.T) {
	a, _ := newAuthenticatedPipe()
	r := NewRouter(a)
	ch := r.Open("svc")

	assert.Equal(t, a.PeerId(), ch.PeerId())
}
