package core_test

import (
	"context"
	"testing"
	"time"

	"github.com/dungph/yanet-go/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeRoundTrip(t *testing.T) {
	a, b := core.NewPipe()
	ctx := context.Background()

	require.True(t, a.IsInitiator())
	require.False(t, b.IsInitiator())

	require.NoError(t, a.Send(ctx, core.Frame("hello")))
	got, err := b.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.Frame("hello"), got)

	require.NoError(t, b.Send(ctx, core.Frame("world")))
	got, err = a.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.Frame("world"), got)
}

// onceTransport yields a single channel then reports drained.
type onceTransport struct {
	ch   core.Channel
	done bool
}

func (t *onceTransport) Get(ctx context.Context) (core.Channel, bool, error) {
	if t.done {
		return nil, false, nil
	}
	t.done = true
	return t.ch, true, nil
}

func TestOrForwardsBothSidesThenDrains(t *testing.T) {
	a1, _ := core.NewPipe()
	b1, _ := core.NewPipe()

	ta := &onceTransport{ch: a1}
	tb := &onceTransport{ch: b1}

	composite := core.Or[core.Channel, core.Channel](ta, tb)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// Both onceTransports already have their channel ready before the
	// first Get is even called, so this exercises both branches being
	// ready simultaneously: a correct composite must forward both,
	// never silently drop one in favor of the other (spec §9).
	seen := map[core.Channel]bool{}
	for i := 0; i < 2; i++ {
		either, ok, err := composite.Get(ctx)
		require.NoError(t, err)
		require.True(t, ok, "both branches are ready; Get should not report drained yet")
		switch {
		case either.A != nil:
			seen[either.A] = true
		case either.B != nil:
			seen[either.B] = true
		}
	}
	assert.Len(t, seen, 2)
	assert.True(t, seen[a1], "side A's channel should have been forwarded, not dropped")
	assert.True(t, seen[b1], "side B's channel should have been forwarded, not dropped")

	_, ok, err := composite.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "composite should report drained once both sides drain")
}

type dropOddUpgrade struct {
	n int
}

func (u *dropOddUpgrade) Name() string { return "drop-odd" }

func (u *dropOddUpgrade) Upgrade(ctx context.Context, ch core.Channel) (core.Channel, error) {
	u.n++
	if u.n%2 == 1 {
		return nil, assert.AnError
	}
	return ch, nil
}

func TestThenDropsFailedUpgrades(t *testing.T) {
	chans := make([]core.Channel, 0, 4)
	for i := 0; i < 4; i++ {
		ch, _ := core.NewPipe()
		chans = append(chans, ch)
	}
	idx := 0
	src := core.TransportFunc[core.Channel](func(ctx context.Context) (core.Channel, bool, error) {
		if idx >= len(chans) {
			return nil, false, nil
		}
		ch := chans[idx]
		idx++
		return ch, true, nil
	})

	upgraded := core.Then[core.Channel, core.Channel](src, &dropOddUpgrade{})

	ctx := context.Background()
	ch, ok, err := upgraded.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, chans[1], ch)

	ch, ok, err = upgraded.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, chans[3], ch)

	_, ok, err = upgraded.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHandleDispatchesEveryChannel(t *testing.T) {
	chans := make([]core.Channel, 0, 3)
	for i := 0; i < 3; i++ {
		ch, _ := core.NewPipe()
		chans = append(chans, ch)
	}
	idx := 0
	src := core.TransportFunc[core.Channel](func(ctx context.Context) (core.Channel, bool, error) {
		if idx >= len(chans) {
			return nil, false, nil
		}
		ch := chans[idx]
		idx++
		return ch, true, nil
	})

	handled := make(chan core.Channel, len(chans))
	svc := core.ServiceFunc[core.Channel, struct{}]{
		FuncName: "collect",
		UpgradeFunc: func(ctx context.Context, ch core.Channel) (struct{}, error) {
			handled <- ch
			return struct{}{}, nil
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, core.Handle[core.Channel, struct{}](ctx, src, svc))

	close(handled)
	seen := map[core.Channel]bool{}
	for ch := range handled {
		seen[ch] = true
	}
	for _, ch := range chans {
		assert.True(t, seen[ch])
	}
}
