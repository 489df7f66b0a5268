package tcp_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dungph/yanet-go/core"
	"github.com/dungph/yanet-go/tcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectListenRoundTrip(t *testing.T) {
	ln, err := tcp.Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	addr := ln.Addr().String()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	clientCh := make(chan core.Channel, 1)
	errCh := make(chan error, 1)
	go func() {
		ch, err := tcp.Connect(ctx, addr)
		if err != nil {
			errCh <- err
			return
		}
		clientCh <- ch
	}()

	serverCh, ok, err := ln.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, serverCh.IsInitiator())

	select {
	case err := <-errCh:
		t.Fatalf("connect failed: %v", err)
	case client := <-clientCh:
		assert.True(t, client.IsInitiator())

		require.NoError(t, client.Send(ctx, core.Frame("ping")))
		got, err := serverCh.Recv(ctx)
		require.NoError(t, err)
		assert.Equal(t, core.Frame("ping"), got)

		require.NoError(t, serverCh.Send(ctx, core.Frame("pong")))
		got, err = client.Recv(ctx)
		require.NoError(t, err)
		assert.Equal(t, core.Frame("pong"), got)
	case <-ctx.Done():
		t.Fatal("timed out waiting for client connection")
	}
}

func TestRecvAfterPeerCloseReportsChannelClosed(t *testing.T) {
	ln, err := tcp.Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	clientCh := make(chan core.Channel, 1)
	go func() {
		ch, err := tcp.Connect(ctx, ln.Addr().String())
		require.NoError(t, err)
		clientCh <- ch
	}()

	serverCh, ok, err := ln.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	client := <-clientCh
	require.NoError(t, client.(interface{ Close() error }).Close())

	_, err = serverCh.Recv(ctx)
	require.Error(t, err)
	var chErr *core.ChannelError
	require.True(t, errors.As(err, &chErr))
	assert.Equal(t, "recv", chErr.Op)
	assert.ErrorIs(t, err, core.ErrChannelClosed)
}
