package espnow_test

import (
	"context"
	"testing"
	"time"

	"github.com/dungph/yanet-go/core"
	"github.com/dungph/yanet-go/espnow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRendezvousInitiatorTieBreakAndRoundTrip(t *testing.T) {
	medium := espnow.NewMedium()
	macLow := espnow.MAC{0x02, 0x00, 0x00, 0x00, 0x00, 0x01}
	macHigh := espnow.MAC{0x02, 0x00, 0x00, 0x00, 0x00, 0x02}

	radioLow := medium.NewRadio(macLow)
	radioHigh := medium.NewRadio(macHigh)

	tLow, err := espnow.NewTransport(radioLow)
	require.NoError(t, err)
	defer tLow.Close()
	tHigh, err := espnow.NewTransport(radioHigh)
	require.NoError(t, err)
	defer tHigh.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	chLow, ok, err := tLow.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	chHigh, ok, err := tHigh.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	assert.False(t, chLow.IsInitiator())
	assert.True(t, chHigh.IsInitiator())

	payload := make(core.Frame, 128)
	for i := range payload {
		payload[i] = byte(i)
	}

	require.NoError(t, chHigh.Send(ctx, payload))
	got, err := chLow.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	reply := core.Frame("ack")
	require.NoError(t, chLow.Send(ctx, reply))
	got, err = chHigh.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, reply, got)
}

func TestAdvertisingLoopSetsRadioChannelWhileOffline(t *testing.T) {
	medium := espnow.NewMedium()
	mac := espnow.MAC{0x02, 0, 0, 0, 0, 3}
	radio := medium.NewRadio(mac)

	tr, err := espnow.NewTransport(radio)
	require.NoError(t, err)
	defer tr.Close()

	time.Sleep(250 * time.Millisecond)
	first := radio.Channel()
	assert.NotEqual(t, uint8(0), first, "advertising loop should have set a channel by now")
}
