package espnow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawPacketRoundTrip(t *testing.T) {
	dst := MAC{1, 2, 3, 4, 5, 6}
	cases := []rawPacket{
		{payload: packet{kind: packetPing, online: true}},
		{destination: &dst, payload: packet{kind: packetPong, online: false}},
		{destination: &dst, payload: packet{kind: packetBegin}},
		{destination: &dst, payload: packet{kind: packetMessage, message: []byte("hello")}},
		{payload: packet{kind: packetMessage, message: nil}},
	}
	for _, in := range cases {
		encoded := encodeRawPacket(in)
		out, err := decodeRawPacket(encoded)
		require.NoError(t, err)
		assert.Equal(t, in.payload.kind, out.payload.kind)
		assert.Equal(t, in.payload.online, out.payload.online)
		assert.Equal(t, len(in.payload.message), len(out.payload.message))
		if in.destination != nil {
			require.NotNil(t, out.destination)
			assert.Equal(t, *in.destination, *out.destination)
		} else {
			assert.Nil(t, out.destination)
		}
	}
}
