package codec_test

import (
	"testing"

	"github.com/dungph/yanet-go/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesRoundTrip(t *testing.T) {
	for _, in := range [][]byte{
		nil,
		{},
		[]byte("hello"),
		make([]byte, 4096),
	} {
		e := codec.NewEncoder()
		e.WriteBytes(in)
		d := codec.NewDecoder(e.Bytes())
		out, err := d.ReadBytes()
		require.NoError(t, err)
		require.NoError(t, d.RequireDone())
		assert.Equal(t, len(in), len(out))
	}
}

func TestFixed32RoundTrip(t *testing.T) {
	var in [32]byte
	for i := range in {
		in[i] = byte(i)
	}
	e := codec.NewEncoder()
	e.WriteFixed32(in)
	d := codec.NewDecoder(e.Bytes())
	out, err := d.ReadFixed32()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestUint64RoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 42, 1 << 40} {
		e := codec.NewEncoder()
		e.WriteUint64(v)
		d := codec.NewDecoder(e.Bytes())
		out, err := d.ReadUint64()
		require.NoError(t, err)
		assert.Equal(t, v, out)
	}
}

func TestTagRoundTrip(t *testing.T) {
	e := codec.NewEncoder()
	e.WriteTag(3)
	e.WriteBytes([]byte("payload"))
	d := codec.NewDecoder(e.Bytes())
	tag, err := d.ReadTag()
	require.NoError(t, err)
	assert.Equal(t, byte(3), tag)
	payload, err := d.ReadBytes()
	require.NoError(t, err)
	assert.Equal(t, "payload", string(payload))
}

func TestTruncatedInputErrors(t *testing.T) {
	d := codec.NewDecoder([]byte{0x05, 'a', 'b'})
	_, err := d.ReadBytes()
	assert.ErrorIs(t, err, codec.ErrTruncated)
}

func TestTrailingDataDetected(t *testing.T) {
	e := codec.NewEncoder()
	e.WriteBytes([]byte("a"))
	e.WriteBytes([]byte("extra"))
	d := codec.NewDecoder(e.Bytes())
	_, err := d.ReadBytes()
	require.NoError(t, err)
	assert.ErrorIs(t, d.RequireDone(), codec.ErrTrailingData)
}

func TestOversizedLengthRejected(t *testing.T) {
	e := codec.NewEncoder()
	e.WriteVarint(codec.MaxFrameSize + 1)
	d := codec.NewDecoder(e.Bytes())
	_, err := d.ReadBytes()
	assert.Error(t, err)
}
