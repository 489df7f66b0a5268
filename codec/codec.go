package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrTruncated indicates the decoder ran out of bytes mid-value. Per spec
// §7, this is always fatal to whatever channel the bytes arrived on.
var ErrTruncated = errors.New("codec: truncated input")

// ErrTrailingData indicates extra bytes remained after decoding a
// self-contained frame, a sign the sender and receiver have drifted out
// of sync.
var ErrTrailingData = errors.New("codec: trailing data after decode")

// MaxFrameSize is the largest byte string this codec will accept,
// matching the Frame bound in spec §3 (post-encryption). ReadBytes rejects
// a length prefix above it; the Encoder does not check it.
const MaxFrameSize = 10 * 1024

// Encoder builds one frame's worth of bytes incrementally.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Bytes returns the encoded frame built so far.
func (e *Encoder) Bytes() []byte { return e.buf }

// WriteTag writes a one-byte discriminant tag identifying which variant of
// a tagged union follows.
func (e *Encoder) WriteTag(tag byte) {
	e.buf = append(e.buf, tag)
}

// WriteVarint appends v as an unsigned LEB128 varint.
func (e *Encoder) WriteVarint(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	e.buf = append(e.buf, tmp[:n]...)
}

// WriteUint64 appends v as a fixed 8-byte little-endian integer.
func (e *Encoder) WriteUint64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	e.buf = append(e.buf, tmp[:]...)
}

// WriteFixed32 appends a 32-byte fixed-width value verbatim (used for
// PeerId, see core.PeerId).
func (e *Encoder) WriteFixed32(v [32]byte) {
	e.buf = append(e.buf, v[:]...)
}

// WriteBytes appends a varint length prefix followed by b.
func (e *Encoder) WriteBytes(b []byte) {
	e.WriteVarint(uint64(len(b)))
	e.buf = append(e.buf, b...)
}

// Decoder reads values out of a frame in the same order an Encoder wrote
// them.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder wraps buf for sequential reads. The caller retains ownership
// of buf; the decoder never mutates it.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Remaining reports how many bytes are left unconsumed.
func (d *Decoder) Remaining() int { return len(d.buf) - d.pos }

// Done reports whether every byte has been consumed. Callers that decode a
// single self-contained struct should check this to catch trailing-data
// desync bugs early.
func (d *Decoder) Done() bool { return d.pos >= len(d.buf) }

// ReadTag reads a one-byte discriminant tag.
func (d *Decoder) ReadTag() (byte, error) {
	if d.Remaining() < 1 {
		return 0, ErrTruncated
	}
	tag := d.buf[d.pos]
	d.pos++
	return tag, nil
}

// ReadVarint reads an unsigned LEB128 varint.
func (d *Decoder) ReadVarint() (uint64, error) {
	v, n := binary.Uvarint(d.buf[d.pos:])
	if n <= 0 {
		return 0, ErrTruncated
	}
	d.pos += n
	return v, nil
}

// ReadUint64 reads a fixed 8-byte little-endian integer.
func (d *Decoder) ReadUint64() (uint64, error) {
	if d.Remaining() < 8 {
		return 0, ErrTruncated
	}
	v := binary.LittleEndian.Uint64(d.buf[d.pos : d.pos+8])
	d.pos += 8
	return v, nil
}

// ReadFixed32 reads a 32-byte fixed-width value.
func (d *Decoder) ReadFixed32() ([32]byte, error) {
	var out [32]byte
	if d.Remaining() < 32 {
		return out, ErrTruncated
	}
	copy(out[:], d.buf[d.pos:d.pos+32])
	d.pos += 32
	return out, nil
}

// ReadBytes reads a varint length prefix followed by that many bytes. The
// returned slice aliases the decoder's input buffer; callers that retain
// it past the frame's lifetime must copy.
func (d *Decoder) ReadBytes() ([]byte, error) {
	n, err := d.ReadVarint()
	if err != nil {
		return nil, err
	}
	if n > MaxFrameSize {
		return nil, fmt.Errorf("codec: byte string of %d bytes exceeds frame bound: %w", n, ErrTruncated)
	}
	if uint64(d.Remaining()) < n {
		return nil, ErrTruncated
	}
	out := d.buf[d.pos : d.pos+int(n)]
	d.pos += int(n)
	return out, nil
}

// RequireDone returns ErrTrailingData if the decoder has unconsumed bytes.
func (d *Decoder) RequireDone() error {
	if !d.Done() {
		return ErrTrailingData
	}
	return nil
}
