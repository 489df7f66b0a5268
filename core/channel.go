package core

import (
	"context"
	"encoding"
	"fmt"
)

// Frame is a single atomic message exchanged across a Channel. The
// underlying link is responsible for preserving its boundaries; callers
// never see fragmentation or reassembly at this layer.
type Frame []byte

// Channel is a bidirectional, ordered stream of Frames with a fixed
// initiator/responder role established at creation. Exactly one producer
// and one consumer is assumed per direction; dropping either end closes the
// channel and subsequent operations fail with a terminal error.
type Channel interface {
	// IsInitiator reports whether this side opened the channel. Upper
	// layers (in particular the Noise handshake) use this to pick their
	// role without any separate negotiation message.
	IsInitiator() bool

	// Recv blocks until a frame is available, the context is done, or the
	// channel is closed. A closed channel returns a terminal error on
	// every subsequent call.
	Recv(ctx context.Context) (Frame, error)

	// Send blocks until the frame has been accepted by the underlying
	// link, the context is done, or the channel is closed.
	Send(ctx context.Context, frame Frame) error
}

// SendTyped encodes v with its BinaryMarshaler and sends it as one frame.
// It is the Go analogue of the Rust send_postcard helper named in spec §4.1.
func SendTyped(ctx context.Context, ch Channel, v encoding.BinaryMarshaler) error {
	buf, err := v.MarshalBinary()
	if err != nil {
		return fmt.Errorf("core: encode typed frame: %w", err)
	}
	return ch.Send(ctx, buf)
}

// RecvTyped receives one frame and decodes it into v. A decode error is
// always fatal to the channel per spec §4.1: the peer sent garbage or the
// session has desynchronized, and the caller must not retry.
func RecvTyped(ctx context.Context, ch Channel, v encoding.BinaryUnmarshaler) error {
	frame, err := ch.Recv(ctx)
	if err != nil {
		return err
	}
	if err := v.UnmarshalBinary(frame); err != nil {
		return fmt.Errorf("core: decode typed frame: %w", err)
	}
	return nil
}
