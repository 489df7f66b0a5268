package core

import "context"

// Either carries a Channel produced by one of two composed transports
// (spec §4.1, Transport.or). Exactly one of A or B is non-nil. Either
// itself implements Channel by delegating to whichever side is set, so it
// can be upgraded or multiplexed like any other channel.
type Either[A Channel, B Channel] struct {
	A A
	B B
	// isA records which side is populated; the zero value of a Channel
	// type parameter cannot reliably be distinguished from "unset"
	// without this flag (an interface typed-nil value is a valid, if
	// unusual, Channel implementation).
	isA bool
}

// NewEitherA wraps a channel produced by the left-hand transport.
func NewEitherA[A Channel, B Channel](a A) Either[A, B] {
	return Either[A, B]{A: a, isA: true}
}

// NewEitherB wraps a channel produced by the right-hand transport.
func NewEitherB[A Channel, B Channel](b B) Either[A, B] {
	return Either[A, B]{B: b, isA: false}
}

func (e Either[A, B]) IsInitiator() bool {
	if e.isA {
		return e.A.IsInitiator()
	}
	return e.B.IsInitiator()
}

func (e Either[A, B]) Recv(ctx context.Context) (Frame, error) {
	if e.isA {
		return e.A.Recv(ctx)
	}
	return e.B.Recv(ctx)
}

func (e Either[A, B]) Send(ctx context.Context, frame Frame) error {
	if e.isA {
		return e.A.Send(ctx, frame)
	}
	return e.B.Send(ctx, frame)
}
