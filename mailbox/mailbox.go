package mailbox

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Recv/Send once a mailbox has been closed and,
// for Recv, its buffered contents have been drained.
var ErrClosed = errors.New("mailbox: closed")

// Bounded is a fixed-capacity MPMC mailbox. Sends suspend when the
// mailbox is full, providing the natural back-pressure spec §5 relies on
// for per-service and per-endpoint inbound queues.
type Bounded[T any] struct {
	ch     chan T
	closed chan struct{}
	once   sync.Once
}

// NewBounded creates a mailbox with room for capacity pending values.
func NewBounded[T any](capacity int) *Bounded[T] {
	return &Bounded[T]{
		ch:     make(chan T, capacity),
		closed: make(chan struct{}),
	}
}

// Send blocks until the value is enqueued, the context is done, or the
// mailbox is closed.
func (b *Bounded[T]) Send(ctx context.Context, v T) error {
	select {
	case b.ch <- v:
		return nil
	case <-b.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySend enqueues v without blocking. It reports false if the mailbox is
// full or closed; callers that don't care about back-pressure (the
// broadcast-link rendezvous, per spec §4.4) use this to drop rather than
// stall a foreign callback thread.
func (b *Bounded[T]) TrySend(v T) bool {
	select {
	case b.ch <- v:
		return true
	default:
		return false
	}
}

// Recv blocks until a value is available, the context is done, or the
// mailbox closes and drains empty.
func (b *Bounded[T]) Recv(ctx context.Context) (T, error) {
	var zero T
	select {
	case v := <-b.ch:
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-b.closed:
		select {
		case v := <-b.ch:
			return v, nil
		default:
			return zero, ErrClosed
		}
	}
}

// Close marks the mailbox closed. Safe to call more than once or
// concurrently with Send/Recv.
func (b *Bounded[T]) Close() {
	b.once.Do(func() { close(b.closed) })
}

// Unbounded is an MPMC mailbox with no capacity limit; Send never blocks
// on queue depth (only on the internal handoff goroutine being busy, which
// never suspends indefinitely). Used where dropping a message is worse
// than growing memory, such as a Noise session's decrypted inbound frames
// and the queues of newly accepted channels in the tcp and espnow
// transports.
type Unbounded[T any] struct {
	in     chan T
	out    chan T
	closed chan struct{}
	once   sync.Once
}

// NewUnbounded creates an unbounded mailbox and starts its pump goroutine.
func NewUnbounded[T any]() *Unbounded[T] {
	u := &Unbounded[T]{
		in:     make(chan T),
		out:    make(chan T),
		closed: make(chan struct{}),
	}
	go u.pump()
	return u
}

func (u *Unbounded[T]) pump() {
	defer close(u.out)
	var buf []T
	for {
		if len(buf) == 0 {
			select {
			case v := <-u.in:
				buf = append(buf, v)
			case <-u.closed:
				return
			}
			continue
		}
		select {
		case v := <-u.in:
			buf = append(buf, v)
		case u.out <- buf[0]:
			buf = buf[1:]
		case <-u.closed:
			return
		}
	}
}

// Send enqueues v, returning once it has been accepted by the pump or the
// mailbox has closed.
func (u *Unbounded[T]) Send(v T) {
	select {
	case u.in <- v:
	case <-u.closed:
	}
}

// Recv blocks until a value is available, the context is done, or the
// mailbox closes. Values still buffered at Close are not delivered.
func (u *Unbounded[T]) Recv(ctx context.Context) (T, error) {
	var zero T
	select {
	case v, ok := <-u.out:
		if !ok {
			return zero, ErrClosed
		}
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Close stops the pump goroutine; buffered values not yet delivered are
// dropped.
func (u *Unbounded[T]) Close() {
	u.once.Do(func() { close(u.closed) })
}

// Event is a one-shot broadcast signal: every Wait returns once Fire has
// been called. Fire is safe to call more than once.
type Event struct {
	fired chan struct{}
	once  sync.Once
}

// NewEvent returns an Event that has not fired yet.
func NewEvent() *Event { return &Event{fired: make(chan struct{})} }

// Fire wakes every current and future Wait.
func (e *Event) Fire() { e.once.Do(func() { close(e.fired) }) }

// Wait blocks until the event fires or the context is done.
func (e *Event) Wait(ctx context.Context) error {
	select {
	case <-e.fired:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
