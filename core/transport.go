package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Transport produces new Channels from some underlying link. Get returns
// ok=false once the transport is drained; callers must stop polling at that
// point (spec §4.1).
type Transport[C Channel] interface {
	Get(ctx context.Context) (ch C, ok bool, err error)
}

// TransportFunc adapts a plain function into a Transport.
type TransportFunc[C Channel] func(ctx context.Context) (C, bool, error)

func (f TransportFunc[C]) Get(ctx context.Context) (C, bool, error) { return f(ctx) }

// sideResult is one outcome of a single call to a branch transport's Get,
// carried from its pump goroutine to orTransport.Get.
type sideResult[C Channel] struct {
	ch  C
	ok  bool
	err error
}

// pumpSide repeatedly calls t.Get and hands each outcome to out, which is
// unbuffered: the send blocks until some orTransport.Get call actually
// receives it. A channel t.Get has already dequeued therefore always
// reaches exactly one caller, even if that caller isn't asking yet — unlike
// racing two one-shot Get calls against each other and discarding whichever
// finishes second, nothing borrowed from the inner transport can be lost to
// a losing side (spec §9). The pump outlives any single Get call, the same
// way tcp.listener's acceptLoop outlives any one Get on the listener.
func pumpSide[C Channel](ctx context.Context, t Transport[C], out chan<- sideResult[C]) {
	for {
		ch, ok, err := t.Get(ctx)
		if err != nil {
			out <- sideResult[C]{err: err}
			return
		}
		if !ok {
			out <- sideResult[C]{}
			return
		}
		out <- sideResult[C]{ch: ch, ok: true}
	}
}

// orTransport implements Transport.or (spec §4.1): it yields an
// Either-typed channel from whichever inner transport produces next.
// Fairness is not guaranteed, but neither branch is starved while the
// other is idle, and the composite only reports drained once both
// branches have drained.
type orTransport[A Channel, B Channel] struct {
	a Transport[A]
	b Transport[B]

	startOnce sync.Once
	fromA     chan sideResult[A]
	fromB     chan sideResult[B]

	aDone bool
	bDone bool
}

// Or composes two transports: Get selects over both branches and returns
// whichever produces a channel first, wrapped in Either. Once one side
// drains, the composite transparently forwards the survivor; once both
// drain, the composite reports drained exactly once. Both branches are
// pumped continuously in the background, so a channel either branch
// accepts while the other is also ready is queued for the next Get rather
// than dropped.
func Or[A Channel, B Channel](a Transport[A], b Transport[B]) Transport[Either[A, B]] {
	return &orTransport[A, B]{
		a:     a,
		b:     b,
		fromA: make(chan sideResult[A]),
		fromB: make(chan sideResult[B]),
	}
}

func (t *orTransport[A, B]) start() {
	t.startOnce.Do(func() {
		go pumpSide[A](context.Background(), t.a, t.fromA)
		go pumpSide[B](context.Background(), t.b, t.fromB)
	})
}

// Get is only safe to call from one goroutine at a time, the same
// single-caller assumption core.Handle and core.Then already make of every
// Transport.
func (t *orTransport[A, B]) Get(ctx context.Context) (Either[A, B], bool, error) {
	var zero Either[A, B]
	t.start()

	for {
		if t.aDone && t.bDone {
			return zero, false, nil
		}
		select {
		case r := <-t.fromA:
			if r.err != nil {
				return zero, false, r.err
			}
			if !r.ok {
				t.aDone = true
				continue
			}
			return NewEitherA[A, B](r.ch), true, nil
		case r := <-t.fromB:
			if r.err != nil {
				return zero, false, r.err
			}
			if !r.ok {
				t.bDone = true
				continue
			}
			return NewEitherB[A, B](r.ch), true, nil
		case <-ctx.Done():
			return zero, false, ctx.Err()
		}
	}
}

// thenTransport implements Transport.then (spec §4.1): every channel the
// inner transport produces is run through upgrade.Upgrade; channels that
// fail to upgrade are dropped and the loop tries the next one.
type thenTransport[I Channel, O Channel] struct {
	inner   Transport[I]
	upgrade Service[I, O]
}

// Then upgrades every channel an inner transport produces, transparently
// skipping channels whose upgrade fails.
func Then[I Channel, O Channel](inner Transport[I], upgrade Service[I, O]) Transport[O] {
	return &thenTransport[I, O]{inner: inner, upgrade: upgrade}
}

func (t *thenTransport[I, O]) Get(ctx context.Context) (O, bool, error) {
	var zero O
	for {
		ch, ok, err := t.inner.Get(ctx)
		if err != nil {
			return zero, false, err
		}
		if !ok {
			return zero, false, nil
		}
		out, err := t.upgrade.Upgrade(ctx, ch)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"service": t.upgrade.Name(),
				"error":   err,
			}).Debug("core: dropping channel that failed upgrade")
			continue
		}
		return out, true, nil
	}
}

// Handle drives t.Get in a loop, spawning svc.Upgrade on a new goroutine
// for each channel it produces, and returns once the transport has drained
// and every spawned handler has returned (spec §4.1). A handler error is
// logged and absorbed at this layer per spec §7; it never aborts the loop
// or the other handlers.
func Handle[C Channel, O any](ctx context.Context, t Transport[C], svc Service[C, O]) error {
	g, gctx := errgroup.WithContext(ctx)

	for {
		ch, ok, err := t.Get(gctx)
		if err != nil {
			return fmt.Errorf("core: handle: transport error: %w", err)
		}
		if !ok {
			break
		}
		ch := ch
		g.Go(func() error {
			if _, err := svc.Upgrade(gctx, ch); err != nil {
				logrus.WithFields(logrus.Fields{
					"service": svc.Name(),
					"error":   err,
				}).Debug("core: handler returned error")
			}
			return nil
		})
	}

	return g.Wait()
}
