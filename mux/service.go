package mux

import (
	"context"

	"github.com/dungph/yanet-go/core"
)

// Service adapts Router into a core.Service so the multiplexer composes
// the same way the Noise handshake does: core.Then(carrier, noiseUpgrade)
// yields an AuthenticatedChannel, and core.Handle(ctx, then, muxService)
// hands each one to Upgrade, which starts a Router and dispatches every
// name registered with Handle to its own goroutine. This is the Go shape
// of the reference multiplexer's MultiplexService (spec §4.3,
// yanet_multiplex.rs), which likewise exposes upgrade(carrier) plus a way
// to register application services ahead of time.
type Service struct {
	handlers map[string]core.Service[core.Channel, struct{}]
}

// NewService returns a multiplexer Service with no registered handlers.
func NewService() *Service {
	return &Service{handlers: make(map[string]core.Service[core.Channel, struct{}])}
}

// Handle registers an application service under name. Every Router this
// Service upgrades opens name on the caller's behalf and runs svc against
// it on its own goroutine; svc's returned error is logged and absorbed the
// same way core.Handle absorbs a top-level handler's error.
func (s *Service) Handle(name string, svc core.Service[core.Channel, struct{}]) {
	s.handlers[name] = svc
}

// Name satisfies core.Named. The core package reserves this name (spec §6).
func (s *Service) Name() string { return "multiplex" }

// Upgrade starts a Router over ch and dispatches every registered service.
// It returns the Router itself so a caller that needs to Open additional,
// not-pre-registered names still can.
func (s *Service) Upgrade(ctx context.Context, ch core.AuthenticatedChannel) (*Router, error) {
	r := NewRouter(ch)
	r.log = r.log.WithField("peer", ch.PeerId().String())
	r.log.Info("router attached")

	for name, svc := range s.handlers {
		name, svc := name, svc
		go func() {
			if _, err := svc.Upgrade(ctx, r.Open(name)); err != nil {
				r.log.WithField("service", name).WithError(err).Debug("service handler returned error")
			}
		}()
	}
	return r, nil
}

var _ core.Service[core.AuthenticatedChannel, *Router] = (*Service)(nil)
