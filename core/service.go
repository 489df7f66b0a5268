package core

import "context"

// Named gives a Service a stable, byte-compared routing tag. The core
// reserves the names "noise" and "multiplex" (spec §6).
type Named interface {
	Name() string
}

// Service is a named transformation from one Channel into a richer Output
// (spec §4.1, "Upgrade/Service"). The Noise handshake, the multiplexer, and
// any application-level handler registered with the multiplexer are all
// Services.
type Service[I Channel, O any] interface {
	Named
	Upgrade(ctx context.Context, ch I) (O, error)
}

// ServiceFunc adapts a plain function into a Service for handlers that
// don't need any other state, mirroring the handler-registration pattern
// used throughout the mux package.
type ServiceFunc[I Channel, O any] struct {
	FuncName    string
	UpgradeFunc func(ctx context.Context, ch I) (O, error)
}

func (f ServiceFunc[I, O]) Name() string { return f.FuncName }

func (f ServiceFunc[I, O]) Upgrade(ctx context.Context, ch I) (O, error) {
	return f.UpgradeFunc(ctx, ch)
}
