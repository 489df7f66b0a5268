package mux

import "errors"

// ErrRouterClosed is returned by a service Channel once its carrier has
// failed or been closed.
var ErrRouterClosed = errors.New("mux: router closed")
