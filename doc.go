// Package yanet provides a composable protocol stack for mutually
// authenticated, end-to-end encrypted communication between small,
// often embedded, devices over heterogeneous and unreliable links.
//
// The stack is built bottom-up as values whose types compose:
//
//	link transport (espnow, tcp)
//	  -> framing Channel
//	  -> Noise-XX upgrade (noisesession)
//	  -> multiplexing (mux)
//	  -> named application services
//
// # Core abstractions
//
// Everything above a raw link is expressed through three interfaces defined
// in [github.com/dungph/yanet-go/core]:
//
//   - Channel: a bidirectional, ordered stream of frames with an initiator bit.
//   - Transport: a source of new Channels.
//   - Service: a named transformation from a Channel into a richer value.
//
// Transports compose with Or (race two transports), Then (upgrade every
// channel a transport produces), and Handle (drive a transport, dispatching
// each channel to a Service).
//
// # Getting started
//
// A minimal TCP-only stack, authenticated with Noise-XX and multiplexed into
// named services, looks like:
//
//	priv, _ := noisesession.GenerateStaticKey()
//	transport, _ := tcp.Listen(":4242")
//	upgraded := core.Then(transport, noisesession.NewUpgrade(priv))
//	multiplex := mux.NewService()
//	multiplex.Handle("chat", chatService)
//	core.Handle(context.Background(), upgraded, multiplex)
//
// See cmd/yanet-link for a runnable composition over TCP. It does not wire
// in the broadcast-link (ESP-NOW-shaped) adapter, which needs a Radio
// driver the binary does not link.
package yanet
