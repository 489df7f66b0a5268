// Package mux multiplexes several named application channels over one
// underlying carrier core.Channel (typically a noisesession.Channel). Each
// named service gets its own core.Channel with a bounded inbound queue; a
// full queue stalls the single ingress pump and so the whole carrier, not
// just that service. The router demultiplexes inbound frames by service
// name and serializes outbound frames back onto the shared carrier.
package mux
