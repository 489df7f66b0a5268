// Package tcp is a length-prefixed framing Channel over net.Conn. It is the
// reference raw-link transport for the stack: no authentication, no
// reliability guarantees beyond what TCP itself gives, just frame
// boundaries over a byte stream.
package tcp
