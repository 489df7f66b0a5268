// Package core defines the Channel, Transport, and Service abstractions
// that the rest of the stack composes: a Channel is a bidirectional stream
// of length-delimited frames, a Transport produces new Channels, and a
// Service performs a named upgrade of one Channel into another (or into a
// terminal value). Composition operators (Or, Then, Handle) let transports
// and services be wired together without either side knowing about the
// concrete link underneath.
package core
