package noisesession

import "errors"

var (
	// ErrHandshakeFailed covers any Noise protocol-level failure during the
	// initial or a re-handshake exchange: bad authentication, a corrupted
	// message, or a peer that closes mid-handshake. It is always fatal to
	// the channel.
	ErrHandshakeFailed = errors.New("noisesession: handshake failed")

	// ErrNonceReplay is returned when a received Payload frame's nonce is
	// lower than the highest one already accepted, meaning either reuse or
	// an out-of-order replay. Fatal; the session does not attempt recovery.
	ErrNonceReplay = errors.New("noisesession: nonce replay or reuse")

	// ErrUnexpectedFrame is returned when a frame tag arrives that makes no
	// sense for the session's current state (e.g. a Rehandshake2 with no
	// in-flight attempt to match it against).
	ErrUnexpectedFrame = errors.New("noisesession: unexpected frame for current state")

	// ErrHandshakeTimeout is returned when the responder side of the
	// initial handshake doesn't complete it within the fixed
	// responderHandshakeTimeout.
	ErrHandshakeTimeout = errors.New("noisesession: timed out waiting for handshake")

	// ErrAuthenticationFailed is returned when a transport-phase Payload
	// frame fails to decrypt/authenticate.
	ErrAuthenticationFailed = errors.New("noisesession: authentication failed")

	// ErrPeerIdentityChanged is returned if a re-handshake completes
	// against a different static key than the session's original peer,
	// violating AuthenticatedChannel's stable-PeerId invariant.
	ErrPeerIdentityChanged = errors.New("noisesession: peer identity changed across re-handshake")
)
