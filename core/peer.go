package core

import (
	"bytes"
	"encoding/hex"
)

// PeerIdSize is the fixed width of a PeerId: the peer's static public key
// under the Noise handshake's Diffie-Hellman curve (Curve25519).
const PeerIdSize = 32

// PeerId is an opaque 32-byte value identifying a peer by its static public
// key. It is stable for the lifetime of the key pair and compares by
// byte-lexicographic order, matching spec §3.
type PeerId [PeerIdSize]byte

// Compare returns -1, 0, or 1 following byte-lexicographic order, the same
// total order used to break Noise re-handshake collisions (spec §4.2) and
// to pick the broadcast-link initiator (spec §4.4).
func (p PeerId) Compare(other PeerId) int {
	return bytes.Compare(p[:], other[:])
}

func (p PeerId) String() string {
	return hex.EncodeToString(p[:])
}

// AuthenticatedChannel is a Channel whose remote identity has been proven
// during a handshake. PeerId never changes over the channel's lifetime.
type AuthenticatedChannel interface {
	Channel
	PeerId() PeerId
}
