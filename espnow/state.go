package espnow

import "github.com/dungph/yanet-go/mailbox"

type peerStatus int

// A peer starts unknown (absent from the transport's map, implicitly
// "None"). The first Pong, Begin, or Message we see from it creates an
// entry directly in statusActive: the event table in spec §4.4 never
// exercises a separate pending-handshake state for this layer (unlike the
// Noise and TCP layers above it, the rendezvous here has no outbound
// "connect to a known MAC" operation to be pending on). statusClosed marks
// a peer whose channel the application has dropped; a later Message for it
// starts a fresh Active entry.
const (
	statusActive peerStatus = iota
	statusClosed
)

// peerInboxCapacity bounds each peer's undelivered-message queue. Overflow
// is dropped rather than applying backpressure to the shared radio
// callback, matching the lossy nature of the medium.
const peerInboxCapacity = 32

type peerState struct {
	status peerStatus
	inbox  *mailbox.Bounded[[]byte]
}

func newPeerState() *peerState {
	return &peerState{status: statusActive, inbox: mailbox.NewBounded[[]byte](peerInboxCapacity)}
}
