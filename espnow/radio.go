package espnow

// MAC is a 6-byte hardware address. BroadcastMAC is the reserved
// all-ones address the native API uses to reach every peer on the channel.
type MAC [6]byte

var BroadcastMAC = MAC{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// Radio is the native broadcast-radio surface this package adapts. A real
// implementation wraps a device driver (e.g. ESP-NOW); FakeRadio is an
// in-memory double for tests.
type Radio interface {
	// AddPeer registers mac so Send to it is permitted. Implementations
	// that don't require explicit peer registration may no-op.
	AddPeer(mac MAC) error

	// Send transmits data. The native API addresses individual peers, but
	// this adapter always targets BroadcastMAC and carries the intended
	// recipient inside the packet payload (see packet.go), matching how
	// the underlying radio actually behaves: every listening peer on the
	// channel receives the frame regardless of its MAC header.
	Send(mac MAC, data []byte) error

	// RegisterRecvCallback installs the function invoked for every frame
	// received, typically from a driver interrupt or background thread.
	RegisterRecvCallback(fn func(src MAC, data []byte))

	// GetMac returns this device's own hardware address.
	GetMac() MAC

	// SetChannel switches the radio to a new channel number (1..14).
	SetChannel(ch uint8) error

	// InfrastructureConnected reports whether the device is currently
	// associated with an infrastructure WiFi network, in which case the
	// advertising loop must not hop channels out from under that link.
	InfrastructureConnected() bool
}
