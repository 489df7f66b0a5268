package espnow

import "sync"

// Medium is a shared in-memory broadcast domain for FakeRadio instances: a
// send on one radio is delivered to every other radio on the same Medium,
// matching how a real 802.11 channel behaves regardless of the destination
// MAC carried in the frame.
type Medium struct {
	mu     sync.Mutex
	radios map[MAC]*FakeRadio
}

// NewMedium returns an empty shared medium.
func NewMedium() *Medium {
	return &Medium{radios: make(map[MAC]*FakeRadio)}
}

// NewRadio attaches a new FakeRadio with the given MAC to the medium.
func (m *Medium) NewRadio(mac MAC) *FakeRadio {
	r := &FakeRadio{mac: mac, medium: m}
	m.mu.Lock()
	m.radios[mac] = r
	m.mu.Unlock()
	return r
}

func (m *Medium) deliver(src MAC, data []byte) {
	m.mu.Lock()
	targets := make([]*FakeRadio, 0, len(m.radios))
	for mac, r := range m.radios {
		if mac != src {
			targets = append(targets, r)
		}
	}
	m.mu.Unlock()

	for _, r := range targets {
		r.mu.Lock()
		cb := r.cb
		r.mu.Unlock()
		if cb != nil {
			go cb(src, data)
		}
	}
}

// FakeRadio is an in-memory Radio double for tests: every Send is
// delivered asynchronously (on its own goroutine, simulating a foreign
// driver callback thread) to every other radio on the same Medium.
type FakeRadio struct {
	mac    MAC
	medium *Medium

	mu        sync.Mutex
	cb        func(src MAC, data []byte)
	channel   uint8
	connected bool
}

func (r *FakeRadio) AddPeer(mac MAC) error { return nil }

func (r *FakeRadio) Send(mac MAC, data []byte) error {
	r.medium.deliver(r.mac, data)
	return nil
}

func (r *FakeRadio) RegisterRecvCallback(fn func(src MAC, data []byte)) {
	r.mu.Lock()
	r.cb = fn
	r.mu.Unlock()
}

func (r *FakeRadio) GetMac() MAC { return r.mac }

func (r *FakeRadio) SetChannel(ch uint8) error {
	r.mu.Lock()
	r.channel = ch
	r.mu.Unlock()
	return nil
}

func (r *FakeRadio) Channel() uint8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.channel
}

// SetInfrastructureConnected lets a test simulate an associated WiFi link,
// which should stop the advertising loop's channel hopping.
func (r *FakeRadio) SetInfrastructureConnected(v bool) {
	r.mu.Lock()
	r.connected = v
	r.mu.Unlock()
}

func (r *FakeRadio) InfrastructureConnected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connected
}

var _ Radio = (*FakeRadio)(nil)
