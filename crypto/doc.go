// Package crypto collects the small set of low-level helpers the rest of
// this module needs around cryptographic material that don't belong in
// any one protocol layer: secure memory wiping and an injectable clock.
//
// Key generation and derivation themselves live next to the protocol that
// defines their curve and cipher suite (see noisesession), not here.
//
// # Secure Memory Handling
//
// Sensitive byte slices — a decoded key file, a handshake transcript no
// longer needed — should be wiped once consumed:
//
//	defer crypto.SecureWipe(sensitiveData)
//
// [SecureWipe] uses crypto/subtle's constant-time XOR so the compiler
// cannot optimize the zeroing away.
//
// # Deterministic Testing
//
// Components that gate behavior on elapsed time accept a [TimeProvider]
// at construction so tests can advance time explicitly instead of
// sleeping; package espnow's tests do this with an unexported constructor:
//
//	clock := &fakeClock{now: time.Unix(1000, 0)}
//	tr, err := newTransport(radio, clock)
package crypto
