// Package noisesession upgrades an anonymous core.Channel into a
// core.AuthenticatedChannel by running a Noise_XX_25519_ChaChaPoly_BLAKE2s
// handshake over it, then wraps the resulting transport ciphers so the two
// sides can periodically re-handshake (forward secrecy refresh) without
// tearing the underlying link down.
//
// The initial handshake's three messages travel as raw frames - whatever
// bytes flynn/noise produces, unwrapped. Once the session reaches transport
// state, every frame is tagged (see frame.go) so a re-handshake can be
// signalled inline with ordinary encrypted traffic.
package noisesession
