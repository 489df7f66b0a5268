package noisesession

import (
	"crypto/rand"

	"github.com/flynn/noise"
	"golang.org/x/crypto/curve25519"
)

// cipherSuite is the fixed Noise_XX_25519_ChaChaPoly_BLAKE2s parameter set.
// Every session, initial or re-handshake, uses exactly this suite.
var cipherSuite = noise.NewCipherSuite(noise.DH25519, noise.CipherChaChaPoly, noise.HashBLAKE2s)

// GenerateStaticKey produces a fresh X25519 static private key suitable for
// long-lived use as a peer's identity key.
func GenerateStaticKey() ([32]byte, error) {
	kp, err := noise.DH25519.GenerateKeypair(rand.Reader)
	if err != nil {
		return [32]byte{}, err
	}
	var priv [32]byte
	copy(priv[:], kp.Private)
	return priv, nil
}

// StaticPublicKey derives the public key matching a static private key,
// useful for logging or configuration without running a handshake.
func StaticPublicKey(priv [32]byte) ([32]byte, error) {
	var pub [32]byte
	if err := curve25519ScalarMult(&pub, &priv); err != nil {
		return [32]byte{}, err
	}
	return pub, nil
}

func curve25519ScalarMult(dst, priv *[32]byte) error {
	out, err := curve25519.X25519(priv[:], curve25519.Basepoint)
	if err != nil {
		return err
	}
	copy(dst[:], out)
	return nil
}

func dhKeypair(priv [32]byte) (noise.DHKey, error) {
	pub, err := StaticPublicKey(priv)
	if err != nil {
		return noise.DHKey{}, err
	}
	return noise.DHKey{Private: priv[:], Public: pub[:]}, nil
}
