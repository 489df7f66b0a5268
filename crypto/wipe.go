package crypto

import (
	"crypto/subtle"
	"errors"
	"runtime"
)

// SecureWipe overwrites data in place with zeros using a constant-time XOR
// (x XOR x = 0) that the compiler cannot optimize away. It returns an
// error if data is nil.
func SecureWipe(data []byte) error {
	if data == nil {
		return errors.New("cannot wipe nil data")
	}

	subtle.XORBytes(data, data, data)

	// Prevent the compiler from treating the wipe as dead code.
	runtime.KeepAlive(data)

	return nil
}

// ZeroBytes wipes data, discarding the error SecureWipe returns for nil
// input.
func ZeroBytes(data []byte) {
	_ = SecureWipe(data)
}
