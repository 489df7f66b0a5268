package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/dungph/yanet-go/crypto"
	"gopkg.in/yaml.v3"
)

// config mirrors the composition root described for this binary: the TCP
// carrier link (the ESP-NOW flag is read but not wired in), a static
// identity key, and the set of named services the multiplexer exposes
// once a peer has completed its Noise handshake.
type config struct {
	// PrivateKeyHex is this node's static X25519 private key, hex
	// encoded. Generated and persisted to KeyFile on first run if empty.
	PrivateKeyHex string `yaml:"private_key,omitempty"`
	// KeyFile is where a generated private key is written back, so
	// restarts keep the same PeerId. Ignored if PrivateKeyHex is set.
	KeyFile string `yaml:"key_file,omitempty"`

	// ListenAddr is the TCP address this node accepts inbound connections
	// on, e.g. "0.0.0.0:7711". Empty disables the TCP carrier.
	ListenAddr string `yaml:"listen_addr,omitempty"`
	// DialAddrs are remote TCP addresses to connect to at startup, in
	// addition to whatever ListenAddr accepts.
	DialAddrs []string `yaml:"dial_addrs,omitempty"`

	// ESPNow requests the broadcast-medium carrier. It has no fields of
	// its own here because the radio driver is hardware-specific. This
	// binary links no Radio implementation, so setting it only logs a
	// warning.
	ESPNow bool `yaml:"espnow,omitempty"`

	// Echo, when true, registers the "echo" multiplexed service used to
	// exercise the whole stack end to end (handshake, then mux routing).
	Echo bool `yaml:"echo,omitempty"`
}

func loadConfig(path string) (*config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg config
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

func (c *config) privateKey() ([32]byte, error) {
	var key [32]byte
	if c.PrivateKeyHex != "" {
		b, err := hex.DecodeString(c.PrivateKeyHex)
		if err != nil {
			return key, fmt.Errorf("decode private_key: %w", err)
		}
		if len(b) != 32 {
			return key, fmt.Errorf("private_key must be 32 bytes, got %d", len(b))
		}
		copy(key[:], b)
		crypto.ZeroBytes(b)
		return key, nil
	}
	if c.KeyFile != "" {
		if b, err := os.ReadFile(c.KeyFile); err == nil {
			decoded, err := hex.DecodeString(string(b))
			if err == nil && len(decoded) == 32 {
				copy(key[:], decoded)
				crypto.ZeroBytes(decoded)
				return key, nil
			}
		}
	}
	return [32]byte{}, errNoKeyConfigured
}
