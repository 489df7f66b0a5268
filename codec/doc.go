// Package codec implements the compact, self-describing binary format
// spec §6 requires for every on-wire struct in the stack: 32-byte
// fixed-width PeerIds, length-prefixed byte strings (varint length),
// discriminant-tag-prefixed tagged unions, and little-endian fixed-width
// integers. Any codec with these properties is spec-compliant; this one is
// chosen for its small embedded-friendly encoder/decoder (no reflection,
// no allocation beyond the output buffer).
package codec
