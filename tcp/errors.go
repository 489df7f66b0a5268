package tcp

import "errors"

// ErrFrameTooLarge is returned when a peer's length prefix claims a frame
// bigger than codec.MaxFrameSize, almost certainly a desynced stream rather
// than a legitimate oversized message.
var ErrFrameTooLarge = errors.New("tcp: frame length prefix exceeds maximum frame size")
