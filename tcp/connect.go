package tcp

import (
	"context"
	"net"

	"github.com/dungph/yanet-go/core"
)

// Connect dials addr and returns a Channel, initiator side.
func Connect(ctx context.Context, addr string) (core.Channel, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return newChannel(conn, true), nil
}
