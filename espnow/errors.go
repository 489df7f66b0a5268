package espnow

import "errors"

// ErrTransportClosed is returned by a peer Channel's Recv once that Channel
// has been closed with Close. Closing the Transport does not close the
// peer Channels it already handed out.
var ErrTransportClosed = errors.New("espnow: transport closed")
