package tcp

import (
	"context"
	"net"

	"github.com/dungph/yanet-go/core"
	"github.com/dungph/yanet-go/mailbox"
	"github.com/sirupsen/logrus"
)

// Listener is a core.Transport[core.Channel] that also exposes the bound
// local address and a way to stop accepting new connections.
type Listener interface {
	core.Transport[core.Channel]
	Addr() net.Addr
	Close() error
}

// listener is a core.Transport[core.Channel] that yields one Channel per
// accepted TCP connection, responder side (IsInitiator() == false).
type listener struct {
	ln      net.Listener
	addr    net.Addr
	log     *logrus.Entry
	incoming *mailbox.Unbounded[core.Channel]
}

// Listen binds addr and starts accepting connections in the background.
// Each accepted connection surfaces as a Channel from the returned
// Transport's Get method.
func Listen(addr string) (Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	l := &listener{
		ln:       ln,
		addr:     ln.Addr(),
		log:      logrus.WithFields(logrus.Fields{"component": "tcp", "addr": ln.Addr().String()}),
		incoming: mailbox.NewUnbounded[core.Channel](),
	}
	go l.acceptLoop()
	return l, nil
}

// Addr reports the bound local address, useful when addr was ":0".
func (l *listener) Addr() net.Addr { return l.addr }

func (l *listener) acceptLoop() {
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			l.log.WithError(err).Debug("listener closed")
			l.incoming.Close()
			return
		}
		l.incoming.Send(newChannel(conn, false))
	}
}

func (l *listener) Get(ctx context.Context) (core.Channel, bool, error) {
	ch, err := l.incoming.Recv(ctx)
	if err != nil {
		if err == mailbox.ErrClosed {
			return nil, false, nil
		}
		return nil, false, err
	}
	return ch, true, nil
}

// Close stops accepting new connections. Channels already handed out are
// unaffected.
func (l *listener) Close() error { return l.ln.Close() }

var _ core.Transport[core.Channel] = (*listener)(nil)
