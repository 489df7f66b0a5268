package noisesession

import (
	"context"
	"time"

	"github.com/dungph/yanet-go/core"
	"github.com/sirupsen/logrus"
)

// responderHandshakeTimeout bounds the responder side's whole initial
// handshake, from waiting for the initiator's first message through
// receiving its third. The initiator drives the exchange and so
// is not subject to it; a peer that never speaks is the initiator's problem
// to give up on via its own context.
const responderHandshakeTimeout = 1 * time.Second

// Upgrade turns an anonymous core.Channel into a core.AuthenticatedChannel
// by running the initial Noise XX handshake. It implements
// core.Service[core.Channel, core.AuthenticatedChannel].
type Upgrade struct {
	staticKey [32]byte
}

// NewUpgrade builds an Upgrade service using the given static private key as
// this side's long-term identity.
func NewUpgrade(staticKey [32]byte) *Upgrade {
	return &Upgrade{staticKey: staticKey}
}

func (u *Upgrade) Name() string { return "noise" }

func (u *Upgrade) Upgrade(ctx context.Context, ch core.Channel) (core.AuthenticatedChannel, error) {
	responding := !ch.IsInitiator()
	if responding {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, responderHandshakeTimeout)
		defer cancel()
	}

	send, recv, remoteStatic, err := performInitialHandshake(ctx, u.staticKey, ch)
	if err != nil {
		if responding && ctx.Err() == context.DeadlineExceeded {
			err = ErrHandshakeTimeout
		}
		logrus.WithField("component", "noisesession").WithError(err).Debug("handshake failed")
		return nil, err
	}
	return newChannel(ch, u.staticKey, send, recv, remoteStatic), nil
}

var _ core.Service[core.Channel, core.AuthenticatedChannel] = (*Upgrade)(nil)
