package core

import (
	"context"

	"github.com/dungph/yanet-go/mailbox"
)

// pipeEnd is one side of an in-memory Channel pair, used throughout the
// test suites in place of a real link. It never errors on send/recv except via context cancellation.
type pipeEnd struct {
	isInitiator bool
	out         *mailbox.Unbounded[Frame]
	in          *mailbox.Unbounded[Frame]
}

func (p *pipeEnd) IsInitiator() bool { return p.isInitiator }

func (p *pipeEnd) Send(ctx context.Context, frame Frame) error {
	p.out.Send(frame)
	return nil
}

func (p *pipeEnd) Recv(ctx context.Context) (Frame, error) {
	return p.in.Recv(ctx)
}

// NewPipe returns two Channels wired back to back: frames sent on one are
// received on the other. The first is the initiator side, the second the
// responder side, matching spec §8 scenario 1 ("Noise XX over a memory
// pipe").
func NewPipe() (Channel, Channel) {
	ab := mailbox.NewUnbounded[Frame]()
	ba := mailbox.NewUnbounded[Frame]()
	a := &pipeEnd{isInitiator: true, out: ab, in: ba}
	b := &pipeEnd{isInitiator: false, out: ba, in: ab}
	return a, b
}
