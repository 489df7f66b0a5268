package mux

import (
	"context"
	"encoding/hex"
	"sync"

	"github.com/dungph/yanet-go/core"
	"github.com/dungph/yanet-go/mailbox"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/sync/errgroup"
)

// routeKey identifies a named service in the router's lookup table. Using a
// fixed-size hash instead of the raw string keeps the hot path (one map
// lookup per received frame) free of string-length-dependent comparisons.
// The endpoint's logging correlation ID is a random UUID, not derived from
// this key.
type routeKey [blake2s.Size]byte

func newRouteKey(service string) routeKey {
	return routeKey(blake2s.Sum256([]byte(service)))
}

// endpointCapacity bounds each named service's inbound mailbox. A full
// endpoint applies backpressure to the whole carrier: the router's single
// ingress pump blocks delivering to a slow service rather than dropping its
// frames, since a shared link has no fairer way to shed load than making
// the slow consumer's peer feel it. 10 matches the depth used by the
// reference multiplexer this package is modeled on.
const endpointCapacity = 10

type endpoint struct {
	id    uuid.UUID
	inbox *mailbox.Bounded[core.Frame]
}

// Router demultiplexes one carrier Channel into any number of named
// service Channels, and multiplexes their outbound frames back onto it.
type Router struct {
	carrier core.AuthenticatedChannel
	log     *logrus.Entry
	id      uuid.UUID
	g       *errgroup.Group

	writeMu sync.Mutex

	mu        sync.Mutex
	endpoints map[routeKey]*endpoint
	fatalErr  error
}

// NewRouter starts demultiplexing carrier in the background. The caller
// must call Open for every service name it expects to receive before
// traffic for that name arrives; frames for unopened names are dropped.
// carrier must be authenticated: every muxChannel Open returns inherits its
// PeerId from it (spec §4.3), the same way yanet_multiplex.rs's
// MultiplexChannel inherits remote_id from its carrier.
func NewRouter(carrier core.AuthenticatedChannel) *Router {
	id := uuid.New()
	g := &errgroup.Group{}
	r := &Router{
		carrier:   carrier,
		log:       logrus.WithFields(logrus.Fields{"component": "mux", "session": id}),
		id:        id,
		g:         g,
		endpoints: make(map[routeKey]*endpoint),
	}
	g.Go(func() error { return r.pump() })
	return r
}

// Wait blocks until the router's ingress pump has stopped (the carrier
// closed or errored, or a frame failed to decode) and returns the error
// that stopped it; the result is never nil.
func (r *Router) Wait() error { return r.g.Wait() }

// Open returns the Channel for a named service, creating it on first use.
// Calling Open twice for the same name returns two Channels sharing one
// inbound mailbox; callers should treat a service name as single-owner.
func (r *Router) Open(name string) core.AuthenticatedChannel {
	key := newRouteKey(name)
	r.mu.Lock()
	ep, ok := r.endpoints[key]
	if !ok {
		ep = &endpoint{id: uuid.New(), inbox: mailbox.NewBounded[core.Frame](endpointCapacity)}
		r.endpoints[key] = ep
		r.log.WithFields(logrus.Fields{"service": name, "endpoint": ep.id}).Debug("endpoint opened")
	}
	r.mu.Unlock()
	return &muxChannel{router: r, service: name, inbox: ep.inbox}
}

func (r *Router) pump() error {
	ctx := context.Background()
	for {
		raw, err := r.carrier.Recv(ctx)
		if err != nil {
			r.fail(err)
			return err
		}
		service, payload, err := decodeMuxFrame(raw)
		if err != nil {
			r.fail(err)
			return err
		}
		key := newRouteKey(service)
		r.mu.Lock()
		ep, ok := r.endpoints[key]
		r.mu.Unlock()
		if !ok {
			r.log.WithFields(logrus.Fields{
				"service":  service,
				"routeKey": hex.EncodeToString(key[:4]),
			}).Debug("dropping frame for unopened service")
			continue
		}
		if err := ep.inbox.Send(ctx, payload); err != nil {
			r.fail(err)
			return err
		}
	}
}

func (r *Router) fail(err error) {
	r.mu.Lock()
	if r.fatalErr == nil {
		r.fatalErr = err
	}
	eps := make([]*endpoint, 0, len(r.endpoints))
	for _, ep := range r.endpoints {
		eps = append(eps, ep)
	}
	r.mu.Unlock()
	r.log.WithFields(logrus.Fields{"session": r.id}).WithError(err).Debug("router closing")
	for _, ep := range eps {
		ep.inbox.Close()
	}
}

func (r *Router) sendRaw(ctx context.Context, service string, payload core.Frame) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	return r.carrier.Send(ctx, encodeMuxFrame(service, payload))
}

// muxChannel is one named service's view onto a Router.
type muxChannel struct {
	router  *Router
	service string
	inbox   *mailbox.Bounded[core.Frame]
}

func (c *muxChannel) IsInitiator() bool { return c.router.carrier.IsInitiator() }

// PeerId returns the carrier's authenticated remote peer id: is_initiator
// and peer_id are both inherited from the carrier (spec §4.3).
func (c *muxChannel) PeerId() core.PeerId { return c.router.carrier.PeerId() }

func (c *muxChannel) Send(ctx context.Context, frame core.Frame) error {
	return c.router.sendRaw(ctx, c.service, frame)
}

func (c *muxChannel) Recv(ctx context.Context) (core.Frame, error) {
	f, err := c.inbox.Recv(ctx)
	if err != nil {
		if err == context.Canceled || err == context.DeadlineExceeded {
			return nil, err
		}
		c.router.mu.Lock()
		ferr := c.router.fatalErr
		c.router.mu.Unlock()
		if ferr != nil {
			return nil, ferr
		}
		return nil, ErrRouterClosed
	}
	return f, nil
}

var _ core.AuthenticatedChannel = (*muxChannel)(nil)
