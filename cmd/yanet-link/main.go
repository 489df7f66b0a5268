// Command yanet-link is a minimal composition root showing how the core,
// noisesession, mux and tcp packages fit together: it serves a TCP
// listener behind a single Noise handshake and a single multiplexer, the
// (&tcp).then(&noise).handle(&multiplex) part of the
// (&espnow).or(&tcp).then(&noise).handle(&multiplex) shape in the system
// this module generalizes. No ESP-NOW transport is wired in; the espnow
// config flag only logs a warning.
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/dungph/yanet-go/core"
	"github.com/dungph/yanet-go/mux"
	"github.com/dungph/yanet-go/noisesession"
	"github.com/dungph/yanet-go/tcp"
	"github.com/sirupsen/logrus"
)

var errNoKeyConfigured = errors.New("yanet-link: no private_key or key_file configured")

func main() {
	configPath := flag.String("config", "yanet-link.yaml", "path to the YAML composition config")
	flag.Parse()

	log := logrus.WithField("component", "yanet-link")

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	key, err := cfg.privateKey()
	if err != nil {
		if !errors.Is(err, errNoKeyConfigured) || cfg.KeyFile == "" {
			log.WithError(err).Fatal("failed to load private key")
		}
		key, err = noisesession.GenerateStaticKey()
		if err != nil {
			log.WithError(err).Fatal("failed to generate private key")
		}
		if werr := os.WriteFile(cfg.KeyFile, []byte(hex.EncodeToString(key[:])), 0o600); werr != nil {
			log.WithError(werr).Fatal("failed to persist generated private key")
		}
		log.WithField("key_file", cfg.KeyFile).Info("generated new static key")
	}

	pub, err := noisesession.StaticPublicKey(key)
	if err != nil {
		log.WithError(err).Fatal("failed to derive public key")
	}
	log.WithField("public_key", hex.EncodeToString(pub[:])).Info("starting")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	upgrade := noisesession.NewUpgrade(key)
	multiplex := mux.NewService()
	if cfg.Echo {
		multiplex.Handle("echo", &echoService{log: log})
	}

	inbound, err := buildInboundTransport(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to build inbound transport")
	}

	for _, addr := range cfg.DialAddrs {
		addr := addr
		go dial(ctx, addr, upgrade, multiplex, log)
	}

	if inbound == nil {
		log.Warn("no inbound carrier configured (listen_addr/espnow); only outbound dial_addrs will be served")
		<-ctx.Done()
		return
	}

	// (&tcp).then(&noise).handle(&multiplex), the composition this
	// binary's package doc advertises.
	then := core.Then(inbound, upgrade)
	if err := core.Handle(ctx, then, multiplex); err != nil && ctx.Err() == nil {
		log.WithError(err).Fatal("serve loop exited")
	}
}

// buildInboundTransport returns the TCP listener as the inbound transport,
// or nil when listen_addr is empty. It does not compose anything with Or:
// the TCP carrier is the only one this binary can build.
func buildInboundTransport(cfg *config, log *logrus.Entry) (core.Transport[core.Channel], error) {
	var tcpTransport core.Transport[core.Channel]
	if cfg.ListenAddr != "" {
		ln, err := tcp.Listen(cfg.ListenAddr)
		if err != nil {
			return nil, err
		}
		log.WithField("addr", ln.Addr()).Info("listening")
		tcpTransport = ln
	}

	if cfg.ESPNow {
		log.Warn("espnow carrier requested but no Radio driver is wired into this binary; skipping")
	}

	// Only the TCP carrier is ever available in this reference binary, so
	// there is nothing to race with core.Or yet. A build that links a real
	// espnow.Radio would instead do:
	//
	//   widened := widenEither(core.Or(espTransport, tcpTransport))
	//
	// using the same widenEither helper below.
	return tcpTransport, nil
}

// widenEither adapts a Transport producing core.Either[A, B] into a
// Transport producing plain core.Channel, since Either already implements
// Channel but Go's generic interface satisfaction requires an exact type
// match against the Service a Transport is paired with in Then.
func widenEither[A core.Channel, B core.Channel](t core.Transport[core.Either[A, B]]) core.Transport[core.Channel] {
	return core.TransportFunc[core.Channel](func(ctx context.Context) (core.Channel, bool, error) {
		e, ok, err := t.Get(ctx)
		if err != nil || !ok {
			return nil, ok, err
		}
		return e, true, nil
	})
}

func dial(ctx context.Context, addr string, upgrade *noisesession.Upgrade, multiplex *mux.Service, log *logrus.Entry) {
	ch, err := tcp.Connect(ctx, addr)
	if err != nil {
		log.WithField("addr", addr).WithError(err).Warn("dial failed")
		return
	}
	auth, err := upgrade.Upgrade(ctx, ch)
	if err != nil {
		log.WithField("addr", addr).WithError(err).Warn("handshake failed")
		return
	}
	if _, err := multiplex.Upgrade(ctx, auth); err != nil {
		log.WithField("addr", addr).WithError(err).Warn("session ended")
	}
}

// echoService is the "echo" multiplexed service registered when cfg.Echo
// is set: it exercises the whole stack end to end by bouncing every frame
// it receives back to its sender.
type echoService struct {
	log *logrus.Entry
}

func (s *echoService) Name() string { return "echo" }

func (s *echoService) Upgrade(ctx context.Context, ch core.Channel) (struct{}, error) {
	for {
		frame, err := ch.Recv(ctx)
		if err != nil {
			s.log.WithError(err).Debug("echo service closed")
			return struct{}{}, err
		}
		if err := ch.Send(ctx, frame); err != nil {
			s.log.WithError(err).Debug("echo reply failed")
			return struct{}{}, err
		}
	}
}

var _ core.Service[core.Channel, struct{}] = (*echoService)(nil)
