package bridge

import (
	"context"
	"errors"
	"net"
	"strconv"

	"github.com/puckbridge/puckbridge/internal/config"
	"github.com/puckbridge/puckbridge/internal/events"
	"github.com/puckbridge/puckbridge/internal/network/upnp"
	"github.com/puckbridge/puckbridge/internal/protocol"
	"github.com/puckbridge/puckbridge/internal/server"
	"github.com/puckbridge/puckbridge/internal/state"
	"golang.org/x/sync/errgroup"
)

var errListenAddress = errors.New("invalid listen address")

// Bridge wires the state store, event bus, protocol decoder and connection
// manager together and exposes the public operations external tooling
// consumes. Instances are independent; nothing here is process-global, so
// several bridges can coexist when needed.
type Bridge struct {
	conf    config.Config
	store   *state.Store
	bus     *events.Bus
	decoder *protocol.Decoder
	server  *server.Server
	replay  *server.Replay
}

func New(conf config.Config) *Bridge {
	store := state.NewStore()
	bus := events.NewBus()
	decoder := protocol.NewDecoder(store, bus)

	bridge := &Bridge{
		conf:    conf,
		store:   store,
		bus:     bus,
		decoder: decoder,
		server:  server.New(conf.ListenAddress, decoder),
	}

	if conf.ReplayPath != "" {
		bridge.replay = server.NewReplay(conf.ReplayPath)
	}

	return bridge
}

// Start opens the listen socket and runs the accept loop plus any auxiliary
// sources until the context is cancelled. It blocks for the lifetime of the
// bridge.
func (b *Bridge) Start(ctx context.Context) error {
	if err := b.server.Open(ctx); err != nil {
		return err
	}

	defer func() {
		_ = b.server.Close()
	}()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return b.server.Start(groupCtx)
	})

	if b.conf.UPNPEnabled {
		internalPort, errPort := listenPort(b.conf.ListenAddress)
		if errPort != nil {
			return errPort
		}
		externalPort := uint16(b.conf.UPNPExternalPort)
		if externalPort == 0 {
			externalPort = internalPort
		}
		group.Go(func() error {
			upnp.New(externalPort, internalPort).Start(groupCtx)

			return nil
		})
	}

	if b.replay != nil {
		if err := b.replay.Open(); err != nil {
			return err
		}
		group.Go(func() error {
			defer func() {
				_ = b.replay.Close()
			}()
			b.replay.Start(groupCtx, b.decoder)

			return nil
		})
	}

	return group.Wait()
}

// Addr returns the actual bound listen address. Only valid while started.
func (b *Bridge) Addr() net.Addr {
	return b.server.Addr()
}

// State exposes the snapshot store and all of its derived queries.
func (b *Bridge) State() *state.Store {
	return b.store
}

// SendCommand pushes a named administrative command with arbitrary extra
// fields to the connected game.
func (b *Bridge) SendCommand(name string, payload map[string]any) error {
	return b.server.SendCommand(name, payload)
}

// IsConnected reports whether a game connection is attached right now.
func (b *Bridge) IsConnected() bool {
	return b.server.IsConnected()
}

// Subscribe registers an observer for a named event type.
func (b *Bridge) Subscribe(eventType string, handler events.Handler) events.Subscription {
	return b.bus.Subscribe(eventType, handler)
}

// SubscribeGlobal registers an observer for every event.
func (b *Bridge) SubscribeGlobal(handler events.GlobalHandler) events.Subscription {
	return b.bus.SubscribeGlobal(handler)
}

// Unsubscribe removes a previously registered observer.
func (b *Bridge) Unsubscribe(sub events.Subscription) {
	b.bus.Unsubscribe(sub)
}

func listenPort(addr string) (uint16, error) {
	_, portString, errSplit := net.SplitHostPort(addr)
	if errSplit != nil {
		return 0, errors.Join(errSplit, errListenAddress)
	}

	port, errParse := strconv.ParseUint(portString, 10, 16)
	if errParse != nil {
		return 0, errors.Join(errParse, errListenAddress)
	}

	return uint16(port), nil
}
