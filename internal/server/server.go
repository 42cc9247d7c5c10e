package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"
)

// pollTimeout bounds every blocking accept/read so a cancelled context is
// observed within one interval instead of hanging on the socket.
const pollTimeout = time.Second

var (
	ErrListen = errors.New("failed to open listen socket")
	ErrClose  = errors.New("failed to close listen socket")
	ErrNoPeer = errors.New("no active game connection")
	ErrSend   = errors.New("failed to send command")
)

// Receiver handles raw inbound message chunks read off the game connection.
type Receiver interface {
	Send(chunk string)
}

func New(addr string, receiver Receiver) *Server {
	return &Server{
		addr:     addr,
		receiver: receiver,
	}
}

// Server owns the listening socket and the at-most-one live game connection.
// New peers are accepted continuously; the most recently accepted one
// becomes the command target, superseding (but not closing) its predecessor,
// whose read loop keeps draining until the peer goes away on its own.
type Server struct {
	addr     string
	receiver Receiver

	mu       sync.Mutex // guards current and listener
	current  net.Conn
	listener net.Listener
}

// Open binds the listen socket. Start must be called afterwards to begin
// accepting connections.
func (s *Server) Open(ctx context.Context) error {
	listenConfig := net.ListenConfig{}
	listener, errListen := listenConfig.Listen(ctx, "tcp", s.addr)
	if errListen != nil {
		return errors.Join(errListen, ErrListen)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	slog.Info("Listening for game connection", slog.String("addr", listener.Addr().String()))

	return nil
}

// Addr returns the bound listen address, or nil before Open.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}

	return s.listener.Addr()
}

// Close shuts the listen socket down. Read loops exit on their own within
// one poll interval of the context being cancelled.
func (s *Server) Close() error {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()

	if listener == nil {
		return nil
	}

	if err := listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return errors.Join(err, ErrClose)
	}

	return nil
}

// Start runs the accept loop until the context is cancelled. Accept errors
// are never fatal to the loop; only cancellation or a closed listener stops
// it.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		if deadline, ok := listener.(*net.TCPListener); ok {
			if err := deadline.SetDeadline(time.Now().Add(pollTimeout)); err != nil {
				return errors.Join(err, ErrListen)
			}
		}

		conn, errAccept := listener.Accept()
		if errAccept != nil {
			if errors.Is(errAccept, os.ErrDeadlineExceeded) {
				continue
			}
			if errors.Is(errAccept, net.ErrClosed) || ctx.Err() != nil {
				return nil
			}

			slog.Error("Failed to accept connection", slog.String("error", errAccept.Error()))

			continue
		}

		go s.handlePeer(ctx, conn)
	}
}

// handlePeer is the per-connection read loop. The whole chunk from a single
// read is forwarded as-is; splitting it into messages is the receiver's job.
func (s *Server) handlePeer(ctx context.Context, conn net.Conn) {
	addr := conn.RemoteAddr().String()
	slog.Info("Game connected", slog.String("addr", addr))

	s.attach(conn)
	defer func() {
		s.detach(conn)
		if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			slog.Debug("Error closing peer", slog.String("addr", addr), slog.String("error", err.Error()))
		}
	}()

	buffer := make([]byte, 4096)
	for {
		if ctx.Err() != nil {
			return
		}

		if err := conn.SetReadDeadline(time.Now().Add(pollTimeout)); err != nil {
			slog.Warn("Failed to set read deadline", slog.String("addr", addr), slog.String("error", err.Error()))

			return
		}

		count, errRead := conn.Read(buffer)
		if count > 0 {
			s.receiver.Send(string(buffer[:count]))
		}

		if errRead != nil {
			if errors.Is(errRead, os.ErrDeadlineExceeded) {
				continue
			}
			if errors.Is(errRead, io.EOF) {
				slog.Info("Game disconnected", slog.String("addr", addr))
			} else {
				slog.Warn("Read error, dropping connection",
					slog.String("addr", addr), slog.String("error", errRead.Error()))
			}

			return
		}
	}
}

// attach makes conn the current command target.
func (s *Server) attach(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = conn
}

// detach clears the current connection, but only if this conn still is the
// current one. A superseded peer going away must not clobber its successor.
func (s *Server) detach(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == conn {
		s.current = nil
	}
}

// SendCommand serializes one command envelope onto the current connection.
// Fire-and-forget: there is no acknowledgement, the only failure signal is a
// synchronous error. A failed write clears the connection reference since
// the peer is presumed dead.
func (s *Server) SendCommand(name string, payload map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		slog.Warn("No active connection, cannot send command", slog.String("command", name))

		return ErrNoPeer
	}

	fields := map[string]any{"command": name}
	for key, value := range payload {
		fields[key] = value
	}

	message, errMarshal := json.Marshal(map[string]any{
		"role":    "client",
		"type":    "command",
		"payload": fields,
	})
	if errMarshal != nil {
		return errors.Join(errMarshal, ErrSend)
	}

	if _, errWrite := s.current.Write(append(message, '\n')); errWrite != nil {
		slog.Error("Failed to send command",
			slog.String("command", name), slog.String("error", errWrite.Error()))
		s.current = nil

		return errors.Join(errWrite, ErrSend)
	}

	slog.Info("Sent command", slog.String("command", name))

	return nil
}

// IsConnected reports whether a peer is currently attached. Unlike the state
// store's freshness heuristic this is exact.
func (s *Server) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current != nil
}
