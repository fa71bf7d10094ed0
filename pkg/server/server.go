// Package server implements the dispatch server: it accepts a single
// client, decodes each call, runs the real operation on this host and
// writes the reply.
package server

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/viraptor/libremotec/internal/logger"
	"github.com/viraptor/libremotec/internal/protocol/call"
	"github.com/viraptor/libremotec/internal/protocol/wire"
	"github.com/viraptor/libremotec/internal/ratelimiter"
	"github.com/viraptor/libremotec/pkg/hostfs"
	"github.com/viraptor/libremotec/pkg/metrics"
)

// DefaultMaxReadSize bounds the bytes returned by a single read or
// getxattr call.
const DefaultMaxReadSize = 1 << 20

// MaxReadLimit is the largest MaxReadSize accepted. Read and getxattr
// results travel as int32.
const MaxReadLimit = math.MaxInt32

// ErrAlreadyListening is returned by Listen when the server is already bound.
var ErrAlreadyListening = errors.New("server already listening")

// State is the lifecycle stage of a Server.
type State int32

const (
	// StateAwaiting means no client has connected yet.
	StateAwaiting State = iota
	// StateConnected means a session is running.
	StateConnected
	// StateFinished means the session ended. A Server never reconnects.
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateAwaiting:
		return "awaiting connection"
	case StateConnected:
		return "connected"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Config configures a Server.
type Config struct {
	// Endpoint is where the server listens for its single peer.
	Endpoint wire.Endpoint

	// MaxReadSize clamps the length of read and getxattr requests.
	// Default: DefaultMaxReadSize
	MaxReadSize int

	// CallsPerSecond throttles the session. Zero means unlimited.
	CallsPerSecond uint

	// Burst is the number of calls allowed above CallsPerSecond.
	// Default: CallsPerSecond
	Burst uint
}

func (c *Config) applyDefaults() {
	if c.MaxReadSize <= 0 {
		c.MaxReadSize = DefaultMaxReadSize
	}
	if c.MaxReadSize > MaxReadLimit {
		c.MaxReadSize = MaxReadLimit
	}
}

// Server executes remote calls on behalf of exactly one client.
//
// Lifecycle:
//  1. Listen() binds the endpoint (optional, Serve does it if needed)
//  2. Serve() accepts one peer and stops listening
//  3. Calls are processed one at a time until the peer disconnects, a
//     transport error occurs, or ctx is cancelled
//
// There is no reconnection: once the session ends the server is done.
//
// Example usage:
//
//	srv := server.New(server.Config{Endpoint: ep}, hostfs.Host{}, nil)
//	if err := srv.Serve(ctx); err != nil {
//	    log.Fatal(err)
//	}
type Server struct {
	config  Config
	fs      hostfs.FS
	metrics metrics.DispatchMetrics
	limiter *ratelimiter.RateLimiter
	state   atomic.Int32

	// mu protects ln
	mu sync.Mutex
	ln net.Listener
}

// New creates a Server that runs calls against fs. A nil m disables metrics.
func New(config Config, fs hostfs.FS, m metrics.DispatchMetrics) *Server {
	config.applyDefaults()
	if m == nil {
		m = metrics.NewNoopDispatchMetrics()
	}
	return &Server{
		config:  config,
		fs:      fs,
		metrics: m,
		limiter: ratelimiter.New(config.CallsPerSecond, config.Burst),
	}
}

// State reports where the server is in its lifecycle.
func (s *Server) State() State {
	return State(s.state.Load())
}

// Listen binds the configured endpoint.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln != nil {
		return ErrAlreadyListening
	}
	ln, err := wire.Listen(s.config.Endpoint)
	if err != nil {
		return err
	}
	s.ln = ln
	logger.Info("Listening on %s", ln.Addr())
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Close stops listening. It has no effect on an accepted session, which
// ends with its context.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln == nil {
		return nil
	}
	err := s.ln.Close()
	if errors.Is(err, net.ErrClosed) {
		err = nil
	}
	return err
}

// Serve waits for one peer and processes its calls. It returns nil when the
// peer disconnects between calls, ctx.Err() when ctx is cancelled, and any
// transport or protocol error otherwise.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()

	if ln == nil {
		if err := s.Listen(); err != nil {
			return err
		}
		s.mu.Lock()
		ln = s.ln
		s.mu.Unlock()
	}

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	conn, err := wire.AcceptOne(ln)
	stop()
	if err != nil {
		s.state.Store(int32(StateFinished))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}

	return s.ServeConn(ctx, conn)
}

// ServeConn processes calls from an established connection and closes it
// on return.
func (s *Server) ServeConn(ctx context.Context, conn *wire.Conn) error {
	session := uuid.NewString()
	logger.Info("[%s] Client connected", session)

	s.state.Store(int32(StateConnected))
	defer s.state.Store(int32(StateFinished))

	s.metrics.RecordConnectionAccepted()
	defer s.metrics.RecordConnectionClosed()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()
	defer func() { _ = conn.Close() }()

	calls := 0
	for {
		_, before := conn.Stats()

		c, err := call.ReadCall(conn)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			_, after := conn.Stats()
			if errors.Is(err, wire.ErrConnectionClosed) && after == before {
				logger.Info("[%s] Client disconnected after %d calls", session, calls)
				return nil
			}
			logger.Error("[%s] Failed to read call: %v", session, err)
			return fmt.Errorf("read call: %w", err)
		}

		if err := s.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("throttle: %w", err)
		}

		if err := s.dispatch(session, conn, c); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error("[%s] %s: %v", session, c.Op, err)
			return err
		}
		calls++
	}
}
