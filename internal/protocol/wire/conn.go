package wire

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
)

// DefaultPort is the fixed TCP port shared by client and server.
const DefaultPort = 12345

// Endpoint identifies where the dispatch server listens.
//
// Network is "tcp" or "unix". For "tcp", Address is the host the client dials;
// the server ignores it and binds all interfaces on Port. For "unix", Address
// is the socket path on both sides.
type Endpoint struct {
	Network string
	Address string
	Port    int
}

// dialAddr returns the address the client connects to.
func (e Endpoint) dialAddr() string {
	if e.Network == "unix" {
		return e.Address
	}
	return net.JoinHostPort(e.Address, strconv.Itoa(e.port()))
}

// listenAddr returns the address the server binds.
func (e Endpoint) listenAddr() string {
	if e.Network == "unix" {
		return e.Address
	}
	return net.JoinHostPort("", strconv.Itoa(e.port()))
}

func (e Endpoint) network() string {
	if e.Network == "" {
		return "tcp"
	}
	return e.Network
}

func (e Endpoint) port() int {
	if e.Port == 0 {
		return DefaultPort
	}
	return e.Port
}

func (e Endpoint) String() string {
	return e.network() + "://" + e.dialAddr()
}

// Conn is the single long-lived stream a process uses for every call and
// reply. It is not safe for concurrent use; the protocol is strictly
// request/reply and callers serialize access.
type Conn struct {
	rwc io.ReadWriteCloser

	// sent and received count payload bytes for diagnostics.
	sent     int64
	received int64
}

// NewConn wraps an established stream.
func NewConn(rwc io.ReadWriteCloser) *Conn {
	return &Conn{rwc: rwc}
}

// Dial connects to the dispatch server at ep.
func Dial(ep Endpoint) (*Conn, error) {
	if ep.Address == "" {
		return nil, ErrNoEndpoint
	}

	nc, err := net.Dial(ep.network(), ep.dialAddr())
	if err != nil {
		return nil, &TransportError{Op: "connect", Err: err}
	}

	return NewConn(nc), nil
}

// Listen binds ep. The returned listener is used exactly once by
// AcceptOne.
func Listen(ep Endpoint) (net.Listener, error) {
	ln, err := net.Listen(ep.network(), ep.listenAddr())
	if err != nil {
		return nil, &TransportError{Op: "listen", Err: err}
	}
	return ln, nil
}

// AcceptOne accepts a single connection from ln and closes ln, so no further
// peers can connect.
func AcceptOne(ln net.Listener) (*Conn, error) {
	nc, err := ln.Accept()
	closeErr := ln.Close()
	if err != nil {
		return nil, &TransportError{Op: "accept", Err: err}
	}
	if closeErr != nil && !errors.Is(closeErr, net.ErrClosed) {
		_ = nc.Close()
		return nil, &TransportError{Op: "stop listening", Err: closeErr}
	}
	return NewConn(nc), nil
}

// ListenAndAcceptOne binds ep, waits for exactly one peer, and stops
// listening.
func ListenAndAcceptOne(ep Endpoint) (*Conn, error) {
	ln, err := Listen(ep)
	if err != nil {
		return nil, err
	}
	return AcceptOne(ln)
}

// Send writes all of b, looping over short writes. Only a hard error from
// the stream is reported.
func (c *Conn) Send(b []byte) error {
	for len(b) > 0 {
		n, err := c.rwc.Write(b)
		c.sent += int64(n)
		b = b[n:]
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
	}
	return nil
}

// ReadFull fills buf completely, looping over partial arrivals. A peer
// close before buf is full yields ErrConnectionClosed.
func (c *Conn) ReadFull(buf []byte) error {
	n, err := io.ReadFull(c.rwc, buf)
	c.received += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w after %d of %d bytes", ErrConnectionClosed, n, len(buf))
		}
		return err
	}
	return nil
}

// ReceiveExact blocks until exactly n bytes have arrived.
func (c *Conn) ReceiveExact(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := c.ReadFull(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Stats returns the number of bytes sent and received so far.
func (c *Conn) Stats() (sent, received int64) {
	return c.sent, c.received
}

// Close closes the underlying stream.
func (c *Conn) Close() error {
	return c.rwc.Close()
}
