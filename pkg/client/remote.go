package client

import (
	"github.com/viraptor/libremotec/internal/logger"
	"github.com/viraptor/libremotec/internal/protocol/call"
	"github.com/viraptor/libremotec/internal/protocol/wire"
)

// Remote owns the process-wide connection to the dispatch server. The
// connection is dialled lazily on the first call and never re-created.
type Remote struct {
	dial func() (*wire.Conn, error)
	conn *wire.Conn
}

// NewRemote returns a Remote that dials ep on first use.
func NewRemote(ep wire.Endpoint) *Remote {
	return &Remote{
		dial: func() (*wire.Conn, error) {
			logger.Debug("connecting to %s", ep)
			return wire.Dial(ep)
		},
	}
}

// NewRemoteConn returns a Remote bound to an established connection.
func NewRemoteConn(conn *wire.Conn) *Remote {
	return &Remote{conn: conn}
}

// ensure dials the server unless a connection already exists.
func (r *Remote) ensure() error {
	if r.conn != nil {
		return nil
	}
	conn, err := r.dial()
	if err != nil {
		return err
	}
	r.conn = conn
	return nil
}

// Do sends one call and waits for its complete reply. The returned error is
// always a transport or protocol failure; an operation that failed on the
// remote host is reported through Reply.Errno.
func (r *Remote) Do(op call.Op, args ...call.Arg) (*call.Reply, error) {
	if err := r.ensure(); err != nil {
		return nil, err
	}
	if err := call.WriteCall(r.conn, op, args...); err != nil {
		return nil, err
	}
	return call.ReadReply(r.conn, &call.Call{Op: op, Args: args})
}

// Connected reports whether the connection has been established.
func (r *Remote) Connected() bool {
	return r.conn != nil
}

// Close closes the connection if one was established.
func (r *Remote) Close() error {
	if r.conn == nil {
		return nil
	}
	return r.conn.Close()
}
