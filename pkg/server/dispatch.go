package server

import (
	"fmt"
	"time"

	"github.com/viraptor/libremotec/internal/logger"
	"github.com/viraptor/libremotec/internal/protocol/call"
	"github.com/viraptor/libremotec/internal/protocol/wire"
)

// ============================================================================
// Dispatch Table
// ============================================================================

// response is what a handler produces. buf, when set, is a pooled buffer
// backing reply.Payload and is returned to the pool after the reply has
// been written.
type response struct {
	reply *call.Reply
	buf   []byte
}

// procedureHandler executes one decoded call. Operation failures are
// reported in the reply; a handler never fails the session.
type procedureHandler func(s *Server, args []call.Arg) *response

// procedureInfo contains metadata about a remote operation for dispatch.
type procedureInfo struct {
	// Name is the operation name used in logs and metrics
	Name string

	// Handler is the function that processes this operation
	Handler procedureHandler
}

// dispatchTable maps every tag in call.Registry to its handler. The server
// loop only looks up the tag here and calls the handler.
var dispatchTable = map[call.Op]*procedureInfo{
	call.OpOpen:     {Name: "open", Handler: handleOpen},
	call.OpFstat:    {Name: "fstat", Handler: handleFstat},
	call.OpClose:    {Name: "close", Handler: handleClose},
	call.OpRead:     {Name: "read", Handler: handleRead},
	call.OpLseek:    {Name: "lseek", Handler: handleLseek},
	call.OpLstat:    {Name: "lstat", Handler: handleLstat},
	call.OpAccess:   {Name: "faccessat", Handler: handleFaccessat},
	call.OpGetxattr: {Name: "getxattr", Handler: handleGetxattr},
}

// dispatch runs c and writes its reply.
func (s *Server) dispatch(session string, conn *wire.Conn, c *call.Call) error {
	proc, ok := dispatchTable[c.Op]
	if !ok {
		return fmt.Errorf("%w: %s", call.ErrUnknownOperation, c.Op)
	}

	s.metrics.RecordRequestStart(proc.Name)
	start := time.Now()
	resp := proc.Handler(s, c.Args)
	duration := time.Since(start)
	s.metrics.RecordRequestEnd(proc.Name)
	s.metrics.RecordRequest(proc.Name, duration, resp.reply.Errno)

	if logger.IsDebug() {
		logger.Debug("[%s] %s%v = %d (errno %d) in %s",
			session, proc.Name, c.Args, resp.reply.Result, resp.reply.Errno, duration)
	}

	err := call.WriteReply(conn, c, resp.reply)
	PutBuffer(resp.buf)
	if err != nil {
		return fmt.Errorf("write reply: %w", err)
	}

	s.metrics.RecordBytesSent(proc.Name, int64(len(resp.reply.Payload)))
	return nil
}
