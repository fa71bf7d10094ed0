package client

import (
	"errors"
	"fmt"
	"os"

	"github.com/viraptor/libremotec/internal/logger"
	"github.com/viraptor/libremotec/internal/protocol/call"
)

// FatalError reports a transport or protocol failure during a remote call.
// The stream cannot be resynchronized, so the session is over.
type FatalError struct {
	Op  call.Op
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("remote %s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// FatalHandler is invoked for every FatalError. The default handler
// terminates the process; if a handler returns, the entry point returns the
// FatalError to its caller.
type FatalHandler func(err *FatalError)

// ExitOnFatal logs err and exits the process with status 1.
func ExitOnFatal(err *FatalError) {
	logger.Error("fatal: %v", err)
	os.Exit(1)
}

var errNoRemote = errors.New("no remote configured")
