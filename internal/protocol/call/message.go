package call

import (
	"errors"
	"fmt"

	"github.com/viraptor/libremotec/internal/protocol/wire"
	"github.com/viraptor/libremotec/pkg/stat"
)

// ErrUnknownOperation is returned by ReadCall for a tag outside the
// Registry. The stream cannot be resynchronized after it.
var ErrUnknownOperation = errors.New("unknown operation")

// ErrProtocol reports a message that does not match its registered shape.
var ErrProtocol = errors.New("protocol violation")

// Arg is one call argument. Only the field matching Kind is meaningful.
type Arg struct {
	Kind   ArgKind
	Int    int32
	Size   uint64
	Offset int64
	Str    string
}

func Int(v int32) Arg { return Arg{Kind: ArgInt, Int: v} }
func Size(v uint64) Arg { return Arg{Kind: ArgSize, Size: v} }
func Offset(v int64) Arg { return Arg{Kind: ArgOffset, Offset: v} }
func String(v string) Arg { return Arg{Kind: ArgString, Str: v} }

func (a Arg) String() string {
	switch a.Kind {
	case ArgInt:
		return fmt.Sprintf("%d", a.Int)
	case ArgSize:
		return fmt.Sprintf("%d", a.Size)
	case ArgOffset:
		return fmt.Sprintf("%d", a.Offset)
	case ArgString:
		return fmt.Sprintf("%q", a.Str)
	default:
		return "?"
	}
}

// Call is a decoded call message.
type Call struct {
	Op   Op
	Args []Arg
}

// Reply is a decoded reply message.
//
// A negative Result means failure and Errno carries the remote error code.
// Otherwise Payload holds the kind-specific data, if any.
type Reply struct {
	Result  int64
	Errno   int32
	Payload []byte
}

// Failed reports whether the reply carries an error code.
func (r *Reply) Failed() bool {
	return r.Result < 0
}

// Failure builds a failed reply.
func Failure(errno int32) *Reply {
	return &Reply{Result: -1, Errno: errno}
}

// checkArgs verifies args against the registered argument list. A mismatch
// is a programming error on the sending side.
func checkArgs(op Op, shape Shape, args []Arg) error {
	if len(args) != len(shape.Args) {
		return fmt.Errorf("%w: %s takes %d arguments, got %d", ErrProtocol, op, len(shape.Args), len(args))
	}
	for i, kind := range shape.Args {
		if args[i].Kind != kind {
			return fmt.Errorf("%w: %s argument %d is %s, got %s", ErrProtocol, op, i, kind, args[i].Kind)
		}
	}
	return nil
}

// sizeArg returns the value of the first size argument, or 0 if the shape
// has none.
func sizeArg(args []Arg) (uint64, bool) {
	for _, a := range args {
		if a.Kind == ArgSize {
			return a.Size, true
		}
	}
	return 0, false
}

// WriteCall sends the tag of op followed by its arguments.
func WriteCall(c *wire.Conn, op Op, args ...Arg) error {
	shape, ok := Lookup(op)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownOperation, int32(op))
	}
	if err := checkArgs(op, shape, args); err != nil {
		return err
	}

	if err := c.SendInt32(int32(op)); err != nil {
		return err
	}
	for _, a := range args {
		var err error
		switch a.Kind {
		case ArgInt:
			err = c.SendInt32(a.Int)
		case ArgSize:
			err = c.SendUint64(a.Size)
		case ArgOffset:
			err = c.SendInt64(a.Offset)
		case ArgString:
			err = c.SendString(a.Str)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ReadCall receives one call message. A tag outside the Registry returns
// ErrUnknownOperation without consuming anything further.
func ReadCall(c *wire.Conn) (*Call, error) {
	tag, err := c.RecvInt32()
	if err != nil {
		return nil, err
	}

	op := Op(tag)
	shape, ok := Lookup(op)
	if !ok {
		return nil, fmt.Errorf("%w: tag %d", ErrUnknownOperation, tag)
	}

	args := make([]Arg, len(shape.Args))
	for i, kind := range shape.Args {
		args[i].Kind = kind
		switch kind {
		case ArgInt:
			args[i].Int, err = c.RecvInt32()
		case ArgSize:
			args[i].Size, err = c.RecvUint64()
		case ArgOffset:
			args[i].Offset, err = c.RecvInt64()
		case ArgString:
			args[i].Str, err = c.RecvString()
		}
		if err != nil {
			return nil, err
		}
	}

	return &Call{Op: op, Args: args}, nil
}

// WriteReply sends r as the reply to call.
func WriteReply(c *wire.Conn, call *Call, r *Reply) error {
	shape, ok := Lookup(call.Op)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownOperation, int32(call.Op))
	}

	var err error
	switch shape.Result {
	case ResultOffset:
		err = c.SendInt64(r.Result)
	default:
		err = c.SendInt32(int32(r.Result))
	}
	if err != nil {
		return err
	}

	if r.Failed() {
		return c.SendInt32(r.Errno)
	}

	want, err := payloadLen(call, shape, r.Result)
	if err != nil {
		return err
	}
	if want == 0 {
		return nil
	}
	if len(r.Payload) != want {
		return fmt.Errorf("%w: %s payload is %d bytes, want %d", ErrProtocol, call.Op, len(r.Payload), want)
	}
	return c.SendData(r.Payload)
}

// ReadReply receives the reply to call.
func ReadReply(c *wire.Conn, call *Call) (*Reply, error) {
	shape, ok := Lookup(call.Op)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOperation, int32(call.Op))
	}

	r := &Reply{}
	switch shape.Result {
	case ResultOffset:
		v, err := c.RecvInt64()
		if err != nil {
			return nil, err
		}
		r.Result = v
	default:
		v, err := c.RecvInt32()
		if err != nil {
			return nil, err
		}
		r.Result = int64(v)
	}

	if r.Failed() {
		errno, err := c.RecvInt32()
		if err != nil {
			return nil, err
		}
		r.Errno = errno
		return r, nil
	}

	n, err := payloadLen(call, shape, r.Result)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		r.Payload = make([]byte, n)
		if err := c.RecvData(r.Payload); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// payloadLen returns the number of payload bytes that follow a successful
// result for call.
func payloadLen(call *Call, shape Shape, result int64) (int, error) {
	switch shape.Payload {
	case PayloadStat:
		return stat.Size, nil
	case PayloadCount:
		size, _ := sizeArg(call.Args)
		if size == 0 || result <= 0 {
			return 0, nil
		}
		if uint64(result) > size {
			return 0, fmt.Errorf("%w: %s returned %d bytes for a %d byte request", ErrProtocol, call.Op, result, size)
		}
		return int(result), nil
	default:
		return 0, nil
	}
}
