// Package call defines the closed set of remote operations, the argument and
// result shape of each one, and the encoding of call and reply messages on a
// wire.Conn.
//
// There is no self-describing schema on the wire. Client and server agree on
// the order and width of every field because both build their messages from
// the same Registry.
package call

import "fmt"

// Op is the call tag sent at the start of every call message.
type Op int32

const (
	OpOpen Op = iota
	OpFstat
	OpClose
	OpRead
	OpLseek
	OpLstat
	OpAccess
	OpGetxattr
)

// ArgKind is the wire type of one call argument.
type ArgKind int

const (
	// ArgInt is a C int (int32).
	ArgInt ArgKind = iota
	// ArgSize is a size_t (uint64).
	ArgSize
	// ArgOffset is an off_t (int64).
	ArgOffset
	// ArgString is a length-prefixed, NUL terminated string.
	ArgString
)

func (k ArgKind) String() string {
	switch k {
	case ArgInt:
		return "int"
	case ArgSize:
		return "size"
	case ArgOffset:
		return "offset"
	case ArgString:
		return "string"
	default:
		return fmt.Sprintf("ArgKind(%d)", int(k))
	}
}

// ResultKind is the wire width of the reply's result code.
type ResultKind int

const (
	ResultInt ResultKind = iota
	ResultOffset
)

// PayloadKind describes what follows a non-negative result.
type PayloadKind int

const (
	// PayloadNone: nothing follows.
	PayloadNone PayloadKind = iota
	// PayloadCount: exactly result bytes follow when result > 0 and the
	// call's size argument is non-zero. A zero size is a probe and carries
	// no data back.
	PayloadCount
	// PayloadStat: a fixed-size metadata block follows.
	PayloadStat
)

// Shape is the registry entry for one operation.
type Shape struct {
	Name    string
	Args    []ArgKind
	Result  ResultKind
	Payload PayloadKind
}

// Registry maps every supported tag to its shape. Adding an operation means
// adding an entry here and a handler on the server.
var Registry = map[Op]Shape{
	OpOpen: {
		Name: "open",
		Args: []ArgKind{ArgString, ArgInt},
	},
	OpFstat: {
		Name:    "fstat",
		Args:    []ArgKind{ArgInt},
		Payload: PayloadStat,
	},
	OpClose: {
		Name: "close",
		Args: []ArgKind{ArgInt},
	},
	OpRead: {
		Name:    "read",
		Args:    []ArgKind{ArgInt, ArgSize},
		Payload: PayloadCount,
	},
	OpLseek: {
		Name:   "lseek",
		Args:   []ArgKind{ArgInt, ArgOffset, ArgInt},
		Result: ResultOffset,
	},
	OpLstat: {
		Name:    "lstat",
		Args:    []ArgKind{ArgString},
		Payload: PayloadStat,
	},
	OpAccess: {
		Name: "faccessat",
		Args: []ArgKind{ArgInt, ArgString, ArgInt, ArgInt},
	},
	OpGetxattr: {
		Name:    "getxattr",
		Args:    []ArgKind{ArgString, ArgString, ArgSize},
		Payload: PayloadCount,
	},
}

// Lookup returns the shape registered for op.
func Lookup(op Op) (Shape, bool) {
	s, ok := Registry[op]
	return s, ok
}

func (op Op) String() string {
	if s, ok := Registry[op]; ok {
		return s.Name
	}
	return fmt.Sprintf("Op(%d)", int32(op))
}
