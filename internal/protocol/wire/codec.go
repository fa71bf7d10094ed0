package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// ============================================================================
// Wire Primitives
// ============================================================================
//
// Integers travel in host byte order with no conversion. Both ends must share
// the same integer representation; this is a deployment constraint, not
// something the protocol negotiates.

// MaxStringLength bounds the length prefix accepted for a string, terminator
// included.
const MaxStringLength = 64 * 1024

var order = binary.NativeEndian

// SendInt32 sends a C int sized value.
func (c *Conn) SendInt32(v int32) error {
	var buf [4]byte
	order.PutUint32(buf[:], uint32(v))
	if err := c.Send(buf[:]); err != nil {
		return &TransportError{Op: "send int", Err: err}
	}
	return nil
}

// RecvInt32 receives a C int sized value.
func (c *Conn) RecvInt32() (int32, error) {
	var buf [4]byte
	if err := c.ReadFull(buf[:]); err != nil {
		return 0, &TransportError{Op: "receive int", Err: err}
	}
	return int32(order.Uint32(buf[:])), nil
}

// SendUint64 sends a size value.
func (c *Conn) SendUint64(v uint64) error {
	var buf [8]byte
	order.PutUint64(buf[:], v)
	if err := c.Send(buf[:]); err != nil {
		return &TransportError{Op: "send size", Err: err}
	}
	return nil
}

// RecvUint64 receives a size value.
func (c *Conn) RecvUint64() (uint64, error) {
	var buf [8]byte
	if err := c.ReadFull(buf[:]); err != nil {
		return 0, &TransportError{Op: "receive size", Err: err}
	}
	return order.Uint64(buf[:]), nil
}

// SendInt64 sends a file offset.
func (c *Conn) SendInt64(v int64) error {
	var buf [8]byte
	order.PutUint64(buf[:], uint64(v))
	if err := c.Send(buf[:]); err != nil {
		return &TransportError{Op: "send offset", Err: err}
	}
	return nil
}

// RecvInt64 receives a file offset.
func (c *Conn) RecvInt64() (int64, error) {
	var buf [8]byte
	if err := c.ReadFull(buf[:]); err != nil {
		return 0, &TransportError{Op: "receive offset", Err: err}
	}
	return int64(order.Uint64(buf[:])), nil
}

// SendString sends the byte length of s plus its terminator, then s and a
// trailing NUL.
func (c *Conn) SendString(s string) error {
	if err := c.SendUint64(uint64(len(s) + 1)); err != nil {
		return err
	}

	buf := make([]byte, len(s)+1)
	copy(buf, s)
	if err := c.Send(buf); err != nil {
		return &TransportError{Op: "send string", Err: err}
	}
	return nil
}

// RecvString receives a length-prefixed, NUL terminated string and returns
// it without the terminator.
func (c *Conn) RecvString() (string, error) {
	length, err := c.RecvUint64()
	if err != nil {
		return "", err
	}
	if length == 0 || length > MaxStringLength {
		return "", &TransportError{
			Op:  "receive string",
			Err: fmt.Errorf("%w: length %d", ErrMalformedString, length),
		}
	}

	buf, err := c.ReceiveExact(int(length))
	if err != nil {
		return "", &TransportError{Op: "receive string", Err: err}
	}
	if buf[length-1] != 0 || bytes.IndexByte(buf[:length-1], 0) >= 0 {
		return "", &TransportError{
			Op:  "receive string",
			Err: fmt.Errorf("%w: bad terminator", ErrMalformedString),
		}
	}

	return string(buf[:length-1]), nil
}

// SendData sends b as raw bytes. The receiver must already know len(b).
func (c *Conn) SendData(b []byte) error {
	if err := c.Send(b); err != nil {
		return &TransportError{Op: "send data", Err: err}
	}
	return nil
}

// RecvData fills dst with raw bytes.
func (c *Conn) RecvData(dst []byte) error {
	if err := c.ReadFull(dst); err != nil {
		return &TransportError{Op: "receive data", Err: err}
	}
	return nil
}
