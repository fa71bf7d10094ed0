// Package stat defines the metadata block returned by fstat and lstat.
//
// Instead of copying the platform's struct stat byte for byte, the block is an
// explicit, versioned field list encoded with XDR. Every field has a fixed
// width, so the encoded block always has exactly Size bytes and travels on the
// wire as an opaque fixed-size payload.
package stat

import (
	"bytes"
	"fmt"

	xdr "github.com/rasky/go-xdr/xdr2"
)

// Version is the layout version written into every block.
const Version uint32 = 1

// Size is the encoded length of a Stat block in bytes.
const Size = 120

// Timespec is a point in time as seconds and nanoseconds since the epoch.
type Timespec struct {
	Sec  int64
	Nsec int64
}

// Stat is the file metadata carried between hosts.
//
// Field order is part of the wire format. Append new fields only together
// with a Version bump and a new Size.
type Stat struct {
	Version uint32
	Mode    uint32
	Dev     uint64
	Ino     uint64
	Nlink   uint64
	Uid     uint32
	Gid     uint32
	Rdev    uint64
	Size    int64
	Blksize int64
	Blocks  int64
	Atime   Timespec
	Mtime   Timespec
	Ctime   Timespec
}

// Encode returns the fixed-size block for st. The Version field is always
// set to the current Version.
func Encode(st *Stat) ([]byte, error) {
	out := *st
	out.Version = Version

	var buf bytes.Buffer
	buf.Grow(Size)
	if _, err := xdr.Marshal(&buf, &out); err != nil {
		return nil, fmt.Errorf("encode stat: %w", err)
	}
	if buf.Len() != Size {
		return nil, fmt.Errorf("encode stat: got %d bytes, want %d", buf.Len(), Size)
	}
	return buf.Bytes(), nil
}

// Decode parses a block produced by Encode.
func Decode(block []byte) (*Stat, error) {
	if len(block) != Size {
		return nil, fmt.Errorf("decode stat: block is %d bytes, want %d", len(block), Size)
	}

	var st Stat
	if _, err := xdr.Unmarshal(bytes.NewReader(block), &st); err != nil {
		return nil, fmt.Errorf("decode stat: %w", err)
	}
	if st.Version != Version {
		return nil, fmt.Errorf("decode stat: unsupported version %d", st.Version)
	}
	return &st, nil
}
