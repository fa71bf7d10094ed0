// Package hostfs performs the real file operations on the local host.
//
// The client router uses it for paths and descriptors that stay local, and
// the dispatch server uses it to execute calls received from a remote peer.
// Every failure is reported as a syscall.Errno so the code can be carried
// across hosts unchanged.
package hostfs

import (
	"errors"
	"syscall"

	"github.com/viraptor/libremotec/pkg/stat"
)

// FS is the set of operations that can be routed to a remote host.
type FS interface {
	Open(path string, flags int) (int, error)
	Fstat(fd int) (*stat.Stat, error)
	Lstat(path string) (*stat.Stat, error)
	Close(fd int) error
	Read(fd int, buf []byte) (int, error)
	Lseek(fd int, offset int64, whence int) (int64, error)
	Faccessat(dirfd int, path string, mode uint32, flags int) error
	Getxattr(path, name string, dest []byte) (int, error)
}

// Errno extracts the error code carried by err. Errors that are not a
// syscall.Errno map to EIO.
func Errno(err error) syscall.Errno {
	if err == nil {
		return 0
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno
	}
	return syscall.EIO
}
