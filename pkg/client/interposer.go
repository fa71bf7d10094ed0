package client

import "github.com/viraptor/libremotec/pkg/stat"

// Interposer is the boundary an interception layer binds to. Each method
// has the natural arguments of the operation it shadows and returns the
// result or the error the caller would see from the real operation.
//
// How calls get redirected here (symbol preloading or another load-time
// hook) is up to the embedder.
type Interposer interface {
	Open(path string, flags int) (int, error)
	Fstat(fd int) (*stat.Stat, error)
	Lstat(path string) (*stat.Stat, error)
	Close(fd int) error
	Read(fd int, buf []byte) (int, error)
	Lseek(fd int, offset int64, whence int) (int64, error)
	Faccessat(dirfd int, path string, mode uint32, flags int) error
	Getxattr(path, name string, dest []byte) (int, error)
}
