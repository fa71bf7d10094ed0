package hostfs

import (
	"golang.org/x/sys/unix"

	"github.com/viraptor/libremotec/pkg/stat"
)

// AtFdcwd is the descriptor sentinel meaning "the current directory".
const AtFdcwd = unix.AT_FDCWD

// Host implements FS with direct system calls.
type Host struct{}

var _ FS = Host{}

func (Host) Open(path string, flags int) (int, error) {
	return retry(func() (int, error) {
		return unix.Open(path, flags, 0)
	})
}

func (Host) Fstat(fd int) (*stat.Stat, error) {
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return nil, err
	}
	return stat.FromUnix(&st), nil
}

func (Host) Lstat(path string) (*stat.Stat, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return nil, err
	}
	return stat.FromUnix(&st), nil
}

func (Host) Close(fd int) error {
	return unix.Close(fd)
}

func (Host) Read(fd int, buf []byte) (int, error) {
	return retry(func() (int, error) {
		return unix.Read(fd, buf)
	})
}

func (Host) Lseek(fd int, offset int64, whence int) (int64, error) {
	return unix.Seek(fd, offset, whence)
}

func (Host) Faccessat(dirfd int, path string, mode uint32, flags int) error {
	return unix.Faccessat(dirfd, path, mode, flags)
}

func (Host) Getxattr(path, name string, dest []byte) (int, error) {
	return unix.Getxattr(path, name, dest)
}

// retry repeats fn while it is interrupted by a signal.
func retry(fn func() (int, error)) (int, error) {
	for {
		n, err := fn()
		if err != unix.EINTR {
			return n, err
		}
	}
}
