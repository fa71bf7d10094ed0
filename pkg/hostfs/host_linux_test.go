package hostfs

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestHostReadSeekStat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0644))

	h := Host{}
	fd, err := h.Open(path, unix.O_RDONLY)
	require.NoError(t, err)
	defer h.Close(fd)

	buf := make([]byte, 4)
	n, err := h.Read(fd, buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "0123", string(buf))

	off, err := h.Lseek(fd, -2, unix.SEEK_END)
	require.NoError(t, err)
	assert.Equal(t, int64(8), off)

	st, err := h.Fstat(fd)
	require.NoError(t, err)
	assert.Equal(t, int64(10), st.Size)
	assert.Equal(t, uint32(unix.S_IFREG), st.Mode&unix.S_IFMT)

	lst, err := h.Lstat(path)
	require.NoError(t, err)
	assert.Equal(t, st.Ino, lst.Ino)
}

func TestHostErrorsAreErrno(t *testing.T) {
	h := Host{}

	_, err := h.Open("/nonexistent/libremotec/file", unix.O_RDONLY)
	require.Error(t, err)
	assert.Equal(t, syscall.ENOENT, Errno(err))

	err = h.Close(-1)
	assert.Equal(t, syscall.EBADF, Errno(err))

	err = h.Faccessat(AtFdcwd, "/nonexistent/libremotec/file", unix.F_OK, 0)
	assert.Equal(t, syscall.ENOENT, Errno(err))
}

func TestErrno(t *testing.T) {
	assert.Equal(t, syscall.Errno(0), Errno(nil))
	assert.Equal(t, syscall.EACCES, Errno(syscall.EACCES))
	assert.Equal(t, syscall.EIO, Errno(errors.New("not an errno")))
}
