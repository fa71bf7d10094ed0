package client

import (
	"os"
	"strings"
	"syscall"

	"github.com/viraptor/libremotec/internal/logger"
	"github.com/viraptor/libremotec/internal/protocol/call"
	"github.com/viraptor/libremotec/pkg/hostfs"
	"github.com/viraptor/libremotec/pkg/stat"
)

// Options configures a Router.
type Options struct {
	// AllowList selects the paths that stay local. Nil means every path is
	// remote.
	AllowList *AllowList

	// Local performs operations that stay on this host. Defaults to
	// hostfs.Host.
	Local hostfs.FS

	// Remote carries operations to the dispatch server.
	Remote *Remote

	// MaxOpen and FDOffset size the descriptor table. Zero selects
	// DefaultMaxOpen and DefaultFDOffset.
	MaxOpen  int
	FDOffset int

	// CwdPolicy decides how relative remote paths are treated.
	CwdPolicy CwdPolicy

	// Getwd returns the caller's working directory. Defaults to os.Getwd.
	Getwd func() (string, error)

	// Fatal is called on transport failures. Defaults to ExitOnFatal.
	Fatal FatalHandler
}

// Router decides per call whether an operation runs locally or on the
// remote host, and owns the state that decision needs: the allow-list, the
// descriptor table, the connection and the most recent remote error code.
//
// A Router is not safe for concurrent use. The protocol is strictly
// synchronous, so a multi-threaded embedder must serialize every call.
type Router struct {
	allow  *AllowList
	local  hostfs.FS
	remote *Remote
	fds    *DescriptorTable
	policy CwdPolicy
	getwd  func() (string, error)
	fatal  FatalHandler

	lastErrno syscall.Errno
}

var _ Interposer = (*Router)(nil)

// NewRouter creates a Router from opts.
func NewRouter(opts Options) *Router {
	r := &Router{
		allow:  opts.AllowList,
		local:  opts.Local,
		remote: opts.Remote,
		fds:    NewDescriptorTable(opts.MaxOpen, opts.FDOffset),
		policy: opts.CwdPolicy,
		getwd:  opts.Getwd,
		fatal:  opts.Fatal,
	}
	if r.allow == nil {
		r.allow = NewAllowList()
	}
	if r.local == nil {
		r.local = hostfs.Host{}
	}
	if r.getwd == nil {
		r.getwd = os.Getwd
	}
	if r.fatal == nil {
		r.fatal = ExitOnFatal
	}
	return r
}

// Descriptors exposes the descriptor table.
func (r *Router) Descriptors() *DescriptorTable {
	return r.fds
}

// LastRemoteErrno returns the error code of the most recent failed remote
// call.
func (r *Router) LastRemoteErrno() syscall.Errno {
	return r.lastErrno
}

// Disconnect releases the connection to the dispatch server.
func (r *Router) Disconnect() error {
	if r.remote == nil {
		return nil
	}
	return r.remote.Close()
}

// ============================================================================
// Entry Points
// ============================================================================

func (r *Router) Open(path string, flags int) (int, error) {
	target, local, err := r.route(path)
	if err != nil {
		return -1, err
	}
	if local {
		logger.Debug("open %q: local", path)
		return r.local.Open(path, flags)
	}

	fd, ok := r.fds.Reserve()
	if !ok {
		logger.Debug("open %q: remote, descriptor table full", path)
		return -1, syscall.ENFILE
	}

	reply, err := r.exchange(call.OpOpen, call.String(target), call.Int(int32(flags)))
	if err != nil {
		return -1, err
	}
	if reply.Failed() {
		return -1, r.remoteError(call.OpOpen, reply)
	}

	if err := r.fds.Set(fd, int(reply.Result)); err != nil {
		return -1, err
	}
	logger.Debug("open %q: remote fd %d -> %d", path, reply.Result, fd)
	return fd, nil
}

func (r *Router) Fstat(fd int) (*stat.Stat, error) {
	if !r.fds.IsSynthetic(fd) {
		logger.Debug("fstat %d: local", fd)
		return r.local.Fstat(fd)
	}

	rfd, err := r.translate(fd)
	if err != nil {
		return nil, err
	}
	reply, err := r.exchange(call.OpFstat, call.Int(int32(rfd)))
	if err != nil {
		return nil, err
	}
	if reply.Failed() {
		return nil, r.remoteError(call.OpFstat, reply)
	}
	return r.decodeStat(call.OpFstat, reply)
}

func (r *Router) Lstat(path string) (*stat.Stat, error) {
	target, local, err := r.route(path)
	if err != nil {
		return nil, err
	}
	if local {
		logger.Debug("lstat %q: local", path)
		return r.local.Lstat(path)
	}

	reply, err := r.exchange(call.OpLstat, call.String(target))
	if err != nil {
		return nil, err
	}
	if reply.Failed() {
		return nil, r.remoteError(call.OpLstat, reply)
	}
	return r.decodeStat(call.OpLstat, reply)
}

// Close closes fd. A remote close that fails keeps the descriptor
// allocated; the caller may retry.
func (r *Router) Close(fd int) error {
	if !r.fds.IsSynthetic(fd) {
		logger.Debug("close %d: local", fd)
		return r.local.Close(fd)
	}

	rfd, err := r.translate(fd)
	if err != nil {
		return err
	}
	reply, err := r.exchange(call.OpClose, call.Int(int32(rfd)))
	if err != nil {
		return err
	}
	if reply.Failed() {
		return r.remoteError(call.OpClose, reply)
	}

	r.fds.Free(fd)
	logger.Debug("close %d: remote fd %d released", fd, rfd)
	return nil
}

func (r *Router) Read(fd int, buf []byte) (int, error) {
	if !r.fds.IsSynthetic(fd) {
		return r.local.Read(fd, buf)
	}

	rfd, err := r.translate(fd)
	if err != nil {
		return -1, err
	}
	reply, err := r.exchange(call.OpRead, call.Int(int32(rfd)), call.Size(uint64(len(buf))))
	if err != nil {
		return -1, err
	}
	if reply.Failed() {
		return -1, r.remoteError(call.OpRead, reply)
	}

	n := copy(buf, reply.Payload)
	logger.Debug("read %d: remote returned %d of %d bytes", fd, n, len(buf))
	return n, nil
}

func (r *Router) Lseek(fd int, offset int64, whence int) (int64, error) {
	if !r.fds.IsSynthetic(fd) {
		return r.local.Lseek(fd, offset, whence)
	}

	rfd, err := r.translate(fd)
	if err != nil {
		return -1, err
	}
	reply, err := r.exchange(call.OpLseek, call.Int(int32(rfd)), call.Offset(offset), call.Int(int32(whence)))
	if err != nil {
		return -1, err
	}
	if reply.Failed() {
		return -1, r.remoteError(call.OpLseek, reply)
	}
	return reply.Result, nil
}

// Faccessat checks access to path. With dirfd set to hostfs.AtFdcwd the
// call is routed by path; otherwise it follows dirfd.
//
// When a relative path travels to the remote host with the current
// directory sentinel, the server resolves it against its own working
// directory, which is unrelated to the caller's. CwdPolicy controls this.
func (r *Router) Faccessat(dirfd int, path string, mode uint32, flags int) error {
	target := path
	rdirfd := dirfd

	if dirfd == hostfs.AtFdcwd {
		var local bool
		var err error
		target, local, err = r.route(path)
		if err != nil {
			return err
		}
		if local {
			logger.Debug("faccessat %q: local", path)
			return r.local.Faccessat(dirfd, path, mode, flags)
		}
	} else {
		if !r.fds.IsSynthetic(dirfd) {
			logger.Debug("faccessat %d %q: local", dirfd, path)
			return r.local.Faccessat(dirfd, path, mode, flags)
		}
		if err := terminable(path); err != nil {
			return err
		}
		var err error
		if rdirfd, err = r.translate(dirfd); err != nil {
			return err
		}
	}

	reply, err := r.exchange(call.OpAccess,
		call.Int(int32(rdirfd)), call.String(target), call.Int(int32(mode)), call.Int(int32(flags)))
	if err != nil {
		return err
	}
	if reply.Failed() {
		return r.remoteError(call.OpAccess, reply)
	}
	return nil
}

// Getxattr reads the extended attribute name of path into dest. An empty
// dest probes for the attribute's size.
func (r *Router) Getxattr(path, name string, dest []byte) (int, error) {
	if err := terminable(name); err != nil {
		return -1, err
	}
	target, local, err := r.route(path)
	if err != nil {
		return -1, err
	}
	if local {
		logger.Debug("getxattr %q %q: local", path, name)
		return r.local.Getxattr(path, name, dest)
	}

	reply, err := r.exchange(call.OpGetxattr,
		call.String(target), call.String(name), call.Size(uint64(len(dest))))
	if err != nil {
		return -1, err
	}
	if reply.Failed() {
		return -1, r.remoteError(call.OpGetxattr, reply)
	}

	copy(dest, reply.Payload)
	return int(reply.Result), nil
}

// ============================================================================
// Helpers
// ============================================================================

// route classifies path and returns the path to send when it is remote.
func (r *Router) route(path string) (string, bool, error) {
	if err := terminable(path); err != nil {
		return "", false, err
	}
	target := path
	if r.policy == CwdCaller {
		var err error
		if target, err = r.policy.resolve(path, r.getwd); err != nil {
			return "", false, hostfs.Errno(err)
		}
	}
	if r.allow.IsLocal(target) {
		return path, true, nil
	}

	target, err := r.policy.resolve(target, r.getwd)
	if err != nil {
		logger.Debug("%q: rejected by cwd policy %s", path, r.policy)
		return "", false, hostfs.Errno(err)
	}
	return target, false, nil
}

// terminable rejects strings that cannot be sent as NUL-terminated wire
// strings. The host kernel answers EINVAL for the same input.
func terminable(s string) error {
	if strings.IndexByte(s, 0) >= 0 {
		return syscall.EINVAL
	}
	return nil
}

// translate maps a synthetic descriptor to its remote counterpart. An
// unallocated slot is EBADF and never reaches the wire.
func (r *Router) translate(fd int) (int, error) {
	rfd, ok := r.fds.Lookup(fd)
	if !ok {
		return -1, syscall.EBADF
	}
	return rfd, nil
}

// exchange performs one remote call. Transport failures go to the fatal
// handler.
func (r *Router) exchange(op call.Op, args ...call.Arg) (*call.Reply, error) {
	if r.remote == nil {
		return nil, r.fail(op, errNoRemote)
	}
	reply, err := r.remote.Do(op, args...)
	if err != nil {
		return nil, r.fail(op, err)
	}
	return reply, nil
}

func (r *Router) fail(op call.Op, err error) error {
	fe := &FatalError{Op: op, Err: err}
	r.fatal(fe)
	return fe
}

// remoteError records and returns the error code of a failed reply.
func (r *Router) remoteError(op call.Op, reply *call.Reply) error {
	r.lastErrno = syscall.Errno(reply.Errno)
	logger.Debug("%s: remote error %d (%v)", op, reply.Errno, r.lastErrno)
	return r.lastErrno
}

func (r *Router) decodeStat(op call.Op, reply *call.Reply) (*stat.Stat, error) {
	st, err := stat.Decode(reply.Payload)
	if err != nil {
		return nil, r.fail(op, err)
	}
	return st, nil
}
