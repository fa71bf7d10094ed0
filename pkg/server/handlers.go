package server

import (
	"github.com/viraptor/libremotec/internal/protocol/call"
	"github.com/viraptor/libremotec/pkg/hostfs"
	"github.com/viraptor/libremotec/pkg/stat"
)

// Argument positions follow call.Registry.

func failed(err error) *response {
	return &response{reply: call.Failure(int32(hostfs.Errno(err)))}
}

func succeeded(result int64) *response {
	return &response{reply: &call.Reply{Result: result}}
}

func handleOpen(s *Server, args []call.Arg) *response {
	fd, err := s.fs.Open(args[0].Str, int(args[1].Int))
	if err != nil {
		return failed(err)
	}
	return succeeded(int64(fd))
}

func handleFstat(s *Server, args []call.Arg) *response {
	st, err := s.fs.Fstat(int(args[0].Int))
	if err != nil {
		return failed(err)
	}
	return statResponse(st)
}

func handleLstat(s *Server, args []call.Arg) *response {
	st, err := s.fs.Lstat(args[0].Str)
	if err != nil {
		return failed(err)
	}
	return statResponse(st)
}

func statResponse(st *stat.Stat) *response {
	block, err := stat.Encode(st)
	if err != nil {
		return failed(err)
	}
	return &response{reply: &call.Reply{Payload: block}}
}

func handleClose(s *Server, args []call.Arg) *response {
	if err := s.fs.Close(int(args[0].Int)); err != nil {
		return failed(err)
	}
	return succeeded(0)
}

func handleRead(s *Server, args []call.Arg) *response {
	fd := int(args[0].Int)
	size := s.clamp(args[1].Size)

	if size == 0 {
		n, err := s.fs.Read(fd, nil)
		if err != nil {
			return failed(err)
		}
		return succeeded(int64(n))
	}

	buf := GetBuffer(size)
	n, err := s.fs.Read(fd, buf)
	if err != nil {
		PutBuffer(buf)
		return failed(err)
	}
	return &response{
		reply: &call.Reply{Result: int64(n), Payload: buf[:n]},
		buf:   buf,
	}
}

func handleLseek(s *Server, args []call.Arg) *response {
	off, err := s.fs.Lseek(int(args[0].Int), args[1].Offset, int(args[2].Int))
	if err != nil {
		return failed(err)
	}
	return succeeded(off)
}

func handleFaccessat(s *Server, args []call.Arg) *response {
	err := s.fs.Faccessat(int(args[0].Int), args[1].Str, uint32(args[2].Int), int(args[3].Int))
	if err != nil {
		return failed(err)
	}
	return succeeded(0)
}

// handleGetxattr treats a zero size as a length probe: the attribute size
// is returned and no payload follows.
func handleGetxattr(s *Server, args []call.Arg) *response {
	path, name := args[0].Str, args[1].Str
	size := s.clamp(args[2].Size)

	if size == 0 {
		n, err := s.fs.Getxattr(path, name, nil)
		if err != nil {
			return failed(err)
		}
		return succeeded(int64(n))
	}

	buf := GetBuffer(size)
	n, err := s.fs.Getxattr(path, name, buf)
	if err != nil {
		PutBuffer(buf)
		return failed(err)
	}
	return &response{
		reply: &call.Reply{Result: int64(n), Payload: buf[:n]},
		buf:   buf,
	}
}

// clamp limits a requested length to MaxReadSize.
func (s *Server) clamp(size uint64) int {
	if size > uint64(s.config.MaxReadSize) {
		return s.config.MaxReadSize
	}
	return int(size)
}
