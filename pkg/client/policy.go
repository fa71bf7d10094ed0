package client

import (
	"fmt"
	"path/filepath"
	"strings"
	"syscall"
)

// CwdPolicy decides how relative paths are interpreted for remote calls.
//
// The caller and the dispatch server are separate processes, usually on
// separate hosts, so "the current directory" of one says nothing about the
// other.
type CwdPolicy int

const (
	// CwdServer sends relative paths and the current-directory sentinel
	// unchanged; the server resolves them against its own working directory.
	CwdServer CwdPolicy = iota

	// CwdCaller resolves relative paths against the caller's working
	// directory before routing, so the server only sees absolute paths.
	CwdCaller

	// CwdReject fails remote calls on relative paths with EINVAL.
	CwdReject
)

func (p CwdPolicy) String() string {
	switch p {
	case CwdServer:
		return "server"
	case CwdCaller:
		return "caller"
	case CwdReject:
		return "reject"
	default:
		return fmt.Sprintf("CwdPolicy(%d)", int(p))
	}
}

// ParseCwdPolicy parses "server", "caller" or "reject". An empty string
// selects CwdServer.
func ParseCwdPolicy(s string) (CwdPolicy, error) {
	switch strings.ToLower(s) {
	case "", "server":
		return CwdServer, nil
	case "caller":
		return CwdCaller, nil
	case "reject":
		return CwdReject, nil
	default:
		return CwdServer, fmt.Errorf("unknown cwd policy %q", s)
	}
}

// resolve applies the policy to a path bound for the remote host.
func (p CwdPolicy) resolve(path string, getwd func() (string, error)) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}

	switch p {
	case CwdCaller:
		wd, err := getwd()
		if err != nil {
			return "", err
		}
		return filepath.Join(wd, path), nil
	case CwdReject:
		return "", syscall.EINVAL
	default:
		return path, nil
	}
}
