package client

import "strings"

// AllowList is the ordered set of path prefixes that stay on the local host.
// It is built once and only read afterwards.
type AllowList struct {
	prefixes []string
}

// NewAllowList builds an allow-list from prefixes. Empty entries are
// ignored.
func NewAllowList(prefixes ...string) *AllowList {
	l := &AllowList{}
	for _, p := range prefixes {
		if p != "" {
			l.prefixes = append(l.prefixes, p)
		}
	}
	return l
}

// ParseAllowList splits a colon separated list such as the LOCAL_PATHS
// environment variable. An empty string yields a list that matches nothing.
func ParseAllowList(s string) *AllowList {
	if s == "" {
		return NewAllowList()
	}
	return NewAllowList(strings.Split(s, ":")...)
}

// IsLocal reports whether path lies under one of the prefixes. A prefix only
// matches at a component boundary: "/etc" matches "/etc" and "/etc/passwd"
// but not "/etcetera".
func (l *AllowList) IsLocal(path string) bool {
	if l == nil {
		return false
	}
	for _, p := range l.prefixes {
		if !strings.HasPrefix(path, p) {
			continue
		}
		if len(path) == len(p) || path[len(p)] == '/' {
			return true
		}
	}
	return false
}

// Prefixes returns a copy of the configured prefixes.
func (l *AllowList) Prefixes() []string {
	if l == nil {
		return nil
	}
	return append([]string(nil), l.prefixes...)
}
