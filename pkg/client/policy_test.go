package client

import (
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCwdPolicy(t *testing.T) {
	tests := []struct {
		in   string
		want CwdPolicy
	}{
		{"", CwdServer},
		{"server", CwdServer},
		{"Caller", CwdCaller},
		{"reject", CwdReject},
	}
	for _, tt := range tests {
		got, err := ParseCwdPolicy(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		if tt.in != "" {
			assert.Equal(t, tt.want.String(), got.String())
		}
	}

	_, err := ParseCwdPolicy("nearby")
	assert.Error(t, err)
}

func TestCwdPolicyResolve(t *testing.T) {
	wd := func() (string, error) { return "/home/me", nil }

	got, err := CwdServer.resolve("a/b", wd)
	require.NoError(t, err)
	assert.Equal(t, "a/b", got)

	got, err = CwdCaller.resolve("a/b", wd)
	require.NoError(t, err)
	assert.Equal(t, "/home/me/a/b", got)

	_, err = CwdReject.resolve("a/b", wd)
	assert.ErrorIs(t, err, syscall.EINVAL)

	for _, p := range []CwdPolicy{CwdServer, CwdCaller, CwdReject} {
		got, err := p.resolve("/abs", wd)
		require.NoError(t, err)
		assert.Equal(t, "/abs", got, p.String())
	}

	broken := func() (string, error) { return "", errors.New("gone") }
	_, err = CwdCaller.resolve("a", broken)
	assert.Error(t, err)
}
