package stat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStat() *Stat {
	return &Stat{
		Mode:    0100644,
		Dev:     2049,
		Ino:     123456789,
		Nlink:   1,
		Uid:     1000,
		Gid:     1000,
		Size:    4096,
		Blksize: 4096,
		Blocks:  8,
		Atime:   Timespec{Sec: 1700000000, Nsec: 1},
		Mtime:   Timespec{Sec: 1700000001, Nsec: 2},
		Ctime:   Timespec{Sec: 1700000002, Nsec: 3},
	}
}

func TestEncodeHasFixedSize(t *testing.T) {
	block, err := Encode(&Stat{})
	require.NoError(t, err)
	assert.Len(t, block, Size)

	block, err = Encode(sampleStat())
	require.NoError(t, err)
	assert.Len(t, block, Size)
}

func TestEncodeSetsVersion(t *testing.T) {
	st := sampleStat()
	st.Version = 99

	block, err := Encode(st)
	require.NoError(t, err)

	got, err := Decode(block)
	require.NoError(t, err)
	assert.Equal(t, Version, got.Version)
	assert.Equal(t, uint32(99), st.Version, "input must not be modified")
}

func TestDecodeRestoresFields(t *testing.T) {
	want := sampleStat()
	want.Version = Version

	block, err := Encode(want)
	require.NoError(t, err)

	got, err := Decode(block)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeRejects(t *testing.T) {
	t.Run("ShortBlock", func(t *testing.T) {
		_, err := Decode(make([]byte, Size-1))
		assert.Error(t, err)
	})

	t.Run("UnknownVersion", func(t *testing.T) {
		block := make([]byte, Size)
		block[3] = 7 // XDR is big-endian: version 7
		_, err := Decode(block)
		assert.Error(t, err)
	})
}
