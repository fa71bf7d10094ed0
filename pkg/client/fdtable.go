package client

import "fmt"

const (
	// DefaultMaxOpen is the number of remote descriptors a process may hold.
	DefaultMaxOpen = 10

	// DefaultFDOffset is added to a slot index to form a synthetic
	// descriptor. Descriptors below it belong to the operating system.
	DefaultFDOffset = 2048
)

// DescriptorTable maps synthetic descriptors handed to the caller onto
// descriptors owned by the remote process.
//
// The table has a fixed capacity. Slot i is returned to the caller as
// i + offset, so every synthetic descriptor is >= offset.
type DescriptorTable struct {
	offset int
	remote []int
	used   []bool
}

// NewDescriptorTable creates a table with capacity slots starting at
// offset.
func NewDescriptorTable(capacity, offset int) *DescriptorTable {
	if capacity <= 0 {
		capacity = DefaultMaxOpen
	}
	if offset <= 0 {
		offset = DefaultFDOffset
	}
	return &DescriptorTable{
		offset: offset,
		remote: make([]int, capacity),
		used:   make([]bool, capacity),
	}
}

// IsSynthetic reports whether fd falls in the synthetic range.
func (t *DescriptorTable) IsSynthetic(fd int) bool {
	return fd >= t.offset
}

// Reserve returns the lowest free slot's synthetic descriptor without
// occupying it, or false when the table is full.
func (t *DescriptorTable) Reserve() (int, bool) {
	for i, used := range t.used {
		if !used {
			return i + t.offset, true
		}
	}
	return 0, false
}

// Set occupies the slot for fd with the remote descriptor.
func (t *DescriptorTable) Set(fd, remote int) error {
	i, err := t.index(fd)
	if err != nil {
		return err
	}
	if t.used[i] {
		return fmt.Errorf("descriptor %d already in use", fd)
	}
	t.remote[i] = remote
	t.used[i] = true
	return nil
}

// Lookup returns the remote descriptor behind fd.
func (t *DescriptorTable) Lookup(fd int) (int, bool) {
	i, err := t.index(fd)
	if err != nil || !t.used[i] {
		return 0, false
	}
	return t.remote[i], true
}

// Free releases the slot for fd.
func (t *DescriptorTable) Free(fd int) {
	if i, err := t.index(fd); err == nil {
		t.remote[i] = 0
		t.used[i] = false
	}
}

// Len returns the number of occupied slots.
func (t *DescriptorTable) Len() int {
	n := 0
	for _, used := range t.used {
		if used {
			n++
		}
	}
	return n
}

// Cap returns the fixed capacity.
func (t *DescriptorTable) Cap() int {
	return len(t.used)
}

func (t *DescriptorTable) index(fd int) (int, error) {
	i := fd - t.offset
	if i < 0 || i >= len(t.used) {
		return 0, fmt.Errorf("descriptor %d outside synthetic range", fd)
	}
	return i, nil
}
