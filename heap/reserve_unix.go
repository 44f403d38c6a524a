//go:build unix

package heap

import (
	"errors"

	"golang.org/x/sys/unix"
)

// reserve maps an anonymous private span. The kernel commits pages lazily and
// guarantees they read as zero, so the full capacity can be reserved cheaply.
func reserve(capacity int) ([]byte, func([]byte) error, error) {
	data, err := unix.Mmap(
		-1,
		0,
		capacity,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON,
	)
	if err != nil {
		return nil, nil, err
	}
	release := func(b []byte) error {
		err := unix.Munmap(b)
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			return nil
		}
		return err
	}
	return data, release, nil
}
