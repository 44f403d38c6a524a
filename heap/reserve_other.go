//go:build !unix

package heap

// reserve allocates the span eagerly when mmap is not available.
func reserve(capacity int) ([]byte, func([]byte) error, error) {
	return make([]byte, capacity), func([]byte) error { return nil }, nil
}
