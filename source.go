package rabinwilliams

import (
	"crypto/rand"
	"errors"
	"io"
	"os"
	"syscall"
)

// MaxRandomBytes is the largest single request a Source will serve
const MaxRandomBytes = 2048

// A Source hands out random bytes in exact-sized chunks. Every read must be filled completely:
// reads interrupted by a signal are retried, anything else short of a full buffer is fatal
type Source struct {
	r io.Reader
}

// NewSource wraps r. A nil reader means crypto/rand.Reader
func NewSource(r io.Reader) *Source {
	if r == nil {
		r = rand.Reader
	}
	return &Source{r: r}
}

// OpenSource returns a Source backed by the file at path, e.g. /dev/urandom.
// An empty path returns a Source backed by crypto/rand.Reader. The caller must call close when done
func OpenSource(path string) (src *Source, closeFn func() error, err error) {
	if path == "" {
		return NewSource(rand.Reader), func() error { return nil }, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, resourceError("open random source", "%w", err)
	}
	return NewSource(f), f.Close, nil
}

// Read returns exactly n fresh random bytes
func (s *Source) Read(n int) ([]byte, error) {
	if n < 0 || n > MaxRandomBytes {
		return nil, resourceError("read random bytes", "requested %d bytes, limit is %d", n, MaxRandomBytes)
	}

	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}

	for {
		r, err := s.r.Read(buf)
		if errors.Is(err, syscall.EINTR) {
			continue
		}
		if r == n {
			return buf, nil
		}
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return nil, resourceError("read random bytes", "got %d of %d bytes: %w", r, n, err)
	}
}

// ReadByte returns a single random byte
func (s *Source) ReadByte() (byte, error) {
	b, err := s.Read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}
