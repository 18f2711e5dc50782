package rabinwilliams

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"syscall"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// interruptingReader fails with EINTR a fixed number of times before reading from r
type interruptingReader struct {
	interrupts int
	calls      int
	r          *bytes.Reader
}

func (ir *interruptingReader) Read(p []byte) (int, error) {
	ir.calls++
	if ir.interrupts > 0 {
		ir.interrupts--
		return 0, syscall.EINTR
	}
	return ir.r.Read(p)
}

// shortReader never fills more than max bytes
type shortReader struct {
	max int
}

func (sr *shortReader) Read(p []byte) (int, error) {
	n := sr.max
	if n > len(p) {
		n = len(p)
	}
	return n, nil
}

func tempDir() string {
	dir, err := os.MkdirTemp("", "rabinwilliams")
	Expect(err).To(BeNil())
	DeferCleanup(os.RemoveAll, dir)
	return dir
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("device unplugged")
}

var _ = Describe("Source", func() {

	It("Returns exactly the requested bytes", func() {
		src := NewSource(bytes.NewReader([]byte{1, 2, 3, 4}))
		b, err := src.Read(3)
		Expect(err).To(BeNil())
		Expect(b).To(Equal([]byte{1, 2, 3}))

		c, err := src.ReadByte()
		Expect(err).To(BeNil())
		Expect(c).To(Equal(byte(4)))
	})

	It("Defaults to crypto/rand", func() {
		b, err := NewSource(nil).Read(MaxRandomBytes)
		Expect(err).To(BeNil())
		Expect(b).To(HaveLen(MaxRandomBytes))
	})

	When("A request is larger than the buffer limit", func() {
		It("Fails without reading", func() {
			ir := &interruptingReader{r: bytes.NewReader(make([]byte, 4096))}
			_, err := NewSource(ir).Read(MaxRandomBytes + 1)
			Expect(err).To(MatchError(ErrResourceExhaustion))
			Expect(ir.calls).To(Equal(0))
		})
	})

	When("A read is interrupted", func() {
		It("Retries transparently", func() {
			ir := &interruptingReader{interrupts: 3, r: bytes.NewReader([]byte{9, 8})}
			b, err := NewSource(ir).Read(2)
			Expect(err).To(BeNil())
			Expect(b).To(Equal([]byte{9, 8}))
			Expect(ir.calls).To(Equal(4))
		})
	})

	When("A read comes up short", func() {
		It("Fails with resource exhaustion", func() {
			_, err := NewSource(&shortReader{max: 5}).Read(8)
			Expect(err).To(MatchError(ErrResourceExhaustion))
			Expect(errors.Is(err, ErrArithmeticInvariant)).To(BeFalse())
		})
	})

	When("The reader fails", func() {
		It("Fails with resource exhaustion", func() {
			_, err := NewSource(failingReader{}).Read(1)
			Expect(err).To(MatchError(ErrResourceExhaustion))
			Expect(err.Error()).To(ContainSubstring("device unplugged"))
		})
	})

	Context("File-backed sources", func() {
		It("Reads from the named file", func() {
			path := filepath.Join(tempDir(), "random")
			Expect(os.WriteFile(path, []byte{0xaa, 0xbb}, 0o600)).To(Succeed())

			src, closeFn, err := OpenSource(path)
			Expect(err).To(BeNil())
			defer closeFn()

			b, err := src.Read(2)
			Expect(err).To(BeNil())
			Expect(b).To(Equal([]byte{0xaa, 0xbb}))

			_, err = src.Read(1)
			Expect(err).To(MatchError(ErrResourceExhaustion))
		})

		It("Fails to open a missing file", func() {
			_, _, err := OpenSource(filepath.Join(tempDir(), "missing"))
			Expect(err).To(MatchError(ErrResourceExhaustion))
		})
	})
})
