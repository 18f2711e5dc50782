package rabinwilliams

import (
	"bytes"
	"fmt"
	"math/big"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// small enough to check every candidate divisor
const exhaustivePrimeBits = 24

func isPrimeByTrialDivision(n uint64) bool {
	if n < 2 {
		return false
	}
	for d := uint64(2); d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}

var _ = Describe("Prime generation", func() {

	for _, mod8 := range []uint{1, 3, 5, 7} {
		mod8 := mod8

		When(fmt.Sprintf("Targeting %d (mod 8)", mod8), func() {
			It("Produces odd primes in the requested class", func() {
				src := NewSource(nil)
				for i := 0; i < 50; i++ {
					p, err := GeneratePrime(src, exhaustivePrimeBits, mod8)
					Expect(err).To(BeNil())

					v := p.Uint64()
					Expect(v % 8).To(Equal(uint64(mod8)), fmt.Sprintf("%d ≢ %d (mod 8)", v, mod8))
					Expect(v % 2).To(Equal(uint64(1)))
					Expect(isPrimeByTrialDivision(v)).To(BeTrue(), fmt.Sprintf("%d is composite", v))
					Expect(p.BitLen()).To(BeNumerically("<=", exhaustivePrimeBits))
				}
			})
		})
	}

	It("Forces the low bits of the drawn candidate", func() {
		// 0x00 0x00 becomes 3 after forcing bits 0 and 1, and 3 is prime
		p, err := GeneratePrime(NewSource(bytes.NewReader([]byte{0, 0})), 16, 3)
		Expect(err).To(BeNil())
		Expect(p.Int64()).To(Equal(int64(3)))

		// 0x00 0x08 becomes 15 (composite), then 0x00 0x10 becomes 23
		p, err = GeneratePrime(NewSource(bytes.NewReader([]byte{0, 8, 0, 0x10})), 16, 7)
		Expect(err).To(BeNil())
		Expect(p.Int64()).To(Equal(int64(23)))
	})

	It("Produces large primes that pass a probabilistic test", func() {
		p, err := GeneratePrime(NewSource(nil), 256, 7)
		Expect(err).To(BeNil())
		Expect(p.ProbablyPrime(20)).To(BeTrue())
		Expect(new(big.Int).Mod(p, big.NewInt(8)).Int64()).To(Equal(int64(7)))
	})

	It("Rejects sizes that are not whole bytes", func() {
		_, err := GeneratePrime(NewSource(nil), 12, 3)
		Expect(err).NotTo(BeNil())
	})

	It("Rejects even residue classes", func() {
		_, err := GeneratePrime(NewSource(nil), 16, 4)
		Expect(err).NotTo(BeNil())
	})

	It("Rejects sizes beyond the source's buffer", func() {
		_, err := GeneratePrime(NewSource(nil), 8*(MaxRandomBytes+1), 3)
		Expect(err).To(MatchError(ErrResourceExhaustion))
	})

	It("Fails when the source runs dry", func() {
		// 0x00 0x08 becomes 15, which is composite, and there is nothing left for a second candidate
		_, err := GeneratePrime(NewSource(bytes.NewReader([]byte{0, 8})), 16, 7)
		Expect(err).To(MatchError(ErrResourceExhaustion))
	})
})

var _ = Describe("Key construction", func() {

	It("Builds the modulus and CRT weights from small primes", func() {
		key := smallKey()
		Expect(key.N.Int64()).To(Equal(int64(77)))
		Expect(key.U.Int64()).To(Equal(int64(22)))
		Expect(key.V.Int64()).To(Equal(int64(56)))
		Expect(key.PPower.Int64()).To(Equal(int64(3)))
		Expect(key.QPower.Int64()).To(Equal(int64(2)))
	})

	It("Builds a modulus whose weights recombine residues", func() {
		Expect(new(big.Int).Mul(testKey.P, testKey.Q).Cmp(testKey.N)).To(Equal(0))

		mod := func(x, m *big.Int) int64 { return new(big.Int).Mod(x, m).Int64() }
		Expect(mod(testKey.U, testKey.P)).To(Equal(int64(0)))
		Expect(mod(testKey.U, testKey.Q)).To(Equal(int64(1)))
		Expect(mod(testKey.V, testKey.P)).To(Equal(int64(1)))
		Expect(mod(testKey.V, testKey.Q)).To(Equal(int64(0)))

		sum := new(big.Int).Add(testKey.U, testKey.V)
		Expect(mod(sum, testKey.N)).To(Equal(int64(1)))
	})

	It("Generates primes in the classes 3 and 7 (mod 8)", func() {
		eight := big.NewInt(8)
		Expect(new(big.Int).Mod(testKey.P, eight).Int64()).To(Equal(int64(3)))
		Expect(new(big.Int).Mod(testKey.Q, eight).Int64()).To(Equal(int64(7)))
		Expect(testKey.P.ProbablyPrime(20)).To(BeTrue())
		Expect(testKey.Q.ProbablyPrime(20)).To(BeTrue())
		Expect(testKey.N.Bit(0)).To(Equal(uint(1)))
	})

	It("Rejects primes in the wrong classes", func() {
		_, err := NewPrivateKey(big.NewInt(7), big.NewInt(11))
		Expect(err).NotTo(BeNil())

		_, err = NewPrivateKey(big.NewInt(11), big.NewInt(19))
		Expect(err).NotTo(BeNil())
	})

	It("Rejects factors that are not coprime", func() {
		// both classes are right, but 55 = 5 * 11
		_, err := NewPrivateKey(big.NewInt(11), big.NewInt(55))
		Expect(err).NotTo(BeNil())
	})
})
