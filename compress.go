package rabinwilliams

import (
	"math/big"
)

// convergentRing keeps the last four continued-fraction convergents (numerators of the expansion of n/s)
type convergentRing struct {
	v    [4]*big.Int
	head int
}

func newConvergentRing() *convergentRing {
	r := &convergentRing{head: 1}
	r.v[0] = big.NewInt(0)
	r.v[1] = big.NewInt(1)
	r.v[2] = new(big.Int)
	r.v[3] = new(big.Int)
	return r
}

// at returns the convergent back steps behind the newest one
func (r *convergentRing) at(back int) *big.Int {
	return r.v[(r.head-back+4)%4]
}

// push appends cf*at(0) + at(1) as the newest convergent and returns it
func (r *convergentRing) push(cf *big.Int) *big.Int {
	next := r.v[(r.head+1)%4]
	next.Mul(r.at(0), cf)
	next.Add(next, r.at(1))
	r.head = (r.head + 1) % 4
	return next
}

// Compress implements Bleichenbacher's compression of a Rabin signature s mod n.
//
// It runs the Euclidean algorithm on (n, s), tracking convergents of the continued fraction,
// and stops at the first convergent that reaches ⌊√n⌋. The result is the convergent just before it:
// a z < ⌊√n⌋ for which z·s (mod n) is small, so that z²·s² (mod n) is a perfect square.
// Neither s nor n is modified.
func Compress(s *big.Int, n *big.Int) (*big.Int, error) {
	if s.Sign() <= 0 || s.Cmp(n) >= 0 {
		return nil, invariantError("compress signature", "signature must lie in (0, n)")
	}

	root := new(big.Int).Sqrt(n)
	a := new(big.Int).Set(s)
	b := new(big.Int).Set(n)
	cf := new(big.Int)
	rem := new(big.Int)
	ring := newConvergentRing()

	// all values stay positive, so truncated division is floor division.
	// steps alternate between reducing b by a and a by b, starting with b
	for step := 0; ; step++ {
		if step%2 == 0 {
			if a.Sign() == 0 {
				return nil, invariantError("compress signature", "signature shares a factor with the modulus")
			}
			cf.QuoRem(b, a, rem)
			b, rem = rem, b
		} else {
			if b.Sign() == 0 {
				return nil, invariantError("compress signature", "signature shares a factor with the modulus")
			}
			cf.QuoRem(a, b, rem)
			a, rem = rem, a
		}

		if ring.push(cf).Cmp(root) >= 0 {
			return new(big.Int).Set(ring.at(1)), nil
		}
	}
}
