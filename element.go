package rabinwilliams

import (
	"fmt"
	"math/big"
)

// SampleElement draws bits/8 random bytes and reduces them mod n.
//
// There is no rejection sampling, so the result carries a small modulo bias. This is intentional:
// the element stands in for a message digest and the bias is negligible when bits is about twice
// the size of n's factors.
func SampleElement(src *Source, bits int, n *big.Int) (*big.Int, error) {
	if bits <= 0 || bits%8 != 0 {
		return nil, fmt.Errorf("element size must be a positive multiple of 8 bits, got %d", bits)
	}
	if n.Sign() <= 0 {
		return nil, fmt.Errorf("modulus must be positive")
	}

	b, err := src.Read(bits / 8)
	if err != nil {
		return nil, fmt.Errorf("failed to draw group element: %w", err)
	}

	e := new(big.Int).SetBytes(b)
	return e.Mod(e, n), nil
}
