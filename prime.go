package rabinwilliams

import (
	"fmt"
	"math/big"
)

var (
	bigOne = big.NewInt(1)
	bigTwo = big.NewInt(2)
)

// number of Miller-Rabin rounds used on prime candidates
const primalityRounds = 10

// GeneratePrime returns a random prime of (at most) bits bits that is congruent to mod8 (mod 8).
//
// Candidates are drawn as bits/8 big-endian bytes, forced odd, and have bits 1 and 2 overwritten with
// those of mod8. The top bit is not forced, so the result may be a few bits shorter than requested.
func GeneratePrime(src *Source, bits int, mod8 uint) (*big.Int, error) {
	if bits <= 0 || bits%8 != 0 {
		return nil, fmt.Errorf("prime size must be a positive multiple of 8 bits, got %d", bits)
	}
	if mod8 > 7 || mod8&1 == 0 {
		return nil, fmt.Errorf("primes > 2 are odd, cannot target %d (mod 8)", mod8)
	}

	candidate := new(big.Int)
	for {
		b, err := src.Read(bits / 8)
		if err != nil {
			return nil, fmt.Errorf("failed to draw prime candidate: %w", err)
		}

		candidate.SetBytes(b)
		candidate.SetBit(candidate, 0, 1)
		candidate.SetBit(candidate, 1, (mod8>>1)&1)
		candidate.SetBit(candidate, 2, (mod8>>2)&1)

		if candidate.ProbablyPrime(primalityRounds) {
			return candidate, nil
		}
	}
}
