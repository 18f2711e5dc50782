package rabinwilliams

import (
	"math/big"
)

// IsQuadraticResidue reports whether e is a square mod the prime p, where power = (p+1)/4.
// This only works for p ≡ 3 (mod 4): (e^power)² = e^((p+1)/2) ≡ e exactly when e is a residue
func IsQuadraticResidue(e *big.Int, p *big.Int, power *big.Int) bool {
	eModP := new(big.Int).Mod(e, p)

	r := new(big.Int).Exp(eModP, power, p)
	r.Mul(r, r)
	r.Mod(r, p)

	return r.Cmp(eModP) == 0
}

// Tweaks records which adjustments Tweak applied to an element
type Tweaks struct {
	Doubled bool
	Negated bool
}

// Residues reports whether e is a quadratic residue mod P and mod Q respectively
func (k *PrivateKey) Residues(e *big.Int) (modP bool, modQ bool) {
	return IsQuadraticResidue(e, k.P, k.PPower), IsQuadraticResidue(e, k.Q, k.QPower)
}

// Tweak maps e to one of e, 2e, -e, -2e (mod N) so that the result is a quadratic residue mod both P and Q.
//
// With P ≡ 3 and Q ≡ 7 (mod 8), 2 is a residue mod Q only, so doubling flips the P flag relative to the Q flag;
// -1 is a non-residue mod both, so negation flips both. e itself is not modified.
func (k *PrivateKey) Tweak(e *big.Int) (*big.Int, Tweaks) {
	var tweaks Tweaks
	a, b := k.Residues(e)

	if a != b {
		tweaks.Doubled = true
		a = !a
	}

	if !a {
		tweaks.Negated = true
	}

	tweaked := new(big.Int).Set(e)
	if tweaks.Negated {
		tweaked.Neg(tweaked)
	}
	if tweaks.Doubled {
		tweaked.Mul(tweaked, bigTwo)
	}
	tweaked.Mod(tweaked, k.N)

	return tweaked, tweaks
}
