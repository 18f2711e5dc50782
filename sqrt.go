package rabinwilliams

import (
	"fmt"
	"math/big"
)

// RootSelector picks one of the four square roots of a residue mod a Blum integer.
// Bit 0 negates the root mod P, bit 1 negates the root mod Q
type RootSelector byte

const rootSelectorMask = 3

// SquareRoot draws a random selector and returns that square root of e mod N.
// e must be a quadratic residue mod both P and Q (see Tweak)
func (k *PrivateKey) SquareRoot(src *Source, e *big.Int) (*big.Int, RootSelector, error) {
	b, err := src.ReadByte()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to draw root selector: %w", err)
	}

	sel := RootSelector(b & rootSelectorMask)
	return k.SquareRootWithSelector(e, sel), sel, nil
}

// SquareRootWithSelector computes s with s² ≡ e (mod N), choosing the root given by sel
func (k *PrivateKey) SquareRootWithSelector(e *big.Int, sel RootSelector) *big.Int {
	pRoot := new(big.Int).Exp(e, k.PPower, k.P)
	qRoot := new(big.Int).Exp(e, k.QPower, k.Q)

	if sel&1 != 0 {
		pRoot.Neg(pRoot)
	}
	if sel&2 != 0 {
		qRoot.Neg(qRoot)
	}

	// s <- pRoot*V + qRoot*U (mod N)
	s := pRoot.Mul(pRoot, k.V)
	s.Add(s, qRoot.Mul(qRoot, k.U))
	return s.Mod(s, k.N)
}
