package math

import (
	"math/big"
)

// SqrtRem returns root = ⌊√x⌋ and rem = x - root², for x >= 0
func SqrtRem(x *big.Int) (root *big.Int, rem *big.Int) {
	root = new(big.Int).Sqrt(x)
	rem = new(big.Int).Mul(root, root)
	rem.Sub(x, rem)

	return root, rem
}

// IsSquare reports whether x is a perfect square
func IsSquare(x *big.Int) bool {
	if x.Sign() < 0 {
		return false
	}
	_, rem := SqrtRem(x)
	return rem.Sign() == 0
}
