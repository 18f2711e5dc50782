package math

import (
	"math/big"
)

var bigOne = big.NewInt(1)

// check that n divides (a - b)
func CongruentModN(a *big.Int, b *big.Int, N *big.Int) bool {
	aModN := new(big.Int).Mod(a, N)
	bModN := new(big.Int).Mod(b, N)

	return aModN.Cmp(bModN) == 0
}

// Bezout returns u, v such that u*a + v*b = 1. It returns false if a and b are not coprime
func Bezout(a *big.Int, b *big.Int) (u *big.Int, v *big.Int, ok bool) {
	u, v = new(big.Int), new(big.Int)
	gcd := new(big.Int).GCD(u, v, a, b)

	return u, v, gcd.Cmp(bigOne) == 0
}
