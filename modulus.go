package rabinwilliams

import (
	"fmt"
	"math/big"

	rwmath "github.com/bastionzero/rabinwilliams/math"
)

// the two prime classes used by GenerateKey. 2 is a quadratic residue mod a prime ≡ 7 (mod 8)
// and a non-residue mod a prime ≡ 3 (mod 8), which is what makes doubling flip exactly one residue flag
const (
	pMod8 = 3
	qMod8 = 7
)

// A PrivateKey holds the factorization of a Blum integer N along with the values needed
// to take square roots mod N
type PrivateKey struct {
	P, Q *big.Int // secret primes, both ≡ 3 (mod 4)
	N    *big.Int // public modulus P*Q

	// CRT weights: U ≡ 0 (mod P), U ≡ 1 (mod Q); V ≡ 1 (mod P), V ≡ 0 (mod Q)
	U, V *big.Int

	// (P+1)/4 and (Q+1)/4, used both to test residuosity and to extract roots
	PPower, QPower *big.Int
}

// GenerateKey draws p ≡ 3 (mod 8) and q ≡ 7 (mod 8) of primeBits bits each and builds a key from them
func GenerateKey(src *Source, primeBits int) (*PrivateKey, error) {
	p, err := GeneratePrime(src, primeBits, pMod8)
	if err != nil {
		return nil, fmt.Errorf("failed to generate p: %w", err)
	}

	q, err := GeneratePrime(src, primeBits, qMod8)
	if err != nil {
		return nil, fmt.Errorf("failed to generate q: %w", err)
	}

	return NewPrivateKey(p, q)
}

// NewPrivateKey computes N = p*q and the CRT weights via extended Euclid.
// p must be ≡ 3 (mod 8) and q ≡ 7 (mod 8), which also makes them distinct; primality itself is not re-checked
func NewPrivateKey(p *big.Int, q *big.Int) (*PrivateKey, error) {
	eight := big.NewInt(8)

	if !rwmath.CongruentModN(p, big.NewInt(pMod8), eight) || !rwmath.CongruentModN(q, big.NewInt(qMod8), eight) {
		return nil, fmt.Errorf("need p ≡ %d and q ≡ %d (mod 8), got %v and %v",
			pMod8, qMod8, new(big.Int).Mod(p, eight), new(big.Int).Mod(q, eight))
	}

	n := new(big.Int).Mul(p, q)

	// u*p + v*q = 1
	u, v, ok := rwmath.Bezout(p, q)
	if !ok {
		return nil, fmt.Errorf("p and q are not coprime")
	}

	// scale so that U = u*p and V = v*q, reduced into [0, N)
	u.Mul(u, p).Mod(u, n)
	v.Mul(v, q).Mod(v, n)

	pPower := new(big.Int).Add(p, bigOne)
	pPower.Rsh(pPower, 2)
	qPower := new(big.Int).Add(q, bigOne)
	qPower.Rsh(qPower, 2)

	return &PrivateKey{
		P:      new(big.Int).Set(p),
		Q:      new(big.Int).Set(q),
		N:      n,
		U:      u,
		V:      v,
		PPower: pPower,
		QPower: qPower,
	}, nil
}
