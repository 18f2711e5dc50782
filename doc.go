/*
Package rabinwilliams implements Rabin-Williams signatures over a Blum integer, with Bleichenbacher's signature compression

# Overview

A Rabin signature on an element e is a square root of e modulo a composite N = P*Q. Only the holder of P and Q
can take square roots, and anyone can check one by squaring. Bleichenbacher observed that a signature s need not be
sent in full: running the continued-fraction expansion of s/N until the convergents reach √N yields a z about half
the size of N with z*s (mod N) small, so z²*e (mod N) is a perfect square. Verifying a compressed signature is then
one multiplication, one reduction and one integer square root.

# Keys

P ≡ 3 (mod 8) and Q ≡ 7 (mod 8). Both are ≡ 3 (mod 4), so N is a Blum integer and square roots mod each prime are a
single exponentiation by (P+1)/4. The mod 8 classes also mean 2 is a square mod Q but not mod P, and -1 is a square
mod neither:

	src := rabinwilliams.NewSource(nil)
	key, err := rabinwilliams.GenerateKey(src, 512)

# Signing

Not every element is a square mod N. [PrivateKey.Tweak] multiplies e by one of 1, 2, -1, -2 to make it one, then
[PrivateKey.SquareRoot] picks one of its four roots at random and recombines the per-prime roots with precomputed CRT
weights. [Compress] shortens the result:

	signer := &rabinwilliams.Signer{Key: key, Source: src}
	t, err := signer.Sign(1024)
	err = t.Witness().Verify()

# Benchmarking

[Engine] verifies one witness many times, optionally across several goroutines, and reports the elapsed time.

This package is a demonstration. Nothing here runs in constant time and there is no key serialization.

# Sources

	[1] D. Bleichenbacher, "Compressing Rabin Signatures", CT-RSA 2004
	[2] H. C. Williams, "A modification of the RSA public-key encryption procedure", IEEE Trans. Inf. Theory, 1980
*/
package rabinwilliams
