package rabinwilliams

import (
	"fmt"
	"math/big"
	"time"

	"github.com/bastionzero/rabinwilliams/metrics"
)

// A Transcript records every intermediate value of one signing run
type Transcript struct {
	Element    *big.Int // sampled element, before tweaking
	ResidueP   bool     // Element was a residue mod P
	ResidueQ   bool     // Element was a residue mod Q
	Tweaks     Tweaks
	Tweaked    *big.Int // the element actually signed
	Selector   RootSelector
	Signature  *big.Int // s with s² ≡ Tweaked (mod N)
	Compressed *big.Int // Bleichenbacher-compressed s
	N          *big.Int
}

// Witness returns the values needed to verify the compressed signature
func (t *Transcript) Witness() Witness {
	return Witness{Z: t.Compressed, N: t.N, E: t.Tweaked}
}

// A Signer draws elements from Source and signs them with Key
type Signer struct {
	Key    *PrivateKey
	Source *Source
	// Metrics, if set, records the time spent in each stage
	Metrics *metrics.Metrics
}

// Sign samples an element of elementBits bits, tweaks it into a residue mod both primes,
// takes a random square root and compresses it
func (sg *Signer) Sign(elementBits int) (*Transcript, error) {
	t := &Transcript{N: sg.Key.N}
	var err error

	stage := sg.timer("sample")
	t.Element, err = SampleElement(sg.Source, elementBits, sg.Key.N)
	stage()
	if err != nil {
		return nil, err
	}

	stage = sg.timer("tweak")
	t.ResidueP, t.ResidueQ = sg.Key.Residues(t.Element)
	t.Tweaked, t.Tweaks = sg.Key.Tweak(t.Element)
	stage()

	stage = sg.timer("sqrt")
	t.Signature, t.Selector, err = sg.Key.SquareRoot(sg.Source, t.Tweaked)
	stage()
	if err != nil {
		return nil, err
	}

	// guard against a broken root before compressing it
	check := new(big.Int).Mul(t.Signature, t.Signature)
	if check.Mod(check, sg.Key.N).Cmp(t.Tweaked) != 0 {
		return nil, invariantError("sign", "s² ≢ e (mod n)")
	}

	stage = sg.timer("compress")
	t.Compressed, err = Compress(t.Signature, sg.Key.N)
	stage()
	if err != nil {
		return nil, fmt.Errorf("failed to compress signature: %w", err)
	}

	return t, nil
}

func (sg *Signer) timer(stage string) func() {
	start := time.Now()
	return func() {
		if sg.Metrics != nil {
			sg.Metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
		}
	}
}
