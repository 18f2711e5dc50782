package rabinwilliams

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	rwmath "github.com/bastionzero/rabinwilliams/math"
	"github.com/bastionzero/rabinwilliams/metrics"
)

// A Witness is everything a verifier needs: the compressed signature Z over element E mod N
type Witness struct {
	Z *big.Int
	N *big.Int
	E *big.Int
}

// Verify checks that z²·e (mod n) is a nonzero perfect square
func Verify(z *big.Int, n *big.Int, e *big.Int) error {
	w := new(big.Int).Mul(z, z)
	w.Mul(w, e)
	w.Mod(w, n)

	if w.Sign() == 0 {
		return invariantError("verify", "witness z²·e is zero (mod n)")
	}

	if _, rem := rwmath.SqrtRem(w); rem.Sign() != 0 {
		return invariantError("verify", "witness z²·e (mod n) is not a perfect square")
	}
	return nil
}

// Verify checks the witness once
func (w Witness) Verify() error {
	return Verify(w.Z, w.N, w.E)
}

// An Engine verifies the same witness many times over to measure throughput
type Engine struct {
	// Workers is the number of goroutines sharing the iterations. Zero or one runs sequentially
	Workers int
	// Clock times the run; defaults to the real clock
	Clock clockwork.Clock
	// Metrics, if set, counts verifications
	Metrics *metrics.Metrics
}

// Result reports a benchmark run
type Result struct {
	Iterations int
	Workers    int
	Elapsed    time.Duration
}

// PerSecond is the verification throughput
func (r Result) PerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Iterations) / r.Elapsed.Seconds()
}

// Run performs iterations independent verifications of w and reports the total wall-clock time.
// It stops at the first failure or when ctx is cancelled
func (eng *Engine) Run(ctx context.Context, w Witness, iterations int) (Result, error) {
	if iterations <= 0 {
		return Result{}, fmt.Errorf("iterations must be positive, got %d", iterations)
	}

	clock := eng.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	workers := eng.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > iterations {
		workers = iterations
	}

	start := clock.Now()

	var err error
	if workers == 1 {
		err = eng.verifyN(ctx, w, iterations)
	} else {
		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < workers; i++ {
			// spread the remainder over the first workers
			share := iterations / workers
			if i < iterations%workers {
				share++
			}
			g.Go(func() error {
				return eng.verifyN(gctx, w, share)
			})
		}
		err = g.Wait()
	}

	elapsed := clock.Since(start)
	if eng.Metrics != nil {
		eng.Metrics.StageDuration.WithLabelValues("verify").Observe(elapsed.Seconds())
	}
	if err != nil {
		return Result{}, err
	}

	return Result{
		Iterations: iterations,
		Workers:    workers,
		Elapsed:    elapsed,
	}, nil
}

// number of iterations between context checks
const cancelCheckInterval = 1024

func (eng *Engine) verifyN(ctx context.Context, w Witness, n int) error {
	done := 0
	defer func() {
		if eng.Metrics != nil {
			eng.Metrics.Verifications.Add(float64(done))
		}
	}()

	for i := 0; i < n; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		if err := w.Verify(); err != nil {
			if eng.Metrics != nil {
				eng.Metrics.VerificationFailures.Inc()
			}
			return fmt.Errorf("verification %d failed: %w", i, err)
		}
		done++
	}
	return nil
}
