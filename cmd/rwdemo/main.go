/*
rwdemo generates a Rabin-Williams key, signs a random element, compresses the signature and times
a million verifications of it. It needs no arguments; flags and a TOML file only override the defaults.

	go build ./cmd/rwdemo
	./rwdemo
	./rwdemo --workers 8 --iterations 5000000
*/
package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/urfave/cli/v2"

	rw "github.com/bastionzero/rabinwilliams"
	"github.com/bastionzero/rabinwilliams/log"
	"github.com/bastionzero/rabinwilliams/metrics"
)

var configFlag = &cli.StringFlag{
	Name:    "config",
	Usage:   "Read run parameters from this TOML file. Flags override its values.",
	EnvVars: []string{"RW_CONFIG"},
}

var primeBitsFlag = &cli.IntFlag{
	Name:    "prime-bits",
	Value:   rw.DefaultPrimeBits,
	Usage:   "Size in bits of each secret prime. The modulus and sampled elements are twice this size.",
	EnvVars: []string{"RW_PRIME_BITS"},
}

var iterationsFlag = &cli.IntFlag{
	Name:    "iterations",
	Value:   rw.DefaultIterations,
	Usage:   "Number of verifications to time.",
	EnvVars: []string{"RW_ITERATIONS"},
}

var workersFlag = &cli.IntFlag{
	Name:    "workers",
	Value:   1,
	Usage:   "Number of goroutines sharing the verifications. 1 runs them sequentially.",
	EnvVars: []string{"RW_WORKERS"},
}

var randomSourceFlag = &cli.StringFlag{
	Name:    "random-source",
	Usage:   "Read random bytes from this file (e.g. /dev/urandom) instead of crypto/rand.",
	EnvVars: []string{"RW_RANDOM_SOURCE"},
}

var logLevelFlag = &cli.StringFlag{
	Name:    "log-level",
	Value:   "info",
	Usage:   "One of debug, info, warn, error.",
	EnvVars: []string{"RW_LOG_LEVEL"},
}

var jsonLogsFlag = &cli.BoolFlag{
	Name:    "json-logs",
	Usage:   "Write logs as JSON instead of console text.",
	EnvVars: []string{"RW_JSON_LOGS"},
}

var monitorFlag = &cli.DurationFlag{
	Name:    "monitor",
	Usage:   "Log runtime memory statistics at this interval during the benchmark. 0 disables it.",
	EnvVars: []string{"RW_MONITOR"},
}

func main() {
	app := &cli.App{
		Name:  "rwdemo",
		Usage: "Rabin-Williams signatures with Bleichenbacher compression: sign once, verify many times",
		Flags: []cli.Flag{
			configFlag, primeBitsFlag, iterationsFlag, workersFlag,
			randomSourceFlag, logLevelFlag, jsonLogsFlag, monitorFlag,
		},
		Action: runCmd,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "rwdemo: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig layers defaults, the optional config file and explicitly set flags
func loadConfig(c *cli.Context) (rw.Config, error) {
	cfg := rw.DefaultConfig()
	if path := c.String(configFlag.Name); path != "" {
		var err error
		if cfg, err = rw.LoadConfig(path); err != nil {
			return rw.Config{}, err
		}
	}

	if c.IsSet(primeBitsFlag.Name) {
		cfg.PrimeBits = c.Int(primeBitsFlag.Name)
	}
	if c.IsSet(iterationsFlag.Name) {
		cfg.Iterations = c.Int(iterationsFlag.Name)
	}
	if c.IsSet(workersFlag.Name) {
		cfg.Workers = c.Int(workersFlag.Name)
	}
	if c.IsSet(randomSourceFlag.Name) {
		cfg.RandomSource = c.String(randomSourceFlag.Name)
	}
	if c.IsSet(logLevelFlag.Name) {
		cfg.LogLevel = c.String(logLevelFlag.Name)
	}
	if c.IsSet(jsonLogsFlag.Name) {
		cfg.JSONLogs = c.Bool(jsonLogsFlag.Name)
	}
	if c.IsSet(monitorFlag.Name) {
		cfg.MonitorInterval = rw.Duration(c.Duration(monitorFlag.Name))
	}

	return cfg, cfg.Validate()
}

func runCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Validate has already checked the level
	level, _ := log.ParseLevel(cfg.LogLevel)
	logger := log.New(nil, level, cfg.JSONLogs).Named("rwdemo")
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, logger, metrics.New()); err != nil {
		logger.Errorw("run aborted", "err", err)
		return err
	}
	return nil
}

func hex(n *big.Int) string {
	return n.Text(16)
}

func run(ctx context.Context, cfg rw.Config, logger log.Logger, m *metrics.Metrics) error {
	src, closeSource, err := rw.OpenSource(cfg.RandomSource)
	if err != nil {
		return err
	}
	defer func() { _ = closeSource() }()

	logger.Infow("Generating group...", "prime_bits", cfg.PrimeBits)
	key, err := rw.GenerateKey(src, cfg.PrimeBits)
	if err != nil {
		return err
	}
	logger.Infow("group", "p", hex(key.P), "q", hex(key.Q), "n", hex(key.N))
	logger.Infow("Performing extended Euclid...", "u", hex(key.U), "v", hex(key.V))

	logger.Infow("Picking random element and signing...", "element_bits", cfg.ElementBits())
	signer := &rw.Signer{Key: key, Source: src, Metrics: m}
	t, err := signer.Sign(cfg.ElementBits())
	if err != nil {
		return err
	}
	logger.Infow("element", "e", hex(t.Element), "residue_p", t.ResidueP, "residue_q", t.ResidueQ)
	logger.Infow("tweaked", "doubled", t.Tweaks.Doubled, "negated", t.Tweaks.Negated, "e", hex(t.Tweaked))
	logger.Infow("signature", "root", int(t.Selector), "sig", hex(t.Signature))
	logger.Infow("compressed signature", "zsig", hex(t.Compressed),
		"sig_bits", t.Signature.BitLen(), "zsig_bits", t.Compressed.BitLen())

	clock := clockwork.NewRealClock()
	benchCtx, stopMonitor := context.WithCancel(ctx)
	var wg sync.WaitGroup
	if cfg.MonitorInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			monitor(benchCtx, clock, time.Duration(cfg.MonitorInterval), logger.Named("monitor"))
		}()
	}

	logger.Infow(fmt.Sprintf("Performing %d verifications", cfg.Iterations), "workers", cfg.Workers)
	eng := &rw.Engine{Workers: cfg.Workers, Clock: clock, Metrics: m}
	res, err := eng.Run(benchCtx, t.Witness(), cfg.Iterations)
	stopMonitor()
	wg.Wait()
	if err != nil {
		return err
	}

	logger.Infow("verify time",
		"seconds", res.Elapsed.Seconds(),
		"iterations", res.Iterations,
		"workers", res.Workers,
		"per_second", res.PerSecond())

	summary, err := m.Summary()
	if err != nil {
		logger.Warnw("failed to gather metrics", "err", err)
		return nil
	}
	names := make([]string, 0, len(summary))
	for name := range summary {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		logger.Debugw("metric", "name", name, "value", summary[name])
	}
	return nil
}
