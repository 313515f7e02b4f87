// Command rogue-bench drives a rogue.Map through a configurable
// workload of sets, gets, and deletes, and reports throughput and hit
// rate. It exists to exercise the engine end-to-end the way a caller
// would, not as a rigorous benchmark harness.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/iamNilotpal/rogue/pkg/options"
	"github.com/iamNilotpal/rogue/pkg/rogue"
)

type config struct {
	keys      int
	valueSize int
	ttl       time.Duration
	cacheSize int
	seed      int64
}

func main() {
	cfg, code := parseFlags(os.Args[1:])
	if code >= 0 {
		os.Exit(code)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (config, int) {
	fs := flag.NewFlagSet("rogue-bench", flag.ContinueOnError)

	keys := fs.Int("keys", 100_000, "number of distinct keys to exercise")
	valueSize := fs.Int("value-size", 128, "size in bytes of each stored value")
	ttl := fs.Duration("ttl", 0, "default TTL applied to every set (0 disables expiry)")
	cacheSize := fs.Int("cache-size", 0, "hot-cache capacity (0 disables the hot cache)")
	seed := fs.Int64("seed", 1, "PRNG seed, for reproducible workloads")
	help := fs.BoolP("help", "h", false, "print usage and exit")

	if err := fs.Parse(args); err != nil {
		return config{}, 2
	}
	if *help {
		fs.PrintDefaults()
		return config{}, 0
	}

	return config{
		keys:      *keys,
		valueSize: *valueSize,
		ttl:       *ttl,
		cacheSize: *cacheSize,
		seed:      *seed,
	}, -1
}

func run(cfg config) error {
	m, err := rogue.OpenStrings[[]byte](
		options.WithInitialBucketCount(uint32(cfg.keys)),
		options.WithCacheSize(cfg.cacheSize),
		options.WithTTL(cfg.ttl),
	)
	if err != nil {
		return fmt.Errorf("opening map: %w", err)
	}
	defer m.Close()

	rng := rand.New(rand.NewSource(cfg.seed))
	keys := make([]string, cfg.keys)
	for i := range keys {
		keys[i] = fmt.Sprintf("bench-key-%d", i)
	}

	value := make([]byte, cfg.valueSize)
	rng.Read(value)

	fmt.Printf("setting %d keys (%d bytes each)...\n", cfg.keys, cfg.valueSize)
	setStart := time.Now()
	for _, k := range keys {
		if err := m.Set(k, value); err != nil {
			return fmt.Errorf("set %q: %w", k, err)
		}
	}
	setElapsed := time.Since(setStart)

	fmt.Printf("reading back in random order...\n")
	hits := 0
	getStart := time.Now()
	for i := 0; i < len(keys); i++ {
		k := keys[rng.Intn(len(keys))]
		if _, ok := m.Get(k); ok {
			hits++
		}
	}
	getElapsed := time.Since(getStart)

	fmt.Printf("deleting every other key...\n")
	deleteStart := time.Now()
	deleted := 0
	for i, k := range keys {
		if i%2 == 0 && m.Delete(k) {
			deleted++
		}
	}
	deleteElapsed := time.Since(deleteStart)

	fmt.Println()
	fmt.Printf("set:    %8d ops in %-10s (%.0f ops/s)\n", cfg.keys, setElapsed, opsPerSec(cfg.keys, setElapsed))
	fmt.Printf("get:    %8d ops in %-10s (%.0f ops/s), hit rate %.2f%%\n",
		len(keys), getElapsed, opsPerSec(len(keys), getElapsed), 100*float64(hits)/float64(len(keys)))
	deleteOps := (len(keys) + 1) / 2
	fmt.Printf("delete: %8d ops in %-10s (%.0f ops/s), %d removed\n",
		deleteOps, deleteElapsed, opsPerSec(deleteOps, deleteElapsed), deleted)
	fmt.Printf("final size: %d\n", m.Size())

	return nil
}

func opsPerSec(n int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / d.Seconds()
}
