package estimator

import (
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/32Lwk/monte-carlo-pi-multi-language/xoshiro"
)

// PiTheoretical is the reference value; digits past float64 precision are
// padding.
const PiTheoretical = 3.141592653589793238462643383279502884197

const DefaultIterations uint64 = 100_000_000

var (
	// ErrNoWorkers is returned when fewer than one worker is requested.
	ErrNoWorkers = errors.New("worker count must be at least 1")
	// ErrUnknownMode is returned for a mode tag other than single or parallel.
	ErrUnknownMode = errors.New("unknown mode")
)

type Mode uint8

const (
	ModeSingle Mode = iota
	ModeParallel
)

func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeParallel:
		return "parallel"
	default:
		return "unknown"
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single":
		return ModeSingle, nil
	case "parallel":
		return ModeParallel, nil
	default:
		return 0, errors.Wrapf(ErrUnknownMode, "%q", s)
	}
}

func NopLogger(...any) {}

type Config struct {
	Mode       Mode
	Iterations uint64
	// Workers is ignored in single mode.
	Workers int
	Seed    uint64
	Logger  func(...any)
}

// DefaultConfig returns the reference benchmark configuration.
func DefaultConfig(mode Mode, workers int) *Config {
	return &Config{
		Mode:       mode,
		Iterations: DefaultIterations,
		Workers:    workers,
		Seed:       xoshiro.DefaultSeed,
	}
}

type Result struct {
	Mode Mode
	// Iterations is the requested budget, Executed what the workers actually
	// drew. They differ when Iterations is not a multiple of Workers.
	Iterations uint64
	Executed   uint64
	Workers    int
	Seed       uint64

	Inside        uint64
	WorkerInside  []uint64
	WorkerElapsed []time.Duration

	Estimate float64
	Error    float64
	Elapsed  time.Duration
}

// Sample draws n points from rng and returns how many fall inside the unit
// circle, boundary included.
func Sample(rng *xoshiro.Xoshiro256, n uint64) uint64 {
	var inside uint64
	for i := uint64(0); i < n; i++ {
		x := rng.Float64()
		y := rng.Float64()
		// explicit conversions forbid fusing into an FMA
		if float64(x*x)+float64(y*y) <= 1.0 {
			inside++
		}
	}
	return inside
}

// Pi converts an inside-count over executed draws into an estimate and its
// absolute error. Zero draws yield an estimate of 0.
func Pi(inside, executed uint64) (float64, float64) {
	if executed == 0 {
		return 0, PiTheoretical
	}
	estimate := 4.0 * float64(inside) / float64(executed)
	return estimate, abs(estimate - PiTheoretical)
}

// Estimate runs the single-worker estimator with the default seed.
func Estimate(iterations uint64) (float64, float64) {
	rng := xoshiro.NewXoshiro256(xoshiro.DefaultSeed)
	return Pi(Sample(rng, iterations), iterations)
}

// EstimateParallel splits iterations evenly across workers with the default
// base seed. The remainder of the division is not drawn and the estimate is
// scaled by the executed count.
func EstimateParallel(iterations uint64, workers int) (float64, float64, error) {
	res, err := Run(&Config{
		Mode:       ModeParallel,
		Iterations: iterations,
		Workers:    workers,
		Seed:       xoshiro.DefaultSeed,
	})
	if err != nil {
		return 0, 0, err
	}
	return res.Estimate, res.Error, nil
}

func Run(cfg *Config) (*Result, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = NopLogger
	}

	workers := cfg.Workers
	switch cfg.Mode {
	case ModeSingle:
		workers = 1
	case ModeParallel:
		if workers < 1 {
			return nil, errors.Wrapf(ErrNoWorkers, "got %d", workers)
		}
	default:
		return nil, errors.Wrapf(ErrUnknownMode, "%d", cfg.Mode)
	}

	perWorker := cfg.Iterations / uint64(workers)
	res := &Result{
		Mode:          cfg.Mode,
		Iterations:    cfg.Iterations,
		Executed:      perWorker * uint64(workers),
		Workers:       workers,
		Seed:          cfg.Seed,
		WorkerInside:  make([]uint64, workers),
		WorkerElapsed: make([]time.Duration, workers),
	}
	if res.Executed != res.Iterations {
		logger(message.NewPrinter(language.English).
			Sprintf("dropping %d of %d iterations: not divisible by %d workers",
				res.Iterations-res.Executed, res.Iterations, workers))
	}

	start := time.Now()
	if cfg.Mode == ModeSingle {
		runWorker(cfg.Seed, 0, perWorker, res)
	} else {
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				runWorker(cfg.Seed, id, perWorker, res)
			}(i)
		}
		wg.Wait()
	}
	res.Elapsed = time.Since(start)

	for _, inside := range res.WorkerInside {
		res.Inside += inside
	}
	res.Estimate, res.Error = Pi(res.Inside, res.Executed)

	logger(message.NewPrinter(language.English).
		Sprintf("mode=%s workers=%d executed=%d inside=%d pi=%.12f err=%.3e (%.3fs elapsed)",
			res.Mode, res.Workers, res.Executed, res.Inside, res.Estimate, res.Error, res.Elapsed.Seconds()))

	return res, nil
}

// runWorker owns its generator and writes only to its own result slots.
func runWorker(base uint64, id int, n uint64, res *Result) {
	start := time.Now()
	rng := xoshiro.NewXoshiro256(xoshiro.WorkerSeed(base, id))
	res.WorkerInside[id] = Sample(rng, n)
	res.WorkerElapsed[id] = time.Since(start)
}

func abs[T constraints.Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}
