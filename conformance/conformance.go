// Package conformance holds the pinned fixtures that every implementation of
// the generator and estimator must reproduce bit for bit.
package conformance

import (
	"context"
	"runtime"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/32Lwk/monte-carlo-pi-multi-language/estimator"
	"github.com/32Lwk/monte-carlo-pi-multi-language/xoshiro"
)

// Vector is one fixture. Only the non-zero expectations are checked.
type Vector struct {
	Name string
	Seed uint64

	State       *[4]uint64
	Outputs     []uint64
	Doubles     []float64
	WorkerSeeds []uint64

	Iterations uint64
	// Workers selects the parallel estimator when non-zero.
	Workers      int
	Inside       uint64
	WorkerInside []uint64
	Estimate     float64
}

var (
	short = []Vector{
		{
			Name:  "seed-12345",
			Seed:  xoshiro.DefaultSeed,
			State: &[4]uint64{0xf36cf1164265dd51, 0x79a8bd6cf99585ec, 0x1e42cca5b33f8e17, 0x704672bceb562408},
			Outputs: []uint64{
				0x54a613efa4453fb0,
				0xd2539a46445df50b,
				0xe56364d1bd6a5670,
				0x058e2e89085b9e24,
				0xefb771d453318073,
			},
			Doubles: []float64{0.33065914726855261, 0.82158817496780734, 0.89604787941554176},
			WorkerSeeds: []uint64{
				0x0000000000003039,
				0x9e3779b97f4aac4e,
				0x3c6ef372fe952863,
				0xdaa66d2c7ddfa478,
			},
		},
		{
			Name:    "seed-0",
			Seed:    0,
			State:   &[4]uint64{},
			Outputs: []uint64{0, 0, 0},
		},
		{
			Name:       "single-1e6",
			Seed:       xoshiro.DefaultSeed,
			Iterations: 1_000_000,
			Inside:     785_104,
			Estimate:   3.1404160000000001,
		},
		{
			Name:         "parallel-100-3",
			Seed:         xoshiro.DefaultSeed,
			Iterations:   100,
			Workers:      3,
			Inside:       84,
			WorkerInside: []uint64{26, 28, 30},
			Estimate:     3.393939393939394,
		},
		{
			Name:         "parallel-1e6-4",
			Seed:         xoshiro.DefaultSeed,
			Iterations:   1_000_000,
			Workers:      4,
			Inside:       785_864,
			WorkerInside: []uint64{196_293, 196_741, 196_485, 196_345},
			Estimate:     3.143456,
		},
	}

	long = []Vector{
		{
			Name:       "single-1e8",
			Seed:       xoshiro.DefaultSeed,
			Iterations: 100_000_000,
			Inside:     78_538_305,
			Estimate:   3.1415321999999999,
		},
		{
			Name:       "parallel-1e8-2",
			Seed:       xoshiro.DefaultSeed,
			Iterations: 100_000_000,
			Workers:    2,
			Inside:     78_543_777,
			Estimate:   3.1417510800000001,
		},
		{
			Name:       "parallel-1e8-4",
			Seed:       xoshiro.DefaultSeed,
			Iterations: 100_000_000,
			Workers:    4,
			Inside:     78_538_625,
			Estimate:   3.1415449999999998,
		},
		{
			Name:       "parallel-1e8-8",
			Seed:       xoshiro.DefaultSeed,
			Iterations: 100_000_000,
			Workers:    8,
			Inside:     78_544_616,
			Estimate:   3.14178464,
		},
	}
)

func DefaultVectors() []Vector {
	return append([]Vector(nil), short...)
}

// LongVectors returns the default vectors plus the full-size benchmark runs.
func LongVectors() []Vector {
	return append(DefaultVectors(), long...)
}

// Verify recomputes every vector, at most GOMAXPROCS at a time, and returns
// all mismatches combined.
func Verify(ctx context.Context, vectors []Vector) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	var mu struct {
		sync.Mutex
		err error
	}
	for i := range vectors {
		v := &vectors[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := Check(v); err != nil {
				mu.Lock()
				mu.err = errors.CombineErrors(mu.err, err)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return mu.err
}

// Check recomputes a single vector.
func Check(v *Vector) error {
	if v.State != nil {
		if got := xoshiro.Expand(v.Seed); got != *v.State {
			return errors.Newf("%s: state %x, want %x", v.Name, got, *v.State)
		}
	}
	rng := xoshiro.NewXoshiro256(v.Seed)
	for i, want := range v.Outputs {
		if got := rng.Uint64(); got != want {
			return errors.Newf("%s: output #%d %#016x, want %#016x", v.Name, i, got, want)
		}
	}
	rng.Seed(v.Seed)
	for i, want := range v.Doubles {
		if got := rng.Float64(); got != want {
			return errors.Newf("%s: double #%d %.17g, want %.17g", v.Name, i, got, want)
		}
	}
	for i, want := range v.WorkerSeeds {
		if got := xoshiro.WorkerSeed(v.Seed, i); got != want {
			return errors.Newf("%s: worker seed #%d %#016x, want %#016x", v.Name, i, got, want)
		}
	}
	if v.Iterations == 0 {
		return nil
	}

	cfg := &estimator.Config{Mode: estimator.ModeSingle, Iterations: v.Iterations, Seed: v.Seed}
	if v.Workers > 0 {
		cfg.Mode = estimator.ModeParallel
		cfg.Workers = v.Workers
	}
	res, err := estimator.Run(cfg)
	if err != nil {
		return errors.Wrapf(err, "%s", v.Name)
	}
	if res.Inside != v.Inside {
		return errors.Newf("%s: inside %d, want %d", v.Name, res.Inside, v.Inside)
	}
	if v.WorkerInside != nil && len(v.WorkerInside) != len(res.WorkerInside) {
		return errors.Newf("%s: %d workers reported, want %d", v.Name, len(res.WorkerInside), len(v.WorkerInside))
	}
	for i, want := range v.WorkerInside {
		if got := res.WorkerInside[i]; got != want {
			return errors.Newf("%s: worker %d inside %d, want %d", v.Name, i, got, want)
		}
	}
	if v.Estimate != 0 && res.Estimate != v.Estimate {
		return errors.Newf("%s: estimate %.17g, want %.17g", v.Name, res.Estimate, v.Estimate)
	}
	return nil
}
