package estimator

import (
	"github.com/cockroachdb/errors"

	"github.com/32Lwk/monte-carlo-pi-multi-language/xoshiro"
)

// Checkpoint is the running estimate after Executed draws of a single stream.
type Checkpoint struct {
	Executed uint64
	Inside   uint64
	Estimate float64
	Error    float64
}

// Trace follows the single-worker stream seeded with cfg.Seed and records the
// running estimate at points evenly spaced checkpoints. The last checkpoint
// always covers all of cfg.Iterations.
func Trace(cfg *Config, points int) ([]Checkpoint, error) {
	if points < 1 {
		return nil, errors.Newf("trace needs at least 1 point, got %d", points)
	}
	if uint64(points) > cfg.Iterations {
		points = int(cfg.Iterations)
	}

	rng := xoshiro.NewXoshiro256(cfg.Seed)
	trace := make([]Checkpoint, 0, points)
	var executed, inside uint64
	for k := 1; k <= points; k++ {
		next := cfg.Iterations / uint64(points) * uint64(k)
		if k == points {
			next = cfg.Iterations
		}
		inside += Sample(rng, next-executed)
		executed = next

		cp := Checkpoint{Executed: executed, Inside: inside}
		cp.Estimate, cp.Error = Pi(inside, executed)
		trace = append(trace, cp)
	}
	return trace, nil
}
