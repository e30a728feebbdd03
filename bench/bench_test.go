package bench

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/32Lwk/monte-carlo-pi-multi-language/estimator"
	"github.com/32Lwk/monte-carlo-pi-multi-language/xoshiro"
)

func TestRun(t *testing.T) {
	t.Parallel()
	cfg := &estimator.Config{
		Mode:       estimator.ModeParallel,
		Iterations: 1_000_000,
		Workers:    4,
		Seed:       xoshiro.DefaultSeed,
	}
	out := make(chan string, 16)
	s, err := Run(cfg, Options{Warmup: 1, Runs: 3, Verbose: true}, out)
	require.NoError(t, err)
	close(out)

	var lines []string
	for l := range out {
		lines = append(lines, l)
	}
	require.Len(t, lines, 5)
	require.Contains(t, lines[0], "warmup 1/1")
	require.Contains(t, lines[4], "inside=785,864")

	require.Equal(t, 3, s.Runs)
	require.Equal(t, int64(3), s.Elapsed.TotalCount())
	require.Equal(t, uint64(785_864), s.Last.Inside)
	require.LessOrEqual(t, s.Min, s.P50)
	require.LessOrEqual(t, s.P50, s.Max)
	require.Greater(t, s.Mean, time.Duration(0))
	require.Greater(t, s.Throughput, 0.0)
}

func TestRunOptions(t *testing.T) {
	t.Parallel()
	cfg := &estimator.Config{Mode: estimator.ModeSingle, Iterations: 10, Seed: xoshiro.DefaultSeed}
	_, err := Run(cfg, Options{Runs: 0}, nil)
	require.Error(t, err)
	_, err = Run(cfg, Options{Runs: 1, Warmup: -1}, nil)
	require.Error(t, err)

	_, err = Run(&estimator.Config{Mode: estimator.ModeParallel, Iterations: 10}, Options{Runs: 1}, nil)
	require.ErrorIs(t, err, estimator.ErrNoWorkers)
}

func TestSweep(t *testing.T) {
	t.Parallel()
	cfg := &estimator.Config{Mode: estimator.ModeSingle, Iterations: 1_000, Seed: xoshiro.DefaultSeed}
	summaries, err := Sweep(cfg, []int{1, 2, 4, 8}, Options{Runs: 2}, nil)
	require.NoError(t, err)
	require.Len(t, summaries, 4)

	wantInside := []uint64{788, 782, 788, 796}
	for i, s := range summaries {
		require.Equal(t, estimator.ModeParallel, s.Last.Mode)
		require.Equal(t, wantInside[i], s.Last.Inside, "workers=%d", s.Last.Workers)
	}
	require.Equal(t, estimator.ModeSingle, cfg.Mode)

	_, err = Sweep(cfg, []int{2, 0}, Options{Runs: 1}, nil)
	require.ErrorIs(t, err, estimator.ErrNoWorkers)
}

func TestSpeedup(t *testing.T) {
	t.Parallel()
	base := &Summary{Mean: 4 * time.Second}
	require.Equal(t, 2.0, Speedup(base, &Summary{Mean: 2 * time.Second}))
	require.Equal(t, 0.0, Speedup(base, &Summary{}))
}

func TestClampElapsed(t *testing.T) {
	t.Parallel()
	require.Equal(t, minElapsed, clampElapsed(0))
	require.Equal(t, maxElapsed, clampElapsed(2*maxElapsed))
	require.Equal(t, time.Second, clampElapsed(time.Second))
}
