package bench

import (
	"fmt"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/cockroachdb/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"

	"github.com/32Lwk/monte-carlo-pi-multi-language/estimator"
)

const (
	minElapsed = time.Microsecond
	maxElapsed = time.Hour
)

type Options struct {
	// Warmup runs are executed and discarded before timing starts.
	Warmup  int
	Runs    int
	Verbose bool
}

type Summary struct {
	// Last is the result of the final timed run; all timed runs agree on
	// everything but timings.
	Last *estimator.Result
	Runs int

	Elapsed *hdrhistogram.Histogram
	Min     time.Duration
	P50     time.Duration
	P99     time.Duration
	Max     time.Duration
	Mean    time.Duration
	StdDev  time.Duration

	// Throughput is the number of sampled points per second at Mean.
	Throughput float64
}

func newHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(minElapsed.Microseconds(), maxElapsed.Microseconds(), 3)
}

func clampElapsed(d time.Duration) time.Duration {
	if d < minElapsed {
		return minElapsed
	}
	if d > maxElapsed {
		return maxElapsed
	}
	return d
}

// Run executes opts.Warmup discarded runs then opts.Runs timed runs of cfg.
// Progress lines are sent to out when it is non-nil.
func Run(cfg *estimator.Config, opts Options, out chan<- string) (*Summary, error) {
	if opts.Runs < 1 {
		return nil, errors.Newf("runs must be at least 1, got %d", opts.Runs)
	}
	if opts.Warmup < 0 {
		return nil, errors.Newf("warmup must not be negative, got %d", opts.Warmup)
	}
	p := message.NewPrinter(language.English)
	send := func(s string) {
		if out != nil {
			out <- s
		}
	}

	for i := 0; i < opts.Warmup; i++ {
		res, err := estimator.Run(cfg)
		if err != nil {
			return nil, err
		}
		if opts.Verbose {
			send(p.Sprintf("warmup %d/%d: %s workers=%d (%.3fs elapsed)",
				i+1, opts.Warmup, res.Mode, res.Workers, res.Elapsed.Seconds()))
		}
	}

	s := &Summary{Runs: opts.Runs, Elapsed: newHistogram()}
	samples := make([]float64, 0, opts.Runs)
	for i := 0; i < opts.Runs; i++ {
		res, err := estimator.Run(cfg)
		if err != nil {
			return nil, err
		}
		if s.Last != nil && s.Last.Inside != res.Inside {
			return nil, errors.AssertionFailedf("run %d diverged: inside=%d, previous run inside=%d",
				i+1, res.Inside, s.Last.Inside)
		}
		s.Last = res

		if err := s.Elapsed.RecordValue(clampElapsed(res.Elapsed).Microseconds()); err != nil {
			return nil, errors.Wrapf(err, "recording run %d", i+1)
		}
		samples = append(samples, float64(res.Elapsed))
		if opts.Verbose {
			send(p.Sprintf("run %d/%d: %s workers=%d pi=%.12f err=%.3e (%.3fs elapsed)",
				i+1, opts.Runs, res.Mode, res.Workers, res.Estimate, res.Error, res.Elapsed.Seconds()))
		}
	}

	s.Min = time.Duration(s.Elapsed.Min()) * time.Microsecond
	s.P50 = time.Duration(s.Elapsed.ValueAtQuantile(50)) * time.Microsecond
	s.P99 = time.Duration(s.Elapsed.ValueAtQuantile(99)) * time.Microsecond
	s.Max = time.Duration(s.Elapsed.Max()) * time.Microsecond
	s.Mean = time.Duration(stat.Mean(samples, nil))
	if len(samples) > 1 {
		s.StdDev = time.Duration(stat.StdDev(samples, nil))
	}
	if s.Mean > 0 {
		s.Throughput = float64(s.Last.Executed) / s.Mean.Seconds()
	}

	send(p.Sprintf("%s workers=%d executed=%d inside=%d runs=%d mean=%s p50=%s rate=%dpts/s",
		s.Last.Mode, s.Last.Workers, s.Last.Executed, s.Last.Inside, s.Runs, s.Mean, s.P50, int64(s.Throughput)))
	return s, nil
}

// Sweep benchmarks cfg once per worker count, one configuration at a time so
// that timings never overlap.
func Sweep(cfg *estimator.Config, workerCounts []int, opts Options, out chan<- string) ([]*Summary, error) {
	summaries := make([]*Summary, 0, len(workerCounts))
	for _, workers := range workerCounts {
		c := *cfg
		c.Mode = estimator.ModeParallel
		c.Workers = workers
		s, err := Run(&c, opts, out)
		if err != nil {
			return nil, errors.Wrapf(err, "sweep workers=%d", workers)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// Speedup returns the mean elapsed time of base divided by that of s.
func Speedup(base, s *Summary) float64 {
	if s.Mean <= 0 {
		return 0
	}
	return float64(base.Mean) / float64(s.Mean)
}

func (s *Summary) String() string {
	return fmt.Sprintf("runs=%d min=%s p50=%s p99=%s max=%s mean=%s stddev=%s",
		s.Runs, s.Min, s.P50, s.P99, s.Max, s.Mean, s.StdDev)
}
