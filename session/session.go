package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/32Lwk/monte-carlo-pi-multi-language/conformance"
	"github.com/32Lwk/monte-carlo-pi-multi-language/estimator"
	"github.com/32Lwk/monte-carlo-pi-multi-language/metrics"
	"github.com/32Lwk/monte-carlo-pi-multi-language/report"
	"github.com/32Lwk/monte-carlo-pi-multi-language/xoshiro"
)

var (
	Name = "montecarlo"

	maxIterations uint64 = 1 << 40
	maxWorkers           = 1 << 12
	maxNext              = 1 << 10
)

// Options are the settings a session starts with; setoption changes them.
type Options struct {
	Iterations uint64
	Workers    int
	Seed       uint64
	Format     report.Format
}

// DefaultOptions returns the reference benchmark settings with JSON output.
func DefaultOptions(workers int) Options {
	return Options{
		Iterations: estimator.DefaultIterations,
		Workers:    workers,
		Seed:       xoshiro.DefaultSeed,
		Format:     report.FormatJSON,
	}
}

// Interface speaks a line protocol so one warm process can serve many runs.
type Interface struct {
	in      io.Reader
	out     io.Writer
	options Options
	metrics *metrics.Metrics
	rng     *xoshiro.Xoshiro256
}

func NewInterface(in io.Reader, out io.Writer, opts Options, m *metrics.Metrics) *Interface {
	if opts.Format == report.FormatAuto {
		opts.Format = report.FormatJSON
	}
	return &Interface{
		in:      in,
		out:     out,
		options: opts,
		metrics: m,
		rng:     xoshiro.NewXoshiro256(opts.Seed),
	}
}

// Run reads commands until quit or EOF.
func (i *Interface) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(i.in)
	for scanner.Scan() {
		cmd := strings.TrimSpace(scanner.Text())
		if cmd == "" {
			continue
		}

		switch args := strings.Fields(cmd); args[0] {
		case "hello":
			i.commandHello(ctx)
		case "isready":
			i.println("readyok")
		case "setoption":
			i.commandSetOption(ctx, args[1:])
		case "go":
			i.commandGo(ctx, args[1:])
		case "verify":
			i.commandVerify(ctx)
		case "seed":
			i.commandSeed(ctx, args[1:])
		case "next":
			i.commandNext(ctx, args[1:])
		case "quit":
			return nil
		}
	}
	return scanner.Err()
}

func (i *Interface) commandHello(_ context.Context) {
	i.println(fmt.Sprintf("id name %s", Name))
	i.println(fmt.Sprintf("option Iterations type spin default %d min 1 max %d", i.options.Iterations, maxIterations))
	i.println(fmt.Sprintf("option Workers type spin default %d min 1 max %d", i.options.Workers, maxWorkers))
	i.println(fmt.Sprintf("option Seed type spin default %d", i.options.Seed))
	i.println("option Format type combo default json var json var toml var table var text")
	i.println("hellook")
}

func (i *Interface) commandSetOption(_ context.Context, args []string) {
	if len(args) < 4 || args[0] != "name" || args[2] != "value" {
		return
	}
	switch name, valueStr := strings.ToLower(args[1]), args[3]; name {
	case "iterations":
		value, err := strconv.ParseUint(valueStr, 10, 64)
		if err != nil || value < 1 || value > maxIterations {
			return
		}
		i.options.Iterations = value
	case "workers":
		value, err := strconv.Atoi(valueStr)
		if err != nil || value < 1 || value > maxWorkers {
			return
		}
		i.options.Workers = value
	case "seed":
		value, err := strconv.ParseUint(valueStr, 0, 64)
		if err != nil {
			return
		}
		i.options.Seed = value
	case "format":
		value, err := report.ParseFormat(valueStr)
		if err != nil || value == report.FormatAuto {
			return
		}
		i.options.Format = value
	}
}

func (i *Interface) commandGo(_ context.Context, args []string) {
	mode := estimator.ModeSingle
	if len(args) > 0 {
		m, err := estimator.ParseMode(args[0])
		if err != nil {
			i.println("error", err)
			return
		}
		mode = m
	}

	res, err := estimator.Run(&estimator.Config{
		Mode:       mode,
		Iterations: i.options.Iterations,
		Workers:    i.options.Workers,
		Seed:       i.options.Seed,
	})
	if err != nil {
		i.println("error", err)
		return
	}
	if i.metrics != nil {
		i.metrics.Observe(res)
	}
	if err := report.Write(i.out, i.options.Format, report.NewRecord(res)); err != nil {
		i.println("error", err)
		return
	}
	i.println("done")
}

func (i *Interface) commandVerify(ctx context.Context) {
	if err := conformance.Verify(ctx, conformance.DefaultVectors()); err != nil {
		i.println("error", err)
		return
	}
	i.println("verifyok")
}

func (i *Interface) commandSeed(_ context.Context, args []string) {
	seed := i.options.Seed
	if len(args) > 0 {
		value, err := strconv.ParseUint(args[0], 0, 64)
		if err != nil {
			return
		}
		seed = value
	}
	i.rng.Seed(seed)
}

func (i *Interface) commandNext(_ context.Context, args []string) {
	n := 1
	if len(args) > 0 {
		value, err := strconv.Atoi(args[0])
		if err != nil || value < 1 || value > maxNext {
			return
		}
		n = value
	}
	for k := 0; k < n; k++ {
		i.println(fmt.Sprintf("%016x", i.rng.Uint64()))
	}
}

func (i *Interface) println(a ...any) {
	fmt.Fprintln(i.out, a...)
}
