package report

import (
	"runtime"
	"runtime/debug"

	"github.com/32Lwk/monte-carlo-pi-multi-language/estimator"
)

const (
	Language = "Go"
	Variant  = "standard"

	notAvailable = "N/A"
)

// Record is the flat result of one run as read by the benchmark harness.
// Platform probes that this program does not perform keep neutral values.
type Record struct {
	Language           string   `json:"language" toml:"language"`
	Variant            string   `json:"variant" toml:"variant"`
	Version            string   `json:"version" toml:"version"`
	Mode               string   `json:"mode" toml:"mode"`
	Iterations         uint64   `json:"iterations" toml:"iterations"`
	ExecutedIterations uint64   `json:"executed_iterations" toml:"executed_iterations"`
	Seed               uint64   `json:"seed" toml:"seed"`
	Inside             uint64   `json:"inside_circle" toml:"inside_circle"`
	PiEstimate         float64  `json:"pi_estimate" toml:"pi_estimate"`
	Error              float64  `json:"error" toml:"error"`
	TimeMs             float64  `json:"time_ms" toml:"time_ms"`
	MemoryMB           float64  `json:"memory_mb" toml:"memory_mb"`
	CacheMisses        uint64   `json:"cache_misses" toml:"cache_misses"`
	LinesOfCode        int      `json:"lines_of_code" toml:"lines_of_code"`
	CompilerFlags      string   `json:"compiler_flags" toml:"compiler_flags"`
	CPUModel           string   `json:"cpu_model" toml:"cpu_model"`
	CPUCores           int      `json:"cpu_cores" toml:"cpu_cores"`
	ThreadCount        int      `json:"thread_count" toml:"thread_count"`
	OS                 string   `json:"os" toml:"os"`
	OSVersion          string   `json:"os_version" toml:"os_version"`
	Compiler           string   `json:"compiler" toml:"compiler"`
	SIMDDetected       bool     `json:"simd_detected" toml:"simd_detected"`
	SIMDInstructions   []string `json:"simd_instructions" toml:"simd_instructions"`
}

func NewRecord(res *estimator.Result) *Record {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return &Record{
		Language:           Language,
		Variant:            Variant,
		Version:            runtime.Version(),
		Mode:               res.Mode.String(),
		Iterations:         res.Iterations,
		ExecutedIterations: res.Executed,
		Seed:               res.Seed,
		Inside:             res.Inside,
		PiEstimate:         res.Estimate,
		Error:              res.Error,
		TimeMs:             float64(res.Elapsed.Nanoseconds()) / 1e6,
		MemoryMB:           float64(ms.Sys) / (1 << 20),
		CompilerFlags:      compilerFlags(),
		CPUModel:           notAvailable,
		CPUCores:           runtime.NumCPU(),
		ThreadCount:        res.Workers,
		OS:                 runtime.GOOS,
		OSVersion:          notAvailable,
		Compiler:           runtime.Compiler,
		SIMDInstructions:   []string{},
	}
}

func compilerFlags() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "-ldflags" || s.Key == "-gcflags" {
			return s.Key + "=" + s.Value
		}
	}
	return ""
}
