package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/require"

	"github.com/32Lwk/monte-carlo-pi-multi-language/bench"
	"github.com/32Lwk/monte-carlo-pi-multi-language/estimator"
	"github.com/32Lwk/monte-carlo-pi-multi-language/xoshiro"
)

func testResult(t *testing.T) *estimator.Result {
	t.Helper()
	res, err := estimator.Run(&estimator.Config{
		Mode:       estimator.ModeParallel,
		Iterations: 100,
		Workers:    3,
		Seed:       xoshiro.DefaultSeed,
	})
	require.NoError(t, err)
	return res
}

func TestNewRecord(t *testing.T) {
	t.Parallel()
	res := testResult(t)
	r := NewRecord(res)
	require.Equal(t, "Go", r.Language)
	require.Equal(t, "parallel", r.Mode)
	require.Equal(t, uint64(100), r.Iterations)
	require.Equal(t, uint64(99), r.ExecutedIterations)
	require.Equal(t, uint64(84), r.Inside)
	require.Equal(t, 3, r.ThreadCount)
	require.Equal(t, res.Estimate, r.PiEstimate)
	require.Equal(t, res.Error, r.Error)
	require.Equal(t, "N/A", r.CPUModel)
	require.NotNil(t, r.SIMDInstructions)
	require.Greater(t, r.MemoryMB, 0.0)
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()
	r := NewRecord(testResult(t))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatAuto, r))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	for _, key := range []string{"pi_estimate", "error", "time_ms", "iterations", "thread_count", "mode"} {
		require.Contains(t, got, key)
	}
	require.Equal(t, "parallel", got["mode"])
	require.Equal(t, []any{}, got["simd_instructions"])

	buf.Reset()
	require.NoError(t, Write(&buf, FormatJSON, r, r))
	var many []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &many))
	require.Len(t, many, 2)
}

func TestWriteTOML(t *testing.T) {
	t.Parallel()
	r := NewRecord(testResult(t))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTOML, r))

	var doc struct {
		Results []struct {
			Mode       string  `toml:"mode"`
			PiEstimate float64 `toml:"pi_estimate"`
			Threads    int     `toml:"thread_count"`
		} `toml:"results"`
	}
	_, err := toml.Decode(buf.String(), &doc)
	require.NoError(t, err)
	require.Len(t, doc.Results, 1)
	require.Equal(t, "parallel", doc.Results[0].Mode)
	require.Equal(t, r.PiEstimate, doc.Results[0].PiEstimate)
	require.Equal(t, 3, doc.Results[0].Threads)
}

func TestWriteTable(t *testing.T) {
	t.Parallel()
	r := NewRecord(testResult(t))
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTable, r))
	out := buf.String()
	require.Contains(t, out, "THREADS")
	require.Contains(t, out, "parallel")
	require.Contains(t, out, "3.393939393939")
}

func TestWriteText(t *testing.T) {
	t.Parallel()
	r := NewRecord(testResult(t))
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, r))
	out := buf.String()
	require.Contains(t, out, "of 100 requested")
	require.Contains(t, out, "3.393939393939394")
	require.Equal(t, 6, strings.Count(out, "\n"))
}

func TestParseFormat(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]Format{
		"":      FormatAuto,
		"auto":  FormatAuto,
		"JSON":  FormatJSON,
		"toml":  FormatTOML,
		"table": FormatTable,
		"text":  FormatText,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		require.Equal(t, want, got, "in=%q", in)
	}
	_, err := ParseFormat("yaml")
	require.ErrorIs(t, err, ErrUnknownFormat)
	require.ErrorIs(t, Write(&bytes.Buffer{}, Format(42)), ErrUnknownFormat)
}

func TestPlotConvergence(t *testing.T) {
	t.Parallel()
	require.Empty(t, PlotConvergence(nil, 40, 5))

	trace, err := estimator.Trace(&estimator.Config{Iterations: 1_000, Seed: xoshiro.DefaultSeed}, 10)
	require.NoError(t, err)
	plot := PlotConvergence(trace, 40, 5)
	require.Contains(t, plot, "over 1,000 draws")
	require.Contains(t, plot, "final pi=3.152000000000")
}

func TestWriteBench(t *testing.T) {
	t.Parallel()
	res := testResult(t)
	var buf bytes.Buffer
	WriteBench(&buf, nil)
	require.Zero(t, buf.Len())

	WriteBench(&buf, []*bench.Summary{
		{Last: res, Runs: 2, Mean: 2 * time.Second, Throughput: 1234567},
		{Last: res, Runs: 2, Mean: time.Second, Throughput: 2469134},
	})
	out := buf.String()
	require.Contains(t, out, "SPEEDUP")
	require.Contains(t, out, "1.00x")
	require.Contains(t, out, "2.00x")
	require.Contains(t, out, "1,234,567")
}
