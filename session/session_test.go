package session

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/32Lwk/monte-carlo-pi-multi-language/metrics"
)

func run(t *testing.T, input string, m *metrics.Metrics) []string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, NewInterface(strings.NewReader(input), &out, DefaultOptions(4), m).Run(context.Background()))
	return strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
}

func TestHandshake(t *testing.T) {
	t.Parallel()
	lines := run(t, "hello\nisready\nquit\nisready\n", nil)
	require.Equal(t, "id name montecarlo", lines[0])
	require.Equal(t, "hellook", lines[len(lines)-2])
	require.Equal(t, "readyok", lines[len(lines)-1])
}

func TestNext(t *testing.T) {
	t.Parallel()
	lines := run(t, "next 2\nseed 0\nnext\nseed\nnext 1\nnext 0\nnext bogus\n", nil)
	require.Equal(t, []string{
		"54a613efa4453fb0",
		"d2539a46445df50b",
		"0000000000000000",
		"54a613efa4453fb0",
	}, lines)
}

func TestGo(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	input := strings.Join([]string{
		"setoption name Iterations value 100",
		"setoption name Workers value 3",
		"setoption name Workers value 0",
		"setoption name Format value json",
		"go parallel",
	}, "\n")
	var out bytes.Buffer
	require.NoError(t, NewInterface(strings.NewReader(input), &out, DefaultOptions(4), m).Run(context.Background()))

	body := strings.TrimSuffix(strings.TrimSpace(out.String()), "done")
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &rec))
	require.Equal(t, "parallel", rec["mode"])
	require.Equal(t, 99.0, rec["executed_iterations"])
	require.Equal(t, 3.0, rec["thread_count"])
	require.Equal(t, 99.0, testutil.ToFloat64(m.Samples.WithLabelValues("parallel")))
}

func TestGoSingleText(t *testing.T) {
	t.Parallel()
	lines := run(t, "setoption name Iterations value 1000\nsetoption name Format value table\ngo\n", nil)
	out := strings.Join(lines, "\n")
	require.Contains(t, out, "3.152000000000")
	require.Equal(t, "done", lines[len(lines)-1])
}

func TestGoErrors(t *testing.T) {
	t.Parallel()
	lines := run(t, "go sideways\n", nil)
	require.Len(t, lines, 1)
	require.True(t, strings.HasPrefix(lines[0], "error "), lines[0])
}

func TestVerify(t *testing.T) {
	t.Parallel()
	require.Equal(t, []string{"verifyok"}, run(t, "verify\n", nil))
}

func TestSetOptionIgnoresInvalid(t *testing.T) {
	t.Parallel()
	i := NewInterface(strings.NewReader(""), &bytes.Buffer{}, DefaultOptions(2), nil)
	for _, args := range [][]string{
		{"name", "Iterations"},
		{"name", "Iterations", "value", "0"},
		{"name", "Iterations", "value", "x"},
		{"name", "Workers", "value", "-3"},
		{"name", "Seed", "value", "-1"},
		{"name", "Format", "value", "auto"},
		{"name", "Format", "value", "yaml"},
		{"key", "Seed", "value", "1"},
	} {
		i.commandSetOption(context.Background(), args)
	}
	require.Equal(t, DefaultOptions(2), i.options)

	i.commandSetOption(context.Background(), []string{"name", "Seed", "value", "0x10"})
	require.Equal(t, uint64(16), i.options.Seed)
}
