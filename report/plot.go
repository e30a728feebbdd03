package report

import (
	"fmt"
	"io"

	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/32Lwk/monte-carlo-pi-multi-language/bench"
	"github.com/32Lwk/monte-carlo-pi-multi-language/estimator"
)

// PlotConvergence renders the absolute error of each checkpoint, scaled by
// 1e3 so the axis labels stay readable.
func PlotConvergence(trace []estimator.Checkpoint, width, height int) string {
	if len(trace) == 0 {
		return ""
	}
	values := make([]float64, len(trace))
	for i, cp := range trace {
		values[i] = cp.Error * 1e3
	}
	last := trace[len(trace)-1]
	return asciigraph.Plot(values,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(message.NewPrinter(language.English).
			Sprintf("|pi - estimate| x 1e3 over %d draws, final pi=%.12f", last.Executed, last.Estimate)),
	)
}

// WriteBench tabulates sweep summaries; speedup is relative to the first.
func WriteBench(w io.Writer, summaries []*bench.Summary) {
	if len(summaries) == 0 {
		return
	}
	p := message.NewPrinter(language.English)
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Mode", "Threads", "Runs", "Pi", "Mean", "P50", "Max", "Stddev", "Points/s", "Speedup"})
	for _, s := range summaries {
		tbl.Append([]string{
			s.Last.Mode.String(),
			fmt.Sprintf("%d", s.Last.Workers),
			fmt.Sprintf("%d", s.Runs),
			fmt.Sprintf("%.12f", s.Last.Estimate),
			s.Mean.String(),
			s.P50.String(),
			s.Max.String(),
			s.StdDev.String(),
			p.Sprintf("%d", int64(s.Throughput)),
			fmt.Sprintf("%.2fx", bench.Speedup(summaries[0], s)),
		})
	}
	tbl.Render()
}
