package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Format uint8

const (
	FormatAuto Format = iota
	FormatJSON
	FormatTOML
	FormatTable
	FormatText
)

var ErrUnknownFormat = errors.New("unknown output format")

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatJSON:
		return "json"
	case FormatTOML:
		return "toml"
	case FormatTable:
		return "table"
	case FormatText:
		return "text"
	default:
		return "unknown"
	}
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	case "table":
		return FormatTable, nil
	case "text":
		return FormatText, nil
	default:
		return 0, errors.Wrapf(ErrUnknownFormat, "%q", s)
	}
}

// Resolve picks text for terminals and JSON for anything else, since the
// harness reads records from a pipe.
func (f Format) Resolve(w io.Writer) Format {
	if f != FormatAuto {
		return f
	}
	if file, ok := w.(*os.File); ok {
		fd := file.Fd()
		if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
			return FormatText
		}
	}
	return FormatJSON
}

// Write encodes records to w. A single JSON record is written as an object,
// several as an array.
func Write(w io.Writer, f Format, records ...*Record) error {
	switch f.Resolve(w) {
	case FormatJSON:
		return writeJSON(w, records)
	case FormatTOML:
		return writeTOML(w, records)
	case FormatTable:
		writeTable(w, records)
		return nil
	case FormatText:
		for _, r := range records {
			writeText(w, r)
		}
		return nil
	default:
		return errors.Wrapf(ErrUnknownFormat, "%d", f)
	}
}

func writeJSON(w io.Writer, records []*Record) error {
	var v any = records
	if len(records) == 1 {
		v = records[0]
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding json record")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeTOML(w io.Writer, records []*Record) error {
	doc := struct {
		Results []*Record `toml:"results"`
	}{Results: records}
	if err := toml.NewEncoder(w).Encode(doc); err != nil {
		return errors.Wrap(err, "encoding toml record")
	}
	return nil
}

func writeTable(w io.Writer, records []*Record) {
	p := message.NewPrinter(language.English)
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Mode", "Threads", "Iterations", "Executed", "Inside", "Pi", "Error", "Time (ms)"})
	for _, r := range records {
		tbl.Append([]string{
			r.Mode,
			fmt.Sprintf("%d", r.ThreadCount),
			p.Sprintf("%d", r.Iterations),
			p.Sprintf("%d", r.ExecutedIterations),
			p.Sprintf("%d", r.Inside),
			fmt.Sprintf("%.12f", r.PiEstimate),
			fmt.Sprintf("%.3e", r.Error),
			fmt.Sprintf("%.3f", r.TimeMs),
		})
	}
	tbl.Render()
}

func writeText(w io.Writer, r *Record) {
	p := message.NewPrinter(language.English)
	label := color.New(color.Bold).SprintFunc()
	value := color.New(color.FgCyan).SprintFunc()

	errColor := color.New(color.FgGreen)
	if r.Error >= 1e-3 {
		errColor = color.New(color.FgYellow)
	}

	fmt.Fprintf(w, "%s %s (%s, %d threads)\n", label("mode:"), value(r.Mode), r.Version, r.ThreadCount)
	fmt.Fprintf(w, "%s %s", label("iterations:"), value(p.Sprintf("%d", r.ExecutedIterations)))
	if r.ExecutedIterations != r.Iterations {
		fmt.Fprint(w, p.Sprintf(" of %d requested", r.Iterations))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n", label("inside:"), value(p.Sprintf("%d", r.Inside)))
	fmt.Fprintf(w, "%s %s\n", label("pi:"), value(fmt.Sprintf("%.15f", r.PiEstimate)))
	fmt.Fprintf(w, "%s %s\n", label("error:"), errColor.Sprintf("%.3e", r.Error))
	fmt.Fprintf(w, "%s %s\n", label("time:"), value(fmt.Sprintf("%.3fms", r.TimeMs)))
}
