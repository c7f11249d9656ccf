// Package output renders check results as a monitoring plugin status line.
package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/danpilch/check-cpu-percentage/pkg/check"
	"github.com/danpilch/check-cpu-percentage/pkg/collectors/cpu"
	"github.com/danpilch/check-cpu-percentage/pkg/status"
)

const prefix = "CPU STATISTICS"

// reported lists the categories shown next to the aggregate, with their labels.
var reported = []struct {
	label    string
	category cpu.Category
}{
	{"user", cpu.User},
	{"system", cpu.System},
	{"iowait", cpu.IOWait},
	{"steal", cpu.Steal},
}

// PerfData is one label=value;warn;crit;min;max performance-data field.
// Empty threshold and bound strings are rendered as empty fields.
type PerfData struct {
	Label string
	Value float64
	Unit  string
	Warn  string
	Crit  string
	Min   string
	Max   string
}

// String renders the field with the value to two decimals.
func (p PerfData) String() string {
	return fmt.Sprintf("%s=%.2f%s;%s;%s;%s;%s", p.Label, p.Value, p.Unit, p.Warn, p.Crit, p.Min, p.Max)
}

// Formatter writes plugin output lines.
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter.
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// Render writes the status line for a completed check.
func (f *Formatter) Render(result check.Result) error {
	_, err := fmt.Fprintln(f.writer, StatusLine(result))
	return err
}

// RenderError writes the UNKNOWN line for a failed check.
func (f *Formatter) RenderError(err error) error {
	_, werr := fmt.Fprintln(f.writer, ErrorLine(err))
	return werr
}

// StatusLine returns the summary and performance data for result.
func StatusLine(result check.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: total=%.2f%%", prefix, result.Status, result.Usage.Percent)
	for _, r := range reported {
		fmt.Fprintf(&b, " %s=%.2f%%", r.label, result.Usage.Get(r.category))
	}

	b.WriteString(" |")
	for _, p := range PerfDataFor(result) {
		b.WriteString(" ")
		b.WriteString(p.String())
	}
	return b.String()
}

// PerfDataFor returns the aggregate field, carrying the thresholds, followed
// by one field per reported category.
func PerfDataFor(result check.Result) []PerfData {
	perf := make([]PerfData, 0, len(reported)+1)
	perf = append(perf, PerfData{
		Label: "total",
		Value: result.Usage.Percent,
		Unit:  "%",
		Warn:  strconv.Itoa(result.Thresholds.Warning),
		Crit:  strconv.Itoa(result.Thresholds.Critical),
		Min:   "0",
		Max:   "100",
	})
	for _, r := range reported {
		perf = append(perf, PerfData{
			Label: r.label,
			Value: result.Usage.Get(r.category),
			Unit:  "%",
			Min:   "0",
			Max:   "100",
		})
	}
	return perf
}

// ErrorLine returns the single UNKNOWN diagnostic line for err.
func ErrorLine(err error) string {
	msg := strings.Join(strings.Fields(err.Error()), " ")
	return fmt.Sprintf("%s %s: %s", prefix, status.Unknown, msg)
}
