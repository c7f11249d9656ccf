package debug

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/danpilch/check-cpu-percentage/pkg/collectors"
	"github.com/danpilch/check-cpu-percentage/pkg/collectors/cpu"
)

// SampleTiming records the duration of one Sample call.
type SampleTiming struct {
	Name     string
	Duration time.Duration
	Err      error
}

// TimedSampler wraps a collectors.Sampler to record read durations.
type TimedSampler struct {
	inner   collectors.Sampler
	timings []SampleTiming
}

// NewTimedSampler wraps a sampler with timing instrumentation.
func NewTimedSampler(s collectors.Sampler) *TimedSampler {
	return &TimedSampler{
		inner: s,
	}
}

// Name returns the wrapped sampler's name.
func (t *TimedSampler) Name() string {
	return t.inner.Name()
}

// Sample runs the wrapped sampler and records the duration.
func (t *TimedSampler) Sample(ctx context.Context, aggregate string) (cpu.Sample, error) {
	start := time.Now()
	sample, err := t.inner.Sample(ctx, aggregate)
	t.timings = append(t.timings, SampleTiming{
		Name:     fmt.Sprintf("%s #%d", t.inner.Name(), len(t.timings)+1),
		Duration: time.Since(start),
		Err:      err,
	})
	return sample, err
}

// Timings returns the recorded durations in call order.
func (t *TimedSampler) Timings() []SampleTiming {
	return t.timings
}

// TimingReport prints a styled timing summary.
func TimingReport(w io.Writer, timings []SampleTiming) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, debugTitle.Render("Sampler Timing Report"))
	fmt.Fprintln(w, debugDim.Render(strings.Repeat("═", 40)))
	fmt.Fprintf(w, "  %s  %s\n",
		debugHeader.Render("SAMPLE             "),
		debugHeader.Render("DURATION    "))
	fmt.Fprintln(w, "  "+debugDim.Render(strings.Repeat("─", 40)))

	var total time.Duration
	for _, t := range timings {
		line := fmt.Sprintf("  %-20s %v", t.Name, t.Duration)
		if t.Err != nil {
			line += " " + debugDim.Render("(failed)")
		}
		fmt.Fprintln(w, line)
		total += t.Duration
	}
	fmt.Fprintln(w, "  "+debugDim.Render(strings.Repeat("─", 40)))
	fmt.Fprintf(w, "  %-20s %v\n",
		lipgloss.NewStyle().Bold(true).Render("TOTAL"), total)
}
