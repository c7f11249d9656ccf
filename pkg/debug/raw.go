// Package debug provides diagnostic output for the -d flag.
package debug

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/danpilch/check-cpu-percentage/pkg/collectors/cpu"
)

var (
	debugTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	debugHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1)
	debugDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// DumpSamples outputs both samples, their deltas and the derived percentages.
func DumpSamples(w io.Writer, initial, final cpu.Sample, usage cpu.Usage) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, debugTitle.Render("Raw Counter Dump"))
	fmt.Fprintln(w, debugDim.Render(strings.Repeat("═", 72)))
	fmt.Fprintf(w, "  %s %s %s %s %s\n",
		debugHeader.Render("CATEGORY    "),
		debugHeader.Render("INITIAL       "),
		debugHeader.Render("FINAL         "),
		debugHeader.Render("DELTA     "),
		debugHeader.Render("PERCENT "))
	fmt.Fprintln(w, "  "+debugDim.Render(strings.Repeat("─", 72)))

	for _, c := range cpu.Categories() {
		fmt.Fprintf(w, "  %-14s %-16d %-16d %-12d %.2f%%\n",
			c, initial.Get(c), final.Get(c), usage.Deltas[c], usage.Get(c))
	}

	fmt.Fprintln(w, "  "+debugDim.Render(strings.Repeat("─", 72)))
	fmt.Fprintf(w, "  %-14s %-16d %-16d %-12d %.2f%%\n",
		lipgloss.NewStyle().Bold(true).Render("total"),
		initial.Total(), final.Total(), usage.TotalDelta, usage.Percent)
}
