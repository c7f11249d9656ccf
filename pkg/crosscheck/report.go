package crosscheck

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/danpilch/check-cpu-percentage/pkg/collectors"
	"github.com/danpilch/check-cpu-percentage/pkg/collectors/cpu"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1)
	validStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	suspectStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	conflictStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Run samples the aggregate through every sampler and cross-checks each
// category counter. Failing samplers are logged and left out.
func Run(ctx context.Context, samplers []collectors.Sampler, aggregate string, usage cpu.Usage, logger *logrus.Logger) ([]ValidationResult, []SanityResult) {
	type reading struct {
		name   string
		sample cpu.Sample
	}

	var readings []reading
	for _, s := range samplers {
		sample, err := s.Sample(ctx, aggregate)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"sampler": s.Name(),
				"error":   err,
			}).Warn("Cross-check sampler failed")
			continue
		}
		readings = append(readings, reading{name: s.Name(), sample: sample})
	}

	validator := NewValidator()
	var validations []ValidationResult
	if len(readings) > 0 {
		for _, c := range cpu.Categories() {
			sources := make([]Source, len(readings))
			for i, r := range readings {
				sources[i] = Source{Name: r.name, Value: float64(r.sample.Get(c)), Unit: "ticks"}
			}
			validations = append(validations, validator.CrossCheck(string(c), sources))
		}
	}

	return validations, RunSanityChecks(usage)
}

// Report outputs cross-check validation results and sanity checks as a styled table.
func Report(w io.Writer, validations []ValidationResult, sanity []SanityResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("Cross-Check Validation Report"))
	fmt.Fprintln(w, dimStyle.Render(strings.Repeat("═", 60)))

	if len(validations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, titleStyle.Render("Counter Cross-Checks"))
		fmt.Fprintf(w, "  %s %s %s %s %s\n",
			headerStyle.Render("COUNTER     "), headerStyle.Render("CONSENSUS     "),
			headerStyle.Render("MAX DEV  "), headerStyle.Render("STATUS  "),
			headerStyle.Render("SOURCES"))
		fmt.Fprintln(w, "  "+dimStyle.Render(strings.Repeat("─", 80)))

		for _, v := range validations {
			sourceNames := make([]string, len(v.Sources))
			for i, s := range v.Sources {
				sourceNames[i] = fmt.Sprintf("%s=%.0f", s.Name, s.Value)
			}
			var statusStr string
			switch v.Status {
			case StatusConflict:
				statusStr = conflictStyle.Render("CONFLICT")
			case StatusSuspect:
				statusStr = suspectStyle.Render("SUSPECT")
			default:
				statusStr = validStyle.Render("VALID")
			}
			fmt.Fprintf(w, "  %-14s %-16.0f %-10s %-10s %s\n",
				v.Metric, v.Consensus, fmt.Sprintf("%.3f%%", v.MaxDeviation), statusStr,
				dimStyle.Render(strings.Join(sourceNames, ", ")))
		}
	}

	if len(sanity) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, titleStyle.Render("Sanity Checks"))
		failed := 0
		for _, s := range sanity {
			icon := validStyle.Render("PASS")
			if !s.Passed {
				icon = conflictStyle.Render("FAIL")
				failed++
			}
			fmt.Fprintf(w, "  [%s] %-30s %s\n", icon, s.Check, dimStyle.Render(s.Details))
		}
		fmt.Fprintln(w)
		if failed == 0 {
			fmt.Fprintf(w, "  %s\n", validStyle.Render(fmt.Sprintf("All %d sanity checks passed.", len(sanity))))
		} else {
			fmt.Fprintf(w, "  %s\n", conflictStyle.Render(fmt.Sprintf("%d of %d sanity checks failed.", failed, len(sanity))))
		}
	}
}
