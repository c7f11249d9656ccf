package crosscheck

import (
	"fmt"
	"math"

	"github.com/danpilch/check-cpu-percentage/pkg/collectors/cpu"
)

// tolerance bounds floating point drift between equivalent percentage sums.
const tolerance = 1e-6

// SanityResult holds the outcome of an arithmetic constraint check.
type SanityResult struct {
	Check   string
	Passed  bool
	Details string
}

// RunSanityChecks validates derived percentages against the constraints
// that hold for any pair of well-formed samples.
func RunSanityChecks(usage cpu.Usage) []SanityResult {
	results := make([]SanityResult, 0, cpu.NumCategories+2)

	var sum float64
	for _, c := range cpu.Categories() {
		pct := usage.Get(c)
		sum += pct
		results = append(results, SanityResult{
			Check:   fmt.Sprintf("%s within [0, 100]", c),
			Passed:  pct >= 0 && pct <= 100,
			Details: fmt.Sprintf("%.4f%%", pct),
		})
	}

	results = append(results, SanityResult{
		Check:   "categories sum to 100",
		Passed:  math.Abs(sum-100) <= tolerance,
		Details: fmt.Sprintf("sum=%.8f", sum),
	})

	idleComplement := 100 - usage.Get(cpu.Idle)
	results = append(results, SanityResult{
		Check:   "non-idle equals 100 - idle",
		Passed:  math.Abs(usage.Percent-idleComplement) <= tolerance,
		Details: fmt.Sprintf("non-idle=%.8f, 100-idle=%.8f", usage.Percent, idleComplement),
	})

	return results
}
