package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_StringAndExitCode(t *testing.T) {
	tests := []struct {
		status Status
		word   string
		code   int
	}{
		{OK, "OK", 0},
		{Warning, "WARNING", 1},
		{Critical, "CRITICAL", 2},
		{Unknown, "UNKNOWN", 3},
		{Status(42), "UNKNOWN", 3},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.word, tt.status.String())
			assert.Equal(t, tt.code, tt.status.ExitCode())
		})
	}
}

func TestThresholds_Validate(t *testing.T) {
	tests := []struct {
		name       string
		thresholds Thresholds
		wantError  bool
	}{
		{name: "defaults", thresholds: DefaultThresholds()},
		{name: "equal", thresholds: Thresholds{Warning: 80, Critical: 80}},
		{name: "zero warning", thresholds: Thresholds{Warning: 0, Critical: 10}},
		{name: "full range", thresholds: Thresholds{Warning: 0, Critical: 100}},
		{name: "warning above critical", thresholds: Thresholds{Warning: 90, Critical: 80}, wantError: true},
		{name: "critical above 100", thresholds: Thresholds{Warning: 50, Critical: 101}, wantError: true},
		{name: "negative warning", thresholds: Thresholds{Warning: -1, Critical: 75}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.thresholds.Validate()
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			var usageErr *UsageError
			require.ErrorAs(t, err, &usageErr)
		})
	}
}

func TestThresholds_EvaluateBoundaries(t *testing.T) {
	th := Thresholds{Warning: 50, Critical: 75}

	assert.Equal(t, OK, th.Evaluate(0))
	assert.Equal(t, OK, th.Evaluate(49.999))
	assert.Equal(t, Warning, th.Evaluate(50))
	assert.Equal(t, Warning, th.Evaluate(74.999))
	assert.Equal(t, Critical, th.Evaluate(75))
	assert.Equal(t, Critical, th.Evaluate(100))
}

func TestThresholds_EvaluateMonotonic(t *testing.T) {
	for warn := 0; warn <= 100; warn += 5 {
		for crit := warn; crit <= 100; crit += 5 {
			th := Thresholds{Warning: warn, Critical: crit}
			prev := OK
			for usage := 0.0; usage <= 100; usage += 0.25 {
				got := th.Evaluate(usage)
				require.GreaterOrEqual(t, got, prev, "warn=%d crit=%d usage=%.2f", warn, crit, usage)
				prev = got
			}
		}
	}
}
