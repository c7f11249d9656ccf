package cpu

// Usage is the utilization derived from two samples.
type Usage struct {
	// TotalDelta is the number of ticks elapsed across all categories.
	TotalDelta uint64
	// Deltas maps each category to its tick difference. A category can
	// go backwards while the total advances (iowait on a single core).
	Deltas map[Category]int64
	// Categories maps each category to its share of TotalDelta in percent.
	Categories map[Category]float64
	// Percent is the aggregate non-idle percentage.
	Percent float64
}

// Get returns the percentage for c.
func (u Usage) Get(c Category) float64 {
	return u.Categories[c]
}

// Decreased returns the categories whose counter went backwards.
func (u Usage) Decreased() []Category {
	var out []Category
	for _, c := range categories {
		if u.Deltas[c] < 0 {
			out = append(out, c)
		}
	}
	return out
}

// Diff computes utilization between an initial and a final sample of the
// same aggregate. The total must advance.
func Diff(initial, final Sample) (Usage, error) {
	if final.Total() < initial.Total() {
		return Usage{}, &CounterResetError{Counter: "total", Initial: initial.Total(), Final: final.Total()}
	}

	totalDelta := final.Total() - initial.Total()
	if totalDelta == 0 {
		return Usage{}, ErrNoProgress
	}

	usage := Usage{
		TotalDelta: totalDelta,
		Deltas:     make(map[Category]int64, NumCategories),
		Categories: make(map[Category]float64, NumCategories),
	}
	for _, c := range categories {
		delta := int64(final.Get(c) - initial.Get(c))
		usage.Deltas[c] = delta
		usage.Categories[c] = percentOf(delta, totalDelta)
	}
	// One division on exact integers, so a share exactly at a threshold
	// compares equal to it.
	usage.Percent = percentOf(int64(final.Busy()-initial.Busy()), totalDelta)
	return usage, nil
}

// percentOf returns part/whole*100 with the multiplication done first.
func percentOf(part int64, whole uint64) float64 {
	return float64(part) * 100 / float64(whole)
}
