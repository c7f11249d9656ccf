// Package cpu reads CPU time counters from the kernel counter table and
// derives utilization percentages from two samples.
package cpu

// Category names one class of CPU time in the counter table.
type Category string

const (
	User    Category = "user"
	Nice    Category = "nice"
	System  Category = "system"
	Idle    Category = "idle"
	IOWait  Category = "iowait"
	IRQ     Category = "irq"
	SoftIRQ Category = "softirq"
	Steal   Category = "steal_time"
)

// NumCategories is the number of counters read from each counter table line.
const NumCategories = 8

// categories is the column order of the counter table.
var categories = [NumCategories]Category{User, Nice, System, Idle, IOWait, IRQ, SoftIRQ, Steal}

// Categories returns all categories in counter table order.
func Categories() []Category {
	out := make([]Category, NumCategories)
	copy(out, categories[:])
	return out
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// Sample holds the cumulative tick counters of one CPU aggregate.
type Sample struct {
	User    uint64
	Nice    uint64
	System  uint64
	Idle    uint64
	IOWait  uint64
	IRQ     uint64
	SoftIRQ uint64
	Steal   uint64
}

// NewSample builds a sample from counters given in counter table order.
func NewSample(values [NumCategories]uint64) Sample {
	return Sample{
		User:    values[0],
		Nice:    values[1],
		System:  values[2],
		Idle:    values[3],
		IOWait:  values[4],
		IRQ:     values[5],
		SoftIRQ: values[6],
		Steal:   values[7],
	}
}

// Get returns the counter for c, or 0 for an unknown category.
func (s Sample) Get(c Category) uint64 {
	switch c {
	case User:
		return s.User
	case Nice:
		return s.Nice
	case System:
		return s.System
	case Idle:
		return s.Idle
	case IOWait:
		return s.IOWait
	case IRQ:
		return s.IRQ
	case SoftIRQ:
		return s.SoftIRQ
	case Steal:
		return s.Steal
	}
	return 0
}

// Values returns the counters keyed by category.
func (s Sample) Values() map[Category]uint64 {
	out := make(map[Category]uint64, NumCategories)
	for _, c := range categories {
		out[c] = s.Get(c)
	}
	return out
}

// Total returns the total CPU time.
func (s Sample) Total() uint64 {
	return s.User + s.Nice + s.System + s.Idle + s.IOWait + s.IRQ + s.SoftIRQ + s.Steal
}

// Busy returns the busy CPU time (non-idle).
func (s Sample) Busy() uint64 {
	return s.Total() - s.Idle
}
