// Package collectors defines the sampler interface shared by the counter
// readers and a registry to hold them.
package collectors

import (
	"context"

	"github.com/danpilch/check-cpu-percentage/pkg/collectors/cpu"
)

// Sampler is the interface that all CPU counter readers must implement.
type Sampler interface {
	// Name returns the name of the counter source (e.g., "proc", "procfs").
	Name() string

	// Sample reads the cumulative counters of the named CPU aggregate.
	Sample(ctx context.Context, aggregate string) (cpu.Sample, error)
}

// Registry holds all registered samplers.
type Registry struct {
	samplers []Sampler
}

// NewRegistry creates a new sampler registry.
func NewRegistry() *Registry {
	return &Registry{
		samplers: make([]Sampler, 0),
	}
}

// Register adds a sampler to the registry.
func (r *Registry) Register(s Sampler) {
	r.samplers = append(r.samplers, s)
}

// Samplers returns all registered samplers in registration order.
func (r *Registry) Samplers() []Sampler {
	return r.samplers
}
