package crosscheck

import (
	"context"
	"fmt"
	"math"
	"path/filepath"

	"github.com/prometheus/procfs"
	pscpu "github.com/shirou/gopsutil/v4/cpu"

	"github.com/danpilch/check-cpu-percentage/pkg/collectors/cpu"
)

// userHZ is the tick rate both libraries divide by to report seconds.
const userHZ = 100

// ticks converts library seconds back to counter table ticks.
func ticks(seconds float64) uint64 {
	if seconds <= 0 {
		return 0
	}
	return uint64(math.Round(seconds * userHZ))
}

// ProcfsSampler reads counters through github.com/prometheus/procfs.
type ProcfsSampler struct {
	root string
}

// NewProcfsSampler creates a sampler for the proc filesystem mounted at root.
// An empty root selects procfs.DefaultMountPoint.
func NewProcfsSampler(root string) *ProcfsSampler {
	if root == "" {
		root = procfs.DefaultMountPoint
	}
	return &ProcfsSampler{root: root}
}

// Name returns the sampler name.
func (p *ProcfsSampler) Name() string {
	return "procfs"
}

// Sample reads the aggregate from <root>/stat.
func (p *ProcfsSampler) Sample(ctx context.Context, aggregate string) (cpu.Sample, error) {
	if err := ctx.Err(); err != nil {
		return cpu.Sample{}, err
	}

	fs, err := procfs.NewFS(p.root)
	if err != nil {
		return cpu.Sample{}, fmt.Errorf("cannot open procfs at %s: %w", p.root, err)
	}
	stat, err := fs.Stat()
	if err != nil {
		return cpu.Sample{}, fmt.Errorf("cannot read procfs stat: %w", err)
	}

	if aggregate == "cpu" {
		return fromProcfs(stat.CPUTotal), nil
	}
	for id, s := range stat.CPU {
		if fmt.Sprintf("cpu%d", id) == aggregate {
			return fromProcfs(s), nil
		}
	}
	return cpu.Sample{}, &cpu.NotFoundError{Name: aggregate, Path: filepath.Join(p.root, "stat")}
}

func fromProcfs(s procfs.CPUStat) cpu.Sample {
	return cpu.NewSample([cpu.NumCategories]uint64{
		ticks(s.User), ticks(s.Nice), ticks(s.System), ticks(s.Idle),
		ticks(s.Iowait), ticks(s.IRQ), ticks(s.SoftIRQ), ticks(s.Steal),
	})
}

// GopsutilSampler reads counters through github.com/shirou/gopsutil.
// It always reads the live system.
type GopsutilSampler struct{}

// NewGopsutilSampler creates a gopsutil backed sampler.
func NewGopsutilSampler() *GopsutilSampler {
	return &GopsutilSampler{}
}

// Name returns the sampler name.
func (g *GopsutilSampler) Name() string {
	return "gopsutil"
}

// Sample reads the aggregate; "cpu" maps to gopsutil's cpu-total entry.
func (g *GopsutilSampler) Sample(ctx context.Context, aggregate string) (cpu.Sample, error) {
	perCPU := aggregate != "cpu"
	times, err := pscpu.TimesWithContext(ctx, perCPU)
	if err != nil {
		return cpu.Sample{}, fmt.Errorf("gopsutil cpu times: %w", err)
	}

	for _, t := range times {
		if !perCPU || t.CPU == aggregate {
			return fromGopsutil(t), nil
		}
	}
	return cpu.Sample{}, &cpu.NotFoundError{Name: aggregate, Path: "gopsutil"}
}

func fromGopsutil(t pscpu.TimesStat) cpu.Sample {
	return cpu.NewSample([cpu.NumCategories]uint64{
		ticks(t.User), ticks(t.Nice), ticks(t.System), ticks(t.Idle),
		ticks(t.Iowait), ticks(t.Irq), ticks(t.Softirq), ticks(t.Steal),
	})
}
