// Package check runs the two-sample CPU percentage check.
package check

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/danpilch/check-cpu-percentage/pkg/cache"
	"github.com/danpilch/check-cpu-percentage/pkg/collectors"
	"github.com/danpilch/check-cpu-percentage/pkg/collectors/cpu"
	"github.com/danpilch/check-cpu-percentage/pkg/status"
)

// ErrFirstRun is returned when the cache file did not exist and was just
// seeded with the current sample. There is nothing to compare against yet.
var ErrFirstRun = errors.New("assuming first cached run, no cache found")

// Config holds the check parameters.
type Config struct {
	// CPU is the aggregate name, "cpu" for the whole system or "cpuN" for one core.
	CPU        string
	Thresholds status.Thresholds
	// Sleep is the interval between live samples. Unused when CachePath is set.
	Sleep time.Duration
	// CachePath, when set, replaces the initial sample with the previous run's.
	CachePath string
}

// DefaultConfig returns the default check parameters.
func DefaultConfig() Config {
	return Config{
		CPU:        "cpu",
		Thresholds: status.DefaultThresholds(),
		Sleep:      15 * time.Second,
	}
}

// Validate reports argument problems as a status.UsageError.
func (c Config) Validate() error {
	if c.CPU == "" {
		return status.NewUsageError("cpu name must not be empty")
	}
	if c.Sleep < 0 {
		return status.NewUsageError("sleep interval must not be negative (got %s)", c.Sleep)
	}
	return c.Thresholds.Validate()
}

// Result is the outcome of a completed check.
type Result struct {
	CPU        string
	Thresholds status.Thresholds
	Initial    cpu.Sample
	Final      cpu.Sample
	Usage      cpu.Usage
	Status     status.Status
}

// Checker orchestrates sampling, caching and classification.
type Checker struct {
	config  Config
	sampler collectors.Sampler
	logger  *logrus.Logger
}

// NewChecker creates a new CPU percentage checker.
func NewChecker(config Config, sampler collectors.Sampler, logger *logrus.Logger) *Checker {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &Checker{
		config:  config,
		sampler: sampler,
		logger:  logger,
	}
}

// Run samples the counters twice and classifies the non-idle percentage.
// Every returned error means the state is UNKNOWN.
func (c *Checker) Run(ctx context.Context) (Result, error) {
	if err := c.config.Validate(); err != nil {
		return Result{}, err
	}
	log := c.logger.WithFields(logrus.Fields{
		"cpu":     c.config.CPU,
		"sampler": c.sampler.Name(),
	})

	initial, err := c.sampler.Sample(ctx, c.config.CPU)
	if err != nil {
		return Result{}, err
	}
	log.WithField("total", initial.Total()).Debugf("Initial sample %+v", initial)

	var store *cache.Store
	if c.config.CachePath != "" {
		store = cache.New(c.config.CachePath)
		initial, err = c.loadInitial(store, initial)
		if err != nil {
			return Result{}, err
		}
		log.WithField("cache", store.Path()).Debugf("Loaded cached sample %+v", initial)
	} else {
		log.WithField("sleep", c.config.Sleep).Debug("Waiting between samples")
		if err := sleep(ctx, c.config.Sleep); err != nil {
			return Result{}, fmt.Errorf("interrupted while waiting between samples: %w", err)
		}
	}

	final, err := c.sampler.Sample(ctx, c.config.CPU)
	if err != nil {
		return Result{}, err
	}
	log.WithField("total", final.Total()).Debugf("Final sample %+v", final)

	if store != nil {
		if err := store.Save(final); err != nil {
			return Result{}, err
		}
	}

	usage, err := cpu.Diff(initial, final)
	if err != nil {
		return Result{}, err
	}
	for _, c := range usage.Decreased() {
		log.WithFields(logrus.Fields{
			"category": c,
			"delta":    usage.Deltas[c],
		}).Debug("Counter went backwards")
	}
	log.WithFields(logrus.Fields{
		"total_delta": usage.TotalDelta,
		"percent":     usage.Percent,
	}).Debug("Computed usage")

	return Result{
		CPU:        c.config.CPU,
		Thresholds: c.config.Thresholds,
		Initial:    initial,
		Final:      final,
		Usage:      usage,
		Status:     c.config.Thresholds.Evaluate(usage.Percent),
	}, nil
}

// loadInitial returns the cached sample, or seeds the cache with current and
// returns ErrFirstRun when there is no cache yet.
func (c *Checker) loadInitial(store *cache.Store, current cpu.Sample) (cpu.Sample, error) {
	err := store.Check()
	if errors.Is(err, cache.ErrNotExist) {
		if err := store.Save(current); err != nil {
			return cpu.Sample{}, err
		}
		c.logger.WithField("cache", store.Path()).Debug("Seeded cache file")
		return cpu.Sample{}, fmt.Errorf("%w: seeded %q", ErrFirstRun, store.Path())
	}
	if err != nil {
		return cpu.Sample{}, err
	}
	return store.Load()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
