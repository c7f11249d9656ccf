// Command check_cpu_percentage is a monitoring plugin that reports the
// non-idle CPU percentage between two counter samples.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/danpilch/check-cpu-percentage/pkg/check"
	"github.com/danpilch/check-cpu-percentage/pkg/collectors"
	"github.com/danpilch/check-cpu-percentage/pkg/collectors/cpu"
	"github.com/danpilch/check-cpu-percentage/pkg/crosscheck"
	"github.com/danpilch/check-cpu-percentage/pkg/debug"
	"github.com/danpilch/check-cpu-percentage/pkg/output"
	"github.com/danpilch/check-cpu-percentage/pkg/status"
)

const version = "1.2.0"

type options struct {
	cpu      string
	warning  int
	critical int
	sleep    int
	cache    string
	debug    bool
	statFile string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the plugin with args and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	exitCode := status.OK.ExitCode()
	cmd := newRootCommand(stdout, stderr, &exitCode)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		_ = output.NewFormatter(stdout).RenderError(err)
		return status.Unknown.ExitCode()
	}
	return exitCode
}

func newRootCommand(stdout, stderr io.Writer, exitCode *int) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "check_cpu_percentage",
		Short: "Check the non-idle CPU percentage against thresholds",
		Long: `Samples the kernel CPU time counters twice and reports the share of
non-idle time as OK, WARNING or CRITICAL.

Without --cache the two samples are taken --sleep seconds apart. With
--cache the previous run's sample is the starting point and no sleep occurs.`,
		Example:       "  check_cpu_percentage -C cpu -w 70 -c 90",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return status.NewUsageError("unexpected arguments: %s", strings.Join(args, " "))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			*exitCode = execute(cmd.Context(), opts, stdout, stderr)
			return nil
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return status.NewUsageError("%v", err)
	})

	bindFlags(cmd.Flags(), &opts, check.DefaultConfig())
	return cmd
}

func bindFlags(flags *pflag.FlagSet, opts *options, defaults check.Config) {
	flags.SortFlags = false
	flags.StringVarP(&opts.cpu, "CPU", "C", defaults.CPU, "CPU to check [cpu | cpu0 | cpu1 ...]")
	flags.IntVarP(&opts.warning, "warning", "w", defaults.Thresholds.Warning, "threshold for WARNING condition in percent")
	flags.IntVarP(&opts.critical, "critical", "c", defaults.Thresholds.Critical, "threshold for CRITICAL condition in percent")
	flags.IntVarP(&opts.sleep, "sleep", "s", int(defaults.Sleep/time.Second), "sleep interval between measurements in seconds")
	flags.StringVar(&opts.cache, "cache", "", "cache file for long time stats (disables sleep)")
	flags.BoolVarP(&opts.debug, "debug", "d", false, "enable debug output")
	flags.StringVar(&opts.statFile, "stat-file", cpu.DefaultStatPath, "kernel CPU counter table")
	_ = flags.MarkHidden("stat-file")
}

// execute runs one check and writes the plugin output.
func execute(ctx context.Context, opts options, stdout, stderr io.Writer) int {
	logOut := stderr
	if opts.debug {
		logOut = stdout
	}
	logger := debug.NewLogger(logOut, opts.debug)
	formatter := output.NewFormatter(stdout)

	cfg := check.Config{
		CPU: opts.cpu,
		Thresholds: status.Thresholds{
			Warning:  opts.warning,
			Critical: opts.critical,
		},
		Sleep:     time.Duration(opts.sleep) * time.Second,
		CachePath: opts.cache,
	}

	reader := cpu.NewReader(opts.statFile)
	timed := debug.NewTimedSampler(reader)
	var sampler collectors.Sampler = reader
	if opts.debug {
		sampler = timed
	}

	result, err := check.NewChecker(cfg, sampler, logger).Run(ctx)
	if err != nil {
		logger.WithError(err).Debug("Check failed")
		_ = formatter.RenderError(err)
		return status.Unknown.ExitCode()
	}

	if opts.debug {
		debug.DumpSamples(stdout, result.Initial, result.Final, result.Usage)
		debug.TimingReport(stdout, timed.Timings())
		validations, sanity := crosscheck.Run(ctx, crossCheckRegistry(reader).Samplers(), cfg.CPU, result.Usage, logger)
		crosscheck.Report(stdout, validations, sanity)
	}

	if err := formatter.Render(result); err != nil {
		return status.Unknown.ExitCode()
	}
	return result.Status.ExitCode()
}

// crossCheckRegistry lists the samplers compared in debug mode. gopsutil
// only reads the live system, so it is skipped for another counter table.
func crossCheckRegistry(reader *cpu.Reader) *collectors.Registry {
	reg := collectors.NewRegistry()
	reg.Register(reader)
	reg.Register(crosscheck.NewProcfsSampler(filepath.Dir(reader.Path())))
	if reader.Path() == cpu.DefaultStatPath {
		reg.Register(crosscheck.NewGopsutilSampler())
	}
	return reg
}
