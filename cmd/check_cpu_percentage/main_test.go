package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danpilch/check-cpu-percentage/pkg/cache"
	"github.com/danpilch/check-cpu-percentage/pkg/collectors/cpu"
)

const (
	initialStat = `cpu  100 0 50 800 20 5 5 0 0 0
cpu0 100 0 50 800 20 5 5 0 0 0
intr 1234 0 0
ctxt 5678
btime 1700000000
processes 42
procs_running 1
procs_blocked 0
`
	finalStat = `cpu  150 0 70 880 25 5 5 0 0 0
cpu0 150 0 70 880 25 5 5 0 0 0
intr 1300 0 0
ctxt 6000
btime 1700000000
processes 45
procs_running 2
procs_blocked 0
`
	okLine = "CPU STATISTICS OK: total=48.39% user=32.26% system=12.90% iowait=3.23% steal=0.00% | " +
		"total=48.39%;50;75;0;100 user=32.26%;;;0;100 system=12.90%;;;0;100 iowait=3.23%;;;0;100 steal=0.00%;;;0;100\n"
)

type fixture struct {
	dir   string
	stat  string
	cache string
}

func newFixture(t *testing.T, content string) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		dir:   dir,
		stat:  filepath.Join(dir, "stat"),
		cache: filepath.Join(dir, "cpu.cache"),
	}
	f.write(t, content)
	return f
}

func (f *fixture) write(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(f.stat, []byte(content), 0o644))
}

func execRun(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_CacheLifecycle(t *testing.T) {
	f := newFixture(t, initialStat)
	args := []string{"--stat-file", f.stat, "--cache", f.cache}

	code, out, _ := execRun(t, args...)
	assert.Equal(t, 3, code)
	assert.True(t, strings.HasPrefix(out, "CPU STATISTICS UNKNOWN: assuming first cached run"), out)
	assert.FileExists(t, f.cache)

	code, out, _ = execRun(t, args...)
	assert.Equal(t, 3, code)
	assert.Contains(t, out, "did not advance")

	f.write(t, finalStat)
	code, out, _ = execRun(t, args...)
	assert.Equal(t, 0, code)
	assert.Equal(t, okLine, out)

	cached, err := cache.New(f.cache).Load()
	require.NoError(t, err)
	assert.Equal(t, uint64(1135), cached.Total())
}

func TestRun_Thresholds(t *testing.T) {
	tests := []struct {
		name  string
		flags []string
		want  int
		state string
	}{
		{name: "defaults", want: 0, state: "OK"},
		{name: "warning", flags: []string{"-w", "40"}, want: 1, state: "WARNING"},
		{name: "critical", flags: []string{"-w", "10", "-c", "45"}, want: 2, state: "CRITICAL"},
		{name: "long flags", flags: []string{"--warning=40", "--critical=48"}, want: 2, state: "CRITICAL"},
		{name: "single core", flags: []string{"-C", "cpu0", "-w", "40"}, want: 1, state: "WARNING"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, finalStat)
			initial := cpu.NewSample([cpu.NumCategories]uint64{100, 0, 50, 800, 20, 5, 5, 0})
			require.NoError(t, cache.New(f.cache).Save(initial))

			args := append([]string{"--stat-file", f.stat, "--cache", f.cache}, tt.flags...)
			code, out, _ := execRun(t, args...)

			assert.Equal(t, tt.want, code)
			assert.True(t, strings.HasPrefix(out, "CPU STATISTICS "+tt.state+": total=48.39%"), out)
		})
	}
}

func TestRun_Unknown(t *testing.T) {
	f := newFixture(t, initialStat)

	target := filepath.Join(f.dir, "target.cache")
	require.NoError(t, os.WriteFile(target, []byte("{}"), 0o644))
	link := filepath.Join(f.dir, "link.cache")
	require.NoError(t, os.Symlink(target, link))

	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{name: "symlinked cache", args: []string{"--cache", link}, contains: link},
		{name: "warning above critical", args: []string{"-w", "80", "-c", "70"}, contains: "must not be lower"},
		{name: "threshold out of range", args: []string{"-c", "101"}, contains: "between 0 and 100"},
		{name: "non-numeric threshold", args: []string{"-w", "abc"}, contains: "invalid argument"},
		{name: "unknown flag", args: []string{"--bogus"}, contains: "unknown flag"},
		{name: "positional argument", args: []string{"extra"}, contains: "unexpected arguments: extra"},
		{name: "negative sleep", args: []string{"-s", "-1"}, contains: "must not be negative"},
		{name: "unknown cpu", args: []string{"-C", "cpu9", "-s", "0"}, contains: `"cpu9" not found`},
		{name: "no progress", args: []string{"-s", "0"}, contains: "did not advance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--stat-file", f.stat}, tt.args...)
			code, out, _ := execRun(t, args...)

			assert.Equal(t, 3, code)
			assert.True(t, strings.HasPrefix(out, "CPU STATISTICS UNKNOWN: "), out)
			assert.Contains(t, out, tt.contains)
			assert.Equal(t, 1, strings.Count(out, "\n"))
		})
	}

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data), "symlink target untouched")
}

func TestRun_MissingStatFile(t *testing.T) {
	code, out, _ := execRun(t, "--stat-file", filepath.Join(t.TempDir(), "missing"), "-s", "0")
	assert.Equal(t, 3, code)
	assert.True(t, strings.HasPrefix(out, "CPU STATISTICS UNKNOWN: "), out)
}

func TestRun_Debug(t *testing.T) {
	f := newFixture(t, finalStat)
	initial := cpu.NewSample([cpu.NumCategories]uint64{100, 0, 50, 800, 20, 5, 5, 0})
	require.NoError(t, cache.New(f.cache).Save(initial))

	code, out, stderr := execRun(t, "--stat-file", f.stat, "--cache", f.cache, "-d")

	assert.Equal(t, 0, code)
	assert.Empty(t, stderr)
	assert.Contains(t, out, "Raw Counter Dump")
	assert.Contains(t, out, "Sampler Timing Report")
	assert.Contains(t, out, "Cross-Check Validation Report")
	assert.Contains(t, out, "level=debug")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, strings.TrimSuffix(okLine, "\n"), lines[len(lines)-1])
}

func TestRun_HelpAndVersion(t *testing.T) {
	code, out, _ := execRun(t, "--version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, version)

	code, out, _ = execRun(t, "--help")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "--CPU")
	assert.Contains(t, out, "--cache")
	assert.NotContains(t, out, "--stat-file")
}
