package cpu

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultStatPath is the kernel counter table on Linux.
const DefaultStatPath = "/proc/stat"

// maxLineSize bounds one counter table line. The intr line carries one
// column per interrupt and outgrows bufio's default on large hosts.
const maxLineSize = 16 << 20

// Reader samples CPU counters from a /proc/stat formatted file.
type Reader struct {
	path string
}

// NewReader creates a reader for the counter table at path.
// An empty path selects DefaultStatPath.
func NewReader(path string) *Reader {
	if path == "" {
		path = DefaultStatPath
	}
	return &Reader{path: path}
}

// Name returns the sampler name.
func (r *Reader) Name() string {
	return "proc"
}

// Path returns the counter table the reader opens.
func (r *Reader) Path() string {
	return r.path
}

// Sample reads the counters of the aggregate whose line starts with exactly
// the given name. "cpu" selects the system-wide line and never "cpu0".
func (r *Reader) Sample(ctx context.Context, name string) (Sample, error) {
	if err := ctx.Err(); err != nil {
		return Sample{}, err
	}

	file, err := os.Open(r.path)
	if err != nil {
		return Sample{}, fmt.Errorf("cannot open counter table: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] != name {
			continue
		}
		return parseCounters(name, fields[1:])
	}
	if err := scanner.Err(); err != nil {
		return Sample{}, fmt.Errorf("cannot read %s: %w", r.path, err)
	}

	return Sample{}, &NotFoundError{Name: name, Path: r.path}
}

// parseCounters converts the first NumCategories fields; later columns
// (guest, guest_nice) are ignored.
func parseCounters(name string, fields []string) (Sample, error) {
	if len(fields) < NumCategories {
		return Sample{}, &ParseError{
			Name:   name,
			Reason: fmt.Sprintf("expected %d counters, found %d", NumCategories, len(fields)),
		}
	}

	var values [NumCategories]uint64
	for i := range values {
		v, err := strconv.ParseUint(fields[i], 10, 64)
		if err != nil {
			return Sample{}, &ParseError{
				Name:   name,
				Reason: fmt.Sprintf("invalid %s counter %q", categories[i], fields[i]),
				Err:    err,
			}
		}
		values[i] = v
	}
	return NewSample(values), nil
}
