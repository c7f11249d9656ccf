// Package cache persists a CPU counter sample between plugin invocations.
package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/danpilch/check-cpu-percentage/pkg/collectors/cpu"
)

const totalKey = "total"

// ErrNotExist is returned by Check when no cache file exists yet.
var ErrNotExist = errors.New("cache file does not exist")

// AccessError reports a cache path that cannot be used safely.
type AccessError struct {
	Path   string
	Reason string
	Err    error
}

func (e *AccessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cache path %q %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("cache path %q %s", e.Path, e.Reason)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

// FormatError reports cache content that does not decode to a sample.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid cache file %q: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Store reads and writes one cache file. There is no locking: overlapping
// invocations sharing a path may observe each other's writes.
type Store struct {
	path string
}

// New creates a store for the cache file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the cache file path.
func (s *Store) Path() string {
	return s.path
}

// Check verifies the cache path is a writable regular file. Symbolic links
// are refused. ErrNotExist is returned when nothing exists at the path.
func (s *Store) Check() error {
	info, err := os.Lstat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotExist
	}
	if err != nil {
		return &AccessError{Path: s.path, Reason: "cannot be inspected", Err: err}
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		return &AccessError{Path: s.path, Reason: "is a symbolic link"}
	}
	if !info.Mode().IsRegular() {
		return &AccessError{Path: s.path, Reason: "is not a regular file"}
	}
	if err := unix.Access(s.path, unix.W_OK); err != nil {
		return &AccessError{Path: s.path, Reason: "is not writable", Err: err}
	}
	return nil
}

// Load reads the cached sample.
func (s *Store) Load() (cpu.Sample, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return cpu.Sample{}, &AccessError{Path: s.path, Reason: "cannot be read", Err: err}
	}

	sample, err := Decode(data)
	if err != nil {
		return cpu.Sample{}, &FormatError{Path: s.path, Err: err}
	}
	return sample, nil
}

// Save writes sample to the cache file, creating it if needed. An existing
// symbolic link at the path is not followed.
func (s *Store) Save(sample cpu.Sample) error {
	data, err := Encode(sample)
	if err != nil {
		return fmt.Errorf("cannot marshal cache: %w", err)
	}

	file, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC|unix.O_NOFOLLOW, 0o644)
	if err != nil {
		return &AccessError{Path: s.path, Reason: "cannot be written", Err: err}
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return &AccessError{Path: s.path, Reason: "cannot be written", Err: err}
	}
	if err := file.Close(); err != nil {
		return &AccessError{Path: s.path, Reason: "cannot be written", Err: err}
	}
	return nil
}

// Encode renders a sample as a JSON object of category counters plus total.
func Encode(sample cpu.Sample) ([]byte, error) {
	doc := make(map[string]uint64, cpu.NumCategories+1)
	for c, v := range sample.Values() {
		doc[string(c)] = v
	}
	doc[totalKey] = sample.Total()
	return json.Marshal(doc)
}

// Decode parses a JSON object written by Encode. Integral float values
// ("100.0") are accepted. A total, when present, must match the categories.
func Decode(data []byte) (cpu.Sample, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc map[string]json.Number
	if err := dec.Decode(&doc); err != nil {
		return cpu.Sample{}, err
	}
	if doc == nil {
		return cpu.Sample{}, errors.New("expected a JSON object")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return cpu.Sample{}, errors.New("unexpected data after JSON object")
	}

	for key := range doc {
		if key != totalKey && !cpu.Category(key).Valid() {
			return cpu.Sample{}, fmt.Errorf("unknown counter %q", key)
		}
	}

	var values [cpu.NumCategories]uint64
	for i, c := range cpu.Categories() {
		raw, ok := doc[string(c)]
		if !ok {
			return cpu.Sample{}, fmt.Errorf("missing counter %q", c)
		}
		v, err := parseCounter(raw)
		if err != nil {
			return cpu.Sample{}, fmt.Errorf("counter %q: %w", c, err)
		}
		values[i] = v
	}
	sample := cpu.NewSample(values)

	if raw, ok := doc[totalKey]; ok {
		total, err := parseCounter(raw)
		if err != nil {
			return cpu.Sample{}, fmt.Errorf("counter %q: %w", totalKey, err)
		}
		if total != sample.Total() {
			return cpu.Sample{}, fmt.Errorf("total %d does not match counter sum %d", total, sample.Total())
		}
	}
	return sample, nil
}

func parseCounter(n json.Number) (uint64, error) {
	if v, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
		return v, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	if f < 0 || f != float64(uint64(f)) {
		return 0, fmt.Errorf("%s is not a non-negative integer", n)
	}
	return uint64(f), nil
}
