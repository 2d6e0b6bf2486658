package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Manifest describes a single generator run. It's written next to the output file so that a fixture
// can be traced back to the seed that produced it
type Manifest struct {
	RunID     uuid.UUID
	Seed      uint64
	Seeded    bool
	Format    string
	Count     int
	Inserts   int
	Deletes   int
	Lookups   int
	FreshKeys int
	PoolSize  int
	Bytes     int64
	Created   string
}

const suffix = ".meta"

var ErrEmpty = errors.New("manifest is empty")

// PathFor returns the manifest path for the given output file
func PathFor(output string) string {
	return output + suffix
}

// Exists returns true if a manifest is present for the given output file
func Exists(fs afero.Fs, output string) (bool, error) {
	return afero.Exists(fs, PathFor(output))
}

// Remove deletes the manifest of the given output file, it's not an error if there is none
func Remove(fs afero.Fs, output string) error {
	err := fs.Remove(PathFor(output))
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Read reads the manifest of the given output file. Unknown keys and lines without '=' are ignored
func Read(fs afero.Fs, output string) (*Manifest, error) {
	file, err := fs.Open(PathFor(output))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	m := Manifest{}
	seen := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		key, value, found := strings.Cut(scanner.Text(), "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "run_id":
			m.RunID, err = uuid.Parse(value)
		case "seed":
			if value != "none" {
				m.Seeded = true
				m.Seed, err = strconv.ParseUint(value, 10, 64)
			}
		case "format":
			m.Format = value
		case "count":
			m.Count, err = strconv.Atoi(value)
		case "inserts":
			m.Inserts, err = strconv.Atoi(value)
		case "deletes":
			m.Deletes, err = strconv.Atoi(value)
		case "lookups":
			m.Lookups, err = strconv.Atoi(value)
		case "fresh_keys":
			m.FreshKeys, err = strconv.Atoi(value)
		case "pool_size":
			m.PoolSize, err = strconv.Atoi(value)
		case "bytes":
			m.Bytes, err = strconv.ParseInt(value, 10, 64)
		case "created":
			m.Created = value
		default:
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("manifest field %s: %w", key, err)
		}
		seen++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if seen == 0 {
		return nil, ErrEmpty
	}
	return &m, nil
}

// Write writes the manifest of the given output file, replacing an existing one
func Write(fs afero.Fs, output string, m *Manifest) error {
	file, err := fs.Create(PathFor(output))
	if err != nil {
		return err
	}

	seed := "none"
	if m.Seeded {
		seed = strconv.FormatUint(m.Seed, 10)
	}

	w := bufio.NewWriter(file)
	fields := []struct {
		key   string
		value any
	}{
		{"run_id", m.RunID},
		{"seed", seed},
		{"format", m.Format},
		{"count", m.Count},
		{"inserts", m.Inserts},
		{"deletes", m.Deletes},
		{"lookups", m.Lookups},
		{"fresh_keys", m.FreshKeys},
		{"pool_size", m.PoolSize},
		{"bytes", m.Bytes},
		{"created", m.Created},
	}
	for _, f := range fields {
		if _, err := fmt.Fprintf(w, "%s=%v\n", f.key, f.value); err != nil {
			file.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
