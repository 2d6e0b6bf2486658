package kvgen

import (
	"errors"
	"fmt"
	"io"

	"github.com/ananthvk/kvgen/internal/command"
	"github.com/ananthvk/kvgen/internal/keypool"
	"github.com/ananthvk/kvgen/internal/manifest"
	"github.com/spf13/afero"
)

// Report is the result of replaying a generated file
type Report struct {
	Inserts int
	Deletes int
	// Lookups counts lookup runs, in the line format consecutive lookups are merged into one
	Lookups int
	// UnknownDeletes counts deletes of keys that were not in the pool at that point
	UnknownDeletes int
	PoolSize       int
	// Manifest is the run manifest, nil if the file has none
	Manifest *manifest.Manifest
}

// Verify replays the file at path against an empty simulated pool: inserts add the key, deletes remove it
// if present and lookups have no effect. It fails on the first command that does not follow the format
// or carries a key the generator could not have produced. When a manifest is present, the replayed
// format and counts must agree with it
func Verify(fs afero.Fs, path string, format command.Format) (Report, error) {
	report := Report{}
	m, err := readManifest(fs, path)
	if err != nil {
		return report, err
	}
	report.Manifest = m
	if m != nil && m.Format != format.String() {
		return report, fmt.Errorf("%w: manifest has format %s, verifying as %s", ErrManifestMismatch, m.Format, format)
	}

	r, err := command.Open(fs, path, format)
	if err != nil {
		return report, err
	}
	defer r.Close()

	pool := keypool.New()
	for {
		c, err := r.Scan()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return report, err
		}

		switch c.Kind {
		case command.KindInsert:
			if err := checkKey(c.Key); err != nil {
				return report, err
			}
			pool.Add(c.Key)
			report.Inserts++
		case command.KindDelete:
			if err := checkKey(c.Key); err != nil {
				return report, err
			}
			if !pool.Remove(c.Key) {
				report.UnknownDeletes++
			}
			report.Deletes++
		case command.KindLookup:
			// merged lookups may exceed MaxKeyLength in the line format, only the alphabet can be checked
			if format == command.FormatRESP {
				if err := checkKey(c.Key); err != nil {
					return report, err
				}
			} else if !command.ValidKey(c.Key) {
				return report, fmt.Errorf("%w: lookup %q", ErrInvalidKey, c.Key)
			}
			report.Lookups++
		}
	}
	report.PoolSize = pool.Len()
	if m == nil {
		return report, nil
	}
	return report, report.checkManifest(format)
}

// readManifest returns the manifest of the file at path, or nil if it has none
func readManifest(fs afero.Fs, path string) (*manifest.Manifest, error) {
	exists, err := manifest.Exists(fs, path)
	if err != nil || !exists {
		return nil, err
	}
	return manifest.Read(fs, path)
}

func (r Report) checkManifest(format command.Format) error {
	m := r.Manifest
	switch {
	case m.Inserts+m.Deletes+m.Lookups != m.Count:
		return fmt.Errorf("%w: manifest counts add up to %d, expected %d", ErrManifestMismatch, m.Inserts+m.Deletes+m.Lookups, m.Count)
	case format == command.FormatRESP && m.Lookups != r.Lookups:
		return fmt.Errorf("%w: manifest has %d lookups, file has %d", ErrManifestMismatch, m.Lookups, r.Lookups)
	case m.Inserts != r.Inserts:
		return fmt.Errorf("%w: manifest has %d inserts, file has %d", ErrManifestMismatch, m.Inserts, r.Inserts)
	case m.Deletes != r.Deletes:
		return fmt.Errorf("%w: manifest has %d deletes, file has %d", ErrManifestMismatch, m.Deletes, r.Deletes)
	case m.PoolSize != r.PoolSize:
		return fmt.Errorf("%w: manifest has pool size %d, replay has %d", ErrManifestMismatch, m.PoolSize, r.PoolSize)
	case r.Lookups > m.Lookups:
		return fmt.Errorf("%w: manifest has %d lookups, file has %d", ErrManifestMismatch, m.Lookups, r.Lookups)
	}
	return nil
}

func checkKey(key string) error {
	if len(key) > MaxKeyLength {
		return fmt.Errorf("%w: length %d exceeds %d", ErrInvalidKey, len(key), MaxKeyLength)
	}
	if !command.ValidKey(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
