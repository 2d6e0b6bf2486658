package kvgen

import (
	"fmt"
	"io"
	"time"

	"github.com/ananthvk/kvgen/internal/command"
	"github.com/ananthvk/kvgen/internal/manifest"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// WriteFile generates a run into the file at path, truncating it if it already exists. When cfg.Manifest
// is set, a manifest describing the run is written next to it, otherwise any existing manifest is removed.
// Any I/O failure is returned wrapped in ErrOutput
func WriteFile(fs afero.Fs, path string, cfg Config) (Stats, error) {
	g, err := New(cfg)
	if err != nil {
		return Stats{}, err
	}

	w, err := command.NewWriter(fs, path, cfg.Format)
	if err != nil {
		return Stats{}, fmt.Errorf("%w: %w", ErrOutput, err)
	}

	start := time.Now()
	stats, err := g.Generate(w)
	stats.Bytes = w.Offset()
	if err != nil {
		w.Close()
		return stats, fmt.Errorf("%w: %w", ErrOutput, err)
	}
	if err := w.Close(); err != nil {
		return stats, fmt.Errorf("%w: %w", ErrOutput, err)
	}

	if cfg.Manifest {
		m := newManifest(cfg, stats, g.Count())
		if err := manifest.Write(fs, path, m); err != nil {
			return stats, fmt.Errorf("%w: manifest: %w", ErrOutput, err)
		}
		g.logger.Debug("manifest written", "path", manifest.PathFor(path), "run_id", m.RunID)
	} else if err := manifest.Remove(fs, path); err != nil {
		// a manifest left over from an earlier run describes a different file
		return stats, fmt.Errorf("%w: manifest: %w", ErrOutput, err)
	}

	g.logger.Info("commands generated",
		"path", path,
		"format", cfg.Format.String(),
		"commands", stats.Total(),
		"inserts", stats.Inserts,
		"deletes", stats.Deletes,
		"lookups", stats.Lookups,
		"bytes", stats.Bytes,
		"elapsed", time.Since(start),
	)
	return stats, nil
}

// Stream generates a run into out, e.g. standard output. Manifest is ignored since there is no file
// to put it next to
func Stream(out io.Writer, cfg Config) (Stats, error) {
	g, err := New(cfg)
	if err != nil {
		return Stats{}, err
	}
	w := command.NewStreamWriter(out, cfg.Format)
	stats, err := g.Generate(w)
	if err == nil {
		err = w.Flush()
	}
	stats.Bytes = w.Offset()
	if err != nil {
		return stats, fmt.Errorf("%w: %w", ErrOutput, err)
	}
	return stats, nil
}

func newManifest(cfg Config, stats Stats, count int) *manifest.Manifest {
	return &manifest.Manifest{
		RunID:     uuid.New(),
		Seed:      cfg.Seed,
		Seeded:    cfg.Seeded && cfg.Source == nil, // a caller supplied source has no seed to record
		Format:    cfg.Format.String(),
		Count:     count,
		Inserts:   stats.Inserts,
		Deletes:   stats.Deletes,
		Lookups:   stats.Lookups,
		FreshKeys: stats.FreshKeys,
		PoolSize:  stats.PoolSize,
		Bytes:     stats.Bytes,
		Created:   time.Now().UTC().Format(time.RFC3339),
	}
}
