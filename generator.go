package kvgen

import (
	"log/slog"

	"github.com/ananthvk/kvgen/internal/command"
	"github.com/ananthvk/kvgen/internal/keypool"
)

const (
	DefaultCount  = 10000    // Number of commands in a run
	DefaultOutput = "in.txt" // Output file, relative to the working directory

	progressInterval = 1000
)

// CommandWriter is where generated commands go. *command.Writer implements it
type CommandWriter interface {
	Write(c command.Command) (int64, error)
}

// Config controls a generator run. The zero value generates DefaultCount commands with unseeded randomness
type Config struct {
	// Count is the number of commands to generate, 0 means DefaultCount
	Count int
	// Seed is used to build the random source when Seeded is set
	Seed   uint64
	Seeded bool
	// Source overrides Seed, it's mostly useful for tests that script the random stream
	Source Source
	// Format and Manifest are only used by WriteFile and Stream
	Format   command.Format
	Manifest bool
	Logger   *slog.Logger
}

// Stats summarises a run
type Stats struct {
	Inserts   int
	Deletes   int
	Lookups   int
	FreshKeys int // keys built by RandomKey rather than picked from the pool
	PoolSize  int // size of the key pool after the last command
	Bytes     int64
}

// Total returns the number of generated commands
func (s Stats) Total() int {
	return s.Inserts + s.Deletes + s.Lookups
}

// Generator produces the command stream. It owns the key pool and the random source, it's not safe
// for concurrent use
type Generator struct {
	count  int
	src    Source
	pool   *keypool.Pool
	logger *slog.Logger
}

// New returns a Generator for the given configuration
func New(cfg Config) (*Generator, error) {
	if cfg.Count < 0 {
		return nil, ErrInvalidCount
	}
	count := cfg.Count
	if count == 0 {
		count = DefaultCount
	}

	src := cfg.Source
	if src == nil {
		if cfg.Seeded {
			src = NewSource(cfg.Seed)
		} else {
			src = NewRandomSource()
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Generator{
		count:  count,
		src:    src,
		pool:   keypool.New(),
		logger: logger,
	}, nil
}

// Next draws a single command and applies it to the key pool. fresh reports whether the key was built
// by RandomKey instead of being picked from the pool.
//
// The draws happen in a fixed order: kind, then (only when the pool is not empty) a coin, then the key,
// then the value for inserts. Fresh keys are not checked against the pool, collisions are allowed
func (g *Generator) Next() (c command.Command, fresh bool) {
	c.Kind = command.Kind(g.src.IntN(command.NumKinds))

	if g.pool.Len() == 0 || g.src.IntN(2) == 0 {
		c.Key = RandomKey(g.src)
		fresh = true
	} else {
		c.Key = g.pool.Pick(g.src)
	}

	switch c.Kind {
	case command.KindInsert:
		c.Value = g.src.Uint64()
		g.pool.Add(c.Key)
	case command.KindDelete:
		// deleting an unknown key is a valid command, the store is expected to ignore it
		g.pool.Remove(c.Key)
	}
	return c, fresh
}

// Generate writes exactly Count commands to w, starting from an empty key pool. The first write
// error stops the run and is returned along with the stats gathered so far
func (g *Generator) Generate(w CommandWriter) (Stats, error) {
	g.pool = keypool.New()
	stats := Stats{}

	for i := 0; i < g.count; i++ {
		c, fresh := g.Next()
		if _, err := w.Write(c); err != nil {
			stats.PoolSize = g.pool.Len()
			return stats, err
		}
		if fresh {
			stats.FreshKeys++
		}
		switch c.Kind {
		case command.KindInsert:
			stats.Inserts++
		case command.KindDelete:
			stats.Deletes++
		case command.KindLookup:
			stats.Lookups++
		}
		if (i+1)%progressInterval == 0 {
			g.logger.Debug("generating commands", "done", i+1, "total", g.count, "pool", g.pool.Len())
		}
	}

	stats.PoolSize = g.pool.Len()
	return stats, nil
}

// Count returns the number of commands Generate writes
func (g *Generator) Count() int {
	return g.count
}

// Keys returns the keys currently in the pool
func (g *Generator) Keys() []string {
	return g.pool.Keys()
}
