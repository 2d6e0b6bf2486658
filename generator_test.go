package kvgen

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/ananthvk/kvgen/internal/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted replays a fixed random stream so that exact outputs can be asserted
type scripted struct {
	t    *testing.T
	ints []int
	u64s []uint64
}

func (s *scripted) IntN(n int) int {
	s.t.Helper()
	require.NotEmpty(s.t, s.ints, "random stream exhausted")
	v := s.ints[0]
	s.ints = s.ints[1:]
	require.Less(s.t, v, n, "scripted value out of range")
	return v
}

func (s *scripted) Uint64() uint64 {
	s.t.Helper()
	require.NotEmpty(s.t, s.u64s, "random stream exhausted")
	v := s.u64s[0]
	s.u64s = s.u64s[1:]
	return v
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func generate(t *testing.T, src Source, count int) (string, Stats, *Generator) {
	t.Helper()
	g, err := New(Config{Count: count, Source: src, Logger: quietLogger()})
	require.NoError(t, err)
	var out bytes.Buffer
	w := command.NewStreamWriter(&out, command.FormatLines)
	stats, err := g.Generate(w)
	require.NoError(t, err)
	require.NoError(t, w.Flush())
	return out.String(), stats, g
}

func TestFirstInsert(t *testing.T) {
	// kind=insert, length=3, 'A', 'b', 'C', value=42
	src := &scripted{t: t, ints: []int{0, 3, 26, 1, 28}, u64s: []uint64{42}}
	out, stats, g := generate(t, src, 1)

	assert.Equal(t, "+ AbC 42\n", out)
	assert.Equal(t, Stats{Inserts: 1, FreshKeys: 1, PoolSize: 1}, stats)
	assert.Equal(t, []string{"AbC"}, g.Keys())
}

func TestDeleteOnEmptyPoolUsesFreshKey(t *testing.T) {
	// no coin is drawn while the pool is empty
	src := &scripted{t: t, ints: []int{1, 2, 23, 24}}
	out, stats, g := generate(t, src, 1)

	assert.Equal(t, "- xy\n", out)
	assert.Equal(t, 1, stats.Deletes)
	assert.Empty(t, g.Keys())
}

func TestLookupsRunTogether(t *testing.T) {
	src := &scripted{t: t, ints: []int{
		2, 2, 51, 25, // lookup "Zz"
		2, 2, 42, 16, // lookup "Qq"
	}}
	out, stats, _ := generate(t, src, 2)

	assert.Equal(t, "ZzQq", out)
	assert.Equal(t, 2, stats.Lookups)
	assert.Equal(t, 0, stats.PoolSize)
}

func TestPoolKeysAreReused(t *testing.T) {
	src := &scripted{
		t: t,
		ints: []int{
			0, 1, 0, // insert fresh "a"
			1, 1, 0, // delete, coin picks from the pool, index 0 -> "a"
			0, 0, // insert, pool is empty again so no coin, fresh empty key
			2, 0, 3, 7, 0, 1, // lookup, coin says fresh key, "hab"
		},
		u64s: []uint64{5, 18446744073709551615},
	}
	out, stats, g := generate(t, src, 4)

	assert.Equal(t, "+ a 5\n- a\n+  18446744073709551615\nhab", out)
	assert.Equal(t, Stats{Inserts: 2, Deletes: 1, Lookups: 1, FreshKeys: 3, PoolSize: 1}, stats)
	assert.Equal(t, []string{""}, g.Keys())
	assert.Empty(t, src.ints)
}

func TestDeleteOfUnknownFreshKeyKeepsPool(t *testing.T) {
	src := &scripted{
		t: t,
		ints: []int{
			0, 1, 0, // insert "a"
			1, 0, 1, 1, // delete, coin says fresh, key "b" which is not in the pool
		},
		u64s: []uint64{1},
	}
	out, stats, g := generate(t, src, 2)

	assert.Equal(t, "+ a 1\n- b\n", out)
	assert.Equal(t, 1, stats.PoolSize)
	assert.Equal(t, []string{"a"}, g.Keys())
}

func TestRandomKey(t *testing.T) {
	src := NewSource(7)
	sawEmpty, sawMax := false, false
	for range 20000 {
		key := RandomKey(src)
		require.LessOrEqual(t, len(key), MaxKeyLength)
		require.True(t, command.ValidKey(key), "key %q has characters outside the alphabet", key)
		sawEmpty = sawEmpty || key == ""
		sawMax = sawMax || len(key) == MaxKeyLength
	}
	assert.True(t, sawEmpty, "expected the empty key to be drawn")
	assert.True(t, sawMax, "expected a key of maximum length to be drawn")

	empty := &scripted{t: t, ints: []int{0}}
	assert.Equal(t, "", RandomKey(empty))
}

func TestAlphabet(t *testing.T) {
	assert.Len(t, Alphabet, 52)
	for _, c := range "azAZ" {
		assert.True(t, strings.ContainsRune(Alphabet, c))
	}
}

func TestNewDefaults(t *testing.T) {
	g, err := New(Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultCount, g.Count())

	_, err = New(Config{Count: -1})
	assert.ErrorIs(t, err, ErrInvalidCount)
}

func TestGenerateExactCount(t *testing.T) {
	for _, seed := range []uint64{1, 2, 3} {
		out, stats, _ := generate(t, NewSource(seed), DefaultCount)
		assert.Equal(t, DefaultCount, stats.Total())
		// only inserts and deletes are newline terminated
		assert.Equal(t, stats.Inserts+stats.Deletes, strings.Count(out, "\n"))
		assert.Greater(t, stats.Inserts, 0)
		assert.Greater(t, stats.Deletes, 0)
		assert.Greater(t, stats.Lookups, 0)
	}
}

func TestSeededRunsAreReproducible(t *testing.T) {
	a, _, _ := generate(t, NewSource(99), 500)
	b, _, _ := generate(t, NewSource(99), 500)
	c, _, _ := generate(t, NewSource(100), 500)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestUnseededRunsDiffer(t *testing.T) {
	a, _, _ := generate(t, NewRandomSource(), 200)
	b, _, _ := generate(t, NewRandomSource(), 200)
	assert.NotEqual(t, a, b)
}

type failingWriter struct {
	left int
}

var errDiskFull = errors.New("disk full")

func (f *failingWriter) Write(c command.Command) (int64, error) {
	if f.left == 0 {
		return 0, errDiskFull
	}
	f.left--
	return 0, nil
}

func TestGenerateStopsOnWriteError(t *testing.T) {
	g, err := New(Config{Count: 100, Seeded: true, Seed: 3, Logger: quietLogger()})
	require.NoError(t, err)

	stats, err := g.Generate(&failingWriter{left: 10})
	assert.ErrorIs(t, err, errDiskFull)
	assert.Equal(t, 10, stats.Total())
}
