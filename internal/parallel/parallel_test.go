package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countIndices runs ForChunks over n and counts the visited indices.
func countIndices(n int, cfg Config) int64 {
	var counter int64
	ForChunks(n, func(_ int, c Chunk) {
		atomic.AddInt64(&counter, int64(c.Len()))
	}, cfg)
	return counter
}

func TestForChunks(t *testing.T) {
	assert.Equal(t, int64(1000), countIndices(1000, DefaultConfig()))
}

func TestForChunks_Sequential(t *testing.T) {
	cfg := Config{Enabled: false}

	var calls int
	ForChunks(100, func(i int, c Chunk) {
		calls++
		assert.Equal(t, 0, i)
		assert.Equal(t, Chunk{Start: 0, End: 100}, c)
	}, cfg)
	assert.Equal(t, 1, calls)
}

func TestForChunks_SmallChunk(t *testing.T) {
	// Small work units fall back to sequential.
	cfg := DefaultConfig()
	n := cfg.MinChunkSize - 1

	assert.Equal(t, int64(n), countIndices(n, cfg))
	assert.Len(t, Chunks(n, cfg), 1)
}

func TestForChunks_Empty(t *testing.T) {
	called := false
	chunks := ForChunks(0, func(int, Chunk) { called = true }, DefaultConfig())
	assert.Empty(t, chunks)
	assert.False(t, called)
}

func TestChunks(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 10}

	tests := []struct {
		name string
		n    int
		want []Chunk
	}{
		{"empty", 0, nil},
		{"below min", 9, []Chunk{{0, 9}}},
		{"min dominates", 25, []Chunk{{0, 10}, {10, 20}, {20, 25}}},
		{"even", 100, []Chunk{{0, 25}, {25, 50}, {50, 75}, {75, 100}}},
		{"uneven", 101, []Chunk{{0, 26}, {26, 52}, {52, 78}, {78, 101}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Chunks(tt.n, cfg))
		})
	}

	assert.Equal(t, []Chunk{{0, 100}}, Chunks(100, Sequential()))
}

func TestForChunks_CoversEveryIndexOnce(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 3, MinChunkSize: 1}
	n := 50

	seen := make([]int32, n)
	chunks := ForChunks(n, func(_ int, c Chunk) {
		for i := c.Start; i < c.End; i++ {
			atomic.AddInt32(&seen[i], 1)
		}
	}, cfg)

	require.Len(t, chunks, 3)
	total := 0
	for _, c := range chunks {
		total += c.Len()
	}
	assert.Equal(t, n, total)
	for i, s := range seen {
		assert.Equal(t, int32(1), s, "index %d", i)
	}
}

func TestForChunks_IndexedResults(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1}
	n := 40

	chunks := Chunks(n, cfg)
	sums := make([]int, len(chunks))
	ForChunks(n, func(i int, c Chunk) {
		for j := c.Start; j < c.End; j++ {
			sums[i] += j
		}
	}, cfg)

	total := 0
	for _, s := range sums {
		total += s
	}
	assert.Equal(t, n*(n-1)/2, total)
}

func BenchmarkForChunks(b *testing.B) {
	cfg := DefaultConfig()
	n := 10000

	sum := func(cfg Config) {
		var total int64
		ForChunks(n, func(_ int, c Chunk) {
			var local int64
			for i := c.Start; i < c.End; i++ {
				local += int64(i)
			}
			atomic.AddInt64(&total, local)
		}, cfg)
	}

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			sum(cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		cfgSeq := cfg
		cfgSeq.Enabled = false
		for i := 0; i < b.N; i++ {
			sum(cfgSeq)
		}
	})
}
