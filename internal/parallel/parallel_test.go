package parallel

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRanges_CoversEveryIndexOnce(t *testing.T) {
	for _, tc := range []struct {
		name string
		n    int
		cfg  Config
	}{
		{"sequential", 1000, Sequential()},
		{"disabled", 1000, Config{Enabled: false, NumWorkers: 8, MinChunkSize: 1}},
		{"parallel", 1000, Config{Enabled: true, NumWorkers: 4, MinChunkSize: 10}},
		{"uneven", 1001, Config{Enabled: true, NumWorkers: 3, MinChunkSize: 1}},
		{"small", 5, Config{Enabled: true, NumWorkers: 4, MinChunkSize: 64}},
		{"empty", 0, DefaultConfig()},
	} {
		t.Run(tc.name, func(t *testing.T) {
			hits := make([]int32, tc.n)
			Ranges(tc.n, tc.cfg, func(start, end int) {
				for i := start; i < end; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			})
			for i, h := range hits {
				assert.Equal(t, int32(1), h, "index %d", i)
			}
		})
	}
}

func TestRanges_ChunkCount(t *testing.T) {
	var mu sync.Mutex
	var chunks [][2]int
	Ranges(100, Config{Enabled: true, NumWorkers: 4, MinChunkSize: 10}, func(start, end int) {
		mu.Lock()
		defer mu.Unlock()
		chunks = append(chunks, [2]int{start, end})
	})
	assert.Len(t, chunks, 4)

	chunks = nil
	Ranges(100, Sequential(), func(start, end int) {
		chunks = append(chunks, [2]int{start, end})
	})
	assert.Equal(t, [][2]int{{0, 100}}, chunks)
}

func BenchmarkRanges(b *testing.B) {
	n := 1 << 20
	data := make([]float64, n)
	for name, cfg := range map[string]Config{"parallel": DefaultConfig(), "sequential": Sequential()} {
		b.Run(name, func(b *testing.B) {
			for range b.N {
				Ranges(n, cfg, func(start, end int) {
					for i := start; i < end; i++ {
						data[i] = data[i]*0.5 + 1
					}
				})
			}
		})
	}
}
