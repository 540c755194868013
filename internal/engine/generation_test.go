package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneration_New(t *testing.T) {
	g := NewGeneration()
	assert.Equal(t, int64(0), g.Current(), "new generation should start at 0")
}

func TestGeneration_Next_Incrementing(t *testing.T) {
	g := NewGeneration()

	assert.Equal(t, int64(1), g.Next())
	assert.Equal(t, int64(2), g.Next())
	assert.Equal(t, int64(3), g.Next())

	assert.Equal(t, int64(3), g.Current())
}

func TestGeneration_ThreadSafe(t *testing.T) {
	g := NewGeneration()
	const goroutines = 50
	const callsPerGoroutine = 100

	var wg sync.WaitGroup
	seqs := make(chan int64, goroutines*callsPerGoroutine)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				seqs <- g.Next()
			}
		}()
	}

	wg.Wait()
	close(seqs)

	seen := make(map[int64]bool)
	for seq := range seqs {
		assert.False(t, seen[seq], "seq %d generated twice", seq)
		seen[seq] = true
	}
	assert.Len(t, seen, goroutines*callsPerGoroutine)
}

func TestGeneration_Current_DoesNotIncrement(t *testing.T) {
	g := NewGeneration()
	g.Next()
	g.Next()

	assert.Equal(t, int64(2), g.Current())
	assert.Equal(t, int64(2), g.Current())
}
