package words

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCorpus(t *testing.T) {
	list := Default()
	require.Greater(t, list.Len(), 0)

	seen := make(map[string]bool)
	for _, e := range builtin {
		assert.NotEmpty(t, e.Word)
		assert.Len(t, e.Hints, 4, "%s needs exactly four hints", e.Word)
		assert.False(t, seen[e.Word], "duplicate word %s", e.Word)
		seen[e.Word] = true
	}
}

func TestRandomDrawsFromList(t *testing.T) {
	entry := Entry{Word: "ONLY", Hints: []string{"a", "b", "c", "d"}}
	list := NewList([]Entry{entry})
	for i := 0; i < 10; i++ {
		assert.Equal(t, entry, list.Random())
	}
}

func TestRandomIsConcurrencySafe(t *testing.T) {
	list := Default()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				e := list.Random()
				assert.Len(t, e.Hints, 4)
			}
		}()
	}
	wg.Wait()
}
