package playgen

import (
	"strconv"

	"github.com/cespare/xxhash"
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/mullsim/mullsim/card"
)

const (
	// rough footprint of one cached enumeration.
	entrySize = 512

	minCacheEntries = 1 << 10
	maxCacheEntries = 1 << 18
)

type cacheEntry struct {
	key   string
	plays []Play
}

// Generator memoizes Enumerate. The lookahead asks for the same hands over
// and over, so this pays off quickly. A Generator is not safe for concurrent
// use; every simulation worker owns its own.
type Generator struct {
	entries  map[uint64]cacheEntry
	capacity int

	lookups uint64
	hits    uint64
}

// NewGenerator sizes the cache to a fraction of system memory, shared
// between the given number of workers.
func NewGenerator(fractionOfMemory float64, workers int) *Generator {
	workers = max(workers, 1)
	desired := fractionOfMemory * float64(memory.TotalMemory()) / float64(entrySize*workers)
	capacity := min(max(int(desired), minCacheEntries), maxCacheEntries)
	log.Debug().Int("capacity", capacity).Msg("created-playgen-cache")
	return newGeneratorWithCapacity(capacity)
}

func newGeneratorWithCapacity(capacity int) *Generator {
	return &Generator{
		entries:  make(map[uint64]cacheEntry),
		capacity: capacity,
	}
}

func cacheKey(hand []card.Card, budget int) string {
	return card.Key(hand) + "|" + strconv.Itoa(budget)
}

// Plays returns the candidate plays for the hand. The returned slice is
// shared with the cache and must not be modified.
func (g *Generator) Plays(hand []card.Card, budget int) []Play {
	key := cacheKey(hand, budget)
	h := xxhash.Sum64String(key)
	g.lookups++
	if e, ok := g.entries[h]; ok && e.key == key {
		g.hits++
		return e.plays
	}
	plays := Enumerate(hand, budget)
	if len(g.entries) >= g.capacity {
		// Cheap eviction: start over. The working set of a playout is small.
		clear(g.entries)
	}
	g.entries[h] = cacheEntry{key: key, plays: plays}
	return plays
}

// Stats returns lookups and cache hits so far.
func (g *Generator) Stats() (lookups, hits uint64) {
	return g.lookups, g.hits
}
