package assist

import (
	"context"
	"math"
	"sort"
	"sync"
)

type indexEntry struct {
	text   string
	vector []float32
}

// MemoryIndex is an in-process VectorIndex ranking by cosine similarity.
type MemoryIndex struct {
	mu      sync.RWMutex
	entries map[int64][]indexEntry
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{entries: make(map[int64][]indexEntry)}
}

func (ix *MemoryIndex) Upsert(_ context.Context, userID int64, text string, vector []float32) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for i, e := range ix.entries[userID] {
		if e.text == text {
			ix.entries[userID][i].vector = vector
			return nil
		}
	}
	ix.entries[userID] = append(ix.entries[userID], indexEntry{text: text, vector: vector})
	return nil
}

func (ix *MemoryIndex) Search(_ context.Context, userID int64, vector []float32, limit int) ([]Note, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	notes := []Note{}
	for _, e := range ix.entries[userID] {
		notes = append(notes, Note{Text: e.text, Score: cosine(vector, e.vector)})
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Score > notes[j].Score
	})

	if limit > 0 && len(notes) > limit {
		notes = notes[:limit]
	}
	return notes, nil
}

func cosine(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
