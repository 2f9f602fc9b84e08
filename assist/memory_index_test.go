package assist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIndexSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("ranks by cosine similarity", func(t *testing.T) {
		ix := NewMemoryIndex()
		require.NoError(t, ix.Upsert(ctx, 1, "east", []float32{1, 0}))
		require.NoError(t, ix.Upsert(ctx, 1, "north", []float32{0, 1}))
		require.NoError(t, ix.Upsert(ctx, 1, "northeast", []float32{1, 1}))

		notes, err := ix.Search(ctx, 1, []float32{1, 0.1}, 0)
		require.NoError(t, err)
		require.Len(t, notes, 3)
		assert.Equal(t, "east", notes[0].Text)
		assert.Equal(t, "northeast", notes[1].Text)
		assert.Equal(t, "north", notes[2].Text)
	})

	t.Run("limit truncates results", func(t *testing.T) {
		ix := NewMemoryIndex()
		require.NoError(t, ix.Upsert(ctx, 1, "a", []float32{1, 0}))
		require.NoError(t, ix.Upsert(ctx, 1, "b", []float32{0, 1}))

		notes, err := ix.Search(ctx, 1, []float32{1, 0}, 1)
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, "a", notes[0].Text)
	})

	t.Run("users are isolated", func(t *testing.T) {
		ix := NewMemoryIndex()
		require.NoError(t, ix.Upsert(ctx, 1, "mine", []float32{1, 0}))

		notes, err := ix.Search(ctx, 2, []float32{1, 0}, 0)
		require.NoError(t, err)
		assert.Empty(t, notes)
	})

	t.Run("upserting the same text replaces its vector", func(t *testing.T) {
		ix := NewMemoryIndex()
		require.NoError(t, ix.Upsert(ctx, 1, "note", []float32{1, 0}))
		require.NoError(t, ix.Upsert(ctx, 1, "note", []float32{0, 1}))

		notes, err := ix.Search(ctx, 1, []float32{0, 1}, 0)
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.InDelta(t, 1.0, float64(notes[0].Score), 1e-6)
	})
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, float64(cosine([]float32{1, 2}, []float32{2, 4})), 1e-6)
	assert.InDelta(t, 0.0, float64(cosine([]float32{1, 0}, []float32{0, 1})), 1e-6)
	assert.Zero(t, cosine([]float32{1}, []float32{1, 2}))
	assert.Zero(t, cosine([]float32{0, 0}, []float32{1, 2}))
}
