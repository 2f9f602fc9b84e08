// Package assist holds the AI-assist boundary: text embedding, text
// generation, and the vector index used for semantic note retrieval. The
// services depend only on the interfaces here; concrete clients stay
// swappable.
package assist

import "context"

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Generator interface {
	Generate(ctx context.Context, prompt string, context []string) (string, error)
}

// Note is one retrieved entry from the vector index.
type Note struct {
	Text  string
	Score float32
}

// VectorIndex stores embedded notes per user and retrieves the closest ones.
// Entries of one user are never visible to another.
type VectorIndex interface {
	Upsert(ctx context.Context, userID int64, text string, vector []float32) error
	Search(ctx context.Context, userID int64, vector []float32, limit int) ([]Note, error)
}
