package assist

import (
	"context"
	"fmt"
	"strings"
)

// CannedModel is a deterministic Embedder and Generator. It backs tests and
// stands in for Gemini when no API key is configured.
type CannedModel struct {
	Dimension int
}

func NewCannedModel() *CannedModel {
	return &CannedModel{Dimension: geminiEmbedDim}
}

func (m *CannedModel) Embed(_ context.Context, text string) ([]float32, error) {
	seed := float32(len(text))
	vector := make([]float32, m.Dimension)
	for i := range vector {
		vector[i] = (seed + float32(i)) / 1000.0
	}
	return vector, nil
}

func (m *CannedModel) Generate(_ context.Context, prompt string, notes []string) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Suggestion for: %s\n", prompt)
	for i, n := range notes {
		fmt.Fprintf(&sb, "- note %d: %s\n", i+1, n)
	}
	return sb.String(), nil
}
