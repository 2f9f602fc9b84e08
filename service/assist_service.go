package service

import (
	"context"

	"github.com/inkform/inkform/assist"
	"github.com/inkform/inkform/fault"
	"github.com/inkform/inkform/model"
)

const defaultAssistLimit = 5

// AssistService augments writing with the caller's own notes: the prompt is
// embedded, semantically close notes are retrieved, and the generator
// produces a suggestion with those notes as context.
type AssistService struct {
	embedder  assist.Embedder
	generator assist.Generator
	index     assist.VectorIndex
}

func NewAssistService(embedder assist.Embedder, generator assist.Generator, index assist.VectorIndex) *AssistService {
	return &AssistService{embedder: embedder, generator: generator, index: index}
}

func (s *AssistService) Suggest(ctx context.Context, userID int64, req model.AssistRequest) (model.AssistSuggestion, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultAssistLimit
	}

	vector, err := s.embedder.Embed(ctx, req.Prompt)
	if err != nil {
		return model.AssistSuggestion{}, fault.Wrap(fault.Storage, "embed prompt", err)
	}

	notes, err := s.index.Search(ctx, userID, vector, limit)
	if err != nil {
		return model.AssistSuggestion{}, fault.Wrap(fault.Storage, "search notes", err)
	}

	texts := make([]string, len(notes))
	for i, n := range notes {
		texts[i] = n.Text
	}

	suggestion, err := s.generator.Generate(ctx, req.Prompt, texts)
	if err != nil {
		return model.AssistSuggestion{}, fault.Wrap(fault.Storage, "generate suggestion", err)
	}

	return model.AssistSuggestion{Suggestion: suggestion, Notes: texts}, nil
}

// IndexNote embeds and stores one note under the user. Satisfies NoteSink.
func (s *AssistService) IndexNote(ctx context.Context, userID int64, text string) error {
	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return err
	}
	return s.index.Upsert(ctx, userID, text, vector)
}
