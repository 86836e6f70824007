package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lislejoem/social-garden/pkg/types"
)

// CompletionExtractor implements Extractor on top of any Completer. It owns
// the prompt template and the response parsing; completion failures and
// unparseable replies both surface as ErrCollaborator.
type CompletionExtractor struct {
	completer Completer
}

// NewCompletionExtractor creates an extractor backed by the given completer.
func NewCompletionExtractor(completer Completer) *CompletionExtractor {
	return &CompletionExtractor{completer: completer}
}

// Extract derives structured relationship facts from raw free-text input.
func (e *CompletionExtractor) Extract(ctx context.Context, rawInput string) (*types.Extraction, error) {
	rawInput = strings.TrimSpace(rawInput)
	if rawInput == "" {
		return nil, fmt.Errorf("%w: empty input", ErrCollaborator)
	}

	response, err := e.completer.Complete(ctx, ExtractionPrompt(rawInput))
	if err != nil {
		return nil, fmt.Errorf("%w: extraction completion: %v", ErrCollaborator, err)
	}

	extraction, err := ParseExtractionResponse(response)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCollaborator, err)
	}
	return extraction, nil
}

var _ Extractor = (*CompletionExtractor)(nil)
