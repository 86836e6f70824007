package ai

import (
	"context"
	"fmt"

	"github.com/Lislejoem/social-garden/pkg/types"
)

// CompletionNarrator implements Narrator on top of any Completer. The
// briefing context arrives fully assembled; the narrator only turns it into
// prose and never reads storage.
type CompletionNarrator struct {
	completer Completer
}

// NewCompletionNarrator creates a narrator backed by the given completer.
func NewCompletionNarrator(completer Completer) *CompletionNarrator {
	return &CompletionNarrator{completer: completer}
}

// Narrate produces a narrative briefing from an assembled context.
func (n *CompletionNarrator) Narrate(ctx context.Context, bc *types.BriefingContext) (*types.Briefing, error) {
	if bc == nil {
		return nil, fmt.Errorf("%w: nil briefing context", ErrCollaborator)
	}

	response, err := n.completer.Complete(ctx, BriefingPrompt(bc))
	if err != nil {
		return nil, fmt.Errorf("%w: briefing completion: %v", ErrCollaborator, err)
	}

	briefing, err := ParseBriefingResponse(response)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCollaborator, err)
	}
	return briefing, nil
}

var _ Narrator = (*CompletionNarrator)(nil)
