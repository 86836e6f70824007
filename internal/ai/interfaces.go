// Package ai provides the AI collaborator boundary: extracting structured
// contact facts from free-text input and narrating briefings from assembled
// contact context. Providers (Anthropic, OpenAI, Ollama) are wrapped in
// circuit breakers; calls are single-attempt with no retries, and failures
// surface to the caller unchanged.
package ai

import (
	"context"
	"errors"

	"github.com/Lislejoem/social-garden/pkg/types"
)

// ErrCollaborator indicates an extraction or narration call failed. The core
// does not retry; the failure is surfaced to the caller as-is.
var ErrCollaborator = errors.New("ai collaborator failed")

// Completer is the interface for LLM text completion.
// All prompts use single-string completion style (not chat).
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	GetModel() string
}

// Extractor derives structured contact facts from raw free-text input.
type Extractor interface {
	Extract(ctx context.Context, rawInput string) (*types.Extraction, error)
}

// Narrator produces a narrative briefing from assembled contact context.
type Narrator interface {
	Narrate(ctx context.Context, briefingCtx *types.BriefingContext) (*types.Briefing, error)
}
