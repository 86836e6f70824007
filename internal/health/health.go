// Package health derives a relationship-health classification from a
// contact's desired cadence and interaction recency.
package health

import (
	"fmt"
	"time"

	"github.com/Lislejoem/social-garden/pkg/types"
)

// Threshold holds the two intervals that classify a cadence: within Due the
// relationship is flourishing; between Due and Overdue it needs attention;
// past Overdue it is wilting.
type Threshold struct {
	Due     time.Duration `yaml:"due"`
	Overdue time.Duration `yaml:"overdue"`
}

// Evaluator classifies relationships using a per-cadence threshold table.
// The zero value is not usable; construct with NewEvaluator or
// NewEvaluatorWithThresholds.
type Evaluator struct {
	thresholds map[types.Cadence]Threshold
}

const day = 24 * time.Hour

// DefaultThresholds returns the built-in cadence threshold table.
func DefaultThresholds() map[types.Cadence]Threshold {
	return map[types.Cadence]Threshold{
		types.CadenceOften:     {Due: 7 * day, Overdue: 14 * day},
		types.CadenceRegularly: {Due: 14 * day, Overdue: 30 * day},
		types.CadenceSeldomly:  {Due: 30 * day, Overdue: 60 * day},
		types.CadenceRarely:    {Due: 90 * day, Overdue: 180 * day},
	}
}

// NewEvaluator creates an evaluator with the default threshold table.
func NewEvaluator() *Evaluator {
	return &Evaluator{thresholds: DefaultThresholds()}
}

// NewEvaluatorWithThresholds creates an evaluator with a custom threshold
// table. Every cadence must be present with 0 < Due < Overdue.
func NewEvaluatorWithThresholds(thresholds map[types.Cadence]Threshold) (*Evaluator, error) {
	for _, cadence := range types.ValidCadences {
		t, ok := thresholds[cadence]
		if !ok {
			return nil, fmt.Errorf("health: missing threshold for cadence %s", cadence)
		}
		if t.Due <= 0 || t.Overdue <= t.Due {
			return nil, fmt.Errorf("health: cadence %s requires 0 < due < overdue, got due=%s overdue=%s",
				cadence, t.Due, t.Overdue)
		}
	}
	return &Evaluator{thresholds: thresholds}, nil
}

// Evaluate classifies a relationship from its cadence and the timestamp of
// the most recent interaction. A nil lastInteractionAt means the contact has
// never been interacted with, which always classifies as NEEDS_ATTENTION.
//
// The function is pure and monotonic: with lastInteractionAt fixed, a later
// now never yields a more favorable classification. An unknown cadence falls
// back to the default cadence's thresholds; that is a caller contract
// violation, not a runtime failure.
func (e *Evaluator) Evaluate(cadence types.Cadence, lastInteractionAt *time.Time, now time.Time) types.HealthStatus {
	if lastInteractionAt == nil {
		return types.HealthNeedsAttention
	}

	t, ok := e.thresholds[cadence]
	if !ok {
		t = e.thresholds[types.DefaultCadence]
	}

	elapsed := now.Sub(*lastInteractionAt)
	switch {
	case elapsed <= t.Due:
		return types.HealthFlourishing
	case elapsed <= t.Overdue:
		return types.HealthNeedsAttention
	default:
		return types.HealthWilting
	}
}

// EvaluateContact classifies a contact using its own cadence and most recent
// interaction.
func (e *Evaluator) EvaluateContact(contact *types.Contact, now time.Time) types.HealthStatus {
	return e.Evaluate(contact.Cadence, contact.LastInteractionAt(), now)
}
