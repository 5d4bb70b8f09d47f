package interpret

import (
	"context"
	"strings"

	"github.com/katalvlaran/citytwin/metrics"
	"github.com/katalvlaran/citytwin/policy"
)

// MockReasoning is the reasoning attached to every Mock interpretation.
const MockReasoning = "Keyword policy interpretation (offline mode: configure an LLM provider for full analysis)."

// Mock interprets policy text with fixed keyword rules:
//
//	"close" and "downtown"  ⇒ close_road on tag downtown
//	"speed" or "limit"      ⇒ modify_speed 30 on tag all
//	anything else           ⇒ adjust_capacity 0.5 on tag downtown
//
// Matching is case-insensitive. Mock never fails on non-empty text.
type Mock struct{}

// Interpret applies the keyword rules to text.
func (Mock) Interpret(_ context.Context, text string) (Interpretation, error) {
	if strings.TrimSpace(text) == "" {
		return Interpretation{}, ErrEmptyInput
	}
	lower := strings.ToLower(text)

	var rec policy.Record
	switch {
	case strings.Contains(lower, "close") && strings.Contains(lower, "downtown"):
		rec = policy.Record{
			Type:        policy.KindCloseRoad,
			TargetTag:   "downtown",
			Description: "Close all roads leading to City Center",
		}
	case strings.Contains(lower, "speed") || strings.Contains(lower, "limit"):
		rec = policy.Record{
			Type:        policy.KindModifySpeed,
			TargetTag:   policy.TagAll,
			Value:       policy.Float(30),
			Description: "Reduce global speed limit to 30",
		}
	default:
		rec = policy.Record{
			Type:        policy.KindAdjustCapacity,
			TargetTag:   "downtown",
			Value:       policy.Float(0.5),
			Description: "Restrict capacity in city center",
		}
	}

	return Interpretation{Actions: []policy.Record{rec}, Reasoning: MockReasoning}, nil
}

// Recommend returns RecommendationFallback.
func (Mock) Recommend(context.Context, metrics.Snapshot) (string, error) {
	return RecommendationFallback, nil
}
