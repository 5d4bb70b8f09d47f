// Package interpret turns free-form policy text into structured policy
// records, and city metrics into advisory text.
//
// Three implementations are provided:
//
//   - LLMClient talks to any OpenAI-compatible chat-completions endpoint
//     (OpenAI, Ollama, LocalAI, vLLM).
//   - Mock applies fixed keyword rules and never fails.
//   - Fallback chains a primary and a backup and marks degraded answers.
//
// Nothing here touches a graph: callers validate the returned records
// (policy.DecodeAll) before they reach the engine.
package interpret

import (
	"context"
	"errors"

	"github.com/katalvlaran/citytwin/metrics"
	"github.com/katalvlaran/citytwin/policy"
)

var (
	// ErrUpstream marks transport or provider failures.
	ErrUpstream = errors.New("interpret: upstream request failed")

	// ErrMalformedResponse marks a provider answer that is not the expected JSON.
	ErrMalformedResponse = errors.New("interpret: malformed response")

	// ErrEmptyInput is returned for blank policy text.
	ErrEmptyInput = errors.New("interpret: empty policy text")
)

// Interpretation is the structured reading of a policy text.
//
// Degraded is set when the answer came from a backup after the primary
// failed; Cause then holds the primary's error.
type Interpretation struct {
	Actions   []policy.Record `json:"actions" yaml:"actions"`
	Reasoning string          `json:"reasoning" yaml:"reasoning"`
	Degraded  bool            `json:"degraded,omitempty" yaml:"-"`
	Cause     error           `json:"-" yaml:"-"`
}

// Interpreter converts natural-language policy text into records.
type Interpreter interface {
	Interpret(ctx context.Context, text string) (Interpretation, error)
}

// Advisor suggests interventions for a metrics snapshot.
type Advisor interface {
	Recommend(ctx context.Context, m metrics.Snapshot) (string, error)
}

// InterpreterAdvisor is the combined collaborator used by the session.
type InterpreterAdvisor interface {
	Interpreter
	Advisor
}
