package interpret

import (
	"context"
	"errors"
	"log"

	"github.com/katalvlaran/citytwin/metrics"
)

// Fallback asks Primary first and Backup when Primary fails.
//
// ErrEmptyInput is never masked: it is a caller error, not a provider one.
// Logger defaults to log.Default().
type Fallback struct {
	Primary InterpreterAdvisor
	Backup  InterpreterAdvisor
	Logger  *log.Logger
}

// Interpret returns the primary answer, or the backup answer marked
// Degraded with the primary error in Cause.
func (f Fallback) Interpret(ctx context.Context, text string) (Interpretation, error) {
	out, err := f.Primary.Interpret(ctx, text)
	if err == nil || errors.Is(err, ErrEmptyInput) {
		return out, err
	}
	f.logger().Printf("interpret: primary failed, using backup: %v", err)

	out, berr := f.Backup.Interpret(ctx, text)
	if berr != nil {
		return Interpretation{}, errors.Join(err, berr)
	}
	out.Degraded = true
	out.Cause = err
	return out, nil
}

// Recommend returns the primary recommendation or the backup one.
func (f Fallback) Recommend(ctx context.Context, m metrics.Snapshot) (string, error) {
	text, err := f.Primary.Recommend(ctx, m)
	if err == nil {
		return text, nil
	}
	f.logger().Printf("interpret: recommendation failed, using backup: %v", err)

	return f.Backup.Recommend(ctx, m)
}

func (f Fallback) logger() *log.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return log.Default()
}

// New picks the collaborator for cfg: Mock when no provider is configured,
// otherwise an LLMClient backed by Mock.
func New(cfg Config, logger *log.Logger) InterpreterAdvisor {
	if !cfg.Enabled() {
		return Mock{}
	}
	return Fallback{Primary: NewLLMClient(cfg, nil), Backup: Mock{}, Logger: logger}
}
