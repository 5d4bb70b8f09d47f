package twin

import (
	"io"
	"log"
	"time"

	"github.com/katalvlaran/citytwin/interpret"
	"github.com/katalvlaran/citytwin/metrics"
)

// DefaultHistoryLimit is the number of history points kept by default.
const DefaultHistoryLimit = 50

// DefaultTimeout bounds interpreter and advisor calls.
const DefaultTimeout = 30 * time.Second

type options struct {
	advisor      interpret.InterpreterAdvisor
	recorder     *metrics.Recorder
	logger       *log.Logger
	historyLimit int
	timeout      time.Duration
}

func defaultOptions() options {
	return options{
		advisor:      interpret.Mock{},
		logger:       log.New(io.Discard, "", 0),
		historyLimit: DefaultHistoryLimit,
		timeout:      DefaultTimeout,
	}
}

// Option configures a Session.
type Option func(*options)

// WithInterpreter sets the policy interpreter and advisor (default interpret.Mock).
// Panics on nil.
func WithInterpreter(a interpret.InterpreterAdvisor) Option {
	if a == nil {
		panic("twin: WithInterpreter(nil)")
	}
	return func(o *options) { o.advisor = a }
}

// WithRecorder exports every tick and policy to r.
func WithRecorder(r *metrics.Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithLogger sets the session logger (default discards).
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithHistoryLimit sets how many history points are kept. Panics if n < 1.
func WithHistoryLimit(n int) Option {
	if n < 1 {
		panic("twin: WithHistoryLimit(n<1)")
	}
	return func(o *options) { o.historyLimit = n }
}

// WithTimeout bounds each interpreter call; 0 disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}
