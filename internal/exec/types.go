package exec

import (
	"context"
	"time"

	"github.com/felixgeelhaar/stepflow/internal/spec"
)

// Request describes one process launch. It is not modified after it has been
// handed to a Runner.
type Request struct {
	Step    string
	Command string
	Dir     string
	Env     map[string]string
	LogMode spec.LogMode
	LogFile string
}

// Result is the outcome of a Request
type Result struct {
	// ExitCode is -1 when the process could not be started or was killed by a signal
	ExitCode int

	// Succeeded is authoritative; callers must not derive success from ExitCode
	Succeeded bool

	Duration time.Duration

	// Err carries launch failures. A process that ran and exited nonzero has
	// a nil Err.
	Err error
}

// Runner executes requests
type Runner interface {
	Run(ctx context.Context, req Request) Result
}
