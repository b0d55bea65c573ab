package restya

// Outcome classifies a client call.
type Outcome int

const (
	// OutcomeOK means the service answered with a payload.
	OutcomeOK Outcome = iota
	// OutcomeEmpty means the service answered successfully without data.
	OutcomeEmpty
	// OutcomeFailed means the call failed; the failure has already been reported to the user.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the decoded outcome of one endpoint call.
type Result[T any] struct {
	Value   T
	Outcome Outcome
	Err     error
}

// Failed reports whether the call failed. Callers must not report the error again.
func (r Result[T]) Failed() bool { return r.Outcome == OutcomeFailed }

// Empty reports a successful call that carried no data.
func (r Result[T]) Empty() bool { return r.Outcome == OutcomeEmpty }

func ok[T any](v T) Result[T]    { return Result[T]{Value: v, Outcome: OutcomeOK} }
func empty[T any](v T) Result[T] { return Result[T]{Value: v, Outcome: OutcomeEmpty} }

func failed[T any](err error) Result[T] {
	return Result[T]{Outcome: OutcomeFailed, Err: err}
}
