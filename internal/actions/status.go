package actions

import (
	"fmt"

	"git.home.luguber.info/inful/restyaboard/internal/foundation/errors"
)

// Status is the integer outcome of an action.
type Status int

const (
	StatusOK             Status = 0
	StatusInvalidContext Status = 1
	StatusCancelled      Status = 2
	StatusRequestFailed  Status = 3
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInvalidContext:
		return "invalid_context"
	case StatusCancelled:
		return "cancelled"
	case StatusRequestFailed:
		return "request_failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Err converts a status into an error for one-shot commands. The user has
// already been shown a message, so the error only drives the exit code.
// Cancellation is not an error.
func (s Status) Err(command string) error {
	switch s {
	case StatusOK, StatusCancelled:
		return nil
	case StatusInvalidContext:
		return errors.ValidationError(command + ": missing or invalid context").
			WithContext("command", command).
			UserAction().
			Build()
	default:
		return errors.NetworkError(command + ": request failed").
			WithContext("command", command).
			Build()
	}
}
