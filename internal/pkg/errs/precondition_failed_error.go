package errs

import (
	"errors"
	"fmt"
)

// ErrPreconditionFailed is the sentinel wrapped by every PreconditionFailedError.
var ErrPreconditionFailed = errors.New("precondition failed")

// PreconditionFailedError reports that an operation is not allowed in the current
// state of an object. Current carries that state so callers can surface it.
type PreconditionFailedError struct {
	ParamName string
	Reason    string
	Current   string
	Cause     error
}

func NewPreconditionFailedError(paramName, reason, current string) *PreconditionFailedError {
	return &PreconditionFailedError{
		ParamName: paramName,
		Reason:    reason,
		Current:   current,
	}
}

func NewPreconditionFailedErrorWithCause(paramName, reason, current string, cause error) *PreconditionFailedError {
	return &PreconditionFailedError{
		ParamName: paramName,
		Reason:    reason,
		Current:   current,
		Cause:     cause,
	}
}

func (e *PreconditionFailedError) Error() string {
	msg := fmt.Sprintf("%s: %s %s", ErrPreconditionFailed, e.ParamName, e.Reason)
	if e.Current != "" {
		msg += fmt.Sprintf(", current is %s", e.Current)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return msg
}

// Unwrap exposes both the sentinel and the cause so errors.Is matches either.
func (e *PreconditionFailedError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrPreconditionFailed, e.Cause}
	}
	return []error{ErrPreconditionFailed}
}
