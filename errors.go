package rabinwilliams

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the ways a run can fail. None of them are recoverable by the caller
type ErrorKind int

const (
	// ResourceExhaustion means the random source could not supply the requested bytes,
	// or the request exceeded the source's buffer limit
	ResourceExhaustion ErrorKind = iota + 1
	// ArithmeticInvariantViolation means a cryptographic sanity check failed, e.g. a verification
	// witness was zero or not a perfect square
	ArithmeticInvariantViolation
	// TransientIO is an interrupted read. The source retries these itself; they are never returned
	TransientIO
)

func (k ErrorKind) String() string {
	switch k {
	case ResourceExhaustion:
		return "resource exhaustion"
	case ArithmeticInvariantViolation:
		return "arithmetic invariant violation"
	case TransientIO:
		return "transient io"
	default:
		return fmt.Sprintf("unknown error kind %d", int(k))
	}
}

var (
	ErrResourceExhaustion  = &Error{Kind: ResourceExhaustion}
	ErrArithmeticInvariant = &Error{Kind: ArithmeticInvariantViolation}
)

// An Error records the operation that failed and why
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Kind.String()
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so callers can write errors.Is(err, ErrResourceExhaustion)
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func resourceError(op string, format string, args ...interface{}) error {
	return &Error{Kind: ResourceExhaustion, Op: op, Err: fmt.Errorf(format, args...)}
}

func invariantError(op string, format string, args ...interface{}) error {
	return &Error{Kind: ArithmeticInvariantViolation, Op: op, Err: fmt.Errorf(format, args...)}
}
