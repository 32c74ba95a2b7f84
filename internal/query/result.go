package query

import "fmt"

// Query error codes (E300-E399).
const (
	ErrCodeNotFound         = "E301" // no record for the id or signature
	ErrCodeInvalidSignature = "E302" // signature text is not 3 hex bytes
)

// Status distinguishes the outcomes of a lookup.
type Status int

const (
	Found Status = iota
	NotFound
	Invalid
)

func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	case Invalid:
		return "invalid"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the outcome of a find operation. Value is only meaningful when
// Status is Found.
type Result[T any] struct {
	Status Status
	Value  T
	err    error
}

func found[T any](v T) Result[T] {
	return Result[T]{Status: Found, Value: v}
}

func notFound[T any](err *NotFoundError) Result[T] {
	return Result[T]{Status: NotFound, err: err}
}

func invalid[T any](err *InvalidSignatureError) Result[T] {
	return Result[T]{Status: Invalid, err: err}
}

// OK reports whether the lookup found a record.
func (r Result[T]) OK() bool {
	return r.Status == Found
}

// Err returns *NotFoundError or *InvalidSignatureError, or nil when Found.
func (r Result[T]) Err() error {
	return r.err
}

// NotFoundError reports a lookup that matched no record.
type NotFoundError struct {
	Namespace string // "programmer", "part" or "signature"
	Key       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Namespace, e.Key)
}

// Code returns the error code.
func (e *NotFoundError) Code() string { return ErrCodeNotFound }

// InvalidSignatureError reports signature text that does not denote exactly
// three bytes.
type InvalidSignatureError struct {
	Input  string
	Reason string
}

func (e *InvalidSignatureError) Error() string {
	return fmt.Sprintf("invalid signature %q: %s", e.Input, e.Reason)
}

// Code returns the error code.
func (e *InvalidSignatureError) Code() string { return ErrCodeInvalidSignature }
