package qrdecode

import (
	"errors"
	"fmt"
)

// ErrSymbolNotFound is the not-found signal a SymbolDecoder returns when the
// pixel buffer contains no readable QR symbol.
var ErrSymbolNotFound = errors.New("no code found")

// DecodeError wraps any failure to turn image input into a payload string.
// It aborts the verification pipeline and is never downgraded to a validation
// outcome.
type DecodeError struct {
	Message    string
	Underlying error
}

func (e *DecodeError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("qr decode: %s: %v", e.Message, e.Underlying)
	}
	return fmt.Sprintf("qr decode: %s", e.Message)
}

func (e *DecodeError) Unwrap() error {
	return e.Underlying
}

// NewDecodeError builds a DecodeError with an optional underlying cause.
func NewDecodeError(message string, underlying error) *DecodeError {
	return &DecodeError{Message: message, Underlying: underlying}
}

// IsDecodeError reports whether err is (or wraps) a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
