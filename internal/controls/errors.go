package controls

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrMalformedControl matches every decode failure of a control value.
	ErrMalformedControl = errors.New("controls: malformed control value")

	// ErrEncode matches every failure to serialize a control value.
	ErrEncode = errors.New("controls: failed to encode control value")
)

// MalformedControlError reports why a control value could not be decoded.
type MalformedControlError struct {
	OID    string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *MalformedControlError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("controls: malformed %s value: %s: %v", e.OID, e.Reason, e.Err)
	}
	return fmt.Sprintf("controls: malformed %s value: %s", e.OID, e.Reason)
}

// Unwrap returns the underlying error.
func (e *MalformedControlError) Unwrap() error {
	return e.Err
}

// Is allows MalformedControlError to match ErrMalformedControl with errors.Is.
func (e *MalformedControlError) Is(target error) bool {
	return target == ErrMalformedControl
}

func malformed(oid, reason string, err error) *MalformedControlError {
	return &MalformedControlError{OID: oid, Reason: reason, Err: err}
}

// EncodeError reports a failure of the BER writer.
type EncodeError struct {
	OID string
	Err error
}

// Error implements the error interface.
func (e *EncodeError) Error() string {
	return fmt.Sprintf("controls: encode %s value: %v", e.OID, e.Err)
}

// Unwrap returns the underlying error.
func (e *EncodeError) Unwrap() error {
	return e.Err
}

// Is allows EncodeError to match ErrEncode with errors.Is.
func (e *EncodeError) Is(target error) bool {
	return target == ErrEncode
}
