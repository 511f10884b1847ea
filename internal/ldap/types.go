package ldap

import (
	"errors"
	"fmt"
)

// Context-specific tags for Controls
const (
	ContextTagControls = 0 // [0] Controls OPTIONAL
)

// Control represents an LDAP control as defined in RFC 4511 Section 4.1.11
// Control ::= SEQUENCE {
//
//	controlType             LDAPOID,
//	criticality             BOOLEAN DEFAULT FALSE,
//	controlValue            OCTET STRING OPTIONAL
//
// }
type Control struct {
	// OID is the control type OID
	OID string
	// Criticality indicates whether the control is critical
	Criticality bool
	// Value is the optional control value
	Value []byte
}

// Errors for control parsing
var (
	// ErrInvalidControlSequence is returned when controls are malformed
	ErrInvalidControlSequence = errors.New("ldap: invalid control sequence")

	// ErrInvalidControlOID is returned when a control OID is invalid
	ErrInvalidControlOID = errors.New("ldap: invalid control OID")

	// ErrEmptyControl is returned when trying to parse empty data
	ErrEmptyControl = errors.New("ldap: empty control data")
)

// Errors for message envelopes
var (
	ErrEmptyMessage     = errors.New("ldap: empty message")
	ErrInvalidMessage   = errors.New("ldap: invalid message envelope")
	ErrInvalidMessageID = errors.New("ldap: messageID out of range")
	ErrMissingOperation = errors.New("ldap: missing protocolOp")
	ErrInvalidOperation = errors.New("ldap: protocolOp must have APPLICATION tag class")
)

// ParseError provides detailed information about a parsing failure
type ParseError struct {
	Offset  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ldap: parse error at offset %d: %s: %v", e.Offset, e.Message, e.Err)
	}
	return fmt.Sprintf("ldap: parse error at offset %d: %s", e.Offset, e.Message)
}

// Unwrap returns the underlying error
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(offset int, message string, err error) *ParseError {
	return &ParseError{
		Offset:  offset,
		Message: message,
		Err:     err,
	}
}
