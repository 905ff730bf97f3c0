package encoder

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNotSerializable is wrapped by every error reporting a value that could
// not be resolved.
var ErrNotSerializable = errors.New("encoder: value is not JSON serializable")

// UnsupportedValueError names the type that exhausted every rule.
type UnsupportedValueError struct {
	Type   reflect.Type
	Reason string
}

func (e *UnsupportedValueError) Error() string {
	msg := fmt.Sprintf("encoder: object of type %s is not JSON serializable", e.Type)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *UnsupportedValueError) Unwrap() error {
	return ErrNotSerializable
}

func unsupported(t reflect.Type, reason string) error {
	return &UnsupportedValueError{Type: t, Reason: reason}
}
