package jsonp

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ErrMissingCallback reports that a required callback parameter was absent.
var ErrMissingCallback = errors.New("jsonp: callback parameter is required")

// MissingCallbackError lists the parameter names that were inspected.
type MissingCallbackError struct {
	Names []string
}

func (e *MissingCallbackError) Error() string {
	if len(e.Names) == 0 {
		return ErrMissingCallback.Error()
	}
	return fmt.Sprintf("%s: expected one of %s", ErrMissingCallback, strings.Join(e.Names, ", "))
}

func (e *MissingCallbackError) Unwrap() error { return ErrMissingCallback }

// HTTPStatus maps the error to 400 Bad Request.
func (e *MissingCallbackError) HTTPStatus() int { return http.StatusBadRequest }

// Decision is the outcome of callback resolution. The zero value means no
// callback.
type Decision struct {
	Callback string
}

// Present reports whether a callback was found.
func (d Decision) Present() bool { return d.Callback != "" }

// Resolve returns the callback named by the first of names carrying a
// non-empty value in query. When none does and optional is false it returns
// a *MissingCallbackError.
func Resolve(query url.Values, names []string, optional bool) (Decision, error) {
	for _, name := range names {
		if cb := query.Get(name); cb != "" {
			return Decision{Callback: cb}, nil
		}
	}
	if optional {
		return Decision{}, nil
	}
	return Decision{}, &MissingCallbackError{Names: append([]string(nil), names...)}
}
