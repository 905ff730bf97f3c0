package encoder

// AsJSONer is the primary encode capability. When both capabilities are
// implemented AsJSON wins.
type AsJSONer interface {
	AsJSON() any
}

// ForJSONer is the secondary encode capability, used only when AsJSON is not
// implemented.
type ForJSONer interface {
	ForJSON() any
}

// Deferred is a text value computed on demand, such as a translated message.
type Deferred interface {
	Resolve() string
}

// LazyString defers building a string until it is encoded.
type LazyString func() string

// Resolve calls the wrapped function.
func (f LazyString) Resolve() string {
	if f == nil {
		return ""
	}
	return f()
}

func capability(v any) (any, bool) {
	if c, ok := v.(AsJSONer); ok {
		return c.AsJSON(), true
	}
	if c, ok := v.(ForJSONer); ok {
		return c.ForJSON(), true
	}
	return nil, false
}

func hasCapability(v any) bool {
	switch v.(type) {
	case AsJSONer, ForJSONer:
		return true
	}
	return false
}
