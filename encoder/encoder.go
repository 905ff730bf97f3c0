package encoder

import (
	"cmp"
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/drblury/jsonweaver/jsonutil"
)

// maxDepth bounds recursion through nested values and hook substitutes.
const maxDepth = 1000

// Options configures an Encoder. The zero value renders ISO-8601 dates,
// ignores capability methods and consults the process-wide registry.
type Options struct {
	TimeFormat       string
	DateFormat       string
	DateTimeFormat   string
	UseEncodeMethods bool
	Registry         *Registry
}

// Encoder resolves values according to its Options. It holds no mutable state
// of its own and can be shared.
type Encoder struct {
	opts  Options
	hooks *Registry
}

// New returns an Encoder for opts.
func New(opts Options) *Encoder {
	hooks := opts.Registry
	if hooks == nil {
		hooks = defaultRegistry
	}
	return &Encoder{opts: opts, hooks: hooks}
}

// Options returns the configuration the encoder was built with.
func (e *Encoder) Options() Options {
	return e.opts
}

// Encode returns a substitute for v made only of values the base serializer
// understands.
func (e *Encoder) Encode(v any) (any, error) {
	return e.encode(v, 0)
}

// Marshal encodes v and serialises the result.
func (e *Encoder) Marshal(v any) ([]byte, error) {
	out, err := e.Encode(v)
	if err != nil {
		return nil, err
	}
	return jsonutil.Marshal(out)
}

// MarshalIndent is like Marshal with indentation.
func (e *Encoder) MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	out, err := e.Encode(v)
	if err != nil {
		return nil, err
	}
	return jsonutil.MarshalIndent(out, prefix, indent)
}

func (e *Encoder) encode(v any, depth int) (any, error) {
	if depth > maxDepth {
		return nil, unsupported(reflect.TypeOf(v), fmt.Sprintf("nesting exceeds %d levels", maxDepth))
	}
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	if isScalar(rv.Kind()) {
		return v, nil
	}
	if nilable(rv.Kind()) && rv.IsNil() {
		return nil, nil
	}
	if s, ok := e.formatTime(v); ok {
		return s, nil
	}

	switch t := v.(type) {
	case bson.D:
		return e.encodeDocument(t, depth)
	case json.Marshaler, encoding.TextMarshaler:
		return v, nil
	}

	// Containers exposing AsJSON or ForJSON go through the capability rule
	// below, like structs do.
	if !hasCapability(v) {
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			if isScalar(rv.Type().Elem().Kind()) {
				return v, nil
			}
			return e.encodeList(rv, depth)
		case reflect.Map:
			if isSet(rv.Type()) {
				return e.encodeSet(rv, depth)
			}
			if rv.Type().Key().Kind() == reflect.String && isScalar(rv.Type().Elem().Kind()) {
				return v, nil
			}
			return e.encodeMap(rv, depth)
		}
	}

	if d, ok := v.(Deferred); ok {
		return d.Resolve(), nil
	}
	if isSequence(rv.Type()) {
		return e.encodeSequence(rv, depth)
	}
	if out, ok := e.hooks.lookup(v); ok {
		return e.encode(out, depth+1)
	}
	if e.opts.UseEncodeMethods {
		if out, ok := capability(v); ok {
			return e.encode(out, depth+1)
		}
	} else if hasCapability(v) {
		return nil, unsupported(rv.Type(), "encode methods are disabled")
	}

	switch rv.Kind() {
	case reflect.Pointer:
		return e.encode(rv.Elem().Interface(), depth+1)
	case reflect.Struct:
		return e.encodeStruct(rv, depth)
	}
	return nil, unsupported(rv.Type(), "")
}

func (e *Encoder) encodeList(rv reflect.Value, depth int) (any, error) {
	out := make([]any, rv.Len())
	for i := range out {
		item, err := e.encode(rv.Index(i).Interface(), depth+1)
		if err != nil {
			return nil, err
		}
		out[i] = item
	}
	return out, nil
}

func (e *Encoder) encodeMap(rv reflect.Value, depth int) (any, error) {
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key, err := mapKey(iter.Key())
		if err != nil {
			return nil, err
		}
		item, err := e.encode(iter.Value().Interface(), depth+1)
		if err != nil {
			return nil, err
		}
		out[key] = item
	}
	return out, nil
}

func (e *Encoder) encodeSet(rv reflect.Value, depth int) (any, error) {
	keys := rv.MapKeys()
	sortValues(keys)
	out := make([]any, len(keys))
	for i, key := range keys {
		item, err := e.encode(key.Interface(), depth+1)
		if err != nil {
			return nil, err
		}
		out[i] = item
	}
	return out, nil
}

func (e *Encoder) encodeSequence(rv reflect.Value, depth int) (any, error) {
	out := make([]any, 0)
	for item := range rv.Seq() {
		enc, err := e.encode(item.Interface(), depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, enc)
	}
	return out, nil
}

func (e *Encoder) encodeDocument(doc bson.D, depth int) (any, error) {
	out := make(Object, 0, len(doc))
	for _, elem := range doc {
		item, err := e.encode(elem.Value, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, Member{Key: elem.Key, Value: item})
	}
	return out, nil
}

func mapKey(key reflect.Value) (string, error) {
	if key.Kind() == reflect.String {
		return key.String(), nil
	}
	if tm, ok := key.Interface().(encoding.TextMarshaler); ok {
		if key.Kind() == reflect.Pointer && key.IsNil() {
			return "", nil
		}
		text, err := tm.MarshalText()
		if err != nil {
			return "", fmt.Errorf("encoder: map key %s: %w", key.Type(), err)
		}
		return string(text), nil
	}
	switch key.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(key.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(key.Uint(), 10), nil
	}
	return "", unsupported(key.Type(), "unsupported map key type")
}

func isScalar(kind reflect.Kind) bool {
	switch kind {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func nilable(kind reflect.Kind) bool {
	switch kind {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return true
	}
	return false
}

func isSet(t reflect.Type) bool {
	elem := t.Elem()
	return elem.Kind() == reflect.Struct && elem.NumField() == 0
}

// isSequence matches receive channels and functions shaped like
// iter.Seq[T].
func isSequence(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan:
		return t.ChanDir()&reflect.RecvDir != 0
	case reflect.Func:
		if t.NumIn() != 1 || t.NumOut() != 0 || t.IsVariadic() {
			return false
		}
		yield := t.In(0)
		return yield.Kind() == reflect.Func &&
			yield.NumIn() == 1 && yield.NumOut() == 1 &&
			yield.Out(0).Kind() == reflect.Bool
	}
	return false
}

// sortValues orders set members of ordered kinds. Other kinds keep map
// iteration order.
func sortValues(values []reflect.Value) {
	if len(values) < 2 {
		return
	}
	switch values[0].Kind() {
	case reflect.String:
		slices.SortFunc(values, func(a, b reflect.Value) int { return cmp.Compare(a.String(), b.String()) })
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		slices.SortFunc(values, func(a, b reflect.Value) int { return cmp.Compare(a.Int(), b.Int()) })
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		slices.SortFunc(values, func(a, b reflect.Value) int { return cmp.Compare(a.Uint(), b.Uint()) })
	case reflect.Float32, reflect.Float64:
		slices.SortFunc(values, func(a, b reflect.Value) int { return cmp.Compare(a.Float(), b.Float()) })
	}
}
