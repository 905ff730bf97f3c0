// Package encoder turns arbitrary Go values into trees the base JSON
// serializer understands.
//
// Every value is resolved in a fixed order and the first matching rule wins:
//
//  1. primitives: nil, booleans, numbers, strings, json.Marshaler and
//     encoding.TextMarshaler implementations, plus slices, arrays and maps
//     whose elements are resolved recursively (bson.D keeps its key order)
//  2. date and time values (time.Time, civil.Date, civil.Time,
//     civil.DateTime, primitive.DateTime, primitive.Timestamp) rendered with
//     the configured layout or ISO-8601; these are checked before the
//     json.Marshaler rule so layouts always apply
//  3. Deferred values, resolved to their text
//  4. sets (map[K]struct{}), range-over-func sequences and receive channels,
//     materialised into arrays
//  5. hooks from the Registry, in registration order
//  6. AsJSONer, then ForJSONer, when Options.UseEncodeMethods is set
//  7. pointers (dereferenced) and structs (encoded field by field using json
//     struct tags)
//
// Slices, arrays and maps whose type implements AsJSONer or ForJSONer skip
// rule 1 and are handled by rules 5 and 6: substituted when encode methods
// are enabled, rejected as not serializable otherwise.
//
// Anything else fails with an *UnsupportedValueError wrapping
// ErrNotSerializable.
//
// # Hook lifecycle
//
// Hooks live in a Registry. Register adds to the process-wide registry used
// when Options.Registry is nil. Registries are not synchronised: register
// every hook during initialisation, before the first request is served.
// Registering while requests are being encoded is a data race.
package encoder
