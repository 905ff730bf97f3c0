package responder

import (
	"maps"
	"net/http"
	"reflect"

	"github.com/drblury/jsonweaver/config"
	"github.com/drblury/jsonweaver/encoder"
)

// BuildOption overrides configuration for a single Build or BuildFields call.
type BuildOption func(*buildSettings)

type buildSettings struct {
	status int
	json   config.JSON
	header http.Header
}

// WithStatus sets the HTTP status of the response. The default is 200.
func WithStatus(status int) BuildOption {
	return func(s *buildSettings) {
		s.status = status
	}
}

// WithAddStatus overrides json.add_status for one call.
func WithAddStatus(enabled bool) BuildOption {
	return func(s *buildSettings) {
		s.json.AddStatus = enabled
	}
}

// WithHeader adds a response header. Content-Type is always set by the
// builder.
func WithHeader(key, value string) BuildOption {
	return func(s *buildSettings) {
		s.header.Add(key, value)
	}
}

// WithTimeFormat overrides json.time_format for one call.
func WithTimeFormat(layout string) BuildOption {
	return func(s *buildSettings) {
		s.json.TimeFormat = layout
	}
}

// WithDateFormat overrides json.date_format for one call.
func WithDateFormat(layout string) BuildOption {
	return func(s *buildSettings) {
		s.json.DateFormat = layout
	}
}

// WithDateTimeFormat overrides json.datetime_format for one call.
func WithDateTimeFormat(layout string) BuildOption {
	return func(s *buildSettings) {
		s.json.DateTimeFormat = layout
	}
}

// WithEncodeMethods overrides json.use_encode_methods for one call.
func WithEncodeMethods(enabled bool) BuildOption {
	return func(s *buildSettings) {
		s.json.UseEncodeMethods = enabled
	}
}

// Build serialises v alone as the body. No status field is injected.
func (r *Responder) Build(v any, opts ...BuildOption) (*Response, error) {
	return r.build(v, r.settings(opts))
}

// BuildFields serialises fields as a JSON object. When status injection is
// enabled the status field is set to the response status, replacing any
// caller-supplied value under the same key.
func (r *Responder) BuildFields(fields map[string]any, opts ...BuildOption) (*Response, error) {
	s := r.settings(opts)
	payload := make(map[string]any, len(fields)+1)
	maps.Copy(payload, fields)
	if s.json.AddStatus {
		payload[s.json.StatusField] = s.status
	}
	return r.build(payload, s)
}

// Fields reports whether v is a mapping with string keys, such as
// map[string]string or bson.M, and returns a copy usable with BuildFields.
// Sets and values exposing AsJSON or ForJSON are not mappings.
func Fields(v any) (map[string]any, bool) {
	if fields, ok := v.(map[string]any); ok {
		return fields, true
	}
	switch v.(type) {
	case nil, encoder.AsJSONer, encoder.ForJSONer:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	t := rv.Type()
	if t.Kind() != reflect.Map || t.Key().Kind() != reflect.String {
		return nil, false
	}
	if elem := t.Elem(); elem.Kind() == reflect.Struct && elem.NumField() == 0 {
		return nil, false
	}
	fields := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		fields[iter.Key().String()] = iter.Value().Interface()
	}
	return fields, true
}

// Encoder returns an encoder configured from the responder's settings and
// opts.
func (r *Responder) Encoder(opts ...BuildOption) *encoder.Encoder {
	return r.encoderFor(r.settings(opts))
}

func (r *Responder) settings(opts []BuildOption) buildSettings {
	s := buildSettings{
		status: http.StatusOK,
		json:   r.cfg.JSON,
		header: make(http.Header),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.status == 0 {
		s.status = http.StatusOK
	}
	if s.json.StatusField == "" {
		s.json.StatusField = config.DefaultStatusField
	}
	return s
}

func (r *Responder) encoderFor(s buildSettings) *encoder.Encoder {
	return encoder.New(encoder.Options{
		TimeFormat:       s.json.TimeFormat,
		DateFormat:       s.json.DateFormat,
		DateTimeFormat:   s.json.DateTimeFormat,
		UseEncodeMethods: s.json.UseEncodeMethods,
		Registry:         r.registry,
	})
}

func (r *Responder) build(v any, s buildSettings) (*Response, error) {
	enc := r.encoderFor(s)

	var (
		body []byte
		err  error
	)
	if s.json.PrettyPrint {
		body, err = enc.MarshalIndent(v, "", "  ")
	} else {
		body, err = enc.Marshal(v)
	}
	if err != nil {
		return nil, err
	}
	if len(body) == 0 || body[len(body)-1] != '\n' {
		body = append(body, '\n')
	}

	s.header.Set("Content-Type", jsonContentType)
	return newResponse(s.status, s.header, body), nil
}
