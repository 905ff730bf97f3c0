package jsonp

import (
	"net/http"
	"slices"

	"github.com/drblury/jsonweaver/responder"
)

// HandlerFunc produces the value to render for a request.
type HandlerFunc func(*http.Request) (any, error)

// Option shadows a JSONP setting of the responder's configuration.
type Option func(*settings)

type settings struct {
	callbacks []string
	optional  *bool
	quotes    *bool
}

// WithCallbacks replaces the query parameters inspected for a callback.
func WithCallbacks(names ...string) Option {
	return func(s *settings) {
		s.callbacks = slices.Clone(names)
	}
}

// WithOptional controls whether a missing callback is an error.
func WithOptional(optional bool) Option {
	return func(s *settings) {
		s.optional = &optional
	}
}

// WithStringQuotes controls quoting of string payloads.
func WithStringQuotes(quotes bool) Option {
	return func(s *settings) {
		s.quotes = &quotes
	}
}

// Decorator holds JSONP settings shared by the handlers it decorates.
type Decorator struct {
	responder *responder.Responder
	callbacks []string
	optional  bool
	quotes    bool
}

// New returns a Decorator whose settings default to r's configuration and
// are overridden by opts.
func New(r *responder.Responder, opts ...Option) *Decorator {
	if r == nil {
		r = responder.NewResponder()
	}
	var s settings
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}

	cfg := r.Config().JSONP
	d := &Decorator{
		responder: r,
		callbacks: cfg.QueryCallbacks,
		optional:  cfg.Optional,
		quotes:    cfg.StringQuotes,
	}
	if len(s.callbacks) > 0 {
		d.callbacks = s.callbacks
	}
	if s.optional != nil {
		d.optional = *s.optional
	}
	if s.quotes != nil {
		d.quotes = *s.quotes
	}
	return d
}

// Handle decorates fn using r's configuration.
func Handle(r *responder.Responder, fn HandlerFunc) *Handler {
	return New(r).Handle(fn)
}

// Handle decorates fn with the decorator's settings.
func (d *Decorator) Handle(fn HandlerFunc) *Handler {
	return &Handler{decorator: d, fn: fn}
}

// Callbacks returns the query parameter names inspected, in order.
func (d *Decorator) Callbacks() []string {
	return slices.Clone(d.callbacks)
}

// Handler is an http.Handler rendering the result of a HandlerFunc as JSON
// or JSONP.
type Handler struct {
	decorator *Decorator
	fn        HandlerFunc
}

// Respond runs the handler function and wraps its result for req. The
// function runs before the callback is resolved.
func (h *Handler) Respond(req *http.Request) (*responder.Response, error) {
	v, err := h.fn(req)
	if err != nil {
		return nil, err
	}
	d := h.decorator
	decision, err := Resolve(req.URL.Query(), d.callbacks, d.optional)
	if err != nil {
		return nil, err
	}
	return Wrap(d.responder, v, decision, d.quotes)
}

// ServeHTTP writes the wrapped response, or a problem document when the
// handler, resolution or encoding fails.
func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r := h.decorator.responder
	resp, err := h.Respond(req)
	if err != nil {
		r.HandleErrors(w, req, err)
		return
	}
	r.Respond(w, resp)
}
