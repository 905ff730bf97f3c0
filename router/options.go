package router

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/drblury/jsonweaver/config"
	"github.com/drblury/jsonweaver/responder"
)

// Middleware wraps an http.Handler to produce a new http.Handler.
type Middleware func(http.Handler) http.Handler

// Option configures the router via the functional options pattern.
type Option func(*options)

type options struct {
	config         config.HTTP
	logger         *slog.Logger
	responder      *responder.Responder
	swagger        *openapi3.T
	callbacks      *callbackNames
	prepend        []Middleware
	append         []Middleware
	override       []Middleware
	enableRecovery bool
	enableOpenAPI  bool
	enableCORS     bool
	enableTimeout  bool
	enableLogging  bool
}

func defaultOptions() *options {
	return &options{
		config:         config.Default().HTTP,
		logger:         slog.Default(),
		enableRecovery: true,
		enableOpenAPI:  true,
		enableCORS:     true,
		enableTimeout:  true,
		enableLogging:  true,
	}
}

func (o *options) middlewareChain() []Middleware {
	if len(o.override) > 0 {
		return slices.Clone(o.override)
	}

	chain := make([]Middleware, 0, len(o.prepend)+len(o.append)+5)
	chain = append(chain, o.prepend...)
	chain = append(chain, o.defaultMiddlewares()...)
	chain = append(chain, o.append...)
	return chain
}

// defaultMiddlewares orders the built-in chain outermost first: logging sees
// every request, recovery turns panics from everything below it into problem
// documents.
func (o *options) defaultMiddlewares() []Middleware {
	chain := make([]Middleware, 0, 5)

	if o.enableLogging && o.logger != nil {
		chain = append(chain, loggingMiddleware(o.logger, o.config.QuietdownRoutes, o.config.HideHeaders, o.callbacks))
	}
	if o.enableRecovery {
		chain = append(chain, recoveryMiddleware(o.responder))
	}
	if o.enableCORS && len(o.config.CORS.Origins) > 0 {
		chain = append(chain, corsMiddleware(o.config.CORS))
	}
	if o.enableTimeout && o.config.Timeout > 0 {
		chain = append(chain, timeoutMiddleware(o.config.Timeout))
	}
	if o.enableOpenAPI && o.swagger != nil {
		chain = append(chain, oapiMiddleware(o.swagger, o.responder))
	}

	return chain
}

// WithConfig replaces the HTTP section of the configuration.
func WithConfig(cfg config.HTTP) Option {
	cfg.QuietdownRoutes = slices.Clone(cfg.QuietdownRoutes)
	cfg.HideHeaders = slices.Clone(cfg.HideHeaders)
	cfg.CORS.Origins = slices.Clone(cfg.CORS.Origins)
	cfg.CORS.Methods = slices.Clone(cfg.CORS.Methods)
	cfg.CORS.Headers = slices.Clone(cfg.CORS.Headers)
	return func(o *options) {
		o.config = cfg
	}
}

// WithResponder sets the responder used for JSONP routes and for error
// documents written by the middleware chain. Its configuration governs the
// JSON and JSONP sections.
func WithResponder(r *responder.Responder) Option {
	return func(o *options) {
		o.responder = r
	}
}

// WithLogger provides the structured logger used by the logging middleware
// and by the default responder.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSwagger wires the OpenAPI document for request validation.
func WithSwagger(swagger *openapi3.T) Option {
	return func(o *options) {
		o.swagger = swagger
	}
}

// WithMiddlewares prepends custom middlewares ahead of the default chain.
func WithMiddlewares(middlewares ...Middleware) Option {
	return func(o *options) {
		o.prepend = append(o.prepend, middlewares...)
	}
}

// WithTrailingMiddlewares appends middlewares after the default chain.
func WithTrailingMiddlewares(middlewares ...Middleware) Option {
	return func(o *options) {
		o.append = append(o.append, middlewares...)
	}
}

// WithMiddlewareChain fully overrides the middleware chain with the provided sequence.
func WithMiddlewareChain(middlewares ...Middleware) Option {
	cloned := slices.Clone(middlewares)
	return func(o *options) {
		o.override = cloned
	}
}

// WithoutRecovery lets panics propagate to net/http.
func WithoutRecovery() Option {
	return func(o *options) { o.enableRecovery = false }
}

// WithoutOpenAPIValidation disables the OpenAPI validation middleware.
func WithoutOpenAPIValidation() Option {
	return func(o *options) { o.enableOpenAPI = false }
}

// WithoutCORSMiddleware disables the CORS middleware regardless of configuration.
func WithoutCORSMiddleware() Option {
	return func(o *options) { o.enableCORS = false }
}

// WithoutTimeoutMiddleware disables the timeout middleware.
func WithoutTimeoutMiddleware() Option {
	return func(o *options) { o.enableTimeout = false }
}

// WithoutLoggingMiddleware disables the logging middleware.
func WithoutLoggingMiddleware() Option {
	return func(o *options) { o.enableLogging = false }
}
