package router

import (
	"net/http"
	"slices"
	"sync"

	"github.com/drblury/jsonweaver/jsonp"
	"github.com/drblury/jsonweaver/responder"
)

// Router dispatches requests through the configured middleware chain to the
// routes registered on it. Routes may be added after New; the chain is fixed
// at construction.
type Router struct {
	mux       *http.ServeMux
	handler   http.Handler
	responder *responder.Responder
	callbacks *callbackNames
}

// New returns a Router configured with opts.
func New(opts ...Option) *Router {
	settings := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(settings)
		}
	}
	if settings.responder == nil {
		settings.responder = responder.NewResponder(responder.WithLogger(settings.logger))
	}

	settings.callbacks = newCallbackNames(settings.responder.Config().JSONP.QueryCallbacks)

	rt := &Router{
		mux:       http.NewServeMux(),
		responder: settings.responder,
		callbacks: settings.callbacks,
	}
	rt.handler = applyMiddlewares(rt.mux, settings.middlewareChain())
	return rt
}

// Responder returns the responder used for JSONP routes and error documents.
func (rt *Router) Responder() *responder.Responder {
	return rt.responder
}

// Handle registers h for pattern using http.ServeMux pattern syntax.
func (rt *Router) Handle(pattern string, h http.Handler) {
	if h == nil {
		panic("router: handler cannot be nil")
	}
	rt.mux.Handle(pattern, h)
}

// HandleFunc registers fn for pattern.
func (rt *Router) HandleFunc(pattern string, fn http.HandlerFunc) {
	rt.Handle(pattern, fn)
}

// HandleJSONP registers fn decorated for JSONP. Without opts the callback
// settings come from the responder's configuration.
func (rt *Router) HandleJSONP(pattern string, fn jsonp.HandlerFunc, opts ...jsonp.Option) *jsonp.Handler {
	if fn == nil {
		panic("router: handler func cannot be nil")
	}
	d := jsonp.New(rt.responder, opts...)
	rt.callbacks.add(d.Callbacks())
	h := d.Handle(fn)
	rt.mux.Handle(pattern, h)
	return h
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	rt.handler.ServeHTTP(w, req)
}

func applyMiddlewares(handler http.Handler, middlewares []Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] == nil {
			continue
		}
		handler = middlewares[i](handler)
	}
	return handler
}

// callbackNames collects the query parameters any JSONP route accepts, for
// the request log.
type callbackNames struct {
	mu    sync.RWMutex
	names []string
}

func newCallbackNames(names []string) *callbackNames {
	c := &callbackNames{}
	c.add(names)
	return c
}

func (c *callbackNames) add(names []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, name := range names {
		if name != "" && !slices.Contains(c.names, name) {
			c.names = append(c.names, name)
		}
	}
}

// lookup returns the first callback value present in req's query.
func (c *callbackNames) lookup(req *http.Request) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	query := req.URL.Query()
	for _, name := range c.names {
		if v := query.Get(name); v != "" {
			return v
		}
	}
	return ""
}
