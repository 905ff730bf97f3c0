package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	oapiMW "github.com/oapi-codegen/nethttp-middleware"

	"github.com/drblury/jsonweaver/config"
	"github.com/drblury/jsonweaver/responder"
)

// ErrPanic wraps values recovered from panicking handlers.
var ErrPanic = errors.New("router: handler panicked")

func recoveryMiddleware(r *responder.Responder) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				r.HandleInternalServerError(w, req, fmt.Errorf("%w: %v", ErrPanic, rec), "recovered from panic")
			}()
			next.ServeHTTP(w, req)
		})
	}
}

func oapiMiddleware(swagger *openapi3.T, r *responder.Responder) Middleware {
	// Server URLs depend on deployment; only paths and parameters are checked.
	swagger.Servers = nil

	validatorOptions := &oapiMW.Options{
		Options: openapi3filter.Options{
			AuthenticationFunc: func(context.Context, *openapi3filter.AuthenticationInput) error {
				return nil
			},
		},
		ErrorHandler: func(w http.ResponseWriter, message string, statusCode int) {
			r.HandleAPIError(w, nil, statusCode, errors.New(message))
		},
	}
	return oapiMW.OapiRequestValidatorWithOptions(swagger, validatorOptions)
}

// statusRecorder captures the status code for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

func loggingMiddleware(logger *slog.Logger, quietdownRoutes []string, hideHeaders []string, callbacks *callbackNames) Middleware {
	quiet := slices.Clone(quietdownRoutes)
	hidden := slices.Clone(hideHeaders)

	logger.Debug("logging middleware configured", "quietdownRoutes", quiet, "hideHeaders", hidden)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if slices.Contains(quiet, req.URL.Path) {
				next.ServeHTTP(w, req)
				return
			}

			started := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, req)

			headers := req.Header.Clone()
			redactHeaders(headers, hidden)

			attrs := []any{
				"path", req.URL.Path,
				"method", req.Method,
				"header", headers,
				"status", rec.status,
				"duration", time.Since(started),
			}
			if cb := callbacks.lookup(req); cb != "" {
				attrs = append(attrs, "callback", cb)
			}
			if req.ContentLength > 0 {
				attrs = append(attrs, "contentLength", req.ContentLength)
			}
			logger.LogAttrs(req.Context(), slog.LevelDebug, "request", slog.Group("http", attrs...))
		})
	}
}

func corsMiddleware(cfg config.CORS) Middleware {
	origins := slices.Clone(cfg.Origins)
	methods := strings.Join(cfg.Methods, ",")
	headers := strings.Join(cfg.Headers, ",")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			origin := req.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, req)
				return
			}

			if slices.Contains(origins, "*") || slices.Contains(origins, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}

			if req.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				if cfg.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, req)
		})
	}
}

func timeoutMiddleware(timeout time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, http.StatusText(http.StatusServiceUnavailable))
	}
}

func redactHeaders(headers http.Header, hideHeaders []string) {
	for _, header := range hideHeaders {
		canonical := http.CanonicalHeaderKey(header)
		values, exists := headers[canonical]
		if !exists {
			continue
		}

		size := 0
		for _, value := range values {
			size += len(value)
		}
		headers[canonical] = []string{fmt.Sprintf("[REDACTED - %d bytes]", size)}
	}
}
