package responder

import (
	"log/slog"
	"net/http"

	"github.com/drblury/jsonweaver/config"
	"github.com/drblury/jsonweaver/encoder"
)

const (
	jsonContentType       = "application/json"
	javascriptContentType = "application/javascript"
	problemContentType    = "application/problem+json"
	statusDocBaseURL      = "https://httpstatuses.io"
)

// ErrorClassifierFunc inspects an error and returns the HTTP status that should
// be used for the response. The boolean indicates whether the error was
// classified and prevents the default classification from running.
type ErrorClassifierFunc func(err error) (status int, handled bool)

// TraceIDFunc generates the correlation identifier attached to problem
// documents.
type TraceIDFunc func() string

// ResponderOption follows the functional options pattern used by NewResponder
// to configure optional collaborators.
type ResponderOption func(*Responder)

type statusMeta struct {
	typeURI  string
	title    string
	logLevel slog.Level
	levelSet bool
	logMsg   string
}

// StatusMetadata allows callers to customise how particular HTTP status codes
// are logged and represented in error payloads. A nil LogLevel selects Error
// for 5xx statuses and Warn otherwise.
type StatusMetadata struct {
	TypeURI  string
	Title    string
	LogLevel slog.Leveler
	LogMsg   string
}

// Responder builds JSON responses from handler return values and renders
// errors as problem documents. It is read-only after construction and safe
// for concurrent use.
type Responder struct {
	log             *slog.Logger
	cfg             config.Config
	registry        *encoder.Registry
	statusMetadata  map[int]statusMeta
	errorClassifier ErrorClassifierFunc
	traceID         TraceIDFunc
}

// NewResponder constructs a Responder with the default configuration, the
// process-wide encoder registry and the global slog logger.
func NewResponder(opts ...ResponderOption) *Responder {
	r := &Responder{
		log:            slog.Default(),
		cfg:            config.Default(),
		registry:       encoder.DefaultRegistry(),
		statusMetadata: defaultStatusMetadata(),
		traceID:        NewTraceID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// WithLogger injects a custom slog logger for error reporting.
func WithLogger(logger *slog.Logger) ResponderOption {
	return func(r *Responder) {
		if logger != nil {
			r.log = logger
		}
	}
}

// WithConfig replaces the application-wide configuration.
func WithConfig(cfg config.Config) ResponderOption {
	normalized := cfg.Normalize()
	return func(r *Responder) {
		r.cfg = normalized
	}
}

// WithRegistry selects the hook registry consulted by the encoder.
func WithRegistry(registry *encoder.Registry) ResponderOption {
	return func(r *Responder) {
		if registry != nil {
			r.registry = registry
		}
	}
}

// WithErrorClassifier installs a classifier used by HandleErrors to derive the
// HTTP status code from returned errors.
func WithErrorClassifier(classifier ErrorClassifierFunc) ResponderOption {
	return func(r *Responder) {
		r.errorClassifier = classifier
	}
}

// WithTraceIDFunc replaces the ULID generator used for problem documents.
func WithTraceIDFunc(fn TraceIDFunc) ResponderOption {
	return func(r *Responder) {
		if fn != nil {
			r.traceID = fn
		}
	}
}

// WithStatusMetadata overrides the error metadata used for a specific HTTP
// status code.
func WithStatusMetadata(status int, meta StatusMetadata) ResponderOption {
	return func(r *Responder) {
		if r.statusMetadata == nil {
			r.statusMetadata = make(map[int]statusMeta)
		}
		m := statusMeta{
			typeURI: meta.TypeURI,
			title:   meta.Title,
			logMsg:  meta.LogMsg,
		}
		if meta.LogLevel != nil {
			m.logLevel = meta.LogLevel.Level()
			m.levelSet = true
		}
		r.statusMetadata[status] = normalizeStatusMeta(status, m)
	}
}

// Logger returns the slog logger used internally by the responder.
func (r *Responder) Logger() *slog.Logger {
	return r.logger()
}

// Config returns a copy of the configuration in use.
func (r *Responder) Config() config.Config {
	return r.cfg.Normalize()
}

func (r *Responder) logger() *slog.Logger {
	if r == nil || r.log == nil {
		return slog.Default()
	}
	return r.log
}

func defaultStatusMetadata() map[int]statusMeta {
	return map[int]statusMeta{
		http.StatusInternalServerError: {title: http.StatusText(http.StatusInternalServerError), logLevel: slog.LevelError, levelSet: true, logMsg: "Internal Server Error"},
		http.StatusBadRequest:          {title: http.StatusText(http.StatusBadRequest), logLevel: slog.LevelWarn, levelSet: true, logMsg: "Bad Request"},
	}
}
