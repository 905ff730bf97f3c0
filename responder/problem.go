package responder

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/drblury/jsonweaver/jsonutil"
)

// ProblemDetails aligns HTTP error responses with RFC 9457 problem documents.
type ProblemDetails struct {
	Type      string `json:"type,omitempty"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Instance  string `json:"instance,omitempty"`
	TraceID   string `json:"traceId,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// StatusCoder is implemented by errors that know which HTTP status they map
// to, such as a missing JSONP callback.
type StatusCoder interface {
	HTTPStatus() int
}

// HandleAPIError renders a problem document for the supplied HTTP status and
// logs it using the configured logger.
func (r *Responder) HandleAPIError(w http.ResponseWriter, req *http.Request, status int, err error, logMsg ...string) {
	if err == nil {
		return
	}

	meta := r.statusMetaFor(status)
	problem := r.buildProblemDetails(req, status, err, meta)
	r.logProblem(req, meta, err, problem.TraceID, status, logMsg)

	body, encErr := jsonutil.Marshal(problem)
	if encErr != nil {
		r.logger().Error("failed to encode problem document", "error", encErr)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	r.Respond(w, NewResponse(status, problemContentType, append(body, '\n')))
}

// HandleInternalServerError is a shortcut that reports a 500 status code.
func (r *Responder) HandleInternalServerError(w http.ResponseWriter, req *http.Request, err error, logMsg ...string) {
	r.HandleAPIError(w, req, http.StatusInternalServerError, err, logMsg...)
}

// HandleBadRequestError reports client input errors using HTTP 400.
func (r *Responder) HandleBadRequestError(w http.ResponseWriter, req *http.Request, err error, logMsg ...string) {
	r.HandleAPIError(w, req, http.StatusBadRequest, err, logMsg...)
}

// HandleErrors derives the status from err and renders a problem document.
// The configured classifier runs first, then errors implementing StatusCoder
// are honoured. Everything else, including values the encoder could not
// serialise, is reported as 500.
func (r *Responder) HandleErrors(w http.ResponseWriter, req *http.Request, err error, msgs ...string) {
	if err == nil {
		return
	}
	r.HandleAPIError(w, req, r.StatusFor(err), err, msgs...)
}

// StatusFor returns the HTTP status HandleErrors would use for err.
func (r *Responder) StatusFor(err error) int {
	if r.errorClassifier != nil {
		if status, handled := r.errorClassifier(err); handled {
			return status
		}
	}
	var coder StatusCoder
	if errors.As(err, &coder) {
		if status := coder.HTTPStatus(); status >= 400 && status < 600 {
			return status
		}
	}
	return http.StatusInternalServerError
}

func (r *Responder) statusMetaFor(status int) statusMeta {
	meta, ok := r.statusMetadata[status]
	if !ok {
		meta = statusMeta{}
	}
	return normalizeStatusMeta(status, meta)
}

func (r *Responder) buildProblemDetails(req *http.Request, status int, err error, meta statusMeta) ProblemDetails {
	return ProblemDetails{
		Type:      meta.typeURI,
		Title:     meta.title,
		Status:    status,
		Detail:    err.Error(),
		Instance:  requestInstance(req),
		TraceID:   r.traceID(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func (r *Responder) logProblem(req *http.Request, meta statusMeta, err error, traceID string, status int, msgs []string) {
	logger := r.logger().With("error", err.Error(), "traceId", traceID, "status", status)
	if len(msgs) > 0 {
		logger = logger.With("logMessages", msgs)
	}
	logger.Log(requestContext(req), meta.logLevel, meta.logMsg)
}

func normalizeStatusMeta(status int, meta statusMeta) statusMeta {
	if !meta.levelSet {
		meta.logLevel = slog.LevelWarn
		if status >= 500 {
			meta.logLevel = slog.LevelError
		}
		meta.levelSet = true
	}
	if meta.title == "" {
		meta.title = http.StatusText(status)
	}
	if meta.logMsg == "" {
		meta.logMsg = meta.title
	}
	if meta.typeURI == "" {
		meta.typeURI = fmt.Sprintf("%s/%d", statusDocBaseURL, status)
	}
	return meta
}
