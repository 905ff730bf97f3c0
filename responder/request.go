package responder

import (
	"context"
	"net/http"
)

// Respond writes resp to w. Write failures are logged; the status line has
// already been sent at that point.
func (r *Responder) Respond(w http.ResponseWriter, resp *Response) {
	if w == nil || resp == nil {
		return
	}
	if err := resp.WriteTo(w); err != nil {
		r.logger().Error("failed to write response", "error", err)
	}
}

// RespondWithJSON builds v with the given status and writes it. Mappings
// recognised by Fields get the status field injected like BuildFields.
// Encoding failures are rendered through HandleErrors.
func (r *Responder) RespondWithJSON(w http.ResponseWriter, req *http.Request, status int, v any, opts ...BuildOption) {
	opts = append([]BuildOption{WithStatus(status)}, opts...)

	var (
		resp *Response
		err  error
	)
	if fields, ok := Fields(v); ok {
		resp, err = r.BuildFields(fields, opts...)
	} else {
		resp, err = r.Build(v, opts...)
	}
	if err != nil {
		r.HandleErrors(w, req, err, "failed to encode response")
		return
	}
	r.Respond(w, resp)
}

func requestInstance(req *http.Request) string {
	if req == nil || req.URL == nil {
		return ""
	}
	return req.URL.RequestURI()
}

func requestContext(req *http.Request) context.Context {
	if req == nil {
		return context.Background()
	}
	return req.Context()
}
