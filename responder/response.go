package responder

import (
	"bytes"
	"net/http"
)

// Response is a fully built HTTP response. Accessors return copies so a
// Response cannot change once constructed.
type Response struct {
	status int
	header http.Header
	body   []byte
}

// NewResponse builds a Response with the given content type. A zero status
// means 200.
func NewResponse(status int, contentType string, body []byte) *Response {
	header := make(http.Header, 1)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	return newResponse(status, header, body)
}

// NewJavaScriptResponse builds a 200 application/javascript response.
func NewJavaScriptResponse(body []byte) *Response {
	return NewResponse(http.StatusOK, javascriptContentType, body)
}

func newResponse(status int, header http.Header, body []byte) *Response {
	if status == 0 {
		status = http.StatusOK
	}
	return &Response{
		status: status,
		header: header,
		body:   bytes.Clone(body),
	}
}

// Status returns the HTTP status code.
func (r *Response) Status() int {
	return r.status
}

// Header returns a copy of the response headers.
func (r *Response) Header() http.Header {
	return r.header.Clone()
}

// ContentType returns the Content-Type header.
func (r *Response) ContentType() string {
	return r.header.Get("Content-Type")
}

// Body returns a copy of the body.
func (r *Response) Body() []byte {
	return bytes.Clone(r.body)
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.body)
}

// WriteTo copies headers, status and body to w.
func (r *Response) WriteTo(w http.ResponseWriter) error {
	dst := w.Header()
	for key, values := range r.header {
		dst[key] = append([]string(nil), values...)
	}
	w.WriteHeader(r.status)
	_, err := w.Write(r.body)
	return err
}
