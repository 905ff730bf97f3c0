// Package router serves JSON and JSONP handlers behind an http.ServeMux with
// panic recovery, OpenAPI validation, CORS, timeouts and request logging.
// ExampleNew shows how decorated handlers and custom middlewares combine.
package router
