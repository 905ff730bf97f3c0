// Package jsonp negotiates JSONP callbacks for JSON handlers.
//
// Resolve inspects the request query for a callback name, Wrap turns a
// handler result into either a plain JSON response or a
// "name(payload);" script response, and Handler ties both to an ordinary
// http.Handler. A bare Handle uses the responder's configuration; New accepts
// options that shadow it for the handlers it decorates.
package jsonp
