// Package responder builds JSON responses from handler return values and
// renders errors as RFC 9457 problem documents.
//
// Build serialises a single value; BuildFields serialises named values as an
// object and injects the status field configured in config.JSON. Per-call
// BuildOption values take precedence over the Responder's configuration,
// which takes precedence over built-in defaults. See ExampleResponder_BuildFields
// for the resulting bodies.
package responder
