// Package jsonweaver turns handler return values into JSON HTTP responses and
// optionally wraps them in JSONP callbacks negotiated from the query string.
//
// The encoder package reduces arbitrary values (dates and times, sets,
// sequences, BSON documents, values exposing AsJSON/ForJSON) to data the
// sonic-backed jsonutil package can serialise, consulting a registry of
// hooks first. The responder package builds responses from those values,
// injects the configured status field and renders failures as problem
// documents. The jsonp package resolves callbacks and produces
// "name(payload);" responses, and router serves decorated handlers behind a
// middleware chain.
//
// # Packages
//
//   - config: YAML-loadable settings for the JSON, JSONP and HTTP layers.
//   - encoder: value reduction with formats, hooks and capabilities.
//   - responder: JSON response building and RFC 9457 error documents.
//   - jsonp: callback resolution, wrapping and handler decoration.
//   - router: http.ServeMux wrapper with recovery, OpenAPI validation, CORS,
//     timeouts and request logging.
//   - jsonutil: thin sonic wrappers.
//
// # Quick Start
//
//	cfg, err := config.LoadFile("jsonweaver.yaml")
//	if err != nil {
//	    return err
//	}
//	resp := responder.NewResponder(responder.WithConfig(cfg), responder.WithLogger(logger))
//
//	rt := router.New(router.WithResponder(resp), router.WithConfig(cfg.HTTP))
//	rt.HandleJSONP("GET /feed", func(r *http.Request) (any, error) {
//	    return map[string]any{"items": items}, nil
//	})
//
// A request to /feed?callback=render answers
// render({"items":[...]}); as application/javascript, while /feed alone
// answers the JSON object with the status field injected.
package jsonweaver
