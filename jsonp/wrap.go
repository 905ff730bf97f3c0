package jsonp

import (
	"bytes"
	"strings"

	"github.com/drblury/jsonweaver/responder"
)

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Wrap renders v for decision d.
//
// Without a callback a *responder.Response is returned as is, a mapping
// recognised by responder.Fields is built with BuildFields and anything else
// with Build.
// With a callback the payload is the body of a given response, a string
// (quoted and escaped when addQuotes is set) or v encoded without a status
// field, and the result is a 200 application/javascript response.
func Wrap(r *responder.Responder, v any, d Decision, addQuotes bool) (*responder.Response, error) {
	if !d.Present() {
		if resp, ok := v.(*responder.Response); ok {
			return resp, nil
		}
		if fields, ok := responder.Fields(v); ok {
			return r.BuildFields(fields)
		}
		return r.Build(v)
	}

	payload, err := payloadFor(r, v, addQuotes)
	if err != nil {
		return nil, err
	}
	body := make([]byte, 0, len(d.Callback)+len(payload)+3)
	body = append(body, d.Callback...)
	body = append(body, '(')
	body = append(body, payload...)
	body = append(body, ");"...)
	return responder.NewJavaScriptResponse(body), nil
}

func payloadFor(r *responder.Responder, v any, addQuotes bool) ([]byte, error) {
	var (
		resp *responder.Response
		err  error
	)
	switch t := v.(type) {
	case *responder.Response:
		resp = t
	case string:
		if !addQuotes {
			return []byte(t), nil
		}
		return []byte(`"` + quoteEscaper.Replace(t) + `"`), nil
	default:
		if fields, ok := responder.Fields(v); ok {
			resp, err = r.BuildFields(fields, responder.WithAddStatus(false))
		} else {
			resp, err = r.Build(v, responder.WithAddStatus(false))
		}
	}
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(resp.Body(), " \t\r\n"), nil
}
