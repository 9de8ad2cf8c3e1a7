package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/fnhost/pkg/function"
	"github.com/dmitrymomot/fnhost/pkg/wire"
)

const (
	// InternalErrorMessage is the only failure body sent when error details
	// are disabled.
	InternalErrorMessage = "Unexpected internal error"
	// DecodeErrorMessage is the body of a 400 answer to an unrecognized event.
	DecodeErrorMessage = "Failed to decode CloudEvent"
	// OKMessage is the body of a successful event invocation.
	OKMessage = "ok"
)

// Normalizer maps every Outcome to a well-formed wire.Response.
type Normalizer struct {
	// ShowErrorDetails includes the failure type, message and stack in
	// response bodies. When false every failure body is InternalErrorMessage.
	ShowErrorDetails bool
}

// Normalize converts out into a response. r is passed to native renderers.
func (n Normalizer) Normalize(r *http.Request, out function.Outcome) wire.Response {
	switch out.Kind {
	case function.OutcomeExplicit:
		return out.Response
	case function.OutcomeNative:
		resp, err := finalize(r, out.Renderer)
		if err != nil {
			return n.Failure(function.Capture(err))
		}
		return resp
	case function.OutcomeText:
		return wire.New(http.StatusOK, "text/plain; charset=utf-8", out.Text)
	case function.OutcomeStructured:
		body, err := canonicalJSON(out.Value)
		if err != nil {
			return n.Failure(function.Capture(err))
		}
		return wire.New(http.StatusOK, "application/json", body)
	case function.OutcomeFailure:
		return n.Failure(out.Failure)
	}
	return n.Failure(function.Capture(fmt.Errorf("%w: outcome kind %s", function.ErrUnexpectedResponse, out.Kind)))
}

// Failure renders a 500 response for f.
func (n Normalizer) Failure(f *function.Failure) wire.Response {
	if !n.ShowErrorDetails || f == nil {
		return wire.Text(http.StatusInternalServerError, InternalErrorMessage)
	}
	return wire.Text(http.StatusInternalServerError, fmt.Sprintf("%s: %s\n%s", f.TypeName(), f.Error(), f.Stack))
}

// DecodeFailure renders the 400 response for a request that could not be
// decoded as an event.
func (n Normalizer) DecodeFailure(err error) wire.Response {
	if !n.ShowErrorDetails || err == nil {
		return wire.Text(http.StatusBadRequest, DecodeErrorMessage)
	}
	return wire.Text(http.StatusBadRequest, fmt.Sprintf("%s: %T: %s", DecodeErrorMessage, err, err.Error()))
}

// canonicalJSON encodes v with sorted map keys and without HTML escaping.
func canonicalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// finalize renders a native response into the wire shape.
func finalize(r *http.Request, rr function.Renderer) (wire.Response, error) {
	rec := &recorder{header: make(http.Header)}
	if err := rr.Render(rec, r); err != nil {
		return wire.Response{}, err
	}
	status := rec.status
	if status == 0 {
		status = http.StatusOK
	}
	return wire.ReadFrom(status, rec.header, &rec.body)
}

// recorder buffers a rendered response.
type recorder struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (rec *recorder) Header() http.Header { return rec.header }

func (rec *recorder) WriteHeader(code int) {
	if rec.status == 0 {
		rec.status = code
	}
}

func (rec *recorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	return rec.body.Write(b)
}
