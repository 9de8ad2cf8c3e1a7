package cloudevent

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/cloudevents/sdk-go/v2/binding"
	"github.com/cloudevents/sdk-go/v2/event"
	cehttp "github.com/cloudevents/sdk-go/v2/protocol/http"
)

// Decoder turns an inbound request into an event.
// Decode returns (nil, nil) when the request is not in the decoder's format.
type Decoder interface {
	Decode(r *http.Request) (*event.Event, error)
}

// DecoderFunc adapts a plain function to Decoder.
type DecoderFunc func(r *http.Request) (*event.Event, error)

func (f DecoderFunc) Decode(r *http.Request) (*event.Event, error) { return f(r) }

// Chain tries decoders in order and returns the first event produced.
type Chain []Decoder

// DefaultChain tries the CloudEvents HTTP bindings first, then the legacy
// background-function envelope.
func DefaultChain() Chain {
	return Chain{CloudEventDecoder{}, LegacyDecoder{}}
}

// Decode buffers the request body so every decoder sees it in full. Each
// decoder gets its own clone of r; r itself is never modified.
// It fails with ErrUnknownEventType when no decoder recognizes the request.
func (c Chain) Decode(r *http.Request) (*event.Event, error) {
	body, err := readBody(r)
	if err != nil {
		return nil, errors.Join(ErrReadBody, err)
	}
	for _, d := range c {
		req := r.Clone(r.Context())
		req.Body = io.NopCloser(bytes.NewReader(body))
		e, err := d.Decode(req)
		if err != nil {
			return nil, err
		}
		if e != nil {
			return e, nil
		}
	}
	return nil, ErrUnknownEventType
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}

// CloudEventDecoder decodes CloudEvents in structured or binary content mode.
type CloudEventDecoder struct{}

func (CloudEventDecoder) Decode(r *http.Request) (*event.Event, error) {
	msg := cehttp.NewMessageFromHttpRequest(r)
	defer func() { _ = msg.Finish(nil) }()

	if msg.ReadEncoding() == binding.EncodingUnknown {
		return nil, nil
	}

	e, err := binding.ToEvent(r.Context(), msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	return e, nil
}
