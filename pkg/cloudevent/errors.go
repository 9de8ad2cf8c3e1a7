package cloudevent

import "errors"

var (
	// ErrUnknownEventType indicates that no decoder in the chain recognized
	// the request.
	ErrUnknownEventType = errors.New("unknown event type")
	// ErrMalformedEvent indicates a request in a recognized format whose
	// content could not be decoded.
	ErrMalformedEvent = errors.New("malformed event")
	// ErrReadBody indicates that the request body could not be read.
	ErrReadBody = errors.New("failed to read event body")
)
