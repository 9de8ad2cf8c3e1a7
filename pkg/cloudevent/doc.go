// Package cloudevent decodes inbound HTTP requests into CloudEvents.
//
// A Chain holds Decoders tried in a fixed order. Each decoder either returns
// an event, reports that the request is not in its format with (nil, nil), or
// fails with an error. DefaultChain tries:
//
//  1. CloudEventDecoder – the CloudEvents HTTP protocol binding in structured
//     (application/cloudevents+json) or binary (ce-* headers) content mode,
//     backed by github.com/cloudevents/sdk-go/v2.
//  2. LegacyDecoder – the legacy background-function JSON envelope and raw
//     Pub/Sub push payloads, converted to the equivalent CloudEvent type,
//     source and subject.
//
// When neither recognizes the request Chain.Decode fails with
// ErrUnknownEventType.
//
//	e, err := cloudevent.DefaultChain().Decode(r)
//	if err != nil {
//		// respond 400
//	}
package cloudevent
