package function

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"

	"github.com/dmitrymomot/fnhost/pkg/wire"
)

// OutcomeKind enumerates the closed set of handler outcomes.
type OutcomeKind int

const (
	// OutcomeExplicit is an already well-formed wire response.
	OutcomeExplicit OutcomeKind = iota
	// OutcomeNative is a Renderer that still has to be finalized.
	OutcomeNative
	// OutcomeText is a plain text body.
	OutcomeText
	// OutcomeStructured is a mapping value encoded as JSON.
	OutcomeStructured
	// OutcomeFailure is a captured handler error.
	OutcomeFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeExplicit:
		return "explicit"
	case OutcomeNative:
		return "native"
	case OutcomeText:
		return "text"
	case OutcomeStructured:
		return "structured"
	case OutcomeFailure:
		return "failure"
	}
	return "unknown"
}

// Renderer is a framework-native response that writes itself onto w.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Outcome is the result of invoking a hosted function. Exactly one of the
// payload fields is meaningful, selected by Kind.
type Outcome struct {
	Kind     OutcomeKind
	Response wire.Response
	Renderer Renderer
	Text     []byte
	Value    any
	Failure  *Failure
}

// Failed returns a failure outcome for err.
func Failed(err error) Outcome {
	return Outcome{Kind: OutcomeFailure, Failure: Capture(err)}
}

// OutcomeOf converts an idiomatic (value, error) return into an Outcome.
// An error returned as the value fails with that error. Values of an
// unsupported type become failures.
func OutcomeOf(v any, err error) Outcome {
	if err != nil {
		return Failed(err)
	}

	switch val := v.(type) {
	case wire.Response:
		return Outcome{Kind: OutcomeExplicit, Response: val}
	case *wire.Response:
		if val != nil {
			return Outcome{Kind: OutcomeExplicit, Response: *val}
		}
	case Renderer:
		return Outcome{Kind: OutcomeNative, Renderer: val}
	case error:
		return Failed(val)
	case string:
		return Outcome{Kind: OutcomeText, Text: []byte(val)}
	case []byte:
		return Outcome{Kind: OutcomeText, Text: val}
	case json.RawMessage:
		return Outcome{Kind: OutcomeStructured, Value: val}
	}

	if v != nil && reflect.TypeOf(v).Kind() == reflect.Map {
		return Outcome{Kind: OutcomeStructured, Value: v}
	}

	return Failed(fmt.Errorf("%w: %T", ErrUnexpectedResponse, v))
}
