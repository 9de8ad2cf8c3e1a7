package logger

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RequestID records the request identifier under the key "request_id".
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Function records the hosted function name.
func Function(name string) slog.Attr {
	return slog.String("function", name)
}

// Kind records the hosted function kind.
func Kind(kind string) slog.Attr {
	return slog.String("kind", kind)
}

// Method records the HTTP method.
func Method(method string) slog.Attr {
	return slog.String("method", method)
}

// Path records the request path.
func Path(path string) slog.Attr {
	return slog.String("path", path)
}

// Port records a listening port.
func Port(port int) slog.Attr {
	return slog.Int("port", port)
}

// Signal records an OS signal name.
func Signal(sig os.Signal) slog.Attr {
	if sig == nil {
		return slog.Attr{}
	}
	return slog.String("signal", sig.String())
}

// EventType records the event type under the key "event_type".
func EventType(eventType string) slog.Attr {
	return slog.String("event_type", eventType)
}

// EventID records the event identifier under the key "event_id".
func EventID(id string) slog.Attr {
	return slog.String("event_id", id)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
