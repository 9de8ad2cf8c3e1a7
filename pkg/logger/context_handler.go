package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor pulls one attribute out of a request context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// contextHandler adds attributes carried by the record's context, so lines
// logged while serving an invocation are tagged with its request id, client
// address or mode. Extracted attributes land in the innermost open group; a
// key already bound in that group with Logger.With is left alone.
type contextHandler struct {
	next       slog.Handler
	extractors []ContextExtractor
	bound      map[string]struct{}
}

// NewContextHandler wraps next with the given extractors.
func NewContextHandler(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	h := &contextHandler{next: next}
	for _, ex := range extractors {
		if ex != nil {
			h.extractors = append(h.extractors, ex)
		}
	}
	if len(h.extractors) == 0 {
		return next
	}
	return h
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	if ctx != nil {
		for _, ex := range h.extractors {
			attr, ok := ex(ctx)
			if !ok {
				continue
			}
			if _, dup := h.bound[attr.Key]; dup {
				continue
			}
			rec.AddAttrs(attr)
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := h.clone()
	c.next = h.next.WithAttrs(attrs)
	for _, a := range attrs {
		c.bound[a.Key] = struct{}{}
	}
	return c
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &contextHandler{
		next:       h.next.WithGroup(name),
		extractors: h.extractors,
		bound:      map[string]struct{}{},
	}
}

func (h *contextHandler) clone() *contextHandler {
	bound := make(map[string]struct{}, len(h.bound))
	for k := range h.bound {
		bound[k] = struct{}{}
	}
	return &contextHandler{
		next:       h.next,
		extractors: h.extractors,
		bound:      bound,
	}
}
