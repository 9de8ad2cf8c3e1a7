package dispatch

import "errors"

// ErrUnsupportedKind is returned by New for a function kind without a dispatcher.
var ErrUnsupportedKind = errors.New("no dispatcher for function kind")
