package environment

import "strings"

// Mode is the runtime mode a function server runs in.
type Mode string

const (
	// Development favors debuggability: detailed errors, a single worker.
	Development Mode = "development"
	// Production hides failure details and raises concurrency.
	Production Mode = "production"
)

// Variables read when detecting the mode.
const (
	// ModeVar selects the mode explicitly.
	ModeVar = "FUNCTION_ENV"
	// RevisionVar and ServiceVar are set by the deployment platform; either
	// one marks a production deployment.
	RevisionVar = "K_REVISION"
	ServiceVar  = "K_SERVICE"
)

// Parse maps a user-provided name to a Mode.
func Parse(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(Production), "prod":
		return Production, true
	case string(Development), "dev":
		return Development, true
	}
	return "", false
}

// Detect resolves the mode from an environment snapshot. An explicit
// FUNCTION_ENV wins; otherwise a deployment marker selects Production and
// its absence selects Development.
func Detect(environ map[string]string) Mode {
	if m, ok := Parse(environ[ModeVar]); ok {
		return m
	}
	if environ[RevisionVar] != "" || environ[ServiceVar] != "" {
		return Production
	}
	return Development
}

// IsProduction reports whether m is Production.
func (m Mode) IsProduction() bool { return m == Production }

// IsDevelopment reports whether m is Development.
func (m Mode) IsDevelopment() bool { return m == Development }

func (m Mode) String() string { return string(m) }
