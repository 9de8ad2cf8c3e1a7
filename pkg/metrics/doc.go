// Package metrics exposes Prometheus collectors for hosted function
// invocations, relayed signals and server lifecycle transitions.
//
// Collectors are registered on a dedicated registry (see WithRegistry) so
// several servers can live in one process without colliding on the global
// default registerer. A nil *Metrics is a valid no-op recorder.
package metrics
