// Package observability wires Prometheus counters into the run lifecycle:
// a transition-counting state handler and heartbeat/outcome counters
// consumed by the serve endpoint.
package observability
