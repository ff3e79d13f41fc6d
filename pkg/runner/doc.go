// Package runner implements the finite-state-machine driver that advances
// a unit of work through its run-state lifecycle. It owns run
// initialization, the transition gate every state change passes through,
// the ordered state-handler chain, and the heartbeat supervisor that keeps
// a concurrent liveness pulse alive alongside the primary execution.
//
// The runner is deliberately agnostic to the full transition lattice: it
// classifies and unwraps states and recognizes Retrying, but never decides
// when to retry or what to schedule. That policy belongs to the
// orchestration layer composing it.
package runner
