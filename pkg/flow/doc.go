// Package flow executes YAML-defined sequential flows on top of the base
// runner: each observed state change passes through the transition gate,
// snapshots are persisted for pause/resume, and execution runs under
// heartbeat supervision.
package flow
