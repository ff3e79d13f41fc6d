// Package state models the closed set of lifecycle stages a unit of work
// can occupy, including the Submitted/Queued meta states that wrap another
// state instance. States are immutable value objects: every transition
// produces a new instance.
package state
