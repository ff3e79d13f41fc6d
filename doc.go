/*
Package pacer is a run-state machine driver for building resilient task and flow execution pipelines.

It models a run as an immutable state value moving through a small, well-known vocabulary (pending, running, success, failed, paused, ...) and drives every transition through a single gate that target handlers and observer chains can veto, redirect, or record. Control flow inside the engine travels as typed signals, so a run can end early or pause for external input without the surrounding code treating it as a failure.

# Concept

Pacer separates the transition discipline (the Runner) from what a run actually does (steps in a flow definition) and from where snapshots live (pluggable stores). The Runner guarantees that every state change passes through the same handler pipeline; the flow layer sequences steps and persists progress so paused runs resume exactly where they stopped. This Hexagonal Architecture allows pacer to be embedded in any interface: CLI, HTTP server, or a larger orchestration system.

# Key Features

  - Uniform Transitions: every state change flows through one gate, observed by an ordered handler chain.
  - Control-Flow Signals: EndRun and Pause are typed signals, not errors, and carry the state they decided on.
  - Heartbeat Supervision: long runs emit liveness pulses on a side goroutine that can never corrupt the result.
  - Durable Pauses: snapshots persist to memory or Redis, and a paused run resumes from its recorded progress.

# Usage

Initialize the engine from a flow definition file, then Run it. A Pause signal surfaces as the returned error; Resume continues the run from its stored progress.

	package main

	import (
		"context"
		"log"

		"github.com/pacerkit/pacer"
		"github.com/pacerkit/pacer/pkg/signals"
	)

	func main() {
		eng, err := pacer.New("./deploy.yaml")
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		final, runID, err := eng.Run(ctx, nil)
		if _, paused := signals.AsPause(err); paused {
			// Later, after the external condition clears:
			final, err = eng.Resume(ctx, runID)
		}
		if err != nil {
			log.Fatal(err)
		}

		log.Println("run finished:", final)
	}
*/
package pacer
