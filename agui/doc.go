// Package agui streams form state to AG-UI frontends.
//
// AG-UI (Agent-User Interface) is an event-based protocol for connecting
// agents to user-facing applications. A form shared between a user and an
// agent is synchronized with two of its events: STATE_SNAPSHOT carries the
// whole form document, STATE_DELTA carries JSON Patch operations against it.
//
// # Overview
//
//   - [Mapper]: converts form lifecycle events to AG-UI run and step events
//   - [Snapshot] and [Delta]: render form state as AG-UI state events
//   - [Diff]: computes JSON Patch operations between two form documents
//   - [Bridge]: subscribes to a controller and streams snapshot then deltas
//
// The package does NOT provide HTTP handlers or transport implementations.
// Write the events with the AG-UI SDK's SSE writer or any other transport.
//
// # Usage
//
//	out := make(chan events.Event, 64)
//	stop := agui.Bridge(ctrl, out)
//	defer stop()
//
//	for ev := range out {
//	    writeEvent(ev)
//	}
//
// # Event Mapping
//
// A submission is reported as a run and validation as a step:
//
//	event.SubmitStart      -> RUN_STARTED
//	event.SubmitEnd        -> RUN_FINISHED
//	event.SubmitError      -> RUN_ERROR
//	event.ValidationStart  -> STEP_STARTED "validation"
//	event.ValidationEnd    -> STEP_FINISHED "validation"
//	event.ValidationFailed -> STEP_FINISHED "validation"
//
// Field-level events have no AG-UI equivalent; their effect reaches the
// frontend through state deltas.
package agui
