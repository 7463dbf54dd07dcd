// Package harness runs YAML study scenarios against a tracker with a frozen
// clock and sequential ids, then checks assertions and golden traces.
//
// Every scenario also persists through the gateway into an in-memory SQLite
// store; the run fails if reloading that store does not reproduce the final
// tracker state.
//
// A scenario file looks like:
//
//	name: dsa_practice
//	description: Logging two sessions accumulates hours
//	now: "2026-03-10T12:00:00Z"
//	flow:
//	  - op: add_subject
//	    name: DSA Practice
//	    as: dsa
//	  - op: log_study_time
//	    ref: dsa
//	    hours: 0.5
//	assertions:
//	  - type: subject
//	    ref: dsa
//	    field: studied_hours
//	    value: 0.5
//
// Golden traces live in testdata/golden/{name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
