// Package harness runs YAML-defined scenarios against a live session backed
// by a fake host, producing deterministic traces for golden-file comparison.
//
// A scenario declares the initial world (one server, its channels and
// clients), a fixed session token, and a list of steps that mutate the fake
// host and deliver notifications. The trace records every published change
// set in order, so two runs of the same scenario render byte-identical text.
package harness
