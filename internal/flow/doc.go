// Package flow holds the UI-owned signal-flow graph and the synthesizer that
// folds it into an engine configuration.
//
// The graph is the view a user edits: device channel nodes, drag-created
// routes between them, and per-channel filter chains. The engine instead
// wants a linear, name-addressed pipeline. Synthesize translates graph to
// pipeline deterministically, reports when the graph cannot be expressed
// faithfully, and copies through every config section it does not own.
package flow
