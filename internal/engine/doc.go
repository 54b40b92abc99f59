// Package engine implements the websocket control channel to the DSP engine.
//
// The engine speaks a request/response protocol: one JSON text frame per
// command (a bare string for argument-less commands, a single-key object
// otherwise), answered by an object keyed by the command name with a result
// and optional value. The full configuration travels as a JSON string inside
// that envelope; this package owns the (de)serialization to dsp.Config so the
// rest of patchbay only ever sees in-memory values.
package engine
