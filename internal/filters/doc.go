// Package filters is the per-type handler registry for engine filter
// definitions.
//
// The translation core treats filter definitions as opaque values keyed by a
// type tag; this package is the only place parameters are interpreted. Each
// handler knows how to validate a definition of its type, produce a sensible
// default, and render display text for CLI output.
package filters
