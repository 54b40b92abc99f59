// Package routing canonicalizes the engine's routing mixer against the
// authoritative device channel counts.
//
// Raw routing data arrives from successive UI edits, stale presets, or
// hand-edited configs, so it may contain out-of-range indices, duplicate
// entries, or malformed numbers. Normalize reduces any such input to one
// canonical, deterministically ordered form; applying it twice yields the
// same result, so repeated edits converge instead of drifting.
package routing
