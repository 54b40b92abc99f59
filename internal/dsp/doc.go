// Package dsp defines the engine configuration data model: capture/playback
// devices, named mixers, named filters, and the ordered processing pipeline.
//
// The engine owns this structure; patchbay only reads and rewrites it. The
// types here mirror the engine's JSON wire shape exactly, including the rule
// that optional mixer-source flags are serialized only when true so repeated
// rewrites stay diff-stable. Decoding is deliberately lenient for mixer
// mappings: hand-edited or stale configs are expected, and entries with
// malformed indices decode to out-of-range sentinels that normalization
// later drops instead of failing the whole config.
package dsp
