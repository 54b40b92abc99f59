// Package presets persists named engine-config snapshots in SQLite.
//
// A preset stores the complete engine configuration as JSON so applying one
// later replaces the whole config, the same way the transport does. Names are
// unique; saving to an existing name overwrites that preset.
package presets
