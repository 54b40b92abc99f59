// Package levels polls the engine for capture and playback peak levels and
// maintains per-channel peak-hold values with a configurable decay.
//
// The poller runs its own loop against the transport and is entirely
// decoupled from config translation; nothing in the translation core ever
// calls into it.
package levels
