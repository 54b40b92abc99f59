// Package daemon coordinates the long-running patchbay services: the engine
// connection with reconnect supervision, the level metering poller, and the
// sound-card hotplug monitor. It enforces single-instance execution via a
// lock file and is the one place engine commands are issued from.
package daemon
