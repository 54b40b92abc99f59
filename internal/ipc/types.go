package ipc

import (
	"time"

	"patchbay/internal/dsp"
	"patchbay/internal/flow"
	"patchbay/internal/levels"
)

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents combined daemon/engine status information.
type StatusResponse struct {
	Running         bool      `json:"running"`
	PID             int       `json:"pid"`
	EngineAddress   string    `json:"engine_address"`
	EngineConnected bool      `json:"engine_connected"`
	EngineVersion   string    `json:"engine_version"`
	EngineState     string    `json:"engine_state"`
	ConnectedSince  time.Time `json:"connected_since"`
	LastError       string    `json:"last_error"`
	LockPath        string    `json:"lock_path"`
	LogPath         string    `json:"log_path"`
}

// StopRequest stops the daemon.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// GetConfigRequest fetches the engine's active configuration.
type GetConfigRequest struct{}

// GetConfigResponse contains the active engine configuration.
type GetConfigResponse struct {
	Config dsp.Config `json:"config"`
}

// ApplyConfigRequest replaces the engine configuration wholesale.
type ApplyConfigRequest struct {
	Config dsp.Config `json:"config"`
}

// ApplyConfigResponse indicates the configuration was pushed.
type ApplyConfigResponse struct {
	Applied bool `json:"applied"`
}

// ApplyFlowRequest synthesizes a signal-flow model into the engine
// configuration and pushes the result.
type ApplyFlowRequest struct {
	Model    flow.Model `json:"model"`
	Activate bool       `json:"activate"`
}

// ApplyFlowResponse reports synthesis outcome.
type ApplyFlowResponse struct {
	Representable bool           `json:"representable"`
	Warnings      []flow.Warning `json:"warnings"`
}

// LevelsRequest fetches the current metering snapshot.
type LevelsRequest struct{}

// LevelsResponse contains peak and peak-hold values per channel.
type LevelsResponse struct {
	Levels levels.Snapshot `json:"levels"`
}

// ReloadRequest asks the engine to re-apply its configuration.
type ReloadRequest struct{}

// ReloadResponse indicates reload result.
type ReloadResponse struct {
	Reloaded bool `json:"reloaded"`
}
