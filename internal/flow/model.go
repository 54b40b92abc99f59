package flow

import (
	"strconv"
	"strings"

	"patchbay/internal/dsp"
)

// Well-known device IDs for the engine-backed devices. The graph may contain
// further devices (purely visual groupings), but only channels on these two
// can be expressed in the engine pipeline.
const (
	CaptureDeviceID  = "capture"
	PlaybackDeviceID = "playback"
)

// PortSide distinguishes the input and output side of the graph.
type PortSide string

const (
	SideInput  PortSide = "input"
	SideOutput PortSide = "output"
)

// Endpoint identifies one physical channel on one device.
type Endpoint struct {
	DeviceID     string `json:"deviceId"`
	ChannelIndex int    `json:"channelIndex"`
}

// SameEndpoint reports whether a and b address the same device channel.
func SameEndpoint(a, b Endpoint) bool {
	return a.DeviceID == b.DeviceID && a.ChannelIndex == b.ChannelIndex
}

// PortKey derives the canonical string key for a graph port. Graph
// construction and graph lookup must use the same derivation so no two code
// paths can disagree about a port's identity.
func PortKey(side PortSide, ep Endpoint) string {
	var b strings.Builder
	b.WriteString(string(side))
	b.WriteByte(':')
	b.WriteString(ep.DeviceID)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(ep.ChannelIndex))
	return b.String()
}

// Route connects a source channel to a destination channel with gain in dB,
// optional polarity inversion, and mute.
type Route struct {
	From     Endpoint `json:"from"`
	To       Endpoint `json:"to"`
	Gain     float64  `json:"gain"`
	Inverted bool     `json:"inverted,omitempty"`
	Mute     bool     `json:"mute,omitempty"`
}

// FilterInstance is one entry of a channel's processing chain: a filter name
// and its opaque definition. The name addresses the filter in the engine's
// filters section and in pipeline steps.
type FilterInstance struct {
	Name   string     `json:"name"`
	Filter dsp.Filter `json:"filter"`
}

// ChannelNode is one per-channel node of the graph with its ordered filter
// chain.
type ChannelNode struct {
	DeviceID     string           `json:"deviceId"`
	ChannelIndex int              `json:"channelIndex"`
	Processing   []FilterInstance `json:"processing,omitempty"`
}

// Endpoint returns the node's address.
func (n ChannelNode) Endpoint() Endpoint {
	return Endpoint{DeviceID: n.DeviceID, ChannelIndex: n.ChannelIndex}
}

// DeviceGroup is a visual grouping of channels belonging to one device.
type DeviceGroup struct {
	DeviceID string `json:"deviceId"`
	Label    string `json:"label,omitempty"`
	Channels int    `json:"channels"`
}

// Model is the complete signal-flow graph: groupings, per-channel nodes, and
// routes. It is a derived, UI-owned view; the engine config stays the
// authoritative state.
type Model struct {
	InputGroups  []DeviceGroup `json:"inputGroups,omitempty"`
	OutputGroups []DeviceGroup `json:"outputGroups,omitempty"`
	Inputs       []ChannelNode `json:"inputs,omitempty"`
	Outputs      []ChannelNode `json:"outputs,omitempty"`
	Routes       []Route       `json:"routes,omitempty"`
}
