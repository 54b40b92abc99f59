package flow_test

import (
	"testing"

	"patchbay/internal/flow"
)

func TestSameEndpoint(t *testing.T) {
	a := flow.Endpoint{DeviceID: "capture", ChannelIndex: 1}

	cases := []struct {
		name string
		b    flow.Endpoint
		want bool
	}{
		{"identical", flow.Endpoint{DeviceID: "capture", ChannelIndex: 1}, true},
		{"different channel", flow.Endpoint{DeviceID: "capture", ChannelIndex: 0}, false},
		{"different device", flow.Endpoint{DeviceID: "playback", ChannelIndex: 1}, false},
	}
	for _, tc := range cases {
		if got := flow.SameEndpoint(a, tc.b); got != tc.want {
			t.Fatalf("%s: SameEndpoint = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestPortKeyIsDeterministic(t *testing.T) {
	ep := flow.Endpoint{DeviceID: "capture", ChannelIndex: 3}

	key := flow.PortKey(flow.SideInput, ep)
	if key != "input:capture:3" {
		t.Fatalf("unexpected key: %q", key)
	}
	if flow.PortKey(flow.SideInput, ep) != key {
		t.Fatal("PortKey must be stable for the same port")
	}
	if flow.PortKey(flow.SideOutput, ep) == key {
		t.Fatal("sides must not collide")
	}
}

func TestChannelNodeEndpoint(t *testing.T) {
	node := flow.ChannelNode{DeviceID: "playback", ChannelIndex: 2}
	ep := node.Endpoint()
	if ep.DeviceID != "playback" || ep.ChannelIndex != 2 {
		t.Fatalf("unexpected endpoint: %+v", ep)
	}
}
