package daemon

import (
	"testing"

	"github.com/pilebones/go-udev/netlink"
)

func TestBuildMatcher(t *testing.T) {
	m := newHotplugMonitor(nil, nil)

	matcher := m.buildMatcher()
	if matcher == nil {
		t.Fatal("expected non-nil matcher")
	}

	addEvent := netlink.UEvent{
		Action: netlink.ADD,
		Env: map[string]string{
			"SUBSYSTEM": "sound",
			"DEVPATH":   "/devices/pci0000:00/0000:00:1f.3/sound/card1",
		},
	}
	if !matcher.Evaluate(addEvent) {
		t.Error("expected matcher to accept sound card add event")
	}

	removeEvent := netlink.UEvent{
		Action: netlink.REMOVE,
		Env: map[string]string{
			"SUBSYSTEM": "sound",
		},
	}
	if !matcher.Evaluate(removeEvent) {
		t.Error("expected matcher to accept sound card remove event")
	}

	blockEvent := netlink.UEvent{
		Action: netlink.ADD,
		Env: map[string]string{
			"SUBSYSTEM": "block",
		},
	}
	if matcher.Evaluate(blockEvent) {
		t.Error("expected matcher to reject non-sound subsystem")
	}

	changeEvent := netlink.UEvent{
		Action: netlink.CHANGE,
		Env: map[string]string{
			"SUBSYSTEM": "sound",
		},
	}
	if matcher.Evaluate(changeEvent) {
		t.Error("expected matcher to reject CHANGE action")
	}
}

func TestHandleEvent(t *testing.T) {
	t.Run("ignores event without device name", func(t *testing.T) {
		var handlerCalled bool
		m := newHotplugMonitor(nil, func(action, device string) {
			handlerCalled = true
		})

		m.handleEvent(netlink.UEvent{
			Action: netlink.ADD,
			Env:    map[string]string{},
		})

		if handlerCalled {
			t.Error("handler should not be called for event without device name")
		}
	})

	t.Run("prefers DEVNAME over DEVPATH", func(t *testing.T) {
		var gotAction, gotDevice string
		m := newHotplugMonitor(nil, func(action, device string) {
			gotAction = action
			gotDevice = device
		})

		m.handleEvent(netlink.UEvent{
			Action: netlink.ADD,
			Env: map[string]string{
				"DEVNAME": "/dev/snd/pcmC1D0c",
				"DEVPATH": "/devices/pci0000:00/0000:00:1f.3/sound/card1",
			},
		})

		if gotAction != "add" {
			t.Errorf("expected action add, got %s", gotAction)
		}
		if gotDevice != "/dev/snd/pcmC1D0c" {
			t.Errorf("expected DEVNAME device, got %s", gotDevice)
		}
	})

	t.Run("falls back to DEVPATH tail", func(t *testing.T) {
		var gotDevice string
		m := newHotplugMonitor(nil, func(action, device string) {
			gotDevice = device
		})

		m.handleEvent(netlink.UEvent{
			Action: netlink.REMOVE,
			Env: map[string]string{
				"DEVPATH": "/devices/pci0000:00/0000:00:1f.3/sound/card1",
			},
		})

		if gotDevice != "card1" {
			t.Errorf("expected card1 from DEVPATH, got %s", gotDevice)
		}
	})
}

func TestHotplugMonitorStopStartIdempotency(t *testing.T) {
	t.Run("stop on nil monitor is safe", func(t *testing.T) {
		var m *hotplugMonitor
		m.Stop() // must not panic
	})

	t.Run("stop on unstarted monitor is safe", func(t *testing.T) {
		m := newHotplugMonitor(nil, nil)
		m.Stop()
		m.Stop()
	})
}
