package core

import (
	"testing"

	"github.com/encodeous/spantree/state"
	"github.com/stretchr/testify/assert"
)

func TestRelayForwardsToPeers(t *testing.T) {
	h := &BusHarness{}
	l := NewLanRelay(1, []PortHandle{0, 4})
	assert.True(t, l.Forwarding)

	l.Receive(h, Send{Sender: 2, Claim: state.Claim{Root: 2, Distance: 1}})
	assert.Equal(t,
		`PORT 0 PORT_INBOUND from 2 (root: 2, dist: 1)
PORT 4 PORT_INBOUND from 2 (root: 2, dist: 1)`, h.GetActions().String())
}

func TestRelaySuppressesWhenOff(t *testing.T) {
	h := &BusHarness{}
	l := NewLanRelay(1, []PortHandle{0})

	l.Receive(h, TurnOff{})
	assert.False(t, l.Forwarding)
	l.Receive(h, Send{Sender: 2, Claim: state.Claim{Root: 2}})
	assert.Equal(t, []ProtoEvent{GateClosed, ClaimSuppressed}, h.GetLogs())

	l.Receive(h, Send{Sender: 2, Claim: state.Claim{Root: 2}})
	assert.Empty(t, h.GetActions())

	l.Receive(h, TurnOn{})
	l.Receive(h, Send{Sender: 2, Claim: state.Claim{Root: 2}})
	h.GetActions().AssertContains(t, "PORT", PortHandle(0), PortInbound{Sender: 2, Claim: state.Claim{Root: 2}})
}

func TestRelayGateEventsOnlyOnChange(t *testing.T) {
	h := &BusHarness{}
	l := NewLanRelay(0, nil)

	l.Receive(h, TurnOn{})
	l.Receive(h, TurnOff{})
	l.Receive(h, TurnOff{})
	l.Receive(h, TurnOn{})
	assert.Equal(t, []ProtoEvent{GateClosed, GateOpened}, h.GetLogs())
}

func TestRelayWithoutPeers(t *testing.T) {
	h := &BusHarness{}
	l := NewLanRelay(0, nil)
	l.Receive(h, Send{Sender: 1, Claim: state.Claim{Root: 1}})
	assert.Empty(t, h.GetActions())
}
