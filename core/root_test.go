package core

import (
	"testing"

	"github.com/encodeous/spantree/state"
	"github.com/stretchr/testify/assert"
)

func bootstrapped(t *testing.T, h *BusHarness, id state.BridgeId, ports ...PortHandle) *RootController {
	r := NewRootController(0, ports)
	r.Receive(h, Bootstrap{Id: id})
	h.GetActions()
	return r
}

func TestRootInitialState(t *testing.T) {
	r := NewRootController(3, []PortHandle{4, 5})
	assert.True(t, r.Claim.IsWorst())
	assert.False(t, r.IsRoot)
	assert.Equal(t, BridgeHandle(3), r.Self)
}

func TestRootBootstrap(t *testing.T) {
	h := &BusHarness{}
	r := NewRootController(0, []PortHandle{0, 1})
	r.Receive(h, Bootstrap{Id: 5})

	assert.Equal(t, state.RootState{Own: 5, Claim: state.Claim{Root: 5}, IsRoot: true}, r.RootState)
	assert.Equal(t,
		`PORT 0 RESET_PORT
PORT 1 RESET_PORT
ROOT 0 ANNOUNCE`, h.GetActions().String())
}

func TestRootAnnounce(t *testing.T) {
	h := &BusHarness{}
	r := bootstrapped(t, h, 5, 0, 1)

	r.Receive(h, Announce{})
	assert.Equal(t,
		`PORT 0 OUTBOUND from 5 (root: 5, dist: 0)
PORT 1 OUTBOUND from 5 (root: 5, dist: 0)`, h.GetActions().String())
}

func TestRootAnnounceIgnoredWhenNotRoot(t *testing.T) {
	h := &BusHarness{}
	r := bootstrapped(t, h, 5, 0, 1)
	r.Receive(h, RootInbound{Via: 0, Sender: 3, Claim: state.Claim{Root: 3}})
	h.GetActions()

	r.Receive(h, Announce{})
	assert.Empty(t, h.GetActions())
}

func TestRootAdoptsLowerRoot(t *testing.T) {
	h := &BusHarness{}
	r := bootstrapped(t, h, 5, 0, 1)

	r.Receive(h, RootInbound{Via: 0, Sender: 3, Claim: state.Claim{Root: 3, Distance: 0}})
	assert.Equal(t, state.RootState{Own: 5, Claim: state.Claim{Root: 3, Distance: 1}, IsRoot: false}, r.RootState)
	assert.Equal(t,
		`PORT 0 OUTBOUND from 5 (root: 3, dist: 1)
PORT 0 SET_BEST_PORT
PORT 1 OUTBOUND from 5 (root: 3, dist: 1)
PORT 1 SET_BAD_PORT`, h.GetActions().String())
}

func TestRootAdoptsShorterPath(t *testing.T) {
	h := &BusHarness{}
	r := bootstrapped(t, h, 9, 0, 1)
	r.Receive(h, RootInbound{Via: 0, Sender: 4, Claim: state.Claim{Root: 2, Distance: 3}})
	h.GetActions()
	assert.Equal(t, state.Claim{Root: 2, Distance: 4}, r.Claim)

	r.Receive(h, RootInbound{Via: 1, Sender: 7, Claim: state.Claim{Root: 2, Distance: 1}})
	assert.Equal(t, state.Claim{Root: 2, Distance: 2}, r.Claim)
	a := h.GetActions()
	a.AssertContains(t, "PORT", PortHandle(1), SetBestPort{})
	a.AssertContains(t, "PORT", PortHandle(0), SetBadPort{})
	a.AssertContains(t, "PORT", PortHandle(0), OutboundClaim{Sender: 9, Claim: state.Claim{Root: 2, Distance: 2}})
}

func TestRootSamePathLengthIsNotAdopted(t *testing.T) {
	h := &BusHarness{}
	r := bootstrapped(t, h, 9, 0, 1)
	r.Receive(h, RootInbound{Via: 0, Sender: 4, Claim: state.Claim{Root: 2, Distance: 1}})
	h.GetActions()

	// an equal-length path through another port must not flip the best port
	r.Receive(h, RootInbound{Via: 1, Sender: 6, Claim: state.Claim{Root: 2, Distance: 1}})
	a := h.GetActions()
	a.AssertNotContains(t, "PORT", PortHandle(1), SetBestPort{})
	assert.Equal(t, state.Claim{Root: 2, Distance: 2}, r.Claim)
}

func TestRootCorroborationIsSilent(t *testing.T) {
	h := &BusHarness{}
	r := bootstrapped(t, h, 5, 0)
	r.Receive(h, RootInbound{Via: 0, Sender: 3, Claim: state.Claim{Root: 3, Distance: 0}})
	h.GetActions()

	// hearing the same claim again changes nothing and sends nothing
	r.Receive(h, RootInbound{Via: 0, Sender: 3, Claim: state.Claim{Root: 3, Distance: 0}})
	assert.Empty(t, h.GetActions())
	assert.Equal(t, state.Claim{Root: 3, Distance: 1}, r.Claim)
}

func TestRootReassertsAgainstWorseClaim(t *testing.T) {
	h := &BusHarness{}
	r := bootstrapped(t, h, 2, 0)

	r.Receive(h, RootInbound{Via: 0, Sender: 5, Claim: state.Claim{Root: 5, Distance: 0}})
	assert.Equal(t, "ROOT 0 ANNOUNCE", h.GetActions().String())
	assert.Equal(t, state.RootState{Own: 2, Claim: state.Claim{Root: 2}, IsRoot: true}, r.RootState)

	r.Receive(h, Announce{})
	assert.Equal(t, "PORT 0 OUTBOUND from 2 (root: 2, dist: 0)", h.GetActions().String())
}

func TestRootHearsOwnRootFurtherAway(t *testing.T) {
	h := &BusHarness{}
	r := bootstrapped(t, h, 3, 0)

	// a neighbour one hop away echoes our claim back: not corroborating, so the root re-announces
	r.Receive(h, RootInbound{Via: 0, Sender: 5, Claim: state.Claim{Root: 3, Distance: 1}})
	assert.Equal(t, "ROOT 0 ANNOUNCE", h.GetActions().String())
	assert.True(t, r.IsRoot)
}

func TestRootDropsUnknownPort(t *testing.T) {
	h := &BusHarness{}
	r := bootstrapped(t, h, 5, 0, 1)

	r.Receive(h, RootInbound{Via: 7, Sender: 1, Claim: state.Claim{Root: 1}})
	assert.Equal(t, []ProtoEvent{UnknownSender}, h.GetLogs())
	assert.Equal(t, state.Claim{Root: 5}, r.Claim)
	assert.True(t, r.IsRoot)
}

func TestRootInboundBeforeBootstrap(t *testing.T) {
	h := &BusHarness{}
	r := NewRootController(0, []PortHandle{0})

	r.Receive(h, RootInbound{Via: 0, Sender: 4, Claim: state.Claim{Root: 4}})
	assert.Equal(t, state.Claim{Root: 4, Distance: 1}, r.Claim)
	assert.False(t, r.IsRoot)
	h.GetActions()

	// a late bootstrap always makes the bridge its own root again, and its ports forget what they heard
	// so the new claim actually reaches the segment
	r.Receive(h, Bootstrap{Id: 8})
	assert.True(t, r.IsRoot)
	assert.Equal(t, state.Claim{Root: 8}, r.Claim)
	assert.Equal(t,
		`PORT 0 RESET_PORT
ROOT 0 ANNOUNCE`, h.GetActions().String())
}
