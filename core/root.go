package core

import (
	"slices"

	"github.com/encodeous/spantree/state"
)

// RootController owns a bridge's belief about the network root and decides when to adopt and re-announce a new one.
type RootController struct {
	Self  BridgeHandle
	Ports []PortHandle
	state.RootState
}

func NewRootController(self BridgeHandle, ports []PortHandle) *RootController {
	return &RootController{
		Self:      self,
		Ports:     slices.Clone(ports),
		RootState: state.RootState{Claim: state.WorstClaim},
	}
}

func (r *RootController) Receive(bus Bus, msg RootMsg) {
	switch m := msg.(type) {
	case Bootstrap:
		r.Own = m.Id
		r.Claim = state.Claim{Root: m.Id, Distance: 0}
		r.IsRoot = true
		bus.Log(Bootstrapped, "bridge bootstrapped", "bridge", r.Self, "id", m.Id)
		// ports may have learned claims before this bridge had an id, which would silence its announcement
		for _, p := range r.Ports {
			bus.PostPort(p, ResetPort{})
		}
		bus.PostRoot(r.Self, Announce{})
	case Announce:
		if !r.IsRoot {
			return
		}
		bus.Log(ClaimAnnounced, "root announcing", "bridge", r.Self, "claim", r.Claim)
		r.sendClaim(bus)
	case RootInbound:
		r.handleInbound(bus, m)
	default:
		bus.Log(UnknownMessage, "root controller dropped message", "bridge", r.Self, "msg", msg)
	}
}

func (r *RootController) handleInbound(bus Bus, m RootInbound) {
	if !slices.Contains(r.Ports, m.Via) {
		bus.Log(UnknownSender, "claim from a port this bridge does not own", "bridge", r.Self, "via", m.Via, "sender", m.Sender)
		return
	}
	cur := r.Claim
	heard := m.Claim.Next()
	switch {
	case m.Claim.Root < cur.Root:
		// a better root
		r.adopt(bus, m.Via, heard)
	case m.Claim.Root == cur.Root && heard.Distance < cur.Distance:
		// same root, shorter path
		r.adopt(bus, m.Via, state.Claim{Root: cur.Root, Distance: heard.Distance})
	case !m.Claim.Corroborates(cur):
		// worse information, assert ours. Only a root actually transmits on Announce.
		bus.Log(RootReasserted, "reasserting claim", "bridge", r.Self, "claim", cur, "heard", m.Claim)
		bus.PostRoot(r.Self, Announce{})
	default:
		bus.Log(ClaimCorroborated, "claim corroborated", "bridge", r.Self, "claim", cur)
	}
}

func (r *RootController) adopt(bus Bus, via PortHandle, c state.Claim) {
	bus.Log(RootAdopted, "adopting claim", "bridge", r.Self, "old", r.Claim, "new", c, "via", via)
	r.Claim = c
	r.IsRoot = false
	for _, p := range r.Ports {
		if p == via {
			bus.PostPort(p, SetBestPort{})
		} else {
			bus.PostPort(p, SetBadPort{})
		}
	}
	r.sendClaim(bus)
}

func (r *RootController) sendClaim(bus Bus) {
	for _, p := range r.Ports {
		bus.PostPort(p, OutboundClaim{Sender: r.Own, Claim: r.Claim})
	}
}
