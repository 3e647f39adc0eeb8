package core

import (
	"slices"
	"strconv"

	"github.com/encodeous/spantree/state"
)

// LanRelay is the on/off gate between a port and its segment.
type LanRelay struct {
	Self  PortHandle
	Name  string
	Peers []PortHandle
	state.LinkState
}

func NewLanRelay(self PortHandle, peers []PortHandle) *LanRelay {
	return &LanRelay{
		Self:      self,
		Name:      strconv.Itoa(int(self)),
		Peers:     slices.Clone(peers),
		LinkState: state.NewLinkState(),
	}
}

func (l *LanRelay) Receive(bus Bus, msg RelayMsg) {
	switch m := msg.(type) {
	case TurnOn:
		if !l.Forwarding {
			bus.Log(GateOpened, "relay turned on", "port", l.Name)
		}
		l.Forwarding = true
	case TurnOff:
		if l.Forwarding {
			bus.Log(GateClosed, "relay turned off", "port", l.Name)
		}
		l.Forwarding = false
	case Send:
		// the owning port always turns the gate on before a Send, so the gate only records loop-suppression
		// state and this branch stays unreachable in a running protocol
		if !l.Forwarding {
			bus.Log(ClaimSuppressed, "relay is off, dropping claim", "port", l.Name, "claim", m.Claim)
			return
		}
		bus.Log(ClaimRelayed, "claim sent to segment", "port", l.Name, "sender", m.Sender, "claim", m.Claim)
		for _, peer := range l.Peers {
			bus.PostPort(peer, PortInbound(m))
		}
	default:
		bus.Log(UnknownMessage, "relay dropped message", "port", l.Name, "msg", msg)
	}
}
