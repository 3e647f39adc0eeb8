package core

import (
	"strconv"

	"github.com/encodeous/spantree/state"
)

// PortController caches the best claim heard on its segment and decides whether its relay may keep transmitting.
type PortController struct {
	Self  PortHandle
	Owner BridgeHandle
	Name  string
	state.PortState
}

func NewPortController(self PortHandle, owner BridgeHandle) *PortController {
	return &PortController{
		Self:      self,
		Owner:     owner,
		Name:      strconv.Itoa(int(self)),
		PortState: state.NewPortState(),
	}
}

func (p *PortController) Receive(bus Bus, msg PortMsg) {
	switch m := msg.(type) {
	case ResetPort:
		p.PortState = state.NewPortState()
	case SetBestPort:
		p.IsBestPort = true
	case SetBadPort:
		p.IsBestPort = false
	case OutboundClaim:
		if m.Claim.Better(p.Learned) {
			bus.PostRelay(p.Self, TurnOn{})
			bus.PostRelay(p.Self, Send(m))
		} else if !p.IsBestPort {
			// neither carrying better information nor on the path to the root
			bus.PostRelay(p.Self, TurnOff{})
		}
	case PortInbound:
		if m.Claim.Better(p.Learned) {
			p.Learned = m.Claim.Next()
			bus.Log(ClaimLearned, "port learned claim", "port", p.Name, "claim", p.Learned)
		}
		// the bridge sees every claim, not just the ones that improve this cache
		bus.PostRoot(p.Owner, RootInbound{Via: p.Self, Sender: m.Sender, Claim: m.Claim})
	default:
		bus.Log(UnknownMessage, "port controller dropped message", "port", p.Name, "msg", msg)
	}
}
