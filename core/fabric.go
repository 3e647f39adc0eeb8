package core

import "github.com/encodeous/spantree/state"

// Fabric holds one controller per handle of a topology. Each controller may only be touched by whichever
// runtime currently owns its mailbox.
type Fabric struct {
	Topo   *Topology
	Roots  []*RootController
	Ports  []*PortController
	Relays []*LanRelay
}

func NewFabric(t *Topology) *Fabric {
	f := &Fabric{Topo: t}
	for bh, b := range t.Bridges {
		f.Roots = append(f.Roots, NewRootController(BridgeHandle(bh), b.Ports))
	}
	for ph, p := range t.Ports {
		pc := NewPortController(PortHandle(ph), p.Bridge)
		lr := NewLanRelay(PortHandle(ph), p.Peers)
		pc.Name = t.PortName(PortHandle(ph))
		lr.Name = pc.Name
		f.Ports = append(f.Ports, pc)
		f.Relays = append(f.Relays, lr)
	}
	return f
}

// slot maps an address to a dense index: roots first, then ports, then relays.
func (f *Fabric) slot(a Addr) (int, bool) {
	nb, np := len(f.Topo.Bridges), len(f.Topo.Ports)
	switch a.Kind {
	case KindRoot:
		if a.Handle >= 0 && a.Handle < nb {
			return a.Handle, true
		}
	case KindPort:
		if a.Handle >= 0 && a.Handle < np {
			return nb + a.Handle, true
		}
	case KindRelay:
		if a.Handle >= 0 && a.Handle < np {
			return nb + np + a.Handle, true
		}
	}
	return 0, false
}

func (f *Fabric) addr(slot int) Addr {
	nb, np := len(f.Topo.Bridges), len(f.Topo.Ports)
	switch {
	case slot < nb:
		return RootAddr(BridgeHandle(slot))
	case slot < nb+np:
		return PortAddr(PortHandle(slot - nb))
	default:
		return RelayAddr(PortHandle(slot - nb - np))
	}
}

// deliver runs the handler of the addressed controller. The caller guarantees the address is valid and the
// message belongs to that controller's variant.
func (f *Fabric) deliver(bus Bus, to Addr, msg any) {
	switch to.Kind {
	case KindRoot:
		m, ok := msg.(RootMsg)
		if !ok {
			bus.Log(UnknownMessage, "not a root message", "to", to, "msg", msg)
			return
		}
		f.Roots[to.Handle].Receive(bus, m)
	case KindPort:
		m, ok := msg.(PortMsg)
		if !ok {
			bus.Log(UnknownMessage, "not a port message", "to", to, "msg", msg)
			return
		}
		f.Ports[to.Handle].Receive(bus, m)
	case KindRelay:
		m, ok := msg.(RelayMsg)
		if !ok {
			bus.Log(UnknownMessage, "not a relay message", "to", to, "msg", msg)
			return
		}
		f.Relays[to.Handle].Receive(bus, m)
	}
}

// bootstrapIds returns the configured id of every bridge, in handle order.
func (f *Fabric) bootstrapIds() []state.BridgeId {
	ids := make([]state.BridgeId, len(f.Topo.Bridges))
	for bh, b := range f.Topo.Bridges {
		ids[bh] = b.Id
	}
	return ids
}

// Snapshot reads every controller directly. Only safe while no runtime is delivering messages.
func (f *Fabric) Snapshot() Snapshot {
	roots := make([]state.RootState, len(f.Roots))
	ports := make([]state.PortState, len(f.Ports))
	links := make([]state.LinkState, len(f.Relays))
	for i, r := range f.Roots {
		roots[i] = r.RootState
	}
	for i, p := range f.Ports {
		ports[i] = p.PortState
		links[i] = f.Relays[i].LinkState
	}
	return f.assemble(roots, ports, links)
}

func (f *Fabric) assemble(roots []state.RootState, ports []state.PortState, links []state.LinkState) Snapshot {
	snap := make(Snapshot, 0, len(roots))
	for bh, rs := range roots {
		b := BridgeSnapshot{
			Name:      f.Topo.Bridges[bh].Name,
			RootState: rs,
		}
		for _, ph := range f.Topo.Bridges[bh].Ports {
			b.Ports = append(b.Ports, PortSnapshot{
				Segment:   f.Topo.Segments[f.Topo.Ports[ph].Segment].Name,
				PortState: ports[ph],
				LinkState: links[ph],
			})
		}
		snap = append(snap, b)
	}
	return snap
}
