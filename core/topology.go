package core

import (
	"fmt"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/encodeous/spantree/state"
)

type BridgeHandle int
type PortHandle int
type SegmentHandle int

type BridgeEntry struct {
	Name  state.BridgeName
	Id    state.BridgeId // configured bootstrap id
	Ports []PortHandle
}

type PortEntry struct {
	Bridge  BridgeHandle
	Segment SegmentHandle
	Index   int // position among the owning bridge's ports
	// Peers are the other ports attached to the same segment, in handle order.
	Peers []PortHandle
}

type SegmentEntry struct {
	Name  string
	Ports mapset.Set[PortHandle]
}

// Topology is the handle table shared read-only by every controller. It is built once and never rewired.
type Topology struct {
	Bridges  []BridgeEntry
	Ports    []PortEntry
	Segments []SegmentEntry
}

func BuildTopology(cfg *state.TopologyCfg) (*Topology, error) {
	err := state.TopologyValidator(cfg)
	if err != nil {
		return nil, err
	}
	t := &Topology{}
	byName := make(map[state.BridgeName]BridgeHandle)
	for _, b := range cfg.Bridges {
		byName[b.Name] = BridgeHandle(len(t.Bridges))
		t.Bridges = append(t.Bridges, BridgeEntry{
			Name: b.Name,
			Id:   b.Id,
		})
	}
	for _, seg := range cfg.Segments {
		sh := SegmentHandle(len(t.Segments))
		entry := SegmentEntry{
			Name:  seg.Name,
			Ports: mapset.NewSet[PortHandle](),
		}
		for _, name := range seg.Bridges {
			bh, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("segment %s: %w: %s", seg.Name, state.ErrUnknownBridge, name)
			}
			ph := PortHandle(len(t.Ports))
			t.Ports = append(t.Ports, PortEntry{
				Bridge:  bh,
				Segment: sh,
				Index:   len(t.Bridges[bh].Ports),
			})
			t.Bridges[bh].Ports = append(t.Bridges[bh].Ports, ph)
			entry.Ports.Add(ph)
		}
		t.Segments = append(t.Segments, entry)
	}
	for ph := range t.Ports {
		peers := t.Segments[t.Ports[ph].Segment].Ports.ToSlice()
		peers = slices.DeleteFunc(peers, func(p PortHandle) bool {
			return p == PortHandle(ph)
		})
		slices.Sort(peers)
		t.Ports[ph].Peers = peers
	}
	return t, nil
}

func (t *Topology) ValidPort(p PortHandle) bool {
	return p >= 0 && int(p) < len(t.Ports)
}

func (t *Topology) BridgeByName(name state.BridgeName) (BridgeHandle, bool) {
	idx := slices.IndexFunc(t.Bridges, func(e BridgeEntry) bool {
		return e.Name == name
	})
	return BridgeHandle(idx), idx != -1
}

func (t *Topology) PortName(p PortHandle) string {
	if !t.ValidPort(p) {
		return fmt.Sprintf("?/%d", p)
	}
	port := t.Ports[p]
	return fmt.Sprintf("%s/%d", t.Bridges[port.Bridge].Name, port.Index)
}

// slots is the number of actors in the topology: one root per bridge, one port controller and one relay per port.
func (t *Topology) slots() int {
	return len(t.Bridges) + 2*len(t.Ports)
}
