package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/encodeous/spantree/state"
)

type PortSnapshot struct {
	Segment string
	state.PortState
	state.LinkState
}

type BridgeSnapshot struct {
	Name state.BridgeName
	state.RootState
	Ports []PortSnapshot
}

// Snapshot is the state of every bridge, in handle order.
type Snapshot []BridgeSnapshot

// Root returns the root id every bridge agrees on, if they all agree.
func (s Snapshot) Root() (state.BridgeId, bool) {
	if len(s) == 0 {
		return 0, false
	}
	root := s[0].Claim.Root
	for _, b := range s[1:] {
		if b.Claim.Root != root {
			return 0, false
		}
	}
	return root, true
}

// Roots returns the bridges that currently believe they are the root.
func (s Snapshot) Roots() []state.BridgeName {
	names := make([]state.BridgeName, 0)
	for _, b := range s {
		if b.IsRoot {
			names = append(names, b.Name)
		}
	}
	return names
}

func (s Snapshot) Bridge(name state.BridgeName) (BridgeSnapshot, bool) {
	idx := slices.IndexFunc(s, func(b BridgeSnapshot) bool {
		return b.Name == name
	})
	if idx == -1 {
		return BridgeSnapshot{}, false
	}
	return s[idx], true
}

// Verify checks the converged state against the topology: the minimum id is the single root and every other
// bridge knows its hop distance to it.
func (s Snapshot) Verify(cfg *state.TopologyCfg) error {
	minB, ok := cfg.MinBridge()
	if !ok {
		return fmt.Errorf("topology has no bridges")
	}
	roots := s.Roots()
	if len(roots) != 1 || roots[0] != minB.Name {
		return fmt.Errorf("expected %s to be the only root, got %v", minB.Name, roots)
	}
	dist := state.HopDistances(cfg, minB.Name)
	for _, b := range s {
		d, reachable := dist[b.Name]
		if !reachable {
			continue
		}
		want := state.Claim{Root: minB.Id, Distance: d}
		if b.Claim != want {
			return fmt.Errorf("bridge %s has %s, expected %s", b.Name, b.Claim, want)
		}
	}
	return nil
}

func (s Snapshot) String() string {
	lines := make([]string, 0, len(s))
	for _, b := range s {
		lines = append(lines, fmt.Sprintf("%s %s root=%t", b.Name, b.Claim, b.IsRoot))
	}
	return strings.Join(lines, "\n")
}
