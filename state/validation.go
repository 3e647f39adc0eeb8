package state

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

var namePattern, _ = regexp.Compile("^[0-9a-z._-]+$")

func PathValidator(s string) error {
	_, err := os.Stat(path.Dir(s))
	if err != nil {
		return err
	}
	_, err = filepath.Abs(s)
	return err
}

func NameValidator(s string) error {
	if !namePattern.MatchString(s) {
		return fmt.Errorf("%s is not a valid name, must match pattern %s", s, namePattern.String())
	}
	if len(s) > 100 {
		return fmt.Errorf("len(\"%s\") = %d > 100 is too long", s, len(s))
	}
	return nil
}

func TopologyValidator(cfg *TopologyCfg) error {
	if len(cfg.Bridges) == 0 {
		return fmt.Errorf("topology has no bridges")
	}
	names := mapset.NewSet[BridgeName]()
	ids := make(map[BridgeId]BridgeName)
	for _, b := range cfg.Bridges {
		err := NameValidator(string(b.Name))
		if err != nil {
			return err
		}
		if !names.Add(b.Name) {
			return fmt.Errorf("duplicate bridge name: %s", b.Name)
		}
		if b.Id == MaxBridgeId {
			return fmt.Errorf("bridge %s uses the reserved id %d", b.Name, MaxBridgeId)
		}
		if other, ok := ids[b.Id]; ok {
			return fmt.Errorf("bridges %s and %s share id %d", other, b.Name, b.Id)
		}
		ids[b.Id] = b.Name
	}

	segNames := mapset.NewSet[string]()
	for _, seg := range cfg.Segments {
		err := NameValidator(seg.Name)
		if err != nil {
			return err
		}
		if !segNames.Add(seg.Name) {
			return fmt.Errorf("duplicate segment name: %s", seg.Name)
		}
		if names.Contains(BridgeName(seg.Name)) {
			return fmt.Errorf("segment name must not be a bridge name: %s", seg.Name)
		}
		if len(seg.Bridges) < 2 {
			return fmt.Errorf("segment %s must connect at least two bridges", seg.Name)
		}
		for i, b := range seg.Bridges {
			if !names.Contains(b) {
				return fmt.Errorf("segment %s: %w: %s", seg.Name, ErrUnknownBridge, b)
			}
			if slices.Contains(seg.Bridges[:i], b) {
				return fmt.Errorf("segment %s: bridge %s is attached twice", seg.Name, b)
			}
		}
	}
	return nil
}

// IsCycleFree reports whether the bridge/segment graph is a forest. Convergence is only guaranteed for such wirings.
func IsCycleFree(cfg *TopologyCfg) bool {
	// union-find over bridges and segments, an attachment joining two already connected vertices closes a cycle
	parent := make(map[string]string)
	var find func(string) string
	find = func(x string) string {
		p, ok := parent[x]
		if !ok || p == x {
			parent[x] = x
			return x
		}
		r := find(p)
		parent[x] = r
		return r
	}
	for _, seg := range cfg.Segments {
		sv := "s/" + seg.Name
		for _, b := range seg.Bridges {
			bv, rs := find("b/"+string(b)), find(sv)
			if bv == rs {
				return false
			}
			parent[bv] = rs
		}
	}
	return true
}

// Adjacency returns every pair of bridges that share at least one segment, sorted and without duplicates.
func Adjacency(cfg *TopologyCfg) []Pair[BridgeName, BridgeName] {
	links := mapset.NewSet[Pair[BridgeName, BridgeName]]()
	for _, seg := range cfg.Segments {
		for i, a := range seg.Bridges {
			for _, b := range seg.Bridges[i+1:] {
				links.Add(MakeSortedPair(a, b))
			}
		}
	}
	out := links.ToSlice()
	SortPairs(out)
	return out
}

// IsConnected reports whether every bridge can reach every other bridge through some chain of segments.
func IsConnected(cfg *TopologyCfg) bool {
	if len(cfg.Bridges) == 0 {
		return true
	}
	adj := make(map[BridgeName][]BridgeName)
	for _, l := range Adjacency(cfg) {
		adj[l.V1] = append(adj[l.V1], l.V2)
		adj[l.V2] = append(adj[l.V2], l.V1)
	}
	seen := mapset.NewSet[BridgeName](cfg.Bridges[0].Name)
	queue := []BridgeName{cfg.Bridges[0].Name}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range adj[cur] {
			if seen.Add(n) {
				queue = append(queue, n)
			}
		}
	}
	return seen.Cardinality() == len(cfg.Bridges)
}

// HopDistances returns the hop count of every reachable bridge from the given one.
func HopDistances(cfg *TopologyCfg, from BridgeName) map[BridgeName]uint32 {
	dist := map[BridgeName]uint32{from: 0}
	queue := []BridgeName{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, seg := range cfg.Segments {
			if !slices.Contains(seg.Bridges, cur) {
				continue
			}
			for _, o := range seg.Bridges {
				if _, ok := dist[o]; !ok {
					dist[o] = dist[cur] + 1
					queue = append(queue, o)
				}
			}
		}
	}
	return dist
}
