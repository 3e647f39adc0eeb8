package state

import "fmt"

// BridgeId identifies a bridge. Lower ids are more root-worthy.
type BridgeId uint32

// MaxBridgeId is reserved for the "no information yet" claim and may not be assigned to a bridge.
const MaxBridgeId = ^BridgeId(0)

// Claim is a bridge's belief about who the root is and how many hops away it sits.
type Claim struct {
	Root     BridgeId `yaml:"root"`
	Distance uint32   `yaml:"distance"`
}

// WorstClaim stands in for "nothing learned yet". Every real claim is better than it.
var WorstClaim = Claim{Root: MaxBridgeId, Distance: INF}

// Better reports whether c is strictly preferred over o: a lower root id wins, ties go to the shorter distance.
func (c Claim) Better(o Claim) bool {
	if c.Root != o.Root {
		return c.Root < o.Root
	}
	return c.Distance < o.Distance
}

// Next returns the claim as it looks one hop further from the root.
func (c Claim) Next() Claim {
	d := c.Distance
	if d < INF {
		d++
	}
	return Claim{Root: c.Root, Distance: d}
}

// Corroborates reports whether c is exactly the neighbour claim cur would have been derived from.
func (c Claim) Corroborates(cur Claim) bool {
	return c.Root == cur.Root && c.Next().Distance == cur.Distance
}

func (c Claim) IsWorst() bool {
	return c == WorstClaim
}

func (c Claim) String() string {
	if c.IsWorst() {
		return "(root: -, dist: inf)"
	}
	return fmt.Sprintf("(root: %d, dist: %d)", c.Root, c.Distance)
}

// RootState is the bridge-level belief owned by a single root controller.
type RootState struct {
	Own    BridgeId
	Claim  Claim
	IsRoot bool
}

func (r RootState) String() string {
	return fmt.Sprintf("own: %d, claim: %s, root: %t", r.Own, r.Claim, r.IsRoot)
}

// PortState is the per-port cache owned by a single port controller.
type PortState struct {
	Learned    Claim
	IsBestPort bool
}

func NewPortState() PortState {
	return PortState{Learned: WorstClaim}
}

// LinkState is the gate owned by a single lan relay.
type LinkState struct {
	Forwarding bool
}

func NewLinkState() LinkState {
	return LinkState{Forwarding: true}
}
