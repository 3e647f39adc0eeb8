package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func claimGen() *rapid.Generator[Claim] {
	return rapid.Custom(func(t *rapid.T) Claim {
		// small domains so that equal roots and distances show up often
		return Claim{
			Root:     BridgeId(rapid.Uint32Range(0, 6).Draw(t, "root")),
			Distance: rapid.Uint32Range(0, 6).Draw(t, "distance"),
		}
	})
}

func TestClaimBetter(t *testing.T) {
	assert.True(t, Claim{Root: 2, Distance: 9}.Better(Claim{Root: 3, Distance: 0}))
	assert.True(t, Claim{Root: 3, Distance: 0}.Better(Claim{Root: 3, Distance: 1}))
	assert.False(t, Claim{Root: 3, Distance: 1}.Better(Claim{Root: 3, Distance: 1}))
	assert.False(t, Claim{Root: 5, Distance: 0}.Better(Claim{Root: 2, Distance: 0}))
	assert.True(t, Claim{Root: 1, Distance: 0}.Better(WorstClaim))
	assert.True(t, Claim{Root: MaxBridgeId, Distance: INF - 1}.Better(WorstClaim))
}

func TestClaimOrderIsStrictTotal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := claimGen().Draw(t, "a")
		b := claimGen().Draw(t, "b")
		c := claimGen().Draw(t, "c")

		if a.Better(a) {
			t.Fatalf("%v is better than itself", a)
		}
		if a.Better(b) && b.Better(a) {
			t.Fatalf("%v and %v are both better than each other", a, b)
		}
		if a != b && !a.Better(b) && !b.Better(a) {
			t.Fatalf("%v and %v are incomparable", a, b)
		}
		if a.Better(b) && b.Better(c) && !a.Better(c) {
			t.Fatalf("order is not transitive over %v, %v, %v", a, b, c)
		}
	})
}

func TestClaimNextSaturates(t *testing.T) {
	assert.Equal(t, Claim{Root: 3, Distance: 1}, Claim{Root: 3, Distance: 0}.Next())
	assert.Equal(t, WorstClaim, WorstClaim.Next())
}

func TestClaimCorroborates(t *testing.T) {
	cur := Claim{Root: 3, Distance: 1}
	assert.True(t, Claim{Root: 3, Distance: 0}.Corroborates(cur))
	assert.False(t, Claim{Root: 3, Distance: 1}.Corroborates(cur))
	assert.False(t, Claim{Root: 2, Distance: 0}.Corroborates(cur))
}

func TestClaimString(t *testing.T) {
	assert.Equal(t, "(root: 3, dist: 1)", Claim{Root: 3, Distance: 1}.String())
	assert.Equal(t, "(root: -, dist: inf)", WorstClaim.String())
}

func TestInitialStates(t *testing.T) {
	assert.Equal(t, WorstClaim, NewPortState().Learned)
	assert.False(t, NewPortState().IsBestPort)
	assert.True(t, NewLinkState().Forwarding)
}
