package state

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameValidator_Valid(t *testing.T) {
	assert.NoError(t, NameValidator("1"))
	assert.NoError(t, NameValidator("ab_cd"))
	assert.NoError(t, NameValidator("lan-0.core"))
}

func TestNameValidator_Invalid(t *testing.T) {
	assert.Error(t, NameValidator("1A"))
	assert.Error(t, NameValidator("bridge name"))
	assert.Error(t, NameValidator(""))
	assert.Error(t, NameValidator("\t"))
	assert.Error(t, NameValidator("lan0\\x"))
	assert.Error(t, NameValidator(strings.Repeat("a", 200)))
}

func TestPathValidator(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, PathValidator(filepath.Join(dir, "topology.yaml")))
	assert.Error(t, PathValidator(filepath.Join(dir, "missing", "topology.yaml")))
}

func TestTopologyValidator_Samples(t *testing.T) {
	for _, cfg := range []TopologyCfg{
		SampleLine(7, 2, 9),
		SampleStar(SequentialIds(1, 6)...),
		SampleShared(4, 8, 6),
		SampleTree(3, SequentialIds(1, 13)...),
		SampleRing(5, 3, 7, 1),
	} {
		assert.NoError(t, TopologyValidator(&cfg))
	}
}

func TestTopologyValidator_Errors(t *testing.T) {
	cases := []struct {
		cfg TopologyCfg
		err string
	}{
		{TopologyCfg{}, "topology has no bridges"},
		{TopologyCfg{Bridges: []BridgeCfg{{"A", 1}}}, "not a valid name"},
		{TopologyCfg{Bridges: []BridgeCfg{{"a", 1}, {"a", 2}}}, "duplicate bridge name: a"},
		{TopologyCfg{Bridges: []BridgeCfg{{"a", MaxBridgeId}}}, "reserved id"},
		{TopologyCfg{Bridges: []BridgeCfg{{"a", 1}, {"b", 1}}}, "bridges a and b share id 1"},
		{TopologyCfg{
			Bridges:  []BridgeCfg{{"a", 1}, {"b", 2}},
			Segments: []SegmentCfg{{Name: "lan0", Bridges: []BridgeName{"a"}}},
		}, "segment lan0 must connect at least two bridges"},
		{TopologyCfg{
			Bridges:  []BridgeCfg{{"a", 1}, {"b", 2}},
			Segments: []SegmentCfg{{Name: "lan0", Bridges: []BridgeName{"a", "c"}}},
		}, "unknown bridge: c"},
		{TopologyCfg{
			Bridges:  []BridgeCfg{{"a", 1}, {"b", 2}},
			Segments: []SegmentCfg{{Name: "lan0", Bridges: []BridgeName{"a", "b", "a"}}},
		}, "bridge a is attached twice"},
		{TopologyCfg{
			Bridges: []BridgeCfg{{"a", 1}, {"b", 2}},
			Segments: []SegmentCfg{
				{Name: "lan0", Bridges: []BridgeName{"a", "b"}},
				{Name: "lan0", Bridges: []BridgeName{"a", "b"}},
			},
		}, "duplicate segment name: lan0"},
		{TopologyCfg{
			Bridges:  []BridgeCfg{{"a", 1}, {"b", 2}},
			Segments: []SegmentCfg{{Name: "b", Bridges: []BridgeName{"a", "b"}}},
		}, "segment name must not be a bridge name: b"},
	}
	for _, c := range cases {
		assert.ErrorContains(t, TopologyValidator(&c.cfg), c.err)
	}
}

func TestIsCycleFree(t *testing.T) {
	line := SampleLine(7, 2, 9)
	assert.True(t, IsCycleFree(&line))
	shared := SampleShared(1, 2, 3, 4)
	assert.True(t, IsCycleFree(&shared))
	tree := SampleTree(2, SequentialIds(1, 9)...)
	assert.True(t, IsCycleFree(&tree))

	ring := SampleRing(5, 3, 7)
	assert.False(t, IsCycleFree(&ring))

	// two segments joining the same pair of bridges form a loop
	parallel := SampleLine(1, 2)
	parallel.Segments = append(parallel.Segments, SegmentCfg{Name: "lan9", Bridges: []BridgeName{"b0", "b1"}})
	assert.False(t, IsCycleFree(&parallel))
}

func TestIsConnected(t *testing.T) {
	line := SampleLine(7, 2, 9)
	assert.True(t, IsConnected(&line))

	split := SampleLine(1, 2)
	split.Bridges = append(split.Bridges, BridgeCfg{Name: "lonely", Id: 3})
	assert.False(t, IsConnected(&split))
}

func TestAdjacency(t *testing.T) {
	shared := SampleShared(4, 5, 6)
	shared.Segments = append(shared.Segments, SegmentCfg{Name: "backup", Bridges: []BridgeName{"b2", "b0"}})
	assert.Equal(t, []Pair[BridgeName, BridgeName]{
		{"b0", "b1"},
		{"b0", "b2"},
		{"b1", "b2"},
	}, Adjacency(&shared))

	assert.Empty(t, Adjacency(&TopologyCfg{Bridges: []BridgeCfg{{Name: "solo", Id: 1}}}))
}

func TestHopDistances(t *testing.T) {
	line := SampleLine(4, 8, 6, 1, 3)
	assert.Equal(t, map[BridgeName]uint32{
		"b0": 3, "b1": 2, "b2": 1, "b3": 0, "b4": 1,
	}, HopDistances(&line, "b3"))

	shared := SampleShared(4, 8, 6)
	assert.Equal(t, map[BridgeName]uint32{
		"b0": 1, "b1": 1, "b2": 0,
	}, HopDistances(&shared, "b2"))
}
