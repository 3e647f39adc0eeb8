package state

import "fmt"

func sampleName(idx int) BridgeName {
	return BridgeName(fmt.Sprintf("b%d", idx))
}

func sampleBridges(ids []BridgeId) []BridgeCfg {
	bridges := make([]BridgeCfg, 0, len(ids))
	for idx, id := range ids {
		bridges = append(bridges, BridgeCfg{Name: sampleName(idx), Id: id})
	}
	return bridges
}

// SampleLine wires the bridges in a chain with point-to-point segments: b0 - b1 - ... - bN.
func SampleLine(ids ...BridgeId) TopologyCfg {
	cfg := TopologyCfg{Bridges: sampleBridges(ids)}
	for idx := 1; idx < len(ids); idx++ {
		cfg.Segments = append(cfg.Segments, SegmentCfg{
			Name:    fmt.Sprintf("lan%d", idx-1),
			Bridges: []BridgeName{sampleName(idx - 1), sampleName(idx)},
		})
	}
	return cfg
}

// SampleStar links every other bridge to b0 with its own segment.
func SampleStar(ids ...BridgeId) TopologyCfg {
	cfg := TopologyCfg{Bridges: sampleBridges(ids)}
	for idx := 1; idx < len(ids); idx++ {
		cfg.Segments = append(cfg.Segments, SegmentCfg{
			Name:    fmt.Sprintf("lan%d", idx-1),
			Bridges: []BridgeName{sampleName(0), sampleName(idx)},
		})
	}
	return cfg
}

// SampleShared attaches every bridge to a single shared segment.
func SampleShared(ids ...BridgeId) TopologyCfg {
	cfg := TopologyCfg{Bridges: sampleBridges(ids)}
	seg := SegmentCfg{Name: "lan0"}
	for idx := range ids {
		seg.Bridges = append(seg.Bridges, sampleName(idx))
	}
	cfg.Segments = append(cfg.Segments, seg)
	return cfg
}

// SampleTree builds a complete tree where bridge i hangs off bridge (i-1)/fanout.
func SampleTree(fanout int, ids ...BridgeId) TopologyCfg {
	if fanout < 1 {
		fanout = 1
	}
	cfg := TopologyCfg{Bridges: sampleBridges(ids)}
	for idx := 1; idx < len(ids); idx++ {
		parent := (idx - 1) / fanout
		cfg.Segments = append(cfg.Segments, SegmentCfg{
			Name:    fmt.Sprintf("lan%d", idx-1),
			Bridges: []BridgeName{sampleName(parent), sampleName(idx)},
		})
	}
	return cfg
}

// SampleRing closes a line into a cycle. Used to exercise wirings outside the convergence guarantee.
func SampleRing(ids ...BridgeId) TopologyCfg {
	cfg := SampleLine(ids...)
	if len(ids) > 2 {
		cfg.Segments = append(cfg.Segments, SegmentCfg{
			Name:    fmt.Sprintf("lan%d", len(ids)-1),
			Bridges: []BridgeName{sampleName(len(ids) - 1), sampleName(0)},
		})
	}
	return cfg
}

// SequentialIds returns n distinct ids starting from start, in descending order so the root ends up last.
func SequentialIds(start BridgeId, n int) []BridgeId {
	ids := make([]BridgeId, n)
	for i := range n {
		ids[i] = start + BridgeId(n-1-i)
	}
	return ids
}
