package state

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
)

var ErrUnknownBridge = errors.New("unknown bridge")

type BridgeName string

type BridgeCfg struct {
	Name BridgeName `yaml:"name"`
	Id   BridgeId   `yaml:"id"`
}

// SegmentCfg is a shared medium. Every bridge listed gets one port attached to it.
type SegmentCfg struct {
	Name    string       `yaml:"name"`
	Bridges []BridgeName `yaml:"bridges"`
}

// TopologyCfg is the fixed wiring of bridges to segments, read once before the protocol starts.
type TopologyCfg struct {
	Bridges  []BridgeCfg  `yaml:"bridges"`
	Segments []SegmentCfg `yaml:"segments,omitempty"`
	Graph    []string     `yaml:"graph,omitempty"`    // shorthand segment declarations, see ParseSegments
	LogPath  string       `yaml:"log_path,omitempty"` // if not empty, logs are also written to this file
}

func (c *TopologyCfg) GetBridge(name BridgeName) (BridgeCfg, error) {
	idx := slices.IndexFunc(c.Bridges, func(cfg BridgeCfg) bool {
		return cfg.Name == name
	})
	if idx == -1 {
		return BridgeCfg{}, fmt.Errorf("%w: %s", ErrUnknownBridge, name)
	}
	return c.Bridges[idx], nil
}

func (c *TopologyCfg) BridgeNames() []string {
	names := make([]string, 0, len(c.Bridges))
	for _, b := range c.Bridges {
		names = append(names, string(b.Name))
	}
	return names
}

// SegmentsOf returns the segments a bridge is attached to, in port order.
func (c *TopologyCfg) SegmentsOf(name BridgeName) []string {
	segs := make([]string, 0)
	for _, seg := range c.Segments {
		if slices.Contains(seg.Bridges, name) {
			segs = append(segs, seg.Name)
		}
	}
	return segs
}

// MinBridge returns the bridge every other bridge should elect as root.
func (c *TopologyCfg) MinBridge() (BridgeCfg, bool) {
	if len(c.Bridges) == 0 {
		return BridgeCfg{}, false
	}
	return slices.MinFunc(c.Bridges, func(a, b BridgeCfg) int {
		if a.Id < b.Id {
			return -1
		} else if a.Id > b.Id {
			return 1
		}
		return 0
	}), true
}

func parseSymbolList(s string, validSymbols []string) ([]string, error) {
	spl := strings.Split(strings.TrimSpace(s), ",")
	line := make([]string, 0)
	for _, s := range spl {
		x := strings.TrimSpace(s)
		if x == "" {
			continue
		}
		if !slices.Contains(validSymbols, x) {
			return nil, fmt.Errorf(`%s is not a valid bridge`, x)
		}
		if slices.Contains(line, x) {
			return nil, fmt.Errorf(`bridge %s is listed twice`, x)
		}
		line = append(line, x)
	}
	if len(line) < 2 {
		return nil, fmt.Errorf(`segment must connect at least two bridges, got %v`, line)
	}
	return line, nil
}

/*
ParseSegments Graph syntax is something like this:

lan0 = a, b, c // a named segment shared by a, b and c

b, d // an unnamed point-to-point segment, named seg-N where N is its position in the graph

bridges is the set of bridge names that may appear in the graph.
*/
func ParseSegments(graph []string, bridges []string) ([]SegmentCfg, error) {
	segs := make([]SegmentCfg, 0)
	names := make([]string, 0)

	for idx, line := range graph {
		line = strings.ToLower(strings.TrimSpace(line))
		if line == "" {
			continue
		}
		name := fmt.Sprintf("seg-%d", idx)
		members := line
		if strings.Contains(line, "=") {
			spl := strings.Split(line, "=")
			if len(spl) != 2 {
				return nil, fmt.Errorf("invalid graph: %s. segment definition must contain one '='", line)
			}
			name = strings.TrimSpace(spl[0])
			if err := NameValidator(name); err != nil {
				return nil, err
			}
			if slices.Contains(bridges, name) {
				return nil, fmt.Errorf("segment name must not be a bridge name: %s", name)
			}
			members = spl[1]
		}
		if slices.Contains(names, name) {
			return nil, fmt.Errorf("duplicate segment name: %s", name)
		}
		lst, err := parseSymbolList(members, bridges)
		if err != nil {
			return nil, fmt.Errorf("segment %s: %w", name, err)
		}
		seg := SegmentCfg{Name: name}
		for _, b := range lst {
			seg.Bridges = append(seg.Bridges, BridgeName(b))
		}
		names = append(names, name)
		segs = append(segs, seg)
	}
	return segs, nil
}

// ExpandTopology folds the graph shorthand into the explicit segment list.
func ExpandTopology(cfg *TopologyCfg) error {
	if len(cfg.Graph) == 0 {
		return nil
	}
	segs, err := ParseSegments(cfg.Graph, cfg.BridgeNames())
	if err != nil {
		return err
	}
	for _, seg := range segs {
		if slices.ContainsFunc(cfg.Segments, func(s SegmentCfg) bool {
			return s.Name == seg.Name
		}) {
			return fmt.Errorf("duplicate segment name: %s", seg.Name)
		}
	}
	cfg.Segments = append(cfg.Segments, segs...)
	cfg.Graph = nil
	return nil
}

func ReadTopology(path string) (*TopologyCfg, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg TopologyCfg
	err = yaml.Unmarshal(file, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadTopology reads, expands and validates a topology file.
func LoadTopology(path string) (*TopologyCfg, error) {
	cfg, err := ReadTopology(path)
	if err != nil {
		return nil, err
	}
	err = ExpandTopology(cfg)
	if err != nil {
		return nil, err
	}
	err = TopologyValidator(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func WriteTopology(path string, cfg *TopologyCfg) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0644)
}
