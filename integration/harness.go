//go:build integration

package integration

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"slices"
	"time"

	"github.com/encodeous/spantree/core"
	"github.com/encodeous/spantree/state"
	"github.com/encodeous/tint"
)

type Signal chan bool

func NewSignal() Signal {
	return make(chan bool)
}
func (s Signal) Trigger() {
	select {
	case <-s:
	default:
		close(s)
	}
}
func (s Signal) Triggered() bool {
	select {
	case <-s:
		return true
	default:
		return false
	}
}
func (s Signal) Wait() {
	<-s
}

// WaitFor returns false if the signal did not trigger in time.
func (s Signal) WaitFor(d time.Duration) bool {
	select {
	case <-s:
		return true
	case <-time.After(d):
		return false
	}
}

// VirtualLink delays every claim that arrives from its segment.
type VirtualLink struct {
	Segment string
	Latency time.Duration
	Jitter  time.Duration
}

func (v *VirtualLink) WithLatency(lat, jitter time.Duration) *VirtualLink {
	v.Latency = lat
	v.Jitter = jitter
	return v
}

func (v *VirtualLink) delay() time.Duration {
	if v.Jitter == 0 {
		return v.Latency
	}
	return v.Latency + time.Duration(rand.Int64N(int64(v.Jitter)))
}

type VirtualHarness struct {
	Topology state.TopologyCfg
	Links    map[string]*VirtualLink
	Net      *core.Network
	Context  context.Context
	Cancel   context.CancelCauseFunc
	// Handler sees every delivery after any simulated latency. It runs on the receiving actor's goroutine.
	Handler core.Observer
	// Deferred bridges are not bootstrapped by Start.
	Deferred []state.BridgeName
}

func (v *VirtualHarness) NewBridge(name state.BridgeName, id state.BridgeId) {
	v.Topology.Bridges = append(v.Topology.Bridges, state.BridgeCfg{Name: name, Id: id})
}

func (v *VirtualHarness) AddSegment(name string, bridges ...state.BridgeName) *VirtualLink {
	v.Topology.Segments = append(v.Topology.Segments, state.SegmentCfg{Name: name, Bridges: bridges})
	if v.Links == nil {
		v.Links = make(map[string]*VirtualLink)
	}
	link := &VirtualLink{Segment: name}
	v.Links[name] = link
	return link
}

func (v *VirtualHarness) logger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("SPANTREE_TRACE") != "" {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level, CustomPrefix: "harness"}))
}

func (v *VirtualHarness) Start() error {
	err := state.ExpandTopology(&v.Topology)
	if err != nil {
		return err
	}
	topo, err := core.BuildTopology(&v.Topology)
	if err != nil {
		return err
	}
	env := state.NewEnv(context.Background(), v.Topology, v.logger())
	v.Context = env.Context
	v.Cancel = env.Cancel
	v.Net = core.NewNetwork(env, topo)
	v.Net.Observer = func(to core.Addr, msg any) {
		if _, ok := msg.(core.PortInbound); ok && to.Kind == core.KindPort {
			seg := topo.Segments[topo.Ports[to.Handle].Segment].Name
			if link, ok := v.Links[seg]; ok && link.Latency+link.Jitter > 0 {
				select {
				case <-v.Context.Done():
				case <-time.After(link.delay()):
				}
			}
		}
		if v.Handler != nil {
			v.Handler(to, msg)
		}
	}
	for _, b := range v.Topology.Bridges {
		if !slices.Contains(v.Deferred, b.Name) {
			v.Bootstrap(b.Name)
		}
	}
	return v.Net.Start()
}

func (v *VirtualHarness) Bootstrap(name state.BridgeName) {
	bh, ok := v.Net.Topo.BridgeByName(name)
	if !ok {
		panic(fmt.Sprintf("unknown bridge %s", name))
	}
	v.Net.Bootstrap(bh, v.Net.Topo.Bridges[bh].Id)
}

// Settle waits for quiescence and returns what every bridge converged to.
func (v *VirtualHarness) Settle(timeout time.Duration) (core.Snapshot, error) {
	ctx, cancel := context.WithTimeout(v.Context, timeout)
	defer cancel()
	err := v.Net.Drain(ctx)
	if err != nil {
		return nil, err
	}
	return v.Net.Snapshot(ctx)
}

func (v *VirtualHarness) Stop() error {
	return v.Net.Stop(fmt.Errorf("stopping harness"))
}
