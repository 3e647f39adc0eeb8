package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/encodeous/spantree/perf"
	"github.com/encodeous/spantree/state"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotStarted     = errors.New("network not started")
	ErrAlreadyStarted = errors.New("network already started")
)

type item struct {
	to      Addr
	msg     any
	inspect func()
}

// Network runs every controller on its own goroutine with its own mailbox.
type Network struct {
	*Fabric
	Env    *state.Env
	RunId  uuid.UUID
	Logger *slog.Logger
	// Observer is called from the receiving actor's goroutine, so it must be safe for concurrent use.
	Observer Observer

	boxes    []*Mailbox[item]
	inflight atomic.Int64
	quiet    chan struct{}
	group    *errgroup.Group
}

func NewNetwork(env *state.Env, t *Topology) *Network {
	id := uuid.New()
	n := &Network{
		Fabric: NewFabric(t),
		Env:    env,
		RunId:  id,
		Logger: env.Log.With("run", id.String()),
		boxes:  make([]*Mailbox[item], t.slots()),
		quiet:  make(chan struct{}, 1),
	}
	for i := range n.boxes {
		n.boxes[i] = NewMailbox[item]()
	}
	return n
}

func (n *Network) Start() error {
	if n.Env.Started.Swap(true) {
		return ErrAlreadyStarted
	}
	g, ctx := errgroup.WithContext(n.Env.Context)
	n.group = g
	for slot, box := range n.boxes {
		g.Go(func() error {
			box.Run(ctx, func(it item) {
				n.handle(slot, it)
			})
			return nil
		})
	}
	n.Logger.Info("network started", "bridges", len(n.Topo.Bridges), "ports", len(n.Topo.Ports))
	return nil
}

// Stop cancels every actor and waits for their goroutines to exit.
func (n *Network) Stop(cause error) error {
	if n.Env.Stopping.Swap(true) {
		return nil // don't stop twice
	}
	n.Env.Cancel(cause)
	if n.group == nil {
		return nil
	}
	err := n.group.Wait()
	n.Logger.Info("network stopped", "reason", context.Cause(n.Env.Context).Error())
	return err
}

func (n *Network) handle(slot int, it item) {
	if it.inspect != nil {
		it.inspect()
		return
	}
	start := time.Now()
	if n.Observer != nil {
		n.Observer(it.to, it.msg)
	}
	n.deliver(n, it.to, it.msg)
	elapsed := time.Since(start)
	perf.DispatchLatency.Add(float64(elapsed.Microseconds()))
	if elapsed > state.SlowDispatch {
		n.Logger.Warn("dispatch took a long time!", "to", it.to, "msg", it.msg, "elapsed", elapsed, "len", n.boxes[slot].Len())
	}
	if n.inflight.Add(-1) == 0 {
		select {
		case n.quiet <- struct{}{}:
		default:
		}
	}
}

func (n *Network) post(to Addr, msg any) {
	slot, ok := n.slot(to)
	if !ok {
		n.Log(UnknownSender, "message to unknown address dropped", "to", to, "msg", msg)
		return
	}
	n.inflight.Add(1)
	perf.MessagesPerSecond.Add(1)
	if depth := n.boxes[slot].Post(item{to: to, msg: msg}); depth == state.MailboxWarnDepth {
		n.Logger.Warn("mailbox is backing up", "to", to, "depth", depth)
	}
}

func (n *Network) PostRoot(to BridgeHandle, msg RootMsg) { n.post(RootAddr(to), msg) }
func (n *Network) PostPort(to PortHandle, msg PortMsg)   { n.post(PortAddr(to), msg) }
func (n *Network) PostRelay(to PortHandle, msg RelayMsg) { n.post(RelayAddr(to), msg) }

func (n *Network) Log(event ProtoEvent, desc string, args ...any) {
	switch event {
	case RootAdopted:
		perf.RootAdoptions.Add(1)
	case GateClosed:
		perf.GateClosures.Add(1)
	case ClaimRelayed:
		perf.ClaimsRelayed.Add(1)
	case ClaimSuppressed:
		perf.ClaimsSuppressed.Add(1)
	}
	if event.IsWarning() {
		n.Logger.Warn(fmt.Sprintf("%s %s", event.String(), desc), args...)
	} else {
		n.Logger.Debug(fmt.Sprintf("%s %s", event.String(), desc), args...)
	}
}

func (n *Network) Bootstrap(b BridgeHandle, id state.BridgeId) {
	n.PostRoot(b, Bootstrap{Id: id})
}

// BootstrapAll delivers each bridge's configured id.
func (n *Network) BootstrapAll() {
	for bh, id := range n.bootstrapIds() {
		n.Bootstrap(BridgeHandle(bh), id)
	}
}

// InFlight returns the number of posted messages that have not finished processing.
func (n *Network) InFlight() int64 {
	return n.inflight.Load()
}

// Drain blocks until no message is in flight anywhere in the network.
func (n *Network) Drain(ctx context.Context) error {
	if !n.Env.Started.Load() {
		return ErrNotStarted
	}
	for {
		if n.inflight.Load() == 0 {
			return nil
		}
		select {
		case <-n.quiet:
		case <-ctx.Done():
			return fmt.Errorf("%w: %d messages in flight: %w", ErrNoQuiescence, n.inflight.Load(), context.Cause(ctx))
		case <-n.Env.Context.Done():
			return context.Cause(n.Env.Context)
		}
	}
}

// Snapshot collects the state of every actor through its own mailbox, so it is safe while the network runs.
func (n *Network) Snapshot(ctx context.Context) (Snapshot, error) {
	if !n.Env.Started.Load() || n.Env.Stopping.Load() {
		return n.Fabric.Snapshot(), nil
	}
	roots := make([]state.RootState, len(n.Roots))
	ports := make([]state.PortState, len(n.Ports))
	links := make([]state.LinkState, len(n.Relays))
	done := make(chan struct{}, len(n.boxes))
	for slot, box := range n.boxes {
		a := n.addr(slot)
		box.Post(item{inspect: func() {
			switch a.Kind {
			case KindRoot:
				roots[a.Handle] = n.Roots[a.Handle].RootState
			case KindPort:
				ports[a.Handle] = n.Ports[a.Handle].PortState
			case KindRelay:
				links[a.Handle] = n.Relays[a.Handle].LinkState
			}
			done <- struct{}{}
		}})
	}
	for range n.boxes {
		select {
		case <-done:
		case <-ctx.Done():
			return nil, context.Cause(ctx)
		case <-n.Env.Context.Done():
			return nil, context.Cause(n.Env.Context)
		}
	}
	return n.assemble(roots, ports, links), nil
}

var _ Bus = (*Network)(nil)
