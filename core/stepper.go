package core

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/encodeous/spantree/state"
)

var ErrNoQuiescence = errors.New("protocol did not quiesce")

// Stepper runs the protocol on the calling goroutine. Each step delivers the head of one non-empty mailbox,
// picked by a seeded PRNG weighted by mailbox depth, so interleavings are reproducible from the seed.
type Stepper struct {
	*Fabric
	Observer  Observer
	Logger    *slog.Logger
	Delivered int

	queues  [][]any
	pending int
	rnd     *rand.Rand
}

func NewStepper(t *Topology, seed uint64, log *slog.Logger) *Stepper {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Stepper{
		Fabric: NewFabric(t),
		Logger: log,
		queues: make([][]any, t.slots()),
		rnd:    rand.New(rand.NewPCG(seed, seed^0x5deece66d)),
	}
}

func (s *Stepper) post(to Addr, msg any) {
	slot, ok := s.slot(to)
	if !ok {
		s.Log(UnknownSender, "message to unknown address dropped", "to", to, "msg", msg)
		return
	}
	s.queues[slot] = append(s.queues[slot], msg)
	s.pending++
}

func (s *Stepper) PostRoot(to BridgeHandle, msg RootMsg) { s.post(RootAddr(to), msg) }
func (s *Stepper) PostPort(to PortHandle, msg PortMsg)   { s.post(PortAddr(to), msg) }
func (s *Stepper) PostRelay(to PortHandle, msg RelayMsg) { s.post(RelayAddr(to), msg) }

func (s *Stepper) Log(event ProtoEvent, desc string, args ...any) {
	if event.IsWarning() {
		s.Logger.Warn(fmt.Sprintf("%s %s", event.String(), desc), args...)
	} else {
		s.Logger.Debug(fmt.Sprintf("%s %s", event.String(), desc), args...)
	}
}

func (s *Stepper) Bootstrap(b BridgeHandle, id state.BridgeId) {
	s.PostRoot(b, Bootstrap{Id: id})
}

// BootstrapAll delivers each bridge's configured id.
func (s *Stepper) BootstrapAll() {
	for bh, id := range s.bootstrapIds() {
		s.Bootstrap(BridgeHandle(bh), id)
	}
}

// Pending returns the number of undelivered messages.
func (s *Stepper) Pending() int {
	return s.pending
}

// Step delivers a single message. It returns false once every mailbox is empty.
func (s *Stepper) Step() bool {
	if s.pending == 0 {
		return false
	}
	pick := s.rnd.IntN(s.pending)
	for slot, q := range s.queues {
		if pick >= len(q) {
			pick -= len(q)
			continue
		}
		msg := q[0]
		s.queues[slot] = q[1:]
		s.pending--
		to := s.addr(slot)
		if s.Observer != nil {
			s.Observer(to, msg)
		}
		s.Delivered++
		s.deliver(s, to, msg)
		return true
	}
	return false
}

// Run steps until the protocol quiesces or limit deliveries have been made.
func (s *Stepper) Run(limit int) (int, error) {
	start := s.Delivered
	for s.Step() {
		if s.Delivered-start >= limit && s.pending > 0 {
			return s.Delivered - start, fmt.Errorf("%w after %d deliveries", ErrNoQuiescence, limit)
		}
	}
	return s.Delivered - start, nil
}

var _ Bus = (*Stepper)(nil)
