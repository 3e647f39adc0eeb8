package core

import (
	"fmt"

	"github.com/encodeous/spantree/state"
)

type ActorKind int

const (
	KindRoot ActorKind = iota
	KindPort
	KindRelay
)

func (k ActorKind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindPort:
		return "port"
	case KindRelay:
		return "relay"
	}
	return fmt.Sprintf("ActorKind(%d)", int(k))
}

// Addr names a single mailbox. Relays share handles with the port they belong to.
type Addr struct {
	Kind   ActorKind
	Handle int
}

func RootAddr(b BridgeHandle) Addr { return Addr{KindRoot, int(b)} }
func PortAddr(p PortHandle) Addr   { return Addr{KindPort, int(p)} }
func RelayAddr(p PortHandle) Addr  { return Addr{KindRelay, int(p)} }

func (a Addr) String() string {
	return fmt.Sprintf("%s:%d", a.Kind, a.Handle)
}

// RootMsg is handled by a RootController: Bootstrap | Announce | RootInbound.
type RootMsg interface {
	rootMsg()
}

// PortMsg is handled by a PortController: ResetPort | SetBestPort | SetBadPort | OutboundClaim | PortInbound.
type PortMsg interface {
	portMsg()
}

// RelayMsg is handled by a LanRelay: TurnOn | TurnOff | Send.
type RelayMsg interface {
	relayMsg()
}

type Bootstrap struct {
	Id state.BridgeId
}

type Announce struct{}

// RootInbound carries a claim heard on one of the bridge's own ports.
type RootInbound struct {
	Via    PortHandle
	Sender state.BridgeId
	Claim  state.Claim
}

// ResetPort forgets everything a port learned from its segment.
type ResetPort struct{}

type SetBestPort struct{}

type SetBadPort struct{}

// OutboundClaim asks a port to transmit the bridge's claim on its segment.
type OutboundClaim struct {
	Sender state.BridgeId
	Claim  state.Claim
}

// PortInbound is a claim arriving from the segment.
type PortInbound struct {
	Sender state.BridgeId
	Claim  state.Claim
}

type TurnOn struct{}

type TurnOff struct{}

type Send struct {
	Sender state.BridgeId
	Claim  state.Claim
}

func (Bootstrap) rootMsg()   {}
func (Announce) rootMsg()    {}
func (RootInbound) rootMsg() {}

func (ResetPort) portMsg()     {}
func (SetBestPort) portMsg()   {}
func (SetBadPort) portMsg()    {}
func (OutboundClaim) portMsg() {}
func (PortInbound) portMsg()   {}

func (TurnOn) relayMsg()  {}
func (TurnOff) relayMsg() {}
func (Send) relayMsg()    {}

func (m Bootstrap) String() string { return fmt.Sprintf("BOOTSTRAP %d", m.Id) }
func (Announce) String() string    { return "ANNOUNCE" }
func (m RootInbound) String() string {
	return fmt.Sprintf("ROOT_INBOUND via %d from %d %s", m.Via, m.Sender, m.Claim)
}
func (ResetPort) String() string       { return "RESET_PORT" }
func (SetBestPort) String() string     { return "SET_BEST_PORT" }
func (SetBadPort) String() string      { return "SET_BAD_PORT" }
func (m OutboundClaim) String() string { return fmt.Sprintf("OUTBOUND from %d %s", m.Sender, m.Claim) }
func (m PortInbound) String() string {
	return fmt.Sprintf("PORT_INBOUND from %d %s", m.Sender, m.Claim)
}
func (TurnOn) String() string  { return "TURN_ON" }
func (TurnOff) String() string { return "TURN_OFF" }
func (m Send) String() string  { return fmt.Sprintf("SEND from %d %s", m.Sender, m.Claim) }
