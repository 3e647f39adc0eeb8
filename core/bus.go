package core

import "fmt"

type ProtoEvent int

// trace events

const (
	Bootstrapped ProtoEvent = iota
	RootAdopted
	RootReasserted
	ClaimCorroborated
	ClaimAnnounced
	ClaimLearned
	GateOpened
	GateClosed
	ClaimRelayed
	ClaimSuppressed
)

// warn events

const (
	UnknownSender ProtoEvent = iota + 1000
	UnknownMessage
)

func (e ProtoEvent) String() string {
	switch e {
	case Bootstrapped:
		return "BOOTSTRAPPED"
	case RootAdopted:
		return "ROOT_ADOPTED"
	case RootReasserted:
		return "ROOT_REASSERTED"
	case ClaimCorroborated:
		return "CLAIM_CORROBORATED"
	case ClaimAnnounced:
		return "CLAIM_ANNOUNCED"
	case ClaimLearned:
		return "CLAIM_LEARNED"
	case GateOpened:
		return "GATE_OPENED"
	case GateClosed:
		return "GATE_CLOSED"
	case ClaimRelayed:
		return "CLAIM_RELAYED"
	case ClaimSuppressed:
		return "CLAIM_SUPPRESSED"
	case UnknownSender:
		return "UNKNOWN_SENDER"
	case UnknownMessage:
		return "UNKNOWN_MESSAGE"
	}
	return fmt.Sprintf("ProtoEvent(%d)", int(e))
}

func (e ProtoEvent) IsWarning() bool {
	return e >= UnknownSender
}

// Bus is how controllers talk to each other. Every post is fire-and-forget and must never block the caller.
type Bus interface {
	PostRoot(to BridgeHandle, msg RootMsg)
	PostPort(to PortHandle, msg PortMsg)
	PostRelay(to PortHandle, msg RelayMsg)
	Log(event ProtoEvent, desc string, args ...any)
}

// Observer sees every message right before it is handled.
type Observer func(to Addr, msg any)
