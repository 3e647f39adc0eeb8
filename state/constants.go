package state

import "time"

const (
	// INF is the distance carried by WorstClaim. Distances saturate here instead of wrapping.
	INF = ^(uint32)(0)
)

var (
	DrainTimeout = time.Second * 10

	// StepLimit bounds a deterministic run; small topologies settle within a few hundred deliveries.
	StepLimit = 100_000

	// MailboxWarnDepth logs a warning when a single mailbox backs up this far.
	MailboxWarnDepth = 4096

	// SlowDispatch is the handler duration above which a delivery is logged as slow.
	SlowDispatch = time.Millisecond * 4

	DefaultTopologyPath = "topology.yaml"
)
