package dram

import (
	"github.com/sarchlab/memsched/mem/dram/queue"
	"github.com/sarchlab/memsched/mem/dram/signal"
)

// Spec describes the static properties of a device family.
type Spec interface {
	// TerminalCommand returns the command that completes a request type.
	TerminalCommand(t signal.RequestType) signal.CmdKind
	IsOpening(cmd signal.CmdKind) bool
	PrefetchSize() int
	ChannelWidth() int
	ReadLatency() int
	ProbeReadLatency() int
}

// Channel is the device-state collaborator. It tracks open rows and decides
// which commands are legal at which cycle.
type Channel interface {
	Spec

	// FirstCommand returns the command that must be issued next to make
	// progress toward cmd.
	FirstCommand(cmd signal.CmdKind, addr signal.AddrVec) signal.CmdKind
	CanIssue(cmd signal.CmdKind, addr signal.AddrVec, now uint64) bool
	Issue(cmd signal.CmdKind, addr signal.AddrVec, now uint64)
	UpdateOccupancy(addr signal.AddrVec, delta int, now uint64)
	IsRowHit(cmd signal.CmdKind, addr signal.AddrVec) bool
	IsRowOpen(cmd signal.CmdKind, addr signal.AddrVec) bool
}

// PartitionInspector is implemented by channels whose banks hold several
// independently buffered sub-arrays.
type PartitionInspector interface {
	// PartitionsOpen reports whether each sub-array of the bank of addr
	// holds an open row.
	PartitionsOpen(addr signal.AddrVec) []bool
}

// TimingModeSetter is implemented by channels whose timing depends on the
// environment.
type TimingModeSetter interface {
	SetTimingMode(mode signal.TimingMode)
}

// Scheduler picks the request to serve next from a queue. It returns nil if
// there is no candidate.
type Scheduler interface {
	SelectHead(q *queue.Queue) *signal.Request
}

// RowPolicy selects a row to close when the scheduler has nothing else to
// do.
type RowPolicy interface {
	SelectVictim(cmd signal.CmdKind) (signal.AddrVec, bool)
}

// Refresher runs once per tick before the scheduler selects a command.
type Refresher interface {
	Tick(now uint64) bool
}
