// Package policy provides queue-arbitration and row-closing policies for the
// DRAM scheduler.
package policy

import (
	"fmt"

	"github.com/sarchlab/memsched/mem/dram/queue"
	"github.com/sarchlab/memsched/mem/dram/signal"
)

// Oracle answers questions about the state of the controller and its device
// in the current cycle.
type Oracle interface {
	IsReady(req *signal.Request) bool
	IsRowHit(req *signal.Request) bool
	IsRowOpen(req *signal.Request) bool
	CanIssue(cmd signal.CmdKind, addr signal.AddrVec) bool
	Now() uint64
}

// Scheduler picks the request to serve next from a queue.
type Scheduler interface {
	SelectHead(q *queue.Queue) *signal.Request
}

// RowPolicy selects a row to close speculatively.
type RowPolicy interface {
	SelectVictim(cmd signal.CmdKind) (signal.AddrVec, bool)
}

// Names of the schedulers.
const (
	SchedulerFCFS           = "fcfs"
	SchedulerFRFCFS         = "frfcfs"
	SchedulerFRFCFSCap      = "frfcfs_cap"
	SchedulerFRFCFSPriorHit = "frfcfs_priorhit"
)

// Names of the row policies.
const (
	RowPolicyClosed  = "closed"
	RowPolicyOpened  = "opened"
	RowPolicyTimeout = "timeout"
)

// SchedulerNames lists every scheduler that NewScheduler accepts.
var SchedulerNames = []string{
	SchedulerFCFS, SchedulerFRFCFS, SchedulerFRFCFSCap, SchedulerFRFCFSPriorHit,
}

// RowPolicyNames lists every row policy that NewRowPolicy accepts.
var RowPolicyNames = []string{
	RowPolicyClosed, RowPolicyOpened, RowPolicyTimeout,
}

// NewScheduler creates a scheduler by name. The row table is only required
// by FR-FCFS-Cap.
func NewScheduler(
	name string,
	oracle Oracle,
	table *RowTable,
	capLimit int,
) (Scheduler, error) {
	switch name {
	case SchedulerFCFS:
		return FCFS{}, nil
	case SchedulerFRFCFS:
		return NewFRFCFS(oracle), nil
	case SchedulerFRFCFSCap:
		if table == nil {
			return nil, fmt.Errorf("scheduler %s requires a row table", name)
		}

		return NewFRFCFSCap(oracle, table, capLimit), nil
	case SchedulerFRFCFSPriorHit:
		return NewFRFCFSPriorHit(oracle), nil
	default:
		return nil, fmt.Errorf("unknown scheduler %q", name)
	}
}

// NewRowPolicy creates a row policy by name. Closed and timeout policies
// require a row table.
func NewRowPolicy(
	name string,
	oracle Oracle,
	table *RowTable,
	timeout uint64,
) (RowPolicy, error) {
	switch name {
	case RowPolicyOpened:
		return Opened{}, nil
	case RowPolicyClosed, RowPolicyTimeout:
		if table == nil {
			return nil, fmt.Errorf("row policy %s requires a row table", name)
		}

		if name == RowPolicyClosed {
			return NewClosed(oracle, table), nil
		}

		return NewTimeout(oracle, table, timeout), nil
	default:
		return nil, fmt.Errorf("unknown row policy %q", name)
	}
}
