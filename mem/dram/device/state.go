package device

import (
	"fmt"

	"github.com/sarchlab/memsched/mem/dram/signal"
)

// PowerState is the power state of a rank.
type PowerState int

// A list of rank power states.
const (
	PowerStateActive PowerState = iota
	PowerStatePowerDown
	PowerStateSelfRefresh
)

func (s PowerState) String() string {
	switch s {
	case PowerStateActive:
		return "active"
	case PowerStatePowerDown:
		return "power-down"
	case PowerStateSelfRefresh:
		return "self-refresh"
	default:
		return fmt.Sprintf("PowerState(%d)", int(s))
	}
}

type bank struct {
	openRows []int
	numOpen  int
	serving  int
	next     [signal.NumCmdKind]uint64
}

func newBank(numSubArray int) *bank {
	b := &bank{openRows: make([]int, numSubArray)}
	for i := range b.openRows {
		b.openRows[i] = signal.Sentinel
	}

	return b
}

func (b *bank) open(subArray, row int) {
	if b.openRows[subArray] == signal.Sentinel {
		b.numOpen++
	}

	b.openRows[subArray] = row
}

func (b *bank) close(subArray int) {
	if b.openRows[subArray] != signal.Sentinel {
		b.numOpen--
	}

	b.openRows[subArray] = signal.Sentinel
}

func (b *bank) closeAll() {
	for i := range b.openRows {
		b.openRows[i] = signal.Sentinel
	}

	b.numOpen = 0
}

type rank struct {
	power        PowerState
	banks        []*bank
	serving      int
	activeSince  uint64
	activeCycles uint64
}

func (r *rank) allClosed() bool {
	for _, b := range r.banks {
		if b.numOpen > 0 {
			return false
		}
	}

	return true
}

func (r *rank) readyFor(cmd signal.CmdKind, now uint64) bool {
	for _, b := range r.banks {
		if b.next[cmd] > now {
			return false
		}
	}

	return true
}
