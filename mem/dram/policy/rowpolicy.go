package policy

import "github.com/sarchlab/memsched/mem/dram/signal"

// Opened keeps rows open until a conflicting request closes them.
type Opened struct{}

// SelectVictim never returns a victim.
func (Opened) SelectVictim(signal.CmdKind) (signal.AddrVec, bool) {
	return signal.AddrVec{}, false
}

// Closed closes any open row as soon as the device allows it.
type Closed struct {
	oracle   Oracle
	rowTable *RowTable
}

// NewClosed creates a closed-row policy.
func NewClosed(oracle Oracle, table *RowTable) *Closed {
	return &Closed{oracle: oracle, rowTable: table}
}

// SelectVictim returns the first open row that cmd can close now.
func (p *Closed) SelectVictim(cmd signal.CmdKind) (signal.AddrVec, bool) {
	for _, e := range p.rowTable.OpenRows() {
		if p.oracle.CanIssue(cmd, e.Addr) {
			return e.Addr, true
		}
	}

	return signal.AddrVec{}, false
}

// Timeout closes rows that have been open for a number of cycles.
type Timeout struct {
	oracle   Oracle
	rowTable *RowTable
	timeout  uint64
}

// NewTimeout creates a timeout row policy.
func NewTimeout(oracle Oracle, table *RowTable, timeout uint64) *Timeout {
	return &Timeout{oracle: oracle, rowTable: table, timeout: timeout}
}

// SelectVictim returns the first row that has timed out and that cmd can
// close now.
func (p *Timeout) SelectVictim(cmd signal.CmdKind) (signal.AddrVec, bool) {
	now := p.oracle.Now()

	for _, e := range p.rowTable.OpenRows() {
		if now-e.Timestamp < p.timeout {
			continue
		}

		if p.oracle.CanIssue(cmd, e.Addr) {
			return e.Addr, true
		}
	}

	return signal.AddrVec{}, false
}
