package policy

import (
	"sort"

	"github.com/sarchlab/memsched/mem/dram/signal"
	"github.com/sarchlab/memsched/sim"
)

// RowEntry describes an open row.
type RowEntry struct {
	Addr      signal.AddrVec
	Hits      int
	Timestamp uint64
}

// RowTable follows the commands issued by a controller and keeps track of
// the open rows and their hit counts.
type RowTable struct {
	entries map[signal.AddrVec]*RowEntry
}

// NewRowTable creates an empty row table. Attach it to a controller as a
// hook.
func NewRowTable() *RowTable {
	return &RowTable{entries: make(map[signal.AddrVec]*RowEntry)}
}

func keyOf(addr signal.AddrVec) signal.AddrVec {
	return addr.Prefix(signal.LevelSubArray)
}

// Func updates the table when a command is issued.
func (t *RowTable) Func(ctx sim.HookCtx) {
	if ctx.Pos != signal.HookPosCommandIssue {
		return
	}

	issue := ctx.Item.(signal.CommandIssue)
	cmd := issue.Cmd

	if cmd.IsOpening() {
		addr := issue.Addr.Prefix(signal.LevelRow)
		t.entries[keyOf(addr)] = &RowEntry{
			Addr:      addr,
			Timestamp: issue.Now,
		}

		return
	}

	if cmd.IsAccessing() {
		e, ok := t.entries[keyOf(issue.Addr)]
		if ok && e.Addr[signal.LevelRow] == issue.Addr[signal.LevelRow] {
			e.Hits++
		}
	}

	if !cmd.IsClosing() {
		return
	}

	if cmd.IsRankWide() {
		t.closeRank(issue.Addr)
		return
	}

	delete(t.entries, keyOf(issue.Addr))
}

func (t *RowTable) closeRank(addr signal.AddrVec) {
	for key := range t.entries {
		if key[signal.LevelChannel] == addr[signal.LevelChannel] &&
			key[signal.LevelRank] == addr[signal.LevelRank] {
			delete(t.entries, key)
		}
	}
}

// Hits returns how many accesses the open row at addr has served, or 0 if
// that row is not open.
func (t *RowTable) Hits(addr signal.AddrVec) int {
	e, ok := t.entries[keyOf(addr)]
	if !ok || e.Addr[signal.LevelRow] != addr[signal.LevelRow] {
		return 0
	}

	return e.Hits
}

// OpenRows returns the open rows ordered by address.
func (t *RowTable) OpenRows() []RowEntry {
	rows := make([]RowEntry, 0, len(t.entries))
	for _, e := range t.entries {
		rows = append(rows, *e)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Addr.Less(rows[j].Addr)
	})

	return rows
}
