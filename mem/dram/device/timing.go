package device

import (
	"math"

	"github.com/sarchlab/memsched/mem/dram/signal"
)

// TimeTableEntry is an entry in a TimeTable.
type TimeTableEntry struct {
	NextCmdKind       signal.CmdKind
	MinCycleInBetween int
}

// TimeTable maps from a command kind to the delays that the command imposes
// on the following commands.
type TimeTable [][]TimeTableEntry

// MakeTimeTable creates an empty table with one row per command kind.
func MakeTimeTable() TimeTable {
	return make(TimeTable, signal.NumCmdKind)
}

// Timing holds the tables that constrain the next command after a command is
// issued. Rank-wide commands apply SameBank to every bank of their rank.
type Timing struct {
	SameBank         TimeTable
	OtherBanksInRank TimeTable
	OtherRanks       TimeTable
}

// Params are the raw timing parameters of a device, in cycles.
type Params struct {
	BurstCycle int `yaml:"burst_cycle"`
	TCL        int `yaml:"tcl"`
	TCWL       int `yaml:"tcwl"`
	TRCD       int `yaml:"trcd"`
	TRP        int `yaml:"trp"`
	TRAS       int `yaml:"tras"`
	TCCD       int `yaml:"tccd"`
	TRTP       int `yaml:"trtp"`
	TWTR       int `yaml:"twtr"`
	TWR        int `yaml:"twr"`
	TRRD       int `yaml:"trrd"`
	TRTRS      int `yaml:"trtrs"`
	TRFC       int `yaml:"trfc"`
	TXP        int `yaml:"txp"`
	TCKE       int `yaml:"tcke"`
	TCKESR     int `yaml:"tckesr"`
	TXS        int `yaml:"txs"`

	// TProbe is the number of cycles a probe occupies the data path before
	// it is considered complete.
	TProbe int `yaml:"tprobe"`
}

// DefaultParams returns DDR3-1600 timing.
func DefaultParams() Params {
	return Params{
		BurstCycle: 4,
		TCL:        11,
		TCWL:       8,
		TRCD:       11,
		TRP:        11,
		TRAS:       28,
		TCCD:       4,
		TRTP:       6,
		TWTR:       6,
		TWR:        12,
		TRRD:       5,
		TRTRS:      1,
		TRFC:       208,
		TXP:        5,
		TCKE:       4,
		TCKESR:     5,
		TXS:        216,
		TProbe:     4,
	}
}

// ReadLatency is the number of cycles from a read command to its last data
// beat.
func (p Params) ReadLatency() int {
	return p.TCL + p.BurstCycle
}

// scale applies a factor to the parameters that depend on the cell charge.
func (p Params) scale(factor float64) Params {
	s := func(v int) int {
		return max(1, int(math.Ceil(float64(v)*factor)))
	}

	p.TRCD = s(p.TRCD)
	p.TRP = s(p.TRP)
	p.TRAS = s(p.TRAS)
	p.TWR = s(p.TWR)

	return p
}

func nonNegative(v int) int {
	return max(0, v)
}

//nolint:funlen
func compileTiming(p Params) Timing {
	t := Timing{
		SameBank:         MakeTimeTable(),
		OtherBanksInRank: MakeTimeTable(),
		OtherRanks:       MakeTimeTable(),
	}

	readToRead := max(p.BurstCycle, p.TCCD)
	readToReadO := p.BurstCycle + p.TRTRS
	readToWrite := nonNegative(p.TCL + p.BurstCycle - p.TCWL + p.TRTRS)
	readToWriteO := readToWrite
	readToPrecharge := p.TRTP
	readpToAct := p.BurstCycle + p.TRTP + p.TRP

	writeToRead := p.TCWL + p.BurstCycle + p.TWTR
	writeToReadO := nonNegative(p.TCWL + p.BurstCycle + p.TRTRS - p.TCL)
	writeToWrite := max(p.BurstCycle, p.TCCD)
	writeToWriteO := p.BurstCycle
	writeToPrecharge := p.TCWL + p.BurstCycle + p.TWR
	writepToAct := writeToPrecharge + p.TRP

	activateToActivate := p.TRAS + p.TRP
	activateToActivateO := p.TRRD
	activateToAccess := p.TRCD
	activateToPrecharge := p.TRAS
	prechargeToActivate := p.TRP
	refreshToAny := p.TRFC

	for _, kind := range []signal.CmdKind{
		signal.CmdKindRead, signal.CmdKindMigrate,
	} {
		t.SameBank[kind] = []TimeTableEntry{
			{signal.CmdKindRead, readToRead},
			{signal.CmdKindReadPrecharge, readToRead},
			{signal.CmdKindMigrate, readToRead},
			{signal.CmdKindWrite, readToWrite},
			{signal.CmdKindWritePrecharge, readToWrite},
			{signal.CmdKindPrecharge, readToPrecharge},
			{signal.CmdKindPrechargeOther, readToPrecharge},
			{signal.CmdKindPrechargeAll, readToPrecharge},
		}
		t.OtherBanksInRank[kind] = []TimeTableEntry{
			{signal.CmdKindRead, readToRead},
			{signal.CmdKindReadPrecharge, readToRead},
			{signal.CmdKindMigrate, readToRead},
			{signal.CmdKindWrite, readToWrite},
			{signal.CmdKindWritePrecharge, readToWrite},
			{signal.CmdKindPrechargeAll, readToPrecharge},
		}
		t.OtherRanks[kind] = []TimeTableEntry{
			{signal.CmdKindRead, readToReadO},
			{signal.CmdKindReadPrecharge, readToReadO},
			{signal.CmdKindMigrate, readToReadO},
			{signal.CmdKindWrite, readToWriteO},
			{signal.CmdKindWritePrecharge, readToWriteO},
		}
	}

	t.SameBank[signal.CmdKindReadPrecharge] = []TimeTableEntry{
		{signal.CmdKindActivate, readpToAct},
	}
	t.OtherBanksInRank[signal.CmdKindReadPrecharge] =
		t.OtherBanksInRank[signal.CmdKindRead]
	t.OtherRanks[signal.CmdKindReadPrecharge] =
		t.OtherRanks[signal.CmdKindRead]

	t.SameBank[signal.CmdKindWrite] = []TimeTableEntry{
		{signal.CmdKindRead, writeToRead},
		{signal.CmdKindReadPrecharge, writeToRead},
		{signal.CmdKindMigrate, writeToRead},
		{signal.CmdKindWrite, writeToWrite},
		{signal.CmdKindWritePrecharge, writeToWrite},
		{signal.CmdKindPrecharge, writeToPrecharge},
		{signal.CmdKindPrechargeOther, writeToPrecharge},
		{signal.CmdKindPrechargeAll, writeToPrecharge},
	}
	t.OtherBanksInRank[signal.CmdKindWrite] = []TimeTableEntry{
		{signal.CmdKindRead, writeToRead},
		{signal.CmdKindReadPrecharge, writeToRead},
		{signal.CmdKindMigrate, writeToRead},
		{signal.CmdKindWrite, writeToWrite},
		{signal.CmdKindWritePrecharge, writeToWrite},
		{signal.CmdKindPrechargeAll, writeToPrecharge},
	}
	t.OtherRanks[signal.CmdKindWrite] = []TimeTableEntry{
		{signal.CmdKindRead, writeToReadO},
		{signal.CmdKindReadPrecharge, writeToReadO},
		{signal.CmdKindMigrate, writeToReadO},
		{signal.CmdKindWrite, writeToWriteO},
		{signal.CmdKindWritePrecharge, writeToWriteO},
	}

	t.SameBank[signal.CmdKindWritePrecharge] = []TimeTableEntry{
		{signal.CmdKindActivate, writepToAct},
	}
	t.OtherBanksInRank[signal.CmdKindWritePrecharge] =
		t.OtherBanksInRank[signal.CmdKindWrite]
	t.OtherRanks[signal.CmdKindWritePrecharge] =
		t.OtherRanks[signal.CmdKindWrite]

	t.SameBank[signal.CmdKindActivate] = []TimeTableEntry{
		{signal.CmdKindActivate, activateToActivate},
		{signal.CmdKindRead, activateToAccess},
		{signal.CmdKindReadPrecharge, activateToAccess},
		{signal.CmdKindMigrate, activateToAccess},
		{signal.CmdKindWrite, activateToAccess},
		{signal.CmdKindWritePrecharge, activateToAccess},
		{signal.CmdKindPrecharge, activateToPrecharge},
		{signal.CmdKindPrechargeOther, activateToPrecharge},
		{signal.CmdKindPrechargeAll, activateToPrecharge},
	}
	t.OtherBanksInRank[signal.CmdKindActivate] = []TimeTableEntry{
		{signal.CmdKindActivate, activateToActivateO},
		{signal.CmdKindPrechargeAll, activateToPrecharge},
	}

	for _, kind := range []signal.CmdKind{
		signal.CmdKindPrecharge,
		signal.CmdKindPrechargeOther,
		signal.CmdKindPrechargeAll,
	} {
		t.SameBank[kind] = []TimeTableEntry{
			{signal.CmdKindActivate, prechargeToActivate},
			{signal.CmdKindRefresh, prechargeToActivate},
			{signal.CmdKindSelfRefreshEnter, prechargeToActivate},
		}
	}

	t.SameBank[signal.CmdKindRefresh] = []TimeTableEntry{
		{signal.CmdKindActivate, refreshToAny},
		{signal.CmdKindRefresh, refreshToAny},
		{signal.CmdKindPowerDownEnter, refreshToAny},
		{signal.CmdKindSelfRefreshEnter, refreshToAny},
	}

	t.SameBank[signal.CmdKindPowerDownEnter] = []TimeTableEntry{
		{signal.CmdKindPowerDownExit, p.TCKE},
	}
	t.SameBank[signal.CmdKindPowerDownExit] = afterExit(p.TXP)

	t.SameBank[signal.CmdKindSelfRefreshEnter] = []TimeTableEntry{
		{signal.CmdKindSelfRefreshExit, p.TCKESR},
	}
	t.SameBank[signal.CmdKindSelfRefreshExit] = afterExit(p.TXS)

	return t
}

func afterExit(cycles int) []TimeTableEntry {
	return []TimeTableEntry{
		{signal.CmdKindActivate, cycles},
		{signal.CmdKindPrecharge, cycles},
		{signal.CmdKindPrechargeAll, cycles},
		{signal.CmdKindPrechargeOther, cycles},
		{signal.CmdKindRefresh, cycles},
		{signal.CmdKindPowerDownEnter, cycles},
		{signal.CmdKindSelfRefreshEnter, cycles},
	}
}
