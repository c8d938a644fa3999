// Package device models the state of a DRAM channel: which rows are open,
// which commands are legal, and when each command becomes available.
package device

import (
	"log"

	"github.com/sarchlab/memsched/mem/dram/signal"
)

var terminalCommands = [signal.NumRequestType]signal.CmdKind{
	signal.RequestTypeRead:                   signal.CmdKindRead,
	signal.RequestTypeWrite:                  signal.CmdKindWrite,
	signal.RequestTypeRefresh:                signal.CmdKindRefresh,
	signal.RequestTypePowerDown:              signal.CmdKindPowerDownEnter,
	signal.RequestTypeSelfRefresh:            signal.CmdKindSelfRefreshEnter,
	signal.RequestTypeOpportunisticProbe:     signal.CmdKindRead,
	signal.RequestTypeInternalReadDerivative: signal.CmdKindMigrate,
}

// Device is a single DRAM channel made of ranks, banks, and sub-arrays.
type Device struct {
	name string

	numRank          int
	numBank          int
	numSubArray      int
	numRow           int
	numCol           int
	maxOpenSubArrays int
	prefetchSize     int
	channelWidth     int

	params        Params
	coldFactor    float64
	hotFactor     float64
	mode          signal.TimingMode
	effective     Params
	timing        Timing
	ranks         []*rank
	issuedPerKind [signal.NumCmdKind]uint64
}

// Name returns the name of the device.
func (d *Device) Name() string {
	return d.name
}

// TerminalCommand returns the command that completes a request type.
func (d *Device) TerminalCommand(t signal.RequestType) signal.CmdKind {
	return terminalCommands[t]
}

// IsOpening returns true if the command opens a row.
func (d *Device) IsOpening(cmd signal.CmdKind) bool {
	return cmd.IsOpening()
}

// PrefetchSize returns the number of bursts fetched by one access.
func (d *Device) PrefetchSize() int {
	return d.prefetchSize
}

// ChannelWidth returns the data bus width in bits.
func (d *Device) ChannelWidth() int {
	return d.channelWidth
}

// ReadLatency returns the cycles between a read command and its data, under
// the current timing mode.
func (d *Device) ReadLatency() int {
	return d.effective.ReadLatency()
}

// ProbeReadLatency returns the cycles a probe needs to complete.
func (d *Device) ProbeReadLatency() int {
	return d.effective.TProbe
}

// Timing returns the compiled timing tables of the current mode.
func (d *Device) Timing() Timing {
	return d.timing
}

// TimingMode returns the current timing mode.
func (d *Device) TimingMode() signal.TimingMode {
	return d.mode
}

// SetTimingMode switches the timing profile. Availability that was already
// computed is kept.
func (d *Device) SetTimingMode(mode signal.TimingMode) {
	d.mode = mode

	switch mode {
	case signal.TimingModeCold:
		d.effective = d.params.scale(d.coldFactor)
	case signal.TimingModeHot:
		d.effective = d.params.scale(d.hotFactor)
	default:
		d.effective = d.params
	}

	d.timing = compileTiming(d.effective)
}

func (d *Device) rankOf(addr signal.AddrVec) *rank {
	r := addr[signal.LevelRank]
	if r < 0 || r >= d.numRank {
		log.Panicf("%s: rank %d out of range", d.name, r)
	}

	return d.ranks[r]
}

func (d *Device) bankOf(addr signal.AddrVec) *bank {
	b := addr[signal.LevelBank]
	if b < 0 || b >= d.numBank {
		log.Panicf("%s: bank %d out of range", d.name, b)
	}

	return d.rankOf(addr).banks[b]
}

func (d *Device) subArrayOf(addr signal.AddrVec) int {
	s := addr[signal.LevelSubArray]
	if s < 0 || s >= d.numSubArray {
		log.Panicf("%s: sub-array %d out of range", d.name, s)
	}

	return s
}

// FirstCommand returns the command that must be issued next to make progress
// toward cmd at addr.
func (d *Device) FirstCommand(
	cmd signal.CmdKind,
	addr signal.AddrVec,
) signal.CmdKind {
	r := d.rankOf(addr)

	switch r.power {
	case PowerStatePowerDown:
		if cmd != signal.CmdKindPowerDownEnter {
			return signal.CmdKindPowerDownExit
		}
	case PowerStateSelfRefresh:
		if cmd != signal.CmdKindSelfRefreshEnter {
			return signal.CmdKindSelfRefreshExit
		}
	}

	switch cmd {
	case signal.CmdKindRefresh, signal.CmdKindSelfRefreshEnter:
		if r.power == PowerStateActive && !r.allClosed() {
			return signal.CmdKindPrechargeAll
		}

		return cmd
	}

	if !cmd.IsAccessing() {
		return cmd
	}

	b := d.bankOf(addr)
	s := d.subArrayOf(addr)
	open := b.openRows[s]

	switch {
	case open == addr[signal.LevelRow]:
		return cmd
	case open != signal.Sentinel:
		return signal.CmdKindPrecharge
	case b.numOpen >= d.maxOpenSubArrays:
		return signal.CmdKindPrechargeOther
	default:
		return signal.CmdKindActivate
	}
}

// CanIssue checks if the command is legal and satisfies all timing
// constraints at the given cycle.
func (d *Device) CanIssue(
	cmd signal.CmdKind,
	addr signal.AddrVec,
	now uint64,
) bool {
	if !d.isLegal(cmd, addr) {
		return false
	}

	if cmd.IsRankWide() {
		return d.rankOf(addr).readyFor(cmd, now)
	}

	return d.bankOf(addr).next[cmd] <= now
}

//nolint:gocyclo
func (d *Device) isLegal(cmd signal.CmdKind, addr signal.AddrVec) bool {
	r := d.rankOf(addr)

	switch cmd {
	case signal.CmdKindPowerDownEnter:
		return r.power != PowerStateSelfRefresh
	case signal.CmdKindPowerDownExit:
		return r.power == PowerStatePowerDown
	case signal.CmdKindSelfRefreshEnter:
		return r.power == PowerStateSelfRefresh ||
			(r.power == PowerStateActive && r.allClosed())
	case signal.CmdKindSelfRefreshExit:
		return r.power == PowerStateSelfRefresh
	}

	if r.power != PowerStateActive {
		return false
	}

	switch cmd {
	case signal.CmdKindRefresh:
		return r.allClosed()
	case signal.CmdKindPrechargeAll:
		return true
	}

	b := d.bankOf(addr)
	s := d.subArrayOf(addr)

	switch {
	case cmd == signal.CmdKindActivate:
		return b.openRows[s] == signal.Sentinel &&
			b.numOpen < d.maxOpenSubArrays
	case cmd.IsAccessing():
		return b.openRows[s] != signal.Sentinel &&
			b.openRows[s] == addr[signal.LevelRow]
	default:
		return true
	}
}

// Issue applies the state transition of the command and updates the timing
// of every bank.
func (d *Device) Issue(cmd signal.CmdKind, addr signal.AddrVec, now uint64) {
	d.applyState(cmd, addr)
	d.updateTiming(cmd, addr, now)
	d.issuedPerKind[cmd]++
}

//nolint:gocyclo
func (d *Device) applyState(cmd signal.CmdKind, addr signal.AddrVec) {
	r := d.rankOf(addr)

	switch cmd {
	case signal.CmdKindPowerDownEnter:
		if r.power == PowerStateActive {
			r.power = PowerStatePowerDown
		}

		return
	case signal.CmdKindSelfRefreshEnter:
		r.power = PowerStateSelfRefresh
		return
	case signal.CmdKindPowerDownExit, signal.CmdKindSelfRefreshExit:
		r.power = PowerStateActive
		return
	case signal.CmdKindPrechargeAll:
		for _, b := range r.banks {
			b.closeAll()
		}

		return
	case signal.CmdKindRefresh:
		return
	}

	b := d.bankOf(addr)
	s := d.subArrayOf(addr)

	switch cmd {
	case signal.CmdKindActivate:
		b.open(s, addr[signal.LevelRow])
	case signal.CmdKindPrecharge, signal.CmdKindPrechargeOther,
		signal.CmdKindReadPrecharge, signal.CmdKindWritePrecharge:
		b.close(s)
	}
}

func (d *Device) updateTiming(
	cmd signal.CmdKind,
	addr signal.AddrVec,
	now uint64,
) {
	target := d.rankOf(addr)
	rankWide := cmd.IsRankWide()

	var targetBank *bank
	if !rankWide {
		targetBank = d.bankOf(addr)
	}

	for _, r := range d.ranks {
		for _, b := range r.banks {
			var entries []TimeTableEntry

			switch {
			case r != target:
				entries = d.timing.OtherRanks[cmd]
			case rankWide || b == targetBank:
				entries = d.timing.SameBank[cmd]
			default:
				entries = d.timing.OtherBanksInRank[cmd]
			}

			for _, e := range entries {
				next := now + uint64(e.MinCycleInBetween)
				if next > b.next[e.NextCmdKind] {
					b.next[e.NextCmdKind] = next
				}
			}
		}
	}
}

// UpdateOccupancy changes the number of requests that a bank is serving.
func (d *Device) UpdateOccupancy(addr signal.AddrVec, delta int, now uint64) {
	r := d.rankOf(addr)
	b := d.bankOf(addr)

	if b.serving+delta < 0 {
		log.Panicf("%s: negative occupancy at %s", d.name, addr)
	}

	b.serving += delta

	wasServing := r.serving > 0
	r.serving += delta

	switch {
	case !wasServing && r.serving > 0:
		r.activeSince = now
	case wasServing && r.serving == 0:
		r.activeCycles += now - r.activeSince
	}
}

// IsRowHit checks if an accessing command would hit the open row.
func (d *Device) IsRowHit(cmd signal.CmdKind, addr signal.AddrVec) bool {
	if !cmd.IsAccessing() {
		return false
	}

	b := d.bankOf(addr)
	s := d.subArrayOf(addr)

	return b.openRows[s] != signal.Sentinel &&
		b.openRows[s] == addr[signal.LevelRow]
}

// IsRowOpen checks if any row is open in the sub-array of the address.
func (d *Device) IsRowOpen(cmd signal.CmdKind, addr signal.AddrVec) bool {
	if !cmd.IsAccessing() {
		return false
	}

	return d.bankOf(addr).openRows[d.subArrayOf(addr)] != signal.Sentinel
}

// PartitionsOpen reports, for each sub-array of the bank, whether it holds
// an open row.
func (d *Device) PartitionsOpen(addr signal.AddrVec) []bool {
	b := d.bankOf(addr)
	open := make([]bool, d.numSubArray)

	for i, row := range b.openRows {
		open[i] = row != signal.Sentinel
	}

	return open
}

// OpenRow returns the row open in the sub-array of the address, or the
// sentinel.
func (d *Device) OpenRow(addr signal.AddrVec) int {
	return d.bankOf(addr).openRows[d.subArrayOf(addr)]
}

// PowerState returns the power state of a rank.
func (d *Device) PowerState(rankID int) PowerState {
	return d.ranks[rankID].power
}

// Serving returns the number of requests occupying the bank.
func (d *Device) Serving(addr signal.AddrVec) int {
	return d.bankOf(addr).serving
}

// ActiveCycles returns the number of cycles during which the rank served at
// least one request.
func (d *Device) ActiveCycles(rankID int) uint64 {
	return d.ranks[rankID].activeCycles
}

// NumRank returns the number of ranks.
func (d *Device) NumRank() int {
	return d.numRank
}

// NumBank returns the number of banks per rank.
func (d *Device) NumBank() int {
	return d.numBank
}

// NumSubArray returns the number of sub-arrays per bank.
func (d *Device) NumSubArray() int {
	return d.numSubArray
}

// IssuedCount returns how many commands of a kind reached the device.
func (d *Device) IssuedCount(cmd signal.CmdKind) uint64 {
	return d.issuedPerKind[cmd]
}

// NumRow returns the number of rows per bank.
func (d *Device) NumRow() int {
	return d.numRow
}

// NumCol returns the number of columns per row.
func (d *Device) NumCol() int {
	return d.numCol
}
