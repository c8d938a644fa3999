package dram

import (
	"slices"
	"sort"

	"github.com/sarchlab/memsched/datarecording"
	"github.com/sarchlab/memsched/mem/dram/signal"
)

// CoreStats are the row-buffer outcomes of the requests of one core.
type CoreStats struct {
	ReadHits       uint64
	ReadConflicts  uint64
	ReadMisses     uint64
	WriteHits      uint64
	WriteConflicts uint64
	WriteMisses    uint64
}

// Stats collects the counters of a scheduler. Only the scheduler that owns
// it mutates it.
type Stats struct {
	perCore map[int]*CoreStats

	RowHits      uint64
	RowConflicts uint64
	RowMisses    uint64

	ReadTransactionBytes  uint64
	WriteTransactionBytes uint64

	QueueLengthSum      uint64
	ReadQueueLengthSum  uint64
	WriteQueueLengthSum uint64
	OtherQueueLengthSum uint64
	Ticks               uint64

	ReadLatencySum uint64
	ReadCount      uint64

	ProbesIssued          uint64
	ProbesCompleted       uint64
	SpeculativePrecharges uint64
	WriteModeSwitches     uint64
	PromotionsDeferred    uint64

	CommandsIssued [signal.NumCmdKind]uint64
}

// NewStats creates an empty statistics object.
func NewStats() *Stats {
	return &Stats{perCore: make(map[int]*CoreStats)}
}

// Core returns the counters of a core, creating them on first use.
func (s *Stats) Core(coreID int) *CoreStats {
	cs, ok := s.perCore[coreID]
	if !ok {
		cs = &CoreStats{}
		s.perCore[coreID] = cs
	}

	return cs
}

// CoreStatsEntry is a row of the per-core table.
type CoreStatsEntry struct {
	CoreID int
	CoreStats
}

// StatsSnapshot is a copy of the statistics at one point in time.
type StatsSnapshot struct {
	Cycle   uint64
	PerCore []CoreStatsEntry

	RowHits      uint64
	RowConflicts uint64
	RowMisses    uint64

	ReadTransactionBytes  uint64
	WriteTransactionBytes uint64

	AvgQueueLength      float64
	AvgReadQueueLength  float64
	AvgWriteQueueLength float64
	AvgOtherQueueLength float64

	ReadCount      uint64
	AvgReadLatency float64

	ProbesIssued           uint64
	ProbesCompleted        uint64
	SpeculativePrecharges  uint64
	WriteModeSwitches      uint64
	PromotionsDeferred     uint64
	PendingOrderViolations uint64

	CommandsIssued map[string]uint64
}

func average(sum, n uint64) float64 {
	if n == 0 {
		return 0
	}

	return float64(sum) / float64(n)
}

// Snapshot copies the counters and derives the averages.
func (s *Stats) Snapshot() StatsSnapshot {
	snap := StatsSnapshot{
		Cycle:                 s.Ticks,
		RowHits:               s.RowHits,
		RowConflicts:          s.RowConflicts,
		RowMisses:             s.RowMisses,
		ReadTransactionBytes:  s.ReadTransactionBytes,
		WriteTransactionBytes: s.WriteTransactionBytes,
		AvgQueueLength:        average(s.QueueLengthSum, s.Ticks),
		AvgReadQueueLength:    average(s.ReadQueueLengthSum, s.Ticks),
		AvgWriteQueueLength:   average(s.WriteQueueLengthSum, s.Ticks),
		AvgOtherQueueLength:   average(s.OtherQueueLengthSum, s.Ticks),
		ReadCount:             s.ReadCount,
		AvgReadLatency:        average(s.ReadLatencySum, s.ReadCount),
		ProbesIssued:          s.ProbesIssued,
		ProbesCompleted:       s.ProbesCompleted,
		SpeculativePrecharges: s.SpeculativePrecharges,
		WriteModeSwitches:     s.WriteModeSwitches,
		PromotionsDeferred:    s.PromotionsDeferred,
		CommandsIssued:        make(map[string]uint64),
	}

	for id, cs := range s.perCore {
		snap.PerCore = append(snap.PerCore,
			CoreStatsEntry{CoreID: id, CoreStats: *cs})
	}

	sort.Slice(snap.PerCore, func(i, j int) bool {
		return snap.PerCore[i].CoreID < snap.PerCore[j].CoreID
	})

	for k, n := range s.CommandsIssued {
		if n > 0 {
			snap.CommandsIssued[signal.CmdKind(k).String()] = n
		}
	}

	return snap
}

type coreStatsRow struct {
	Location       string
	CoreID         int
	ReadHits       uint64
	ReadConflicts  uint64
	ReadMisses     uint64
	WriteHits      uint64
	WriteConflicts uint64
	WriteMisses    uint64
}

type summaryRow struct {
	Location               string
	Cycle                  uint64
	RowHits                uint64
	RowConflicts           uint64
	RowMisses              uint64
	ReadTransactionBytes   uint64
	WriteTransactionBytes  uint64
	AvgQueueLength         float64
	AvgReadQueueLength     float64
	AvgWriteQueueLength    float64
	ReadCount              uint64
	AvgReadLatency         float64
	ProbesIssued           uint64
	ProbesCompleted        uint64
	SpeculativePrecharges  uint64
	WriteModeSwitches      uint64
	PromotionsDeferred     uint64
	PendingOrderViolations uint64
}

type commandRow struct {
	Location string
	Command  string
	Count    uint64
}

const (
	coreStatsTable = "dram_core_stats"
	summaryTable   = "dram_summary"
	commandTable   = "dram_commands"
)

// Record writes the snapshot into the recorder. Tables are created on first
// use, so several controllers can share one recorder.
func (s StatsSnapshot) Record(
	recorder datarecording.DataRecorder,
	where string,
) {
	tables := recorder.ListTables()
	ensure := func(name string, sample any) {
		if !slices.Contains(tables, name) {
			recorder.CreateTable(name, sample)
		}
	}

	ensure(coreStatsTable, coreStatsRow{})
	ensure(summaryTable, summaryRow{})
	ensure(commandTable, commandRow{})

	for _, e := range s.PerCore {
		recorder.InsertData(coreStatsTable, coreStatsRow{
			Location:       where,
			CoreID:         e.CoreID,
			ReadHits:       e.ReadHits,
			ReadConflicts:  e.ReadConflicts,
			ReadMisses:     e.ReadMisses,
			WriteHits:      e.WriteHits,
			WriteConflicts: e.WriteConflicts,
			WriteMisses:    e.WriteMisses,
		})
	}

	recorder.InsertData(summaryTable, summaryRow{
		Location:               where,
		Cycle:                  s.Cycle,
		RowHits:                s.RowHits,
		RowConflicts:           s.RowConflicts,
		RowMisses:              s.RowMisses,
		ReadTransactionBytes:   s.ReadTransactionBytes,
		WriteTransactionBytes:  s.WriteTransactionBytes,
		AvgQueueLength:         s.AvgQueueLength,
		AvgReadQueueLength:     s.AvgReadQueueLength,
		AvgWriteQueueLength:    s.AvgWriteQueueLength,
		ReadCount:              s.ReadCount,
		AvgReadLatency:         s.AvgReadLatency,
		ProbesIssued:           s.ProbesIssued,
		ProbesCompleted:        s.ProbesCompleted,
		SpeculativePrecharges:  s.SpeculativePrecharges,
		WriteModeSwitches:      s.WriteModeSwitches,
		PromotionsDeferred:     s.PromotionsDeferred,
		PendingOrderViolations: s.PendingOrderViolations,
	})

	names := make([]string, 0, len(s.CommandsIssued))
	for name := range s.CommandsIssued {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		recorder.InsertData(commandTable, commandRow{
			Location: where,
			Command:  name,
			Count:    s.CommandsIssued[name],
		})
	}
}
