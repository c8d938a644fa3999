package policy

import (
	"github.com/sarchlab/memsched/mem/dram/queue"
	"github.com/sarchlab/memsched/mem/dram/signal"
)

// FCFS serves the oldest request.
type FCFS struct{}

// SelectHead returns the front of the queue.
func (FCFS) SelectHead(q *queue.Queue) *signal.Request {
	return q.Front()
}

// FRFCFS serves the oldest request that is ready, or the oldest request if
// none is ready.
type FRFCFS struct {
	oracle Oracle
}

// NewFRFCFS creates an FR-FCFS scheduler.
func NewFRFCFS(oracle Oracle) *FRFCFS {
	return &FRFCFS{oracle: oracle}
}

// SelectHead picks a request.
func (s *FRFCFS) SelectHead(q *queue.Queue) *signal.Request {
	for _, req := range q.Requests() {
		if s.oracle.IsReady(req) {
			return req
		}
	}

	return q.Front()
}

// FRFCFSCap is FR-FCFS, except that a row stops being favored after it has
// served a number of hits, so that other rows are not starved.
type FRFCFSCap struct {
	oracle   Oracle
	rowTable *RowTable
	capLimit int
}

// NewFRFCFSCap creates an FR-FCFS-Cap scheduler.
func NewFRFCFSCap(oracle Oracle, table *RowTable, capLimit int) *FRFCFSCap {
	return &FRFCFSCap{
		oracle:   oracle,
		rowTable: table,
		capLimit: capLimit,
	}
}

// SelectHead picks a request.
func (s *FRFCFSCap) SelectHead(q *queue.Queue) *signal.Request {
	for _, req := range q.Requests() {
		if !s.oracle.IsReady(req) {
			continue
		}

		if s.oracle.IsRowHit(req) &&
			s.rowTable.Hits(req.AddrVec) >= s.capLimit {
			continue
		}

		return req
	}

	return q.Front()
}

// FRFCFSPriorHit serves ready row hits first. Other ready requests are only
// served if no queued request hits their bank's open row.
type FRFCFSPriorHit struct {
	oracle Oracle
}

// NewFRFCFSPriorHit creates an FR-FCFS-PriorHit scheduler.
func NewFRFCFSPriorHit(oracle Oracle) *FRFCFSPriorHit {
	return &FRFCFSPriorHit{oracle: oracle}
}

// SelectHead picks a request.
func (s *FRFCFSPriorHit) SelectHead(q *queue.Queue) *signal.Request {
	hitBanks := make(map[signal.AddrVec]bool)

	for _, req := range q.Requests() {
		if !s.oracle.IsRowHit(req) {
			continue
		}

		if s.oracle.IsReady(req) {
			return req
		}

		hitBanks[req.AddrVec.Prefix(signal.LevelBank)] = true
	}

	for _, req := range q.Requests() {
		if hitBanks[req.AddrVec.Prefix(signal.LevelBank)] {
			continue
		}

		if s.oracle.IsReady(req) {
			return req
		}
	}

	return q.Front()
}
