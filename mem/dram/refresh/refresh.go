// Package refresh schedules periodic rank refreshes.
package refresh

import (
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/memsched/mem/dram/signal"
)

// A Sink accepts requests. It returns false if the request cannot be
// accepted in the current cycle.
type Sink interface {
	Enqueue(req *signal.Request) bool
}

// Refresher inserts one refresh request per rank every interval cycles.
type Refresher struct {
	sink     Sink
	numRank  int
	interval uint64
	nextDue  uint64

	waiting []int
}

// NewRefresher creates a refresher. The first refreshes are due after one
// interval.
func NewRefresher(sink Sink, numRank int, interval uint64) *Refresher {
	if numRank <= 0 {
		panic("number of ranks must be positive")
	}

	if interval == 0 {
		panic("refresh interval must be positive")
	}

	return &Refresher{
		sink:     sink,
		numRank:  numRank,
		interval: interval,
		nextDue:  interval,
	}
}

// Waiting returns the number of refreshes that are due but have not been
// accepted by the sink.
func (r *Refresher) Waiting() int {
	return len(r.waiting)
}

// Tick enqueues the refreshes that are due. It returns true if any request
// was accepted.
func (r *Refresher) Tick(now uint64) bool {
	for now >= r.nextDue {
		if len(r.waiting) > 0 {
			logrus.Warnf("refresh at cycle %d overlaps %d unissued refreshes",
				now, len(r.waiting))
		}

		for rank := 0; rank < r.numRank; rank++ {
			r.waiting = append(r.waiting, rank)
		}

		r.nextDue += r.interval
	}

	madeProgress := false
	remaining := r.waiting[:0]

	for _, rank := range r.waiting {
		req := signal.NewRequest(signal.RequestTypeRefresh, 0,
			rankAddr(rank), -1, nil)

		if r.sink.Enqueue(req) {
			madeProgress = true
			continue
		}

		remaining = append(remaining, rank)
	}

	r.waiting = remaining

	return madeProgress
}

func rankAddr(rank int) signal.AddrVec {
	addr := signal.MakeAddrVec(0, rank, 0, 0, 0, 0)
	return addr.Prefix(signal.LevelRank)
}
