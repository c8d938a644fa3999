// Package trafficgen provides a synthetic front end that feeds random reads
// and writes into a DRAM scheduler.
package trafficgen

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/memsched/mem/dram/signal"
	"github.com/sarchlab/memsched/sim"
)

// A Target accepts requests. It returns false if the request cannot be
// accepted in the current cycle.
type Target interface {
	Enqueue(req *signal.Request) bool
}

// Stats summarizes the traffic that a generator has produced.
type Stats struct {
	Issued          uint64
	Completed       uint64
	ReadsCompleted  uint64
	WritesCompleted uint64
	Rejected        uint64
	AvgReadLatency  float64
	MaxReadLatency  uint64
}

// Generator issues a fixed number of random requests.
type Generator struct {
	*sim.TickingComponent

	target Target
	mapper *Mapper
	rng    *rand.Rand

	numRequests uint64
	rate        float64
	readRatio   float64
	locality    float64
	numCores    int

	credit   float64
	lastAddr uint64
	retry    *signal.Request

	issued          uint64
	rejected        uint64
	readsCompleted  uint64
	writesCompleted uint64
	readLatencySum  uint64
	maxReadLatency  uint64
}

// Tick issues the requests of the current cycle.
func (g *Generator) Tick() bool {
	if g.issued >= g.numRequests {
		return false
	}

	g.credit += g.rate
	if g.credit > g.rate+1 {
		g.credit = g.rate + 1
	}

	madeProgress := false

	for g.credit >= 1 && g.issued < g.numRequests {
		req := g.retry
		if req == nil {
			req = g.nextRequest()
		}

		if !g.target.Enqueue(req) {
			g.retry = req
			g.rejected++

			break
		}

		g.retry = nil
		g.issued++
		g.credit--
		madeProgress = true
	}

	return madeProgress
}

func (g *Generator) nextRequest() *signal.Request {
	tx := g.mapper.TransactionBytes()

	addr := g.lastAddr + tx
	if g.rng.Float64() >= g.locality {
		addr = uint64(g.rng.Int63n(int64(g.mapper.Capacity()/tx))) * tx
	}

	addr %= g.mapper.Capacity()
	g.lastAddr = addr

	t := signal.RequestTypeWrite
	if g.rng.Float64() < g.readRatio {
		t = signal.RequestTypeRead
	}

	return signal.NewRequest(t, addr, g.mapper.Map(addr),
		g.rng.Intn(g.numCores), g.onComplete)
}

func (g *Generator) onComplete(req *signal.Request) {
	if !req.Type.IsRead() {
		g.writesCompleted++
		return
	}

	latency := req.Depart - req.Arrive
	g.readsCompleted++
	g.readLatencySum += latency

	if latency > g.maxReadLatency {
		g.maxReadLatency = latency
	}

	logrus.WithFields(logrus.Fields{
		"comp":    g.Name(),
		"req":     req.ID,
		"latency": latency,
	}).Trace("read returned")
}

// Done returns true if every request has been issued and has completed.
func (g *Generator) Done() bool {
	return g.issued == g.numRequests &&
		g.readsCompleted+g.writesCompleted == g.numRequests
}

// Stats returns what the generator has produced so far.
func (g *Generator) Stats() Stats {
	s := Stats{
		Issued:          g.issued,
		Completed:       g.readsCompleted + g.writesCompleted,
		ReadsCompleted:  g.readsCompleted,
		WritesCompleted: g.writesCompleted,
		Rejected:        g.rejected,
		MaxReadLatency:  g.maxReadLatency,
	}

	if g.readsCompleted > 0 {
		s.AvgReadLatency = float64(g.readLatencySum) /
			float64(g.readsCompleted)
	}

	return s
}
