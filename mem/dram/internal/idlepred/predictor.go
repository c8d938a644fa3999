// Package idlepred forecasts idle windows on a channel so that the scheduler
// can fill them with opportunistic probes.
package idlepred

import (
	"log"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	initialCounter = 1
	maxCounter     = 3
	opportunistic  = 2
)

// A Predictor keeps one 2-bit saturating counter per address. The counter of
// the last observed address decides whether the current tick is
// opportunistic.
type Predictor struct {
	table *lru.Cache[uint64, uint8]

	last     uint64
	hasLast  bool
	idleLen  uint64
	captured uint64
}

// NewPredictor creates a predictor that remembers at most capacity
// addresses. The least recently observed address is forgotten first.
func NewPredictor(capacity int) *Predictor {
	table, err := lru.New[uint64, uint8](capacity)
	if err != nil {
		log.Panic(err)
	}

	return &Predictor{table: table}
}

// Observe records addr as the last accessed address.
func (p *Predictor) Observe(addr uint64) {
	p.last = addr
	p.hasLast = true

	if _, ok := p.table.Get(addr); !ok {
		p.table.Add(addr, initialCounter)
	}
}

// Opportunistic returns true if the last observed address predicts a long
// enough idle window.
func (p *Predictor) Opportunistic() bool {
	if !p.hasLast {
		return false
	}

	return p.Counter(p.last) >= opportunistic
}

// IdleTick extends the current idle span by one cycle.
func (p *Predictor) IdleTick() {
	p.idleLen++
}

// EndIdle closes the current idle span and keeps its length for the next
// validation.
func (p *Predictor) EndIdle() {
	p.captured = p.idleLen
	p.idleLen = 0
}

// Validate trains the counter of the last observed address with the last
// closed idle span.
func (p *Predictor) Validate(probeLatency uint64) {
	if !p.hasLast {
		return
	}

	c := p.Counter(p.last)

	switch {
	case p.captured >= probeLatency && c < maxCounter:
		c++
	case p.captured < probeLatency && c > 0:
		c--
	}

	p.table.Add(p.last, c)
}

// Counter returns the counter of the address without touching its recency.
func (p *Predictor) Counter(addr uint64) uint8 {
	if c, ok := p.table.Peek(addr); ok {
		return c
	}

	return initialCounter
}

// IdleLen returns the length of the idle span in progress.
func (p *Predictor) IdleLen() uint64 {
	return p.idleLen
}

// Len returns the number of addresses with a counter.
func (p *Predictor) Len() int {
	return p.table.Len()
}
