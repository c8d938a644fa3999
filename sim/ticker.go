package sim

// A Ticker is an object that updates states with ticks.
type Ticker interface {
	Tick() bool
}

// TickingComponent is a type of component that update states from cycle to
// cycle. A programmer would only need to program a tick function for a ticking
// component.
//
// The TickingComponent owns the cycle counter. Every call to TickNow moves the
// counter forward by exactly one cycle before calling the ticker, so the
// ticker always observes the cycle that is being simulated.
type TickingComponent struct {
	*ComponentBase

	Freq   Freq
	ticker Ticker
	now    uint64
}

// NewTickingComponent creates a new ticking component
func NewTickingComponent(
	name string,
	freq Freq,
	ticker Ticker,
) *TickingComponent {
	tc := new(TickingComponent)
	tc.ComponentBase = NewComponentBase(name)
	tc.Freq = freq
	tc.ticker = ticker

	return tc
}

// Now returns the cycle that the component is at.
func (c *TickingComponent) Now() uint64 {
	return c.now
}

// CurrentTime returns the time of the current cycle.
func (c *TickingComponent) CurrentTime() VTimeInSec {
	return c.Freq.TimeOf(c.now)
}

// TickNow advances the component by one cycle and lets the ticker update the
// state. It returns true if the ticker made progress.
func (c *TickingComponent) TickNow() bool {
	c.now++

	return c.ticker.Tick()
}
