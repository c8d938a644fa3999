package sim

import "log"

// VTimeInSec is a time in the simulated world, in seconds.
type VTimeInSec float64

// Freq is a clock frequency in Hz.
type Freq float64

// Units of frequency
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
	GHz Freq = 1e9
)

// Period returns the duration of one cycle.
func (f Freq) Period() VTimeInSec {
	if f <= 0 {
		log.Panicf("invalid frequency %v", float64(f))
	}

	return VTimeInSec(1.0 / f)
}

// TimeOf returns the time at which the given cycle starts.
func (f Freq) TimeOf(cycle uint64) VTimeInSec {
	return VTimeInSec(float64(cycle) / float64(f))
}
