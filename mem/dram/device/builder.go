package device

import (
	"log"

	"github.com/sarchlab/memsched/mem/dram/signal"
)

// Builder can build devices.
type Builder struct {
	numRank          int
	numBank          int
	numSubArray      int
	numRow           int
	numCol           int
	maxOpenSubArrays int
	prefetchSize     int
	channelWidth     int
	params           Params
	coldFactor       float64
	hotFactor        float64
	mode             signal.TimingMode
}

// MakeBuilder creates a builder with a DDR3-1600 2-rank, 8-bank channel.
func MakeBuilder() Builder {
	return Builder{
		numRank:          2,
		numBank:          8,
		numSubArray:      8,
		numRow:           32768,
		numCol:           1024,
		maxOpenSubArrays: 8,
		prefetchSize:     8,
		channelWidth:     64,
		params:           DefaultParams(),
		coldFactor:       0.75,
		hotFactor:        1.25,
	}
}

// WithNumRank sets the number of ranks.
func (b Builder) WithNumRank(n int) Builder {
	b.numRank = n
	return b
}

// WithNumBank sets the number of banks per rank.
func (b Builder) WithNumBank(n int) Builder {
	b.numBank = n
	return b
}

// WithNumSubArray sets the number of sub-arrays per bank.
func (b Builder) WithNumSubArray(n int) Builder {
	b.numSubArray = n
	return b
}

// WithNumRow sets the number of rows per bank.
func (b Builder) WithNumRow(n int) Builder {
	b.numRow = n
	return b
}

// WithNumCol sets the number of columns per row.
func (b Builder) WithNumCol(n int) Builder {
	b.numCol = n
	return b
}

// WithMaxOpenSubArrays sets how many sub-arrays of a bank can hold an open
// row at the same time. Opening one more requires closing another first.
func (b Builder) WithMaxOpenSubArrays(n int) Builder {
	b.maxOpenSubArrays = n
	return b
}

// WithPrefetchSize sets the number of bursts that one access fetches.
func (b Builder) WithPrefetchSize(n int) Builder {
	b.prefetchSize = n
	return b
}

// WithChannelWidth sets the data bus width in bits.
func (b Builder) WithChannelWidth(n int) Builder {
	b.channelWidth = n
	return b
}

// WithParams sets the nominal timing parameters.
func (b Builder) WithParams(p Params) Builder {
	b.params = p
	return b
}

// WithColdFactor sets the factor applied to charge-dependent timing when the
// device is cold.
func (b Builder) WithColdFactor(f float64) Builder {
	b.coldFactor = f
	return b
}

// WithHotFactor sets the factor applied to charge-dependent timing when the
// device is hot.
func (b Builder) WithHotFactor(f float64) Builder {
	b.hotFactor = f
	return b
}

// WithTimingMode sets the initial timing mode.
func (b Builder) WithTimingMode(m signal.TimingMode) Builder {
	b.mode = m
	return b
}

// Build creates a device with all rows closed and all ranks active.
func (b Builder) Build(name string) *Device {
	b.parametersMustBeValid()

	d := &Device{
		name:             name,
		numRank:          b.numRank,
		numBank:          b.numBank,
		numSubArray:      b.numSubArray,
		numRow:           b.numRow,
		numCol:           b.numCol,
		maxOpenSubArrays: b.maxOpenSubArrays,
		prefetchSize:     b.prefetchSize,
		channelWidth:     b.channelWidth,
		params:           b.params,
		coldFactor:       b.coldFactor,
		hotFactor:        b.hotFactor,
	}

	d.ranks = make([]*rank, b.numRank)
	for i := range d.ranks {
		r := &rank{banks: make([]*bank, b.numBank)}
		for j := range r.banks {
			r.banks[j] = newBank(b.numSubArray)
		}

		d.ranks[i] = r
	}

	d.SetTimingMode(b.mode)

	return d
}

func (b Builder) parametersMustBeValid() {
	mustBePositive := func(v int, what string) {
		if v <= 0 {
			log.Panicf("%s must be positive, got %d", what, v)
		}
	}

	mustBePositive(b.numRank, "number of ranks")
	mustBePositive(b.numBank, "number of banks")
	mustBePositive(b.numSubArray, "number of sub-arrays")
	mustBePositive(b.numRow, "number of rows")
	mustBePositive(b.numCol, "number of columns")
	mustBePositive(b.maxOpenSubArrays, "max open sub-arrays")
	mustBePositive(b.prefetchSize, "prefetch size")
	mustBePositive(b.channelWidth, "channel width")
	mustBePositive(b.params.BurstCycle, "burst cycle")
	mustBePositive(b.params.TCL, "tCL")
	mustBePositive(b.params.TProbe, "probe latency")

	if b.maxOpenSubArrays > b.numSubArray {
		log.Panicf("max open sub-arrays %d exceeds sub-array count %d",
			b.maxOpenSubArrays, b.numSubArray)
	}

	if b.coldFactor <= 0 || b.hotFactor <= 0 {
		log.Panic("timing mode factors must be positive")
	}
}
