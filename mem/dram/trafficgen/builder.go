package trafficgen

import (
	"math/rand"

	"github.com/sarchlab/memsched/sim"
)

// Builder can build traffic generators.
type Builder struct {
	freq        sim.Freq
	target      Target
	mapper      *Mapper
	numRequests uint64
	rate        float64
	readRatio   float64
	locality    float64
	numCores    int
	seed        int64
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		freq:        800 * sim.MHz,
		numRequests: 10000,
		rate:        0.25,
		readRatio:   0.7,
		locality:    0.5,
		numCores:    4,
		seed:        1,
	}
}

// WithFreq sets the frequency of the generator.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithTarget sets where the requests go.
func (b Builder) WithTarget(t Target) Builder {
	b.target = t
	return b
}

// WithMapper sets the address mapping.
func (b Builder) WithMapper(m *Mapper) Builder {
	b.mapper = m
	return b
}

// WithNumRequests sets how many requests are generated in total.
func (b Builder) WithNumRequests(n uint64) Builder {
	b.numRequests = n
	return b
}

// WithRate sets the average number of requests per cycle.
func (b Builder) WithRate(rate float64) Builder {
	b.rate = rate
	return b
}

// WithReadRatio sets the fraction of reads.
func (b Builder) WithReadRatio(r float64) Builder {
	b.readRatio = r
	return b
}

// WithLocality sets the probability that a request accesses the next
// transaction after the previous one.
func (b Builder) WithLocality(p float64) Builder {
	b.locality = p
	return b
}

// WithNumCores sets how many cores the requests are spread over.
func (b Builder) WithNumCores(n int) Builder {
	b.numCores = n
	return b
}

// WithSeed sets the random seed.
func (b Builder) WithSeed(seed int64) Builder {
	b.seed = seed
	return b
}

// Build creates a generator.
func (b Builder) Build(name string) *Generator {
	b.parametersMustBeValid()

	g := &Generator{
		target:      b.target,
		mapper:      b.mapper,
		rng:         rand.New(rand.NewSource(b.seed)),
		numRequests: b.numRequests,
		rate:        b.rate,
		readRatio:   b.readRatio,
		locality:    b.locality,
		numCores:    b.numCores,
	}
	g.TickingComponent = sim.NewTickingComponent(name, b.freq, g)

	return g
}

func (b Builder) parametersMustBeValid() {
	if b.target == nil {
		panic("target is not set")
	}

	if b.mapper == nil {
		panic("mapper is not set")
	}

	if b.rate <= 0 {
		panic("rate must be positive")
	}

	if b.readRatio < 0 || b.readRatio > 1 {
		panic("read ratio must be between 0 and 1")
	}

	if b.locality < 0 || b.locality > 1 {
		panic("locality must be between 0 and 1")
	}

	if b.numCores <= 0 {
		panic("number of cores must be positive")
	}
}
