package dram

import (
	"fmt"
	"log"

	"github.com/sarchlab/memsched/mem/dram/device"
	"github.com/sarchlab/memsched/mem/dram/internal/idlepred"
	"github.com/sarchlab/memsched/mem/dram/policy"
	"github.com/sarchlab/memsched/mem/dram/queue"
	"github.com/sarchlab/memsched/mem/dram/refresh"
	"github.com/sarchlab/memsched/mem/dram/signal"
	"github.com/sarchlab/memsched/sim"
)

// DefaultProbeAddr is the address of the synthesized probes unless another
// one is configured.
const DefaultProbeAddr = 0x12312312

// Builder can build new memory controllers.
type Builder struct {
	freq    sim.Freq
	channel Channel
	hooks   []sim.Hook
	stats   *Stats

	schedulerName string
	scheduler     Scheduler
	capLimit      int
	rowPolicyName string
	rowPolicy     RowPolicy
	rowTimeout    uint64

	refresher       Refresher
	refreshInterval uint64

	readQueueSize  int
	writeQueueSize int
	otherQueueSize int
	probeQueueSize int

	highWatermark float64
	lowWatermark  float64
	readMigration bool
	strictChecks  bool

	probing             bool
	probeAddr           uint64
	probeAddrVec        signal.AddrVec
	predictionTableSize int
}

// MakeBuilder creates a builder with default configuration.
func MakeBuilder() Builder {
	return Builder{
		freq:                800 * sim.MHz,
		schedulerName:       policy.SchedulerFRFCFS,
		capLimit:            16,
		rowPolicyName:       policy.RowPolicyOpened,
		rowTimeout:          50,
		readQueueSize:       32,
		writeQueueSize:      32,
		otherQueueSize:      32,
		probeQueueSize:      8,
		highWatermark:       0.8,
		lowWatermark:        0.2,
		probeAddr:           DefaultProbeAddr,
		predictionTableSize: 4096,
	}
}

// WithFreq sets the frequency of the controller.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithChannel sets the device-state collaborator. If it is not set, a
// default device is built.
func (b Builder) WithChannel(channel Channel) Builder {
	b.channel = channel
	return b
}

// WithAdditionalHooks adds hooks to the controller.
func (b Builder) WithAdditionalHooks(hooks ...sim.Hook) Builder {
	b.hooks = append(b.hooks, hooks...)
	return b
}

// WithStats sets the object that collects the statistics.
func (b Builder) WithStats(stats *Stats) Builder {
	b.stats = stats
	return b
}

// WithSchedulerName selects one of the schedulers of the policy package.
func (b Builder) WithSchedulerName(name string) Builder {
	b.schedulerName = name
	b.scheduler = nil

	return b
}

// WithScheduler sets the scheduler. It takes precedence over the scheduler
// name.
func (b Builder) WithScheduler(s Scheduler) Builder {
	b.scheduler = s
	return b
}

// WithCap sets how many hits a row may serve before the FR-FCFS-Cap
// scheduler stops prioritizing it.
func (b Builder) WithCap(n int) Builder {
	b.capLimit = n
	return b
}

// WithRowPolicyName selects one of the row policies of the policy package.
func (b Builder) WithRowPolicyName(name string) Builder {
	b.rowPolicyName = name
	b.rowPolicy = nil

	return b
}

// WithRowPolicy sets the row policy. It takes precedence over the row policy
// name.
func (b Builder) WithRowPolicy(p RowPolicy) Builder {
	b.rowPolicy = p
	return b
}

// WithRowTimeout sets the number of cycles after which the timeout policy
// closes a row.
func (b Builder) WithRowTimeout(cycles uint64) Builder {
	b.rowTimeout = cycles
	return b
}

// WithRefresher sets the refresh scheduler.
func (b Builder) WithRefresher(r Refresher) Builder {
	b.refresher = r
	return b
}

// WithRefreshInterval makes the controller refresh every rank of the default
// device each interval cycles. Zero disables refresh.
func (b Builder) WithRefreshInterval(cycles uint64) Builder {
	b.refreshInterval = cycles
	return b
}

// WithReadQueueSize sets the capacity of the read queue.
func (b Builder) WithReadQueueSize(n int) Builder {
	b.readQueueSize = n
	return b
}

// WithWriteQueueSize sets the capacity of the write queue.
func (b Builder) WithWriteQueueSize(n int) Builder {
	b.writeQueueSize = n
	return b
}

// WithOtherQueueSize sets the capacity of the queue of refresh and power
// requests.
func (b Builder) WithOtherQueueSize(n int) Builder {
	b.otherQueueSize = n
	return b
}

// WithProbeQueueSize sets the capacity of the probe queue.
func (b Builder) WithProbeQueueSize(n int) Builder {
	b.probeQueueSize = n
	return b
}

// WithWatermarks sets the write queue fractions that switch the controller
// into and out of write mode.
func (b Builder) WithWatermarks(low, high float64) Builder {
	b.lowWatermark = low
	b.highWatermark = high

	return b
}

// WithReadMigration serves reads through the internal migration path.
func (b Builder) WithReadMigration(on bool) Builder {
	b.readMigration = on
	return b
}

// WithStrictChecks turns pending-list ordering violations into panics.
func (b Builder) WithStrictChecks(on bool) Builder {
	b.strictChecks = on
	return b
}

// WithOpportunisticProbing enables probes at the given address during
// predicted idle windows.
func (b Builder) WithOpportunisticProbing(
	addr uint64,
	addrVec signal.AddrVec,
) Builder {
	b.probing = true
	b.probeAddr = addr
	b.probeAddrVec = addrVec

	return b
}

// WithPredictionTableSize sets how many addresses the idle predictor
// remembers.
func (b Builder) WithPredictionTableSize(n int) Builder {
	b.predictionTableSize = n
	return b
}

// Build creates a new controller.
func (b Builder) Build(name string) *Comp {
	b.parametersMustBeValid()

	c := &Comp{
		highWatermark: b.highWatermark,
		lowWatermark:  b.lowWatermark,
		readMigration: b.readMigration,
		probing:       b.probing,
		probeAddr:     b.probeAddr,
		probeAddrVec:  b.probeAddrVec,
		stats:         b.stats,
	}
	c.TickingComponent = sim.NewTickingComponent(name, b.freq, c)
	c.mw = &middleware{Comp: c}

	if c.stats == nil {
		c.stats = NewStats()
	}

	b.buildQueues(name, c)
	b.buildChannel(name, c)
	b.buildPolicies(c)
	b.buildRefresher(c)

	if b.probing {
		c.predictor = idlepred.NewPredictor(b.predictionTableSize)
	}

	for _, hook := range b.hooks {
		c.AcceptHook(hook)
	}

	return c
}

func (b Builder) buildQueues(name string, c *Comp) {
	c.readQ = queue.NewQueue(name+".ReadQ", b.readQueueSize)
	c.writeQ = queue.NewQueue(name+".WriteQ", b.writeQueueSize)
	c.otherQ = queue.NewQueue(name+".OtherQ", b.otherQueueSize)
	c.actQ = queue.NewQueue(name+".ActQ",
		b.readQueueSize+b.writeQueueSize)
	c.probeQ = queue.NewQueue(name+".ProbeQ", b.probeQueueSize)
	c.pending = queue.NewPendingList(name+".Pending", b.strictChecks)
	c.probePending = queue.NewPendingList(
		name+".ProbePending", b.strictChecks)
}

func (b Builder) buildChannel(name string, c *Comp) {
	c.channel = b.channel
	if c.channel == nil {
		c.channel = device.MakeBuilder().Build(name + ".Device")
	}

	if p, ok := c.channel.(PartitionInspector); ok {
		c.partitions = p
	}
}

func (b Builder) buildPolicies(c *Comp) {
	var rowTable *policy.RowTable

	needsRowTable := (b.scheduler == nil &&
		b.schedulerName == policy.SchedulerFRFCFSCap) ||
		(b.rowPolicy == nil && b.rowPolicyName != policy.RowPolicyOpened)
	if needsRowTable {
		rowTable = policy.NewRowTable()
		c.AcceptHook(rowTable)
	}

	c.scheduler = b.scheduler
	if c.scheduler == nil {
		s, err := policy.NewScheduler(b.schedulerName, c, rowTable, b.capLimit)
		if err != nil {
			log.Panic(err)
		}

		c.scheduler = s
	}

	c.rowPolicy = b.rowPolicy
	if c.rowPolicy == nil {
		p, err := policy.NewRowPolicy(b.rowPolicyName, c, rowTable,
			b.rowTimeout)
		if err != nil {
			log.Panic(err)
		}

		c.rowPolicy = p
	}
}

func (b Builder) buildRefresher(c *Comp) {
	c.refresher = b.refresher
	if c.refresher != nil || b.refreshInterval == 0 {
		return
	}

	ranked, ok := c.channel.(interface{ NumRank() int })
	if !ok {
		log.Panic("refresh interval requires a channel that reports its ranks")
	}

	c.refresher = refresh.NewRefresher(c, ranked.NumRank(), b.refreshInterval)
}

func (b Builder) parametersMustBeValid() {
	if b.freq <= 0 {
		panic("frequency must be positive")
	}

	if b.lowWatermark < 0 || b.highWatermark > 1 ||
		b.lowWatermark >= b.highWatermark {
		panic(fmt.Sprintf("watermarks must satisfy 0 <= low < high <= 1, "+
			"got low=%v high=%v", b.lowWatermark, b.highWatermark))
	}

	for _, n := range []int{
		b.readQueueSize, b.writeQueueSize, b.otherQueueSize, b.probeQueueSize,
	} {
		if n <= 0 {
			panic("queue sizes must be positive")
		}
	}

	if b.probing && b.predictionTableSize <= 0 {
		panic("prediction table size must be positive")
	}
}
