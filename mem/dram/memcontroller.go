// Package dram implements the per-cycle command scheduler of a DRAM memory
// controller.
package dram

import (
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/memsched/mem/dram/internal/idlepred"
	"github.com/sarchlab/memsched/mem/dram/queue"
	"github.com/sarchlab/memsched/mem/dram/signal"
	"github.com/sarchlab/memsched/sim"
	"github.com/sarchlab/memsched/tracing"
)

// QueueLengths is the number of requests in each queue and pending list.
type QueueLengths struct {
	Read         int
	Write        int
	Other        int
	Activating   int
	Probe        int
	Pending      int
	ProbePending int
}

// Comp is a memory controller that issues at most one command per cycle.
type Comp struct {
	*sim.TickingComponent

	channel    Channel
	partitions PartitionInspector
	scheduler  Scheduler
	rowPolicy  RowPolicy
	refresher  Refresher

	readQ, writeQ, otherQ, actQ, probeQ *queue.Queue
	pending, probePending               *queue.PendingList

	writeMode     bool
	highWatermark float64
	lowWatermark  float64
	readMigration bool

	probing      bool
	probeAddr    uint64
	probeAddrVec signal.AddrVec
	predictor    *idlepred.Predictor
	observed     bool

	stats *Stats
	mw    *middleware
}

// Tick advances the controller by one cycle.
func (c *Comp) Tick() bool {
	return c.mw.Tick()
}

// Enqueue inserts a request into the queue of its type. It returns false if
// that queue is full.
func (c *Comp) Enqueue(req *signal.Request) bool {
	q := c.queueOf(req.Type)
	if !q.CanPush() {
		return false
	}

	req.Arrive = c.Now()
	q.Push(req)

	tracing.StartTask(req.ID, "", c, "req_in", req.Type.String(), req)

	return true
}

func (c *Comp) queueOf(t signal.RequestType) *queue.Queue {
	switch t {
	case signal.RequestTypeRead, signal.RequestTypeInternalReadDerivative:
		return c.readQ
	case signal.RequestTypeWrite:
		return c.writeQ
	case signal.RequestTypeOpportunisticProbe:
		return c.probeQ
	default:
		return c.otherQ
	}
}

func (c *Comp) firstCommand(req *signal.Request) signal.CmdKind {
	return c.channel.FirstCommand(
		c.channel.TerminalCommand(req.Type), req.AddrVec)
}

// IsReady checks if the next command of the request can be issued in the
// current cycle.
func (c *Comp) IsReady(req *signal.Request) bool {
	cmd := c.firstCommand(req)
	return c.channel.CanIssue(cmd, c.addrFor(cmd, req), c.Now())
}

// IsRowHit checks if the request would hit an open row.
func (c *Comp) IsRowHit(req *signal.Request) bool {
	return c.channel.IsRowHit(c.channel.TerminalCommand(req.Type), req.AddrVec)
}

// IsRowOpen checks if the sub-array that the request targets has an open
// row.
func (c *Comp) IsRowOpen(req *signal.Request) bool {
	return c.channel.IsRowOpen(
		c.channel.TerminalCommand(req.Type), req.AddrVec)
}

// CanIssue checks if a command can be issued at the current cycle.
func (c *Comp) CanIssue(cmd signal.CmdKind, addr signal.AddrVec) bool {
	return c.channel.CanIssue(cmd, addr, c.Now())
}

// SetTimingMode forwards a timing profile to the channel. Channels without
// timing modes ignore it.
func (c *Comp) SetTimingMode(mode signal.TimingMode) {
	setter, ok := c.channel.(TimingModeSetter)
	if !ok {
		logrus.WithField("comp", c.Name()).
			Debug("channel does not support timing modes")
		return
	}

	setter.SetTimingMode(mode)
}

// Stats returns a copy of the statistics.
func (c *Comp) Stats() StatsSnapshot {
	snap := c.stats.Snapshot()
	snap.Cycle = c.Now()
	snap.PendingOrderViolations = c.pending.OrderViolations() +
		c.probePending.OrderViolations()

	return snap
}

// WriteMode returns true if the controller favors writes.
func (c *Comp) WriteMode() bool {
	return c.writeMode
}

// QueueLengths returns the occupancy of every queue.
func (c *Comp) QueueLengths() QueueLengths {
	return QueueLengths{
		Read:         c.readQ.Size(),
		Write:        c.writeQ.Size(),
		Other:        c.otherQ.Size(),
		Activating:   c.actQ.Size(),
		Probe:        c.probeQ.Size(),
		Pending:      c.pending.Len(),
		ProbePending: c.probePending.Len(),
	}
}

// PendingLen returns the number of reads waiting for their data.
func (c *Comp) PendingLen() int {
	return c.pending.Len()
}

// Channel returns the device-state collaborator.
func (c *Comp) Channel() Channel {
	return c.channel
}

type middleware struct {
	*Comp
}

// Tick runs the stages of a cycle in order.
func (m *middleware) Tick() (madeProgress bool) {
	m.accumulateQueueLengths()

	madeProgress = m.complete() || madeProgress
	madeProgress = m.completeProbe() || madeProgress

	if m.refresher != nil {
		madeProgress = m.refresher.Tick(m.Now()) || madeProgress
	}

	m.arbitrateWriteMode()

	madeProgress = m.schedule() || madeProgress

	return madeProgress
}

func (m *middleware) accumulateQueueLengths() {
	s := m.stats
	s.Ticks++

	reads := m.readQ.Size() + m.pending.Len()
	writes := m.writeQ.Size()
	others := m.otherQ.Size()

	s.ReadQueueLengthSum += uint64(reads)
	s.WriteQueueLengthSum += uint64(writes)
	s.OtherQueueLengthSum += uint64(others)
	s.QueueLengthSum += uint64(reads + writes + others +
		m.actQ.Size() + m.probeQ.Size() + m.probePending.Len())
}

func (m *middleware) complete() bool {
	req := m.pending.PopDue(m.Now())
	if req == nil {
		return false
	}

	if req.Depart-req.Arrive > 1 {
		m.stats.ReadLatencySum += req.Depart - req.Arrive
		m.stats.ReadCount++
		m.channel.UpdateOccupancy(req.AddrVec, -1, m.Now())
	}

	m.finish(req)

	return true
}

func (m *middleware) completeProbe() bool {
	req := m.probePending.PopDue(m.Now())
	if req == nil {
		return false
	}

	if req.Depart-req.Arrive > 1 {
		m.channel.UpdateOccupancy(req.AddrVec, -1, m.Now())
	}

	m.stats.ProbesCompleted++
	m.finish(req)

	return true
}

func (m *middleware) finish(req *signal.Request) {
	if req.Callback != nil {
		req.Callback(req)
	}

	tracing.EndTask(req.ID, m.Comp)
}

func (m *middleware) arbitrateWriteMode() {
	capacity := float64(m.writeQ.Capacity())
	writes := m.writeQ.Size()
	reads := m.readQ.Size()

	if !m.writeMode {
		if writes > int(m.highWatermark*capacity) || reads == 0 {
			m.switchWriteMode(true)
		}

		return
	}

	if writes < int(m.lowWatermark*capacity) && reads != 0 {
		m.switchWriteMode(false)
	}
}

func (m *middleware) switchWriteMode(on bool) {
	m.writeMode = on
	m.stats.WriteModeSwitches++

	logrus.WithFields(logrus.Fields{
		"comp":  m.Name(),
		"cycle": m.Now(),
	}).Debugf("write mode %t", on)
}

func (m *middleware) modeQueue() *queue.Queue {
	if m.writeMode {
		return m.writeQ
	}

	return m.readQ
}

// candidateQueues returns the queues to search, in priority order.
func (m *middleware) candidateQueues() []*queue.Queue {
	m.observed = false

	if m.otherQ.Size() > 0 {
		return []*queue.Queue{m.otherQ}
	}

	primary := m.modeQueue()
	if m.actQ.Size() > 0 {
		primary = m.actQ
	}

	queues := []*queue.Queue{primary}
	if primary != m.modeQueue() {
		queues = append(queues, m.modeQueue())
	}

	if m.opportunistic(primary) {
		queues = append(queues, m.probeQ)
	}

	return queues
}

// opportunistic lets the predictor look at the head of the primary queue and
// decides whether probes may be scheduled in this cycle.
func (m *middleware) opportunistic(primary *queue.Queue) bool {
	if !m.probing {
		return false
	}

	if head := m.scheduler.SelectHead(primary); head != nil {
		m.predictor.Observe(head.Addr)
		m.observed = true
	}

	return !m.writeMode && m.predictor.Opportunistic()
}

func (m *middleware) selectCommand() (
	*queue.Queue, *signal.Request, signal.CmdKind, bool,
) {
	for _, q := range m.candidateQueues() {
		if q == m.probeQ {
			m.synthesizeProbe()
		}

		req := m.scheduler.SelectHead(q)
		if req == nil {
			continue
		}

		if m.readMigration && req.Type == signal.RequestTypeRead {
			req.Type = signal.RequestTypeInternalReadDerivative
		}

		cmd := m.firstCommand(req)
		if m.channel.CanIssue(cmd, m.addrFor(cmd, req), m.Now()) {
			return q, req, cmd, true
		}
	}

	return nil, nil, 0, false
}

func (m *middleware) synthesizeProbe() {
	if m.probeQ.Size() > 0 {
		return
	}

	probe := signal.NewRequest(signal.RequestTypeOpportunisticProbe,
		m.probeAddr, m.probeAddrVec, -1, nil)
	m.Enqueue(probe)
}

func (m *middleware) schedule() bool {
	q, req, cmd, found := m.selectCommand()
	if !found {
		if m.probing {
			m.predictor.IdleTick()
		}

		return m.speculativePrecharge()
	}

	if m.probing {
		m.predictor.EndIdle()

		// Only the address observed in this cycle is trained.
		if m.observed && req.Type != signal.RequestTypeOpportunisticProbe {
			m.predictor.Validate(uint64(m.channel.ProbeReadLatency()))
		}
	}

	if req.IsFirstCommand {
		m.firstCommandBookkeeping(req)
	}

	m.issue(cmd, m.addrFor(cmd, req), req)
	m.retireOrPromote(q, req, cmd)

	return true
}

func (m *middleware) speculativePrecharge() bool {
	if m.rowPolicy == nil {
		return false
	}

	cmd := signal.CmdKindPrecharge

	victim, ok := m.rowPolicy.SelectVictim(cmd)
	if !ok || !m.channel.CanIssue(cmd, victim, m.Now()) {
		return false
	}

	m.issue(cmd, victim, nil)
	m.stats.SpeculativePrecharges++

	return true
}

func (m *middleware) firstCommandBookkeeping(req *signal.Request) {
	req.IsFirstCommand = false

	switch {
	case req.Type.IsRead(),
		req.Type == signal.RequestTypeWrite,
		req.Type == signal.RequestTypeOpportunisticProbe:
		m.channel.UpdateOccupancy(req.AddrVec, 1, m.Now())
	}

	tx := uint64(m.channel.PrefetchSize() * m.channel.ChannelWidth() / 8)

	switch {
	case req.Type.IsRead():
		core := m.stats.Core(req.CoreID)
		m.classify(req, &core.ReadHits, &core.ReadConflicts, &core.ReadMisses)
		m.stats.ReadTransactionBytes += tx
	case req.Type == signal.RequestTypeWrite:
		core := m.stats.Core(req.CoreID)
		m.classify(req,
			&core.WriteHits, &core.WriteConflicts, &core.WriteMisses)
		m.stats.WriteTransactionBytes += tx
	}
}

func (m *middleware) classify(
	req *signal.Request,
	hits, conflicts, misses *uint64,
) {
	switch {
	case m.IsRowHit(req):
		*hits++
		m.stats.RowHits++
	case m.IsRowOpen(req):
		*conflicts++
		m.stats.RowConflicts++
	default:
		*misses++
		m.stats.RowMisses++
	}
}

func (m *middleware) issue(
	cmd signal.CmdKind,
	addr signal.AddrVec,
	req *signal.Request,
) {
	m.channel.Issue(cmd, addr, m.Now())
	m.stats.CommandsIssued[cmd]++

	reqID := ""
	if req != nil {
		reqID = req.ID
	}

	if m.NumHooks() > 0 {
		m.InvokeHook(sim.HookCtx{
			Domain: m.Comp,
			Pos:    signal.HookPosCommandIssue,
			Item: signal.CommandIssue{
				Cmd:   cmd,
				Addr:  addr,
				Now:   m.Now(),
				ReqID: reqID,
			},
		})
	}

	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		logrus.WithFields(logrus.Fields{
			"comp":  m.Name(),
			"cycle": m.Now(),
			"cmd":   cmd,
			"addr":  addr,
			"req":   reqID,
		}).Debug("issue")
	}

	if req != nil {
		tracing.AddTaskStep(req.ID, m.Comp, cmd.String())
	}
}

func (m *middleware) retireOrPromote(
	q *queue.Queue,
	req *signal.Request,
	cmd signal.CmdKind,
) {
	if cmd != m.channel.TerminalCommand(req.Type) {
		if m.channel.IsOpening(cmd) && q != m.actQ {
			m.promote(q, req)
		}

		return
	}

	if !q.Remove(req) {
		panic("request " + req.ID + " is not in queue " + q.Name())
	}

	now := m.Now()

	switch {
	case req.Type.IsRead():
		req.Depart = now + uint64(m.channel.ReadLatency())
		m.pending.Push(req)
	case req.Type == signal.RequestTypeOpportunisticProbe:
		req.Depart = now + uint64(m.channel.ProbeReadLatency())
		m.probePending.Push(req)
		m.stats.ProbesIssued++
	case req.Type == signal.RequestTypeWrite:
		m.channel.UpdateOccupancy(req.AddrVec, -1, now)
		req.Depart = now
		m.finish(req)
	default:
		req.Depart = now
		m.finish(req)
	}
}

func (m *middleware) promote(q *queue.Queue, req *signal.Request) {
	if !m.actQ.CanPush() {
		m.stats.PromotionsDeferred++

		logrus.WithFields(logrus.Fields{
			"comp":  m.Name(),
			"cycle": m.Now(),
			"req":   req.ID,
		}).Warn("activating queue full, request stays in " + q.Name())

		return
	}

	queue.Move(q, m.actQ, req)
}
