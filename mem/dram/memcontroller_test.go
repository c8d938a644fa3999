package dram

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/memsched/mem/dram/signal"
)

var _ = Describe("Comp", func() {
	var (
		mockCtrl *gomock.Controller
		channel  *MockChannel
		log      *issueLog
		allowed  func(signal.CmdKind, signal.AddrVec) bool
		builder  Builder
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		channel = NewMockChannel(mockCtrl)
		log = &issueLog{}
		allowed = allow()
		builder = MakeBuilder().
			WithChannel(channel).
			WithAdditionalHooks(log)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	stub := func() {
		stubChannel(channel, func(cmd signal.CmdKind, addr signal.AddrVec) bool {
			return allowed(cmd, addr)
		})
	}

	tick := func(c *Comp, n int) {
		for i := 0; i < n; i++ {
			c.TickNow()
		}
	}

	Context("enqueue", func() {
		It("should route requests by type", func() {
			c := builder.Build("MemCtrl")

			Expect(c.Enqueue(readAt(0, 1, nil))).To(BeTrue())
			Expect(c.Enqueue(writeAt(0, 1, nil))).To(BeTrue())
			Expect(c.Enqueue(signal.NewRequest(signal.RequestTypeRefresh,
				0, signal.AddrVec{}, -1, nil))).To(BeTrue())
			Expect(c.Enqueue(signal.NewRequest(
				signal.RequestTypeOpportunisticProbe,
				0, signal.AddrVec{}, -1, nil))).To(BeTrue())

			Expect(c.QueueLengths()).To(Equal(QueueLengths{
				Read: 1, Write: 1, Other: 1, Probe: 1,
			}))
		})

		It("should reject requests when the queue is full", func() {
			c := builder.WithReadQueueSize(1).Build("MemCtrl")

			Expect(c.Enqueue(readAt(0, 1, nil))).To(BeTrue())
			Expect(c.Enqueue(readAt(0, 2, nil))).To(BeFalse())
			Expect(c.QueueLengths().Read).To(Equal(1))
		})

		It("should stamp the arrival cycle", func() {
			stub()
			c := builder.Build("MemCtrl")
			tick(c, 3)

			req := readAt(0, 1, nil)
			c.Enqueue(req)

			Expect(req.Arrive).To(Equal(uint64(3)))
		})
	})

	Context("write mode", func() {
		BeforeEach(func() {
			stub()
			builder = builder.
				WithReadQueueSize(100).
				WithWriteQueueSize(100)
		})

		It("should enter write mode when there are no reads", func() {
			c := builder.Build("MemCtrl")
			c.Enqueue(writeAt(0, 1, nil))

			tick(c, 1)

			Expect(c.WriteMode()).To(BeTrue())
		})

		It("should not enter write mode at the high watermark", func() {
			c := builder.Build("MemCtrl")
			c.Enqueue(readAt(0, 1, nil))
			for i := 0; i < 80; i++ {
				c.Enqueue(writeAt(0, i, nil))
			}

			tick(c, 1)

			Expect(c.WriteMode()).To(BeFalse())
		})

		It("should switch with hysteresis", func() {
			c := builder.Build("MemCtrl")
			c.Enqueue(readAt(0, 1, nil))
			for i := 0; i < 81; i++ {
				c.Enqueue(writeAt(0, i, nil))
			}

			tick(c, 1)
			Expect(c.WriteMode()).To(BeTrue())

			allowed = allow(signal.CmdKindWrite)
			tick(c, 62)

			Expect(c.QueueLengths().Write).To(Equal(19))
			Expect(c.WriteMode()).To(BeTrue())

			tick(c, 1)

			Expect(c.WriteMode()).To(BeFalse())
			Expect(c.QueueLengths().Write).To(Equal(19))
			Expect(c.Stats().WriteModeSwitches).To(Equal(uint64(2)))
		})

		It("should serve only one of the read and write queues", func() {
			c := builder.Build("MemCtrl")
			c.Enqueue(readAt(0, 1, nil))
			c.Enqueue(writeAt(0, 2, nil))
			allowed = allow(signal.CmdKindWrite)

			tick(c, 5)

			Expect(log.issues).To(BeEmpty())
			Expect(c.WriteMode()).To(BeFalse())
		})
	})

	Context("priority", func() {
		BeforeEach(func() {
			stub()
		})

		It("should not serve reads while the other queue is blocked", func() {
			c := builder.Build("MemCtrl")
			c.Enqueue(signal.NewRequest(signal.RequestTypeRefresh,
				0, signal.AddrVec{}, -1, nil))
			c.Enqueue(readAt(0, 1, nil))
			allowed = allow(signal.CmdKindRead)

			tick(c, 3)

			Expect(log.issues).To(BeEmpty())
			Expect(c.QueueLengths().Read).To(Equal(1))
		})

		It("should serve the other queue first", func() {
			c := builder.Build("MemCtrl")
			c.Enqueue(readAt(0, 1, nil))
			c.Enqueue(signal.NewRequest(signal.RequestTypeRefresh,
				0, signal.AddrVec{}, -1, nil))
			allowed = allow(signal.CmdKindRead, signal.CmdKindRefresh)

			tick(c, 2)

			Expect(log.cmds()).To(Equal([]signal.CmdKind{
				signal.CmdKindRefresh, signal.CmdKindRead,
			}))
		})

		It("should issue at most one command per cycle", func() {
			c := builder.Build("MemCtrl")
			for i := 0; i < 4; i++ {
				c.Enqueue(readAt(i, 1, nil))
			}
			allowed = allow(signal.CmdKindRead)

			tick(c, 2)

			Expect(log.issues).To(HaveLen(2))
			Expect(log.issues[0].Now).To(Equal(uint64(1)))
			Expect(log.issues[1].Now).To(Equal(uint64(2)))
		})
	})

	Context("completion", func() {
		BeforeEach(func() {
			stub()
			allowed = allow(signal.CmdKindRead, signal.CmdKindWrite)
		})

		It("should call back reads after the read latency", func() {
			var returned []uint64

			c := builder.Build("MemCtrl")
			cb := func(req *signal.Request) {
				returned = append(returned, c.Now())
			}
			c.Enqueue(readAt(0, 1, cb))
			c.Enqueue(readAt(1, 1, cb))

			tick(c, 15)
			Expect(returned).To(BeEmpty())
			Expect(c.PendingLen()).To(Equal(2))

			tick(c, 10)
			Expect(returned).To(Equal([]uint64{16, 17}))
			Expect(c.PendingLen()).To(Equal(0))

			stats := c.Stats()
			Expect(stats.ReadCount).To(Equal(uint64(2)))
			Expect(stats.RowMisses).To(Equal(uint64(2)))
		})

		It("should call back writes when they issue", func() {
			var write *signal.Request

			c := builder.Build("MemCtrl")
			c.Enqueue(writeAt(0, 1, func(req *signal.Request) {
				write = req
			}))

			tick(c, 1)

			Expect(write).NotTo(BeNil())
			Expect(write.Depart).To(Equal(uint64(1)))
		})

		It("should serve reads through migration", func() {
			var returned *signal.Request

			allowed = allow(signal.CmdKindMigrate)
			c := builder.WithReadMigration(true).Build("MemCtrl")
			c.Enqueue(readAt(0, 1, func(req *signal.Request) {
				returned = req
			}))

			tick(c, 16)

			Expect(log.cmds()).To(Equal([]signal.CmdKind{signal.CmdKindMigrate}))
			Expect(returned).NotTo(BeNil())
			Expect(returned.Type).
				To(Equal(signal.RequestTypeInternalReadDerivative))
		})
	})

	Context("speculative precharge", func() {
		var rowPolicy *MockRowPolicy

		BeforeEach(func() {
			stub()
			rowPolicy = NewMockRowPolicy(mockCtrl)
			builder = builder.WithRowPolicy(rowPolicy)
		})

		It("should close a victim row when nothing is ready", func() {
			victim := signal.MakeAddrVec(0, 0, 2, 0, 7, signal.Sentinel)
			rowPolicy.EXPECT().
				SelectVictim(signal.CmdKindPrecharge).
				Return(victim, true)
			allowed = allow(signal.CmdKindPrecharge)

			c := builder.Build("MemCtrl")
			c.Enqueue(readAt(0, 1, nil))
			tick(c, 1)

			Expect(log.issues).To(HaveLen(1))
			Expect(log.issues[0].Cmd).To(Equal(signal.CmdKindPrecharge))
			Expect(log.issues[0].Addr).To(Equal(victim))
			Expect(log.issues[0].ReqID).To(BeEmpty())
			Expect(c.Stats().SpeculativePrecharges).To(Equal(uint64(1)))
		})

		It("should not ask for a victim when a request is ready", func() {
			allowed = allow(signal.CmdKindRead)

			c := builder.Build("MemCtrl")
			c.Enqueue(readAt(0, 1, nil))
			tick(c, 1)

			Expect(log.cmds()).To(Equal([]signal.CmdKind{signal.CmdKindRead}))
		})

		It("should not precharge a victim that is not ready", func() {
			rowPolicy.EXPECT().
				SelectVictim(signal.CmdKindPrecharge).
				Return(signal.AddrVec{}, true)

			c := builder.Build("MemCtrl")
			tick(c, 1)

			Expect(log.issues).To(BeEmpty())
		})
	})

	Context("collaborators", func() {
		It("should tick the refresher every cycle", func() {
			stub()
			refresher := NewMockRefresher(mockCtrl)
			first := refresher.EXPECT().Tick(uint64(1)).Return(false)
			refresher.EXPECT().Tick(uint64(2)).Return(false).After(first)

			c := builder.WithRefresher(refresher).Build("MemCtrl")
			tick(c, 2)
		})

		It("should select from the queue that the scheduler picks", func() {
			stub()
			allowed = allow(signal.CmdKindRead)
			scheduler := NewMockScheduler(mockCtrl)

			c := builder.WithScheduler(scheduler).Build("MemCtrl")
			a, b := readAt(0, 1, nil), readAt(1, 1, nil)
			c.Enqueue(a)
			c.Enqueue(b)
			scheduler.EXPECT().SelectHead(c.readQ).Return(b)

			tick(c, 1)

			Expect(log.issues[0].ReqID).To(Equal(b.ID))
			Expect(c.readQ.Contains(a)).To(BeTrue())
		})

		It("should keep a request in place when the activating queue is full",
			func() {
				entries := test.NewGlobal()
				defer logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks))

				channel.EXPECT().
					FirstCommand(signal.CmdKindRead, gomock.Any()).
					Return(signal.CmdKindActivate).
					AnyTimes()
				stub()
				allowed = allow(signal.CmdKindActivate)

				c := builder.
					WithReadQueueSize(1).
					WithWriteQueueSize(1).
					Build("MemCtrl")
				c.actQ.Push(writeAt(0, 1, nil))
				c.actQ.Push(writeAt(1, 1, nil))
				req := readAt(2, 1, nil)
				c.Enqueue(req)

				tick(c, 1)

				Expect(log.cmds()).To(Equal(
					[]signal.CmdKind{signal.CmdKindActivate}))
				Expect(c.readQ.Contains(req)).To(BeTrue())
				Expect(c.QueueLengths().Activating).To(Equal(2))
				Expect(c.Stats().PromotionsDeferred).To(Equal(uint64(1)))
				Expect(entries.LastEntry()).NotTo(BeNil())
				Expect(entries.LastEntry().Level).To(Equal(logrus.WarnLevel))
				Expect(entries.LastEntry().Data["req"]).To(Equal(req.ID))
			})

		It("should forward timing modes", func() {
			stub()
			setter := NewMockTimingModeSetter(mockCtrl)
			setter.EXPECT().SetTimingMode(signal.TimingModeHot)

			c := builder.
				WithChannel(timingChannel{channel, setter}).
				Build("MemCtrl")

			c.SetTimingMode(signal.TimingModeHot)
		})

		It("should ignore timing modes if the channel has none", func() {
			c := builder.Build("MemCtrl")

			Expect(func() { c.SetTimingMode(signal.TimingModeCold) }).
				NotTo(Panic())
		})
	})

	Context("opportunistic probes", func() {
		var (
			probeVec    signal.AddrVec
			readsReady  bool
			readAddrVec signal.AddrVec
		)

		BeforeEach(func() {
			probeVec = signal.MakeAddrVec(0, 1, 7, 0, 0, 0)
			readAddrVec = signal.MakeAddrVec(0, 0, 0, 0, 1, 0)
			readsReady = false
			allowed = func(_ signal.CmdKind, addr signal.AddrVec) bool {
				return addr == probeVec || readsReady
			}
			stub()
			builder = builder.WithOpportunisticProbing(0x40, probeVec)
		})

		newRead := func() *signal.Request {
			return signal.NewRequest(signal.RequestTypeRead, 0x1000,
				readAddrVec, 0, nil)
		}

		It("should probe after a long enough idle period", func() {
			c := builder.Build("MemCtrl")
			c.Enqueue(newRead())

			tick(c, 5)
			Expect(c.Stats().ProbesIssued).To(BeZero())

			readsReady = true
			tick(c, 1)
			Expect(c.QueueLengths().Read).To(BeZero())

			readsReady = false
			c.Enqueue(newRead())
			tick(c, 1)

			Expect(c.Stats().ProbesIssued).To(Equal(uint64(1)))
			Expect(c.QueueLengths().ProbePending).To(Equal(1))
			last := log.issues[len(log.issues)-1]
			Expect(last.Addr).To(Equal(probeVec))

			tick(c, 4)
			Expect(c.Stats().ProbesCompleted).To(BeNumerically(">=", 1))
			Expect(c.QueueLengths().Read).To(Equal(1))
		})

		It("should not train on cycles that serve the other queue", func() {
			c := builder.Build("MemCtrl")
			c.Enqueue(newRead())

			tick(c, 1)
			Expect(c.predictor.Counter(0x1000)).To(Equal(uint8(1)))

			c.Enqueue(signal.NewRequest(signal.RequestTypeRefresh,
				0, signal.AddrVec{}, -1, nil))
			readsReady = true
			tick(c, 1)

			Expect(log.cmds()).To(Equal(
				[]signal.CmdKind{signal.CmdKindRefresh}))
			Expect(c.predictor.Counter(0x1000)).To(Equal(uint8(1)))
		})

		It("should not probe after a short idle period", func() {
			c := builder.Build("MemCtrl")
			c.Enqueue(newRead())

			tick(c, 2)
			readsReady = true
			tick(c, 1)

			readsReady = false
			c.Enqueue(newRead())
			tick(c, 3)

			Expect(c.Stats().ProbesIssued).To(BeZero())
		})
	})

	It("should panic on invalid watermarks", func() {
		Expect(func() {
			builder.WithWatermarks(0.8, 0.2).Build("MemCtrl")
		}).To(Panic())
	})
})

type timingChannel struct {
	*MockChannel
	*MockTimingModeSetter
}
