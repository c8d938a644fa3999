package refresh

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/memsched/mem/dram/signal"
)

var _ = Describe("Refresher", func() {
	var (
		mockCtrl  *gomock.Controller
		sink      *MockSink
		refresher *Refresher
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		sink = NewMockSink(mockCtrl)
		refresher = NewRefresher(sink, 2, 100)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should do nothing before the interval", func() {
		Expect(refresher.Tick(99)).To(BeFalse())
	})

	It("should refresh every rank", func() {
		var ranks []int

		sink.EXPECT().
			Enqueue(gomock.Any()).
			DoAndReturn(func(req *signal.Request) bool {
				Expect(req.Type).To(Equal(signal.RequestTypeRefresh))
				Expect(req.AddrVec[signal.LevelBank]).
					To(Equal(signal.Sentinel))
				ranks = append(ranks, req.AddrVec[signal.LevelRank])

				return true
			}).
			Times(2)

		Expect(refresher.Tick(100)).To(BeTrue())
		Expect(ranks).To(Equal([]int{0, 1}))
		Expect(refresher.Waiting()).To(Equal(0))
		Expect(refresher.Tick(101)).To(BeFalse())
	})

	It("should retry rejected refreshes", func() {
		first := sink.EXPECT().Enqueue(gomock.Any()).Return(true)
		sink.EXPECT().Enqueue(gomock.Any()).Return(false).After(first)

		Expect(refresher.Tick(100)).To(BeTrue())
		Expect(refresher.Waiting()).To(Equal(1))

		sink.EXPECT().
			Enqueue(gomock.Any()).
			DoAndReturn(func(req *signal.Request) bool {
				Expect(req.AddrVec[signal.LevelRank]).To(Equal(1))
				return true
			})

		Expect(refresher.Tick(101)).To(BeTrue())
		Expect(refresher.Waiting()).To(Equal(0))
	})

	It("should reject invalid parameters", func() {
		Expect(func() { NewRefresher(sink, 0, 10) }).To(Panic())
		Expect(func() { NewRefresher(sink, 1, 0) }).To(Panic())
	})
})
