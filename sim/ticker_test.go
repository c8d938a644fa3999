package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Ticking Component", func() {
	var (
		mockCtrl *gomock.Controller
		ticker   *MockTicker
		tc       *TickingComponent
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		ticker = NewMockTicker(mockCtrl)
		tc = NewTickingComponent("TC", 1*GHz, ticker)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should start at cycle 0", func() {
		Expect(tc.Now()).To(Equal(uint64(0)))
		Expect(tc.Name()).To(Equal("TC"))
	})

	It("should advance one cycle before ticking", func() {
		ticker.EXPECT().Tick().DoAndReturn(func() bool {
			Expect(tc.Now()).To(Equal(uint64(1)))
			return true
		})

		Expect(tc.TickNow()).To(BeTrue())
		Expect(tc.CurrentTime()).To(BeNumerically("~", 1e-9, 1e-15))
	})

	It("should report no progress", func() {
		ticker.EXPECT().Tick().Return(false)

		Expect(tc.TickNow()).To(BeFalse())
		Expect(tc.Now()).To(Equal(uint64(1)))
	})

	It("should reject invalid names", func() {
		Expect(func() { NewTickingComponent("", 1*GHz, ticker) }).To(Panic())
		Expect(func() { NewTickingComponent("a b", 1*GHz, ticker) }).
			To(Panic())
	})
})
