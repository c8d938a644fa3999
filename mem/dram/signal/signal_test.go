package signal

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AddrVec", func() {
	It("should cut the levels below a prefix", func() {
		a := MakeAddrVec(0, 1, 2, 3, 4, 5)

		Expect(a.Prefix(LevelBank)).To(Equal(
			AddrVec{0, 1, 2, Sentinel, Sentinel, Sentinel}))
		Expect(a[LevelRow]).To(Equal(4))
	})

	It("should order lexicographically", func() {
		a := MakeAddrVec(0, 0, 1, 0, 9, 9)
		b := MakeAddrVec(0, 0, 2, 0, 0, 0)

		Expect(a.Less(b)).To(BeTrue())
		Expect(b.Less(a)).To(BeFalse())
		Expect(a.Less(a)).To(BeFalse())
	})

	It("should print", func() {
		Expect(MakeAddrVec(0, 0, 1, 0, 3, -1).String()).
			To(Equal("[0,0,1,0,3,-1]"))
	})
})

var _ = Describe("CmdKind", func() {
	It("should report static properties", func() {
		Expect(CmdKindActivate.IsOpening()).To(BeTrue())
		Expect(CmdKindPrecharge.IsClosing()).To(BeTrue())
		Expect(CmdKindReadPrecharge.IsClosing()).To(BeTrue())
		Expect(CmdKindReadPrecharge.IsAccessing()).To(BeTrue())
		Expect(CmdKindRefresh.IsRankWide()).To(BeTrue())
		Expect(CmdKindPrechargeOther.IsRankWide()).To(BeFalse())
		Expect(CmdKindMigrate.String()).To(Equal("MIG"))
	})

	It("should panic on unknown kinds", func() {
		Expect(func() { NumCmdKind.IsOpening() }).To(Panic())
	})
})

var _ = Describe("Request", func() {
	It("should start with the first-command flag set", func() {
		req := NewRequest(RequestTypeRead, 0x40,
			MakeAddrVec(0, 0, 0, 0, 3, 0), 2, nil)

		Expect(req.IsFirstCommand).To(BeTrue())
		Expect(req.ID).NotTo(BeEmpty())
		Expect(req.CoreID).To(Equal(2))
	})

	It("should treat derivatives as reads", func() {
		Expect(RequestTypeRead.IsRead()).To(BeTrue())
		Expect(RequestTypeInternalReadDerivative.IsRead()).To(BeTrue())
		Expect(RequestTypeOpportunisticProbe.IsRead()).To(BeFalse())
		Expect(RequestTypeWrite.IsRead()).To(BeFalse())
	})
})

var _ = Describe("TimingMode", func() {
	It("should parse names", func() {
		m, err := ParseTimingMode("hot")
		Expect(err).NotTo(HaveOccurred())
		Expect(m).To(Equal(TimingModeHot))

		_, err = ParseTimingMode("lukewarm")
		Expect(err).To(HaveOccurred())
	})
})
