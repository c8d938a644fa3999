package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ID generators", func() {
	It("should count from one", func() {
		g := new(counterIDs)

		Expect(g.Generate()).To(Equal("1"))
		Expect(g.Generate()).To(Equal("2"))
	})

	It("should generate unique ids", func() {
		g := xidIDs{}

		Expect(g.Generate()).NotTo(Equal(g.Generate()))
	})

	It("should freeze the choice once used", func() {
		slot := &idGeneratorSlot{}
		slot.set(xidIDs{})
		slot.frozen = true

		Expect(func() { slot.set(new(counterIDs)) }).To(Panic())
	})
})
