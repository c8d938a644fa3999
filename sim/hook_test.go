package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("HookableBase", func() {
	var (
		mockCtrl *gomock.Controller
		domain   *ComponentBase
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		domain = NewComponentBase("Domain")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should invoke all hooks", func() {
		h1 := NewMockHook(mockCtrl)
		h2 := NewMockHook(mockCtrl)
		domain.AcceptHook(h1)
		domain.AcceptHook(h2)

		ctx := HookCtx{Domain: domain, Item: 1}
		h1.EXPECT().Func(ctx)
		h2.EXPECT().Func(ctx)

		domain.InvokeHook(ctx)
		Expect(domain.NumHooks()).To(Equal(2))
	})

	It("should reject duplicated hooks", func() {
		h := NewMockHook(mockCtrl)
		domain.AcceptHook(h)

		Expect(func() { domain.AcceptHook(h) }).To(Panic())
	})

	It("should accept function hooks", func() {
		var positions []*HookPos
		f := HookFunc(func(ctx HookCtx) {
			positions = append(positions, ctx.Pos)
		})
		domain.AcceptHook(f)
		domain.AcceptHook(f)

		domain.InvokeHook(HookCtx{Domain: domain, Pos: HookPosAfterTick})

		Expect(positions).To(Equal(
			[]*HookPos{HookPosAfterTick, HookPosAfterTick}))
	})
})
