package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/memsched/sim"
)

var _ = Describe("API", func() {
	var (
		mockCtrl *gomock.Controller
		domain   *MockNamedHookable
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		domain = NewMockNamedHookable(mockCtrl)
		domain.EXPECT().Name().Return("Domain").AnyTimes()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should not invoke hooks when the domain has none", func() {
		domain.EXPECT().NumHooks().Return(0).Times(3)

		StartTask("1", "", domain, "req", "read", nil)
		AddTaskStep("1", domain, "ACT")
		EndTask("1", domain)
	})

	It("should start a task", func() {
		domain.EXPECT().NumHooks().Return(1)
		domain.EXPECT().InvokeHook(gomock.Any()).Do(func(ctx sim.HookCtx) {
			Expect(ctx.Pos).To(Equal(HookPosTaskStart))
			task := ctx.Item.(Task)
			Expect(task.ID).To(Equal("1"))
			Expect(task.Where).To(Equal("Domain"))
		})

		StartTask("1", "", domain, "req", "read", nil)
	})

	It("should panic if the task has no kind", func() {
		domain.EXPECT().NumHooks().Return(1)

		Expect(func() {
			StartTask("1", "", domain, "", "read", nil)
		}).To(Panic())
	})

	It("should add a step", func() {
		domain.EXPECT().NumHooks().Return(1)
		domain.EXPECT().InvokeHook(gomock.Any()).Do(func(ctx sim.HookCtx) {
			Expect(ctx.Pos).To(Equal(HookPosTaskStep))
			Expect(ctx.Item.(Task).Steps[0].What).To(Equal("ACT"))
		})

		AddTaskStep("1", domain, "ACT")
	})

	It("should not collect the same tracer twice", func() {
		tracer := NewMockTracer(mockCtrl)
		var hooks []sim.Hook
		domain.EXPECT().Hooks().DoAndReturn(func() []sim.Hook {
			return hooks
		}).AnyTimes()
		domain.EXPECT().AcceptHook(gomock.Any()).Do(func(h sim.Hook) {
			hooks = append(hooks, h)
		})

		CollectTrace(domain, tracer)

		Expect(func() { CollectTrace(domain, tracer) }).To(Panic())
	})

	It("should forward hook positions to the tracer", func() {
		tracer := NewMockTracer(mockCtrl)
		h := &traceHook{t: tracer}
		task := Task{ID: "1"}

		tracer.EXPECT().StartTask(task)
		tracer.EXPECT().StepTask(task)
		tracer.EXPECT().EndTask(task)

		h.Func(sim.HookCtx{Pos: HookPosTaskStart, Item: task})
		h.Func(sim.HookCtx{Pos: HookPosTaskStep, Item: task})
		h.Func(sim.HookCtx{Pos: HookPosTaskEnd, Item: task})
	})
})
