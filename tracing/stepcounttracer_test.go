package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("StepCountTracer", func() {
	var tracer *StepCountTracer

	step := func(id, what string) Task {
		return Task{ID: id, Steps: []TaskStep{{What: what}}}
	}

	BeforeEach(func() {
		tracer = NewStepCountTracer(func(t Task) bool {
			return t.What == "READ"
		})
	})

	It("should count steps and the tasks that contain them", func() {
		tracer.StartTask(Task{ID: "1", What: "READ"})
		tracer.StartTask(Task{ID: "2", What: "READ"})
		tracer.StepTask(step("1", "ACT"))
		tracer.StepTask(step("1", "RD"))
		tracer.StepTask(step("2", "RD"))
		tracer.StepTask(step("2", "RD"))
		tracer.EndTask(Task{ID: "1"})
		tracer.EndTask(Task{ID: "2"})

		Expect(tracer.StepNames()).To(Equal([]string{"ACT", "RD"}))
		Expect(tracer.StepCount("RD")).To(Equal(uint64(3)))
		Expect(tracer.TaskCount("RD")).To(Equal(uint64(2)))
		Expect(tracer.TaskCount("ACT")).To(Equal(uint64(1)))
	})

	It("should ignore filtered and ended tasks", func() {
		tracer.StartTask(Task{ID: "1", What: "WRITE"})
		tracer.StepTask(step("1", "WR"))
		tracer.StartTask(Task{ID: "2", What: "READ"})
		tracer.EndTask(Task{ID: "2"})
		tracer.StepTask(step("2", "RD"))

		Expect(tracer.StepNames()).To(BeEmpty())
	})
})
