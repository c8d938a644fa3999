package tracing

import (
	"sync"
)

// AverageTimeTracer measures how many cycles the selected tasks take from
// start to end.
type AverageTimeTracer struct {
	cycleTeller CycleTeller
	filter      TaskFilter

	lock        sync.Mutex
	startCycles map[string]uint64
	done        uint64
	sumCycles   uint64
	maxCycles   uint64
}

// NewAverageTimeTracer creates a tracer that keeps the tasks that pass the
// filter. A nil filter keeps every task.
func NewAverageTimeTracer(
	cycleTeller CycleTeller,
	filter TaskFilter,
) *AverageTimeTracer {
	return &AverageTimeTracer{
		cycleTeller: cycleTeller,
		filter:      filter,
		startCycles: make(map[string]uint64),
	}
}

// AverageCycles returns the mean duration of the completed tasks.
func (t *AverageTimeTracer) AverageCycles() float64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.done == 0 {
		return 0
	}

	return float64(t.sumCycles) / float64(t.done)
}

// MaxCycles returns the longest duration among the completed tasks.
func (t *AverageTimeTracer) MaxCycles() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.maxCycles
}

// TotalCount returns the number of completed tasks.
func (t *AverageTimeTracer) TotalCount() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.done
}

// StartTask remembers when the task started.
func (t *AverageTimeTracer) StartTask(task Task) {
	now := t.cycleTeller.Now()

	if t.filter != nil && !t.filter(task) {
		return
	}

	t.lock.Lock()
	t.startCycles[task.ID] = now
	t.lock.Unlock()
}

// StepTask ignores steps.
func (t *AverageTimeTracer) StepTask(_ Task) {}

// EndTask accounts the duration of the task.
func (t *AverageTimeTracer) EndTask(task Task) {
	now := t.cycleTeller.Now()

	t.lock.Lock()
	defer t.lock.Unlock()

	start, ok := t.startCycles[task.ID]
	if !ok {
		return
	}

	delete(t.startCycles, task.ID)

	d := now - start
	t.done++
	t.sumCycles += d
	t.maxCycles = max(t.maxCycles, d)
}
