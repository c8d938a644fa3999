package tracing

import "sync"

// BusyTimeTracer counts the cycles in which a domain is processing at least
// one task of a kind. Overlapping tasks are only counted once.
type BusyTimeTracer struct {
	cycleTeller CycleTeller
	filter      TaskFilter

	lock          sync.Mutex
	inflightTasks map[string]bool
	busySince     uint64
	busyCycles    uint64
}

// NewBusyTimeTracer creates a new BusyTimeTracer. A nil filter accepts every
// task.
func NewBusyTimeTracer(
	cycleTeller CycleTeller,
	filter TaskFilter,
) *BusyTimeTracer {
	return &BusyTimeTracer{
		cycleTeller:   cycleTeller,
		filter:        filter,
		inflightTasks: make(map[string]bool),
	}
}

// BusyCycles returns the number of cycles covered by the completed busy
// periods.
func (t *BusyTimeTracer) BusyCycles() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.busyCycles
}

// TerminateAllTasks closes the current busy period at the current cycle.
func (t *BusyTimeTracer) TerminateAllTasks() {
	t.lock.Lock()
	defer t.lock.Unlock()

	if len(t.inflightTasks) == 0 {
		return
	}

	t.busyCycles += t.cycleTeller.Now() - t.busySince
	t.inflightTasks = make(map[string]bool)
}

// StartTask opens a busy period if no other task is in flight.
func (t *BusyTimeTracer) StartTask(task Task) {
	if t.filter != nil && !t.filter(task) {
		return
	}

	now := t.cycleTeller.Now()

	t.lock.Lock()
	defer t.lock.Unlock()

	if len(t.inflightTasks) == 0 {
		t.busySince = now
	}

	t.inflightTasks[task.ID] = true
}

// StepTask does nothing
func (t *BusyTimeTracer) StepTask(_ Task) {
	// Do nothing
}

// EndTask closes the busy period when the last task in flight ends.
func (t *BusyTimeTracer) EndTask(task Task) {
	now := t.cycleTeller.Now()

	t.lock.Lock()
	defer t.lock.Unlock()

	if !t.inflightTasks[task.ID] {
		return
	}

	delete(t.inflightTasks, task.ID)

	if len(t.inflightTasks) == 0 {
		t.busyCycles += now - t.busySince
	}
}
