package tracing

import (
	"sort"
	"sync"
)

// StepCountTracer counts the steps of the tasks that pass the filter. For each
// step name, it knows both how many times the step happened and how many tasks
// contained it.
type StepCountTracer struct {
	filter TaskFilter

	lock          sync.Mutex
	inflightTasks map[string]map[string]bool
	stepCount     map[string]uint64
	taskCount     map[string]uint64
}

// NewStepCountTracer creates a new StepCountTracer. A nil filter accepts every
// task.
func NewStepCountTracer(filter TaskFilter) *StepCountTracer {
	return &StepCountTracer{
		filter:        filter,
		inflightTasks: make(map[string]map[string]bool),
		stepCount:     make(map[string]uint64),
		taskCount:     make(map[string]uint64),
	}
}

// StepNames returns the names of the steps seen so far, sorted.
func (t *StepCountTracer) StepNames() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	names := make([]string, 0, len(t.stepCount))
	for name := range t.stepCount {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// StepCount returns how many times a step happened.
func (t *StepCountTracer) StepCount(stepName string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.stepCount[stepName]
}

// TaskCount returns how many tasks contained a step at least once.
func (t *StepCountTracer) TaskCount(stepName string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.taskCount[stepName]
}

// StartTask starts counting the steps of a task.
func (t *StepCountTracer) StartTask(task Task) {
	if t.filter != nil && !t.filter(task) {
		return
	}

	t.lock.Lock()
	t.inflightTasks[task.ID] = make(map[string]bool)
	t.lock.Unlock()
}

// StepTask counts the steps of a task in flight.
func (t *StepCountTracer) StepTask(task Task) {
	t.lock.Lock()
	defer t.lock.Unlock()

	seen, ok := t.inflightTasks[task.ID]
	if !ok {
		return
	}

	for _, step := range task.Steps {
		t.stepCount[step.What]++

		if !seen[step.What] {
			seen[step.What] = true
			t.taskCount[step.What]++
		}
	}
}

// EndTask stops counting the steps of a task.
func (t *StepCountTracer) EndTask(task Task) {
	t.lock.Lock()
	delete(t.inflightTasks, task.ID)
	t.lock.Unlock()
}
