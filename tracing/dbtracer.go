package tracing

import (
	"sync"

	"github.com/sarchlab/memsched/datarecording"
	"github.com/tebeka/atexit"
)

type taskTableEntry struct {
	ID         string
	ParentID   string
	Kind       string
	What       string
	Location   string
	StartCycle uint64
	EndCycle   uint64
}

type stepTableEntry struct {
	TaskID string
	Cycle  uint64
	What   string
}

// DBTracer is a tracer that stores completed tasks and their steps into a
// data recorder.
type DBTracer struct {
	mu          sync.Mutex
	cycleTeller CycleTeller
	backend     datarecording.DataRecorder

	tracingTasks map[string]Task
}

// NewDBTracer creates a new DBTracer.
func NewDBTracer(
	cycleTeller CycleTeller,
	dataRecorder datarecording.DataRecorder,
) *DBTracer {
	dataRecorder.CreateTable("trace", taskTableEntry{})
	dataRecorder.CreateTable("trace_steps", stepTableEntry{})

	t := &DBTracer{
		cycleTeller:  cycleTeller,
		backend:      dataRecorder,
		tracingTasks: make(map[string]Task),
	}

	atexit.Register(func() {
		t.Terminate()
	})

	return t
}

// StartTask marks the start of a task.
func (t *DBTracer) StartTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task.StartCycle = t.cycleTeller.Now()
	t.tracingTasks[task.ID] = task
}

// StepTask records a step of a task that is being traced.
func (t *DBTracer) StepTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	original, ok := t.tracingTasks[task.ID]
	if !ok {
		return
	}

	for _, s := range task.Steps {
		s.Cycle = t.cycleTeller.Now()
		original.Steps = append(original.Steps, s)
	}

	t.tracingTasks[task.ID] = original
}

// EndTask writes the task and its steps.
func (t *DBTracer) EndTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	original, ok := t.tracingTasks[task.ID]
	if !ok {
		return
	}

	original.EndCycle = t.cycleTeller.Now()
	t.writeTask(original)
	delete(t.tracingTasks, task.ID)
}

func (t *DBTracer) writeTask(task Task) {
	t.backend.InsertData("trace", taskTableEntry{
		ID:         task.ID,
		ParentID:   task.ParentID,
		Kind:       task.Kind,
		What:       task.What,
		Location:   task.Where,
		StartCycle: task.StartCycle,
		EndCycle:   task.EndCycle,
	})

	for _, s := range task.Steps {
		t.backend.InsertData("trace_steps", stepTableEntry{
			TaskID: task.ID,
			Cycle:  s.Cycle,
			What:   s.What,
		})
	}
}

// Terminate drops the unfinished tasks and flushes the backend.
func (t *DBTracer) Terminate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.tracingTasks = make(map[string]Task)
	t.backend.Flush()
}

// InflightCount returns the number of started tasks that have not ended.
func (t *DBTracer) InflightCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.tracingTasks)
}
