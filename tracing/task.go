package tracing

// A TaskStep represents a milestone in the processing of task
type TaskStep struct {
	Cycle uint64 `json:"cycle"`
	What  string `json:"what"`
}

// A Task is a task
type Task struct {
	ID         string      `json:"id"`
	ParentID   string      `json:"parent_id"`
	Kind       string      `json:"kind"`
	What       string      `json:"what"`
	Where      string      `json:"where"`
	StartCycle uint64      `json:"start_cycle"`
	EndCycle   uint64      `json:"end_cycle"`
	Steps      []TaskStep  `json:"steps"`
	Detail     interface{} `json:"-"`
}

// TaskFilter is a function that can filter interesting tasks. If this function
// returns true, the task is considered useful.
type TaskFilter func(t Task) bool

// CycleTeller can tell the current cycle.
type CycleTeller interface {
	Now() uint64
}
