package monitoring

import (
	"sync"
	"time"

	"github.com/sarchlab/memsched/sim"
)

// A ProgressBar is a tracker of the progress
type ProgressBar struct {
	lock       sync.Mutex
	id         string
	name       string
	startTime  time.Time
	total      uint64
	finished   uint64
	inProgress uint64
}

// ProgressBarStatus is a copy of a progress bar.
type ProgressBarStatus struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
}

func newProgressBar(name string, total uint64) *ProgressBar {
	return &ProgressBar{
		id:        sim.GetIDGenerator().Generate(),
		name:      name,
		startTime: time.Now(),
		total:     total,
	}
}

// Set overwrites the number of in-progress and finished elements.
func (b *ProgressBar) Set(inProgress, finished uint64) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.inProgress = inProgress
	b.finished = finished
}

// IncrementFinished add a certain amount to finished element.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.finished += amount
}

// Status returns a copy of the bar.
func (b *ProgressBar) Status() ProgressBarStatus {
	b.lock.Lock()
	defer b.lock.Unlock()

	return ProgressBarStatus{
		ID:         b.id,
		Name:       b.name,
		StartTime:  b.startTime,
		Total:      b.total,
		Finished:   b.finished,
		InProgress: b.inProgress,
	}
}
