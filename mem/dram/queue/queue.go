// Package queue provides the request containers of the DRAM scheduler.
package queue

import (
	"log"

	"github.com/sarchlab/memsched/mem/dram/signal"
)

// A Queue is a bounded, insertion-ordered collection of requests.
type Queue struct {
	name     string
	capacity int
	reqs     []*signal.Request
}

// NewQueue creates a queue that can hold up to capacity requests.
func NewQueue(name string, capacity int) *Queue {
	if capacity <= 0 {
		log.Panicf("queue %s must have a positive capacity", name)
	}

	return &Queue{
		name:     name,
		capacity: capacity,
	}
}

// Name returns the name of the queue.
func (q *Queue) Name() string {
	return q.name
}

// Size returns the number of requests in the queue.
func (q *Queue) Size() int {
	return len(q.reqs)
}

// Capacity returns the maximum number of requests the queue can hold.
func (q *Queue) Capacity() int {
	return q.capacity
}

// CanPush checks if there is room for one more request.
func (q *Queue) CanPush() bool {
	return len(q.reqs) < q.capacity
}

// Push appends a request to the end of the queue.
func (q *Queue) Push(req *signal.Request) {
	if !q.CanPush() {
		log.Panicf("queue %s overflow", q.name)
	}

	q.reqs = append(q.reqs, req)
}

// Remove takes the request out of the queue, keeping the order of the other
// requests. It returns false if the request is not in the queue.
func (q *Queue) Remove(req *signal.Request) bool {
	for i, r := range q.reqs {
		if r == req {
			copy(q.reqs[i:], q.reqs[i+1:])
			q.reqs[len(q.reqs)-1] = nil
			q.reqs = q.reqs[:len(q.reqs)-1]

			return true
		}
	}

	return false
}

// Contains checks if the request is in the queue.
func (q *Queue) Contains(req *signal.Request) bool {
	for _, r := range q.reqs {
		if r == req {
			return true
		}
	}

	return false
}

// Requests returns the requests in arrival order. The returned slice must not
// be modified.
func (q *Queue) Requests() []*signal.Request {
	return q.reqs
}

// Front returns the oldest request, or nil if the queue is empty.
func (q *Queue) Front() *signal.Request {
	if len(q.reqs) == 0 {
		return nil
	}

	return q.reqs[0]
}

// Move removes the request from src and appends it to dst.
func Move(src, dst *Queue, req *signal.Request) {
	if !dst.CanPush() {
		log.Panicf("cannot move %s into full queue %s", req, dst.name)
	}

	if !src.Remove(req) {
		log.Panicf("request %s is not in queue %s", req, src.name)
	}

	dst.Push(req)
}
