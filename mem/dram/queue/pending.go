package queue

import (
	"log"

	"github.com/sarchlab/memsched/mem/dram/signal"
	"github.com/sirupsen/logrus"
)

// A PendingList holds in-flight requests waiting for their departure cycle.
// Only the head is checked, so departures must not decrease along the list.
type PendingList struct {
	name            string
	strict          bool
	reqs            []*signal.Request
	orderViolations uint64
}

// NewPendingList creates an empty pending list. A strict list panics when a
// request departs before the tail of the list.
func NewPendingList(name string, strict bool) *PendingList {
	return &PendingList{
		name:   name,
		strict: strict,
	}
}

// Push appends a request whose Depart field is already set.
func (l *PendingList) Push(req *signal.Request) {
	if n := len(l.reqs); n > 0 && req.Depart < l.reqs[n-1].Depart {
		l.orderViolations++

		if l.strict {
			log.Panicf("%s: %s departs at %d, before tail at %d",
				l.name, req, req.Depart, l.reqs[n-1].Depart)
		}

		logrus.WithFields(logrus.Fields{
			"list":   l.name,
			"req":    req.ID,
			"depart": req.Depart,
			"tail":   l.reqs[n-1].Depart,
		}).Warn("pending list departure out of order")
	}

	l.reqs = append(l.reqs, req)
}

// PopDue removes and returns the head if it departs no later than now.
func (l *PendingList) PopDue(now uint64) *signal.Request {
	if len(l.reqs) == 0 || l.reqs[0].Depart > now {
		return nil
	}

	req := l.reqs[0]
	l.reqs[0] = nil
	l.reqs = l.reqs[1:]

	return req
}

// Front returns the head of the list without removing it.
func (l *PendingList) Front() *signal.Request {
	if len(l.reqs) == 0 {
		return nil
	}

	return l.reqs[0]
}

// Len returns the number of in-flight requests.
func (l *PendingList) Len() int {
	return len(l.reqs)
}

// Contains checks if the request is waiting in the list.
func (l *PendingList) Contains(req *signal.Request) bool {
	for _, r := range l.reqs {
		if r == req {
			return true
		}
	}

	return false
}

// OrderViolations returns how many pushes departed before the tail.
func (l *PendingList) OrderViolations() uint64 {
	return l.orderViolations
}
