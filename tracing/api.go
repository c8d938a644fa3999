// Package tracing follows requests through the components that serve them.
package tracing

import (
	"github.com/sarchlab/memsched/sim"
)

// NamedHookable is a component that tasks can be reported on.
type NamedHookable interface {
	sim.Named
	sim.Hookable
	InvokeHook(sim.HookCtx)
}

// Hook positions of the task life cycle.
var (
	HookPosTaskStart = &sim.HookPos{Name: "HookPosTaskStart"}
	HookPosTaskStep  = &sim.HookPos{Name: "HookPosTaskStep"}
	HookPosTaskEnd   = &sim.HookPos{Name: "HookPosTaskEnd"}
)

// StartTask reports that the domain starts working on a task. Nothing happens
// if the domain has no hooks.
func StartTask(
	id string,
	parentID string,
	domain NamedHookable,
	kind string,
	what string,
	detail interface{},
) {
	if domain.NumHooks() == 0 {
		return
	}

	task := Task{
		ID:       id,
		ParentID: parentID,
		Kind:     kind,
		What:     what,
		Where:    domain.Name(),
		Detail:   detail,
	}
	taskMustBeComplete(task)

	notify(domain, HookPosTaskStart, task)
}

// AddTaskStep reports that a task has reached a step, such as a command
// being issued for a request.
func AddTaskStep(id string, domain NamedHookable, what string) {
	if domain.NumHooks() == 0 {
		return
	}

	notify(domain, HookPosTaskStep, Task{
		ID:    id,
		Steps: []TaskStep{{What: what}},
	})
}

// EndTask reports that the domain has finished a task.
func EndTask(id string, domain NamedHookable) {
	if domain.NumHooks() == 0 {
		return
	}

	notify(domain, HookPosTaskEnd, Task{ID: id})
}

func notify(domain NamedHookable, pos *sim.HookPos, task Task) {
	domain.InvokeHook(sim.HookCtx{
		Domain: domain,
		Pos:    pos,
		Item:   task,
	})
}

func taskMustBeComplete(task Task) {
	switch {
	case task.ID == "":
		panic("id must not be empty")
	case task.Where == "":
		panic("domain must have a name")
	case task.Kind == "":
		panic("kind must not be empty")
	case task.What == "":
		panic("what must not be empty")
	}
}
