package sim

import "strings"

// A Named object has a name that identifies it in logs, traces and the
// monitor.
type Named interface {
	Name() string
}

// ComponentBase gives a component its name and its hooks.
type ComponentBase struct {
	HookableBase
	name string
}

// NewComponentBase creates a ComponentBase. It panics if the name is not
// valid.
func NewComponentBase(name string) *ComponentBase {
	NameMustBeValid(name)

	return &ComponentBase{name: name}
}

// Name returns the name of the component.
func (c *ComponentBase) Name() string {
	return c.name
}

// NameMustBeValid panics if the name is empty or contains white space.
func NameMustBeValid(name string) {
	if name == "" {
		panic("name must not be empty")
	}

	if strings.ContainsAny(name, " \t\n") {
		panic("name must not contain white spaces: " + name)
	}
}
