package sim

// A HookPos names a place in the code where hooks are invoked.
type HookPos struct {
	Name string
}

// Positions invoked by the Driver around each cycle. Item carries the cycle.
var (
	HookPosBeforeTick = &HookPos{Name: "BeforeTick"}
	HookPosAfterTick  = &HookPos{Name: "AfterTick"}
)

// HookCtx describes one hook invocation.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   interface{}
	Detail interface{}
}

// A Hook observes a Hookable without changing its behavior.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc lets a plain function serve as a Hook.
type HookFunc func(ctx HookCtx)

// Func calls f.
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// Hookable is implemented by everything that hooks can attach to.
type Hookable interface {
	AcceptHook(hook Hook)
	NumHooks() int
	Hooks() []Hook
}

// HookableBase keeps the hooks of a Hookable in attachment order.
type HookableBase struct {
	hooks []Hook
}

// AcceptHook attaches a hook. Attaching the same hook twice panics.
func (h *HookableBase) AcceptHook(hook Hook) {
	if h.hasHook(hook) {
		panic("duplicated hook")
	}

	h.hooks = append(h.hooks, hook)
}

// NumHooks returns how many hooks are attached. Callers check it to skip
// building hook contexts nobody will read.
func (h *HookableBase) NumHooks() int {
	return len(h.hooks)
}

// Hooks returns the attached hooks.
func (h *HookableBase) Hooks() []Hook {
	return h.hooks
}

// InvokeHook calls every attached hook in order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}

func (h *HookableBase) hasHook(hook Hook) bool {
	// Function values are not comparable, so a HookFunc is never a duplicate.
	if _, ok := hook.(HookFunc); ok {
		return false
	}

	for _, existing := range h.hooks {
		if _, ok := existing.(HookFunc); ok {
			continue
		}

		if existing == hook {
			return true
		}
	}

	return false
}
