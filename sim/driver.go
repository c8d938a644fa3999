package sim

// A TickDriven object can be advanced by one cycle at a time.
type TickDriven interface {
	Named
	TickNow() bool
}

// An Observer is notified periodically while a Driver runs.
type Observer interface {
	Observe(cycle uint64)
}

// Driver advances a group of components in lock step. In every cycle, the
// components are ticked in the order that they are registered.
type Driver struct {
	HookableBase

	components []TickDriven
	observers  []Observer
	interval   uint64
	cycle      uint64
}

// NewDriver creates a Driver that notifies the observers every interval
// cycles.
func NewDriver(interval uint64) *Driver {
	if interval == 0 {
		interval = 1
	}

	return &Driver{interval: interval}
}

// Name returns the name of the driver.
func (d *Driver) Name() string {
	return "Driver"
}

// RegisterComponent adds a component to be ticked.
func (d *Driver) RegisterComponent(c TickDriven) {
	for _, existing := range d.components {
		if existing.Name() == c.Name() {
			panic("component " + c.Name() + " already registered")
		}
	}

	d.components = append(d.components, c)
}

// RegisterObserver adds an observer.
func (d *Driver) RegisterObserver(o Observer) {
	d.observers = append(d.observers, o)
}

// Cycle returns the number of cycles that the driver has run.
func (d *Driver) Cycle() uint64 {
	return d.cycle
}

// Step ticks every registered component once. It returns true if any of the
// components made progress.
func (d *Driver) Step() bool {
	ctx := HookCtx{Domain: d, Pos: HookPosBeforeTick, Item: d.cycle + 1}
	d.InvokeHook(ctx)

	progress := false
	for _, c := range d.components {
		if c.TickNow() {
			progress = true
		}
	}

	d.cycle++

	ctx.Pos = HookPosAfterTick
	d.InvokeHook(ctx)

	if d.cycle%d.interval == 0 {
		d.notify()
	}

	return progress
}

// Run steps the components until maxCycles cycles have been simulated or
// until stop returns true. A maxCycles of 0 means no limit. Observers are
// always notified when Run returns.
func (d *Driver) Run(maxCycles uint64, stop func() bool) {
	for {
		if stop != nil && stop() {
			break
		}

		if maxCycles > 0 && d.cycle >= maxCycles {
			break
		}

		d.Step()
	}

	d.notify()
}

func (d *Driver) notify() {
	for _, o := range d.observers {
		o.Observe(d.cycle)
	}
}
