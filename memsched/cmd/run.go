package cmd

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/pkg/browser"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sarchlab/memsched/config"
	"github.com/sarchlab/memsched/datarecording"
	"github.com/sarchlab/memsched/mem/dram"
	"github.com/sarchlab/memsched/mem/dram/device"
	"github.com/sarchlab/memsched/mem/dram/trafficgen"
	"github.com/sarchlab/memsched/monitoring"
	"github.com/sarchlab/memsched/sim"
	"github.com/sarchlab/memsched/tracing"
)

type runFlags struct {
	configPath  string
	cycles      uint64
	dbPath      string
	trace       bool
	monitor     bool
	monitorPort int
	openMonitor bool
	parallelIDs bool
}

var runOpts runFlags

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.Default()

		if runOpts.configPath != "" {
			var err error

			cfg, err = config.Load(runOpts.configPath)
			if err != nil {
				return err
			}
		}

		if runOpts.cycles > 0 {
			cfg.Output.MaxCycles = runOpts.cycles
		}

		if runOpts.parallelIDs {
			sim.UseParallelIDGenerator()
		}

		return newSimulation(cfg, runOpts).run(cmd.OutOrStdout())
	},
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runOpts.configPath, "config", "",
		"YAML configuration. Missing fields take default values.")
	f.Uint64Var(&runOpts.cycles, "cycles", 0,
		"Maximum number of cycles to simulate. Overrides the configuration.")
	f.StringVar(&runOpts.dbPath, "db", "",
		"Record the statistics into this SQLite database.")
	f.BoolVar(&runOpts.trace, "trace", false,
		"Record every request and its commands. Requires --db.")
	f.BoolVar(&runOpts.monitor, "monitor", false,
		"Serve the state of the simulation over HTTP.")
	f.IntVar(&runOpts.monitorPort, "monitor-port", 0,
		"Port of the monitor. A random port is used if not set.")
	f.BoolVar(&runOpts.openMonitor, "open-monitor", false,
		"Open the monitor in a browser.")
	f.BoolVar(&runOpts.parallelIDs, "parallel-ids", false,
		"Generate globally unique request IDs.")

	rootCmd.AddCommand(runCmd)
}

type simulation struct {
	cfg  config.Config
	opts runFlags

	driver  *sim.Driver
	dev     *device.Device
	ctrl    *dram.Comp
	gen     *trafficgen.Generator
	latency *tracing.AverageTimeTracer
	busy    *tracing.BusyTimeTracer
	steps   *tracing.StepCountTracer

	recorder datarecording.DataRecorder
	exec     *datarecording.ExecRecorder
	tracer   *tracing.DBTracer

	monitor *monitoring.Monitor
	bar     *monitoring.ProgressBar
}

func newSimulation(cfg config.Config, opts runFlags) *simulation {
	s := &simulation{cfg: cfg, opts: opts}

	s.dev = cfg.DeviceBuilder().Build("Device")
	s.ctrl = cfg.ControllerBuilder().WithChannel(s.dev).Build("MemCtrl")
	s.gen = cfg.TrafficBuilder().WithTarget(s.ctrl).Build("Gen")

	isRead := func(t tracing.Task) bool { return t.What == "READ" }
	s.latency = tracing.NewAverageTimeTracer(s.ctrl, isRead)
	s.steps = tracing.NewStepCountTracer(isRead)
	s.busy = tracing.NewBusyTimeTracer(s.ctrl, nil)
	tracing.CollectTrace(s.ctrl, s.latency)
	tracing.CollectTrace(s.ctrl, s.steps)
	tracing.CollectTrace(s.ctrl, s.busy)

	s.driver = sim.NewDriver(cfg.Output.ReportInterval)
	s.driver.AcceptHook(
		sim.NewTickLogger(logrus.StandardLogger(), cfg.Output.ReportInterval))
	s.driver.RegisterComponent(s.gen)
	s.driver.RegisterComponent(s.ctrl)

	return s
}

func (s *simulation) run(out io.Writer) error {
	if s.opts.trace && s.opts.dbPath == "" {
		return errors.New("--trace requires --db")
	}

	if s.opts.dbPath != "" {
		s.recorder = datarecording.New(s.opts.dbPath)
		s.exec = datarecording.NewExecRecorder(s.recorder)
		s.exec.Start()
		s.exec.Set("Scheduler", s.cfg.Controller.Scheduler)
		s.exec.Set("Row Policy", s.cfg.Controller.RowPolicy)
	}

	if s.opts.trace {
		s.tracer = tracing.NewDBTracer(s.ctrl, s.recorder)
		tracing.CollectTrace(s.ctrl, s.tracer)
	}

	if s.opts.monitor {
		if err := s.startMonitor(); err != nil {
			return err
		}
	}

	logrus.WithFields(logrus.Fields{
		"requests":  s.cfg.Workload.Requests,
		"scheduler": s.cfg.Controller.Scheduler,
		"rowPolicy": s.cfg.Controller.RowPolicy,
	}).Info("simulation started")

	s.driver.Run(s.cfg.Output.MaxCycles, s.gen.Done)
	s.busy.TerminateAllTasks()

	if s.monitor != nil {
		s.monitor.CompleteProgressBar(s.bar)
	}

	if !s.gen.Done() {
		logrus.Warnf("stopped at cycle %d with %d requests outstanding",
			s.driver.Cycle(),
			s.gen.Stats().Issued-s.gen.Stats().Completed)
	}

	s.report(out)

	return s.record()
}

func (s *simulation) startMonitor() error {
	m := monitoring.NewMonitor().WithPortNumber(s.opts.monitorPort)
	m.RegisterComponent(s.ctrl.Name(), func() any {
		stats := s.ctrl.Stats()
		return &stats
	})
	m.RegisterComponent(s.gen.Name(), func() any {
		stats := s.gen.Stats()
		return &stats
	})
	m.RegisterComponent(s.dev.Name(), func() any {
		return &deviceStatus{
			TimingMode: s.dev.TimingMode().String(),
			Queues:     s.ctrl.QueueLengths(),
			WriteMode:  s.ctrl.WriteMode(),
		}
	})

	s.monitor = m
	s.bar = m.CreateProgressBar("Requests", s.cfg.Workload.Requests)
	s.driver.RegisterObserver(progressObserver{gen: s.gen, bar: s.bar})
	s.driver.RegisterObserver(m)

	url := m.StartServer()

	if s.opts.openMonitor {
		if err := browser.OpenURL(url); err != nil {
			return fmt.Errorf("opening monitor: %w", err)
		}
	}

	return nil
}

type deviceStatus struct {
	TimingMode string
	WriteMode  bool
	Queues     dram.QueueLengths
}

type progressObserver struct {
	gen *trafficgen.Generator
	bar *monitoring.ProgressBar
}

func (o progressObserver) Observe(uint64) {
	stats := o.gen.Stats()
	o.bar.Set(stats.Issued-stats.Completed, stats.Completed)
}

func (s *simulation) report(out io.Writer) {
	stats := s.ctrl.Stats()
	gen := s.gen.Stats()

	fmt.Fprintf(out, "cycles:              %d\n", s.driver.Cycle())
	fmt.Fprintf(out, "requests completed:  %d/%d\n",
		gen.Completed, s.cfg.Workload.Requests)
	fmt.Fprintf(out, "row hits/conf/miss:  %d/%d/%d\n",
		stats.RowHits, stats.RowConflicts, stats.RowMisses)
	fmt.Fprintf(out, "avg read latency:    %.2f cycles\n", stats.AvgReadLatency)
	fmt.Fprintf(out, "avg traced latency:  %.2f cycles over %d reads\n",
		s.latency.AverageCycles(), s.latency.TotalCount())
	fmt.Fprintf(out, "max traced latency:  %d cycles\n", s.latency.MaxCycles())
	fmt.Fprintf(out, "avg queue length:    %.2f\n", stats.AvgQueueLength)
	fmt.Fprintf(out, "busy cycles:         %d\n", s.busy.BusyCycles())
	fmt.Fprintf(out, "probes issued:       %d\n", stats.ProbesIssued)
	fmt.Fprintf(out, "write mode switches: %d\n", stats.WriteModeSwitches)
	fmt.Fprintf(out, "deferred promotions: %d\n", stats.PromotionsDeferred)

	names := make([]string, 0, len(stats.CommandsIssued))
	for name := range stats.CommandsIssued {
		names = append(names, name)
	}

	sort.Strings(names)

	fmt.Fprintln(out, "commands issued:")

	for _, name := range names {
		fmt.Fprintf(out, "  %-5s %d\n", name, stats.CommandsIssued[name])
	}

	fmt.Fprintln(out, "reads by command:")

	for _, name := range s.steps.StepNames() {
		fmt.Fprintf(out, "  %-5s %d\n", name, s.steps.TaskCount(name))
	}
}

func (s *simulation) record() error {
	if s.recorder == nil {
		return nil
	}

	if s.tracer != nil {
		s.tracer.Terminate()
	}

	s.ctrl.Stats().Record(s.recorder, s.ctrl.Name())
	s.exec.Set("Cycles", strconv.FormatUint(s.driver.Cycle(), 10))
	s.exec.End()
	s.recorder.Close()

	return nil
}
