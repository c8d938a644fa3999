// Package config loads the description of a simulation from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/memsched/mem/dram"
	"github.com/sarchlab/memsched/mem/dram/device"
	"github.com/sarchlab/memsched/mem/dram/policy"
	"github.com/sarchlab/memsched/mem/dram/signal"
)

// Config is the full description of a simulation. All top-level sections
// must be listed for strict parsing.
type Config struct {
	Controller ControllerConfig `yaml:"controller"`
	Device     DeviceConfig     `yaml:"device"`
	Refresh    RefreshConfig    `yaml:"refresh"`
	Workload   WorkloadConfig   `yaml:"workload"`
	Output     OutputConfig     `yaml:"output"`
}

// ControllerConfig configures the scheduler.
type ControllerConfig struct {
	FreqMHz        float64       `yaml:"freq_mhz"`
	Scheduler      string        `yaml:"scheduler"`
	Cap            int           `yaml:"cap"`
	RowPolicy      string        `yaml:"row_policy"`
	RowTimeout     uint64        `yaml:"row_timeout"`
	ReadQueueSize  int           `yaml:"read_queue_size"`
	WriteQueueSize int           `yaml:"write_queue_size"`
	OtherQueueSize int           `yaml:"other_queue_size"`
	ProbeQueueSize int           `yaml:"probe_queue_size"`
	LowWatermark   float64       `yaml:"low_watermark"`
	HighWatermark  float64       `yaml:"high_watermark"`
	ReadMigration  bool          `yaml:"read_migration"`
	StrictChecks   bool          `yaml:"strict_checks"`
	Probing        ProbingConfig `yaml:"probing"`
}

// ProbingConfig configures opportunistic probes.
type ProbingConfig struct {
	Enabled             bool   `yaml:"enabled"`
	Addr                uint64 `yaml:"addr"`
	PredictionTableSize int    `yaml:"prediction_table_size"`
}

// DeviceConfig describes the organization and the timing of the channel.
type DeviceConfig struct {
	Ranks            int           `yaml:"ranks"`
	Banks            int           `yaml:"banks"`
	SubArrays        int           `yaml:"sub_arrays"`
	Rows             int           `yaml:"rows"`
	Columns          int           `yaml:"columns"`
	MaxOpenSubArrays int           `yaml:"max_open_sub_arrays"`
	PrefetchSize     int           `yaml:"prefetch_size"`
	ChannelWidth     int           `yaml:"channel_width"`
	ColdFactor       float64       `yaml:"cold_factor"`
	HotFactor        float64       `yaml:"hot_factor"`
	TimingMode       string        `yaml:"timing_mode"`
	Timing           device.Params `yaml:"timing"`
}

// RefreshConfig configures periodic refresh. An interval of zero disables
// refresh.
type RefreshConfig struct {
	Interval uint64 `yaml:"interval"`
}

// WorkloadConfig describes the synthetic traffic.
type WorkloadConfig struct {
	Requests  uint64  `yaml:"requests"`
	Rate      float64 `yaml:"rate"`
	ReadRatio float64 `yaml:"read_ratio"`
	Locality  float64 `yaml:"locality"`
	Cores     int     `yaml:"cores"`
	Seed      int64   `yaml:"seed"`
}

// OutputConfig controls how results are reported.
type OutputConfig struct {
	// ReportInterval is the number of cycles between two snapshots that are
	// published to the monitor.
	ReportInterval uint64 `yaml:"report_interval"`
	MaxCycles      uint64 `yaml:"max_cycles"`
}

// Default returns a DDR3-1600 configuration.
func Default() Config {
	return Config{
		Controller: ControllerConfig{
			FreqMHz:        800,
			Scheduler:      policy.SchedulerFRFCFS,
			Cap:            16,
			RowPolicy:      policy.RowPolicyOpened,
			RowTimeout:     50,
			ReadQueueSize:  32,
			WriteQueueSize: 32,
			OtherQueueSize: 32,
			ProbeQueueSize: 8,
			LowWatermark:   0.2,
			HighWatermark:  0.8,
			Probing: ProbingConfig{
				Addr:                dram.DefaultProbeAddr,
				PredictionTableSize: 4096,
			},
		},
		Device: DeviceConfig{
			Ranks:            2,
			Banks:            8,
			SubArrays:        8,
			Rows:             32768,
			Columns:          1024,
			MaxOpenSubArrays: 8,
			PrefetchSize:     8,
			ChannelWidth:     64,
			ColdFactor:       0.75,
			HotFactor:        1.25,
			TimingMode:       "nominal",
			Timing:           device.DefaultParams(),
		},
		Refresh: RefreshConfig{
			Interval: 6240,
		},
		Workload: WorkloadConfig{
			Requests:  10000,
			Rate:      0.25,
			ReadRatio: 0.7,
			Locality:  0.5,
			Cores:     4,
			Seed:      1,
		},
		Output: OutputConfig{
			ReportInterval: 1000,
			MaxCycles:      10000000,
		},
	}
}

// Load reads a YAML file on top of the default configuration. Unknown keys
// are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := Parse(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Parse decodes YAML into cfg. Fields that are absent keep their values.
func Parse(data []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// Marshal encodes the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}

	return buf.Bytes(), nil
}

// Validate checks that all the fields hold usable values.
func (c Config) Validate() error {
	return errors.Join(
		c.Controller.validate(),
		c.Device.validate(),
		c.Workload.validate(),
	)
}

func positive(name string, v int) error {
	if v <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, v)
	}

	return nil
}

func powerOfTwo(name string, v int) error {
	if v <= 0 || v&(v-1) != 0 {
		return fmt.Errorf("%s must be a power of two, got %d", name, v)
	}

	return nil
}

func fraction(name string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%s must be between 0 and 1, got %v", name, v)
	}

	return nil
}

func (c ControllerConfig) validate() error {
	errs := []error{
		positive("controller.read_queue_size", c.ReadQueueSize),
		positive("controller.write_queue_size", c.WriteQueueSize),
		positive("controller.other_queue_size", c.OtherQueueSize),
		positive("controller.probe_queue_size", c.ProbeQueueSize),
	}

	if c.FreqMHz <= 0 {
		errs = append(errs, fmt.Errorf(
			"controller.freq_mhz must be positive, got %v", c.FreqMHz))
	}

	if c.LowWatermark < 0 || c.HighWatermark > 1 ||
		c.LowWatermark >= c.HighWatermark {
		errs = append(errs, fmt.Errorf(
			"watermarks must satisfy 0 <= low < high <= 1, got low=%v high=%v",
			c.LowWatermark, c.HighWatermark))
	}

	if !slices.Contains(policy.SchedulerNames, c.Scheduler) {
		errs = append(errs, fmt.Errorf("unknown scheduler %q; valid: %v",
			c.Scheduler, policy.SchedulerNames))
	}

	if !slices.Contains(policy.RowPolicyNames, c.RowPolicy) {
		errs = append(errs, fmt.Errorf("unknown row policy %q; valid: %v",
			c.RowPolicy, policy.RowPolicyNames))
	}

	if c.Scheduler == policy.SchedulerFRFCFSCap {
		errs = append(errs, positive("controller.cap", c.Cap))
	}

	if c.Probing.Enabled {
		errs = append(errs, positive("controller.probing.prediction_table_size",
			c.Probing.PredictionTableSize))
	}

	return errors.Join(errs...)
}

func (c DeviceConfig) validate() error {
	errs := []error{
		powerOfTwo("device.ranks", c.Ranks),
		powerOfTwo("device.banks", c.Banks),
		powerOfTwo("device.sub_arrays", c.SubArrays),
		powerOfTwo("device.rows", c.Rows),
		powerOfTwo("device.columns", c.Columns),
		positive("device.max_open_sub_arrays", c.MaxOpenSubArrays),
		positive("device.prefetch_size", c.PrefetchSize),
		powerOfTwo("device.channel_width", c.ChannelWidth),
		positive("device.timing.burst_cycle", c.Timing.BurstCycle),
		positive("device.timing.tcl", c.Timing.TCL),
		positive("device.timing.tprobe", c.Timing.TProbe),
	}

	if c.MaxOpenSubArrays > c.SubArrays {
		errs = append(errs, fmt.Errorf(
			"device.max_open_sub_arrays %d exceeds device.sub_arrays %d",
			c.MaxOpenSubArrays, c.SubArrays))
	}

	if c.SubArrays > c.Rows {
		errs = append(errs, errors.New("device.sub_arrays exceeds device.rows"))
	}

	if c.ColdFactor <= 0 || c.HotFactor <= 0 {
		errs = append(errs, errors.New("timing factors must be positive"))
	}

	if _, err := signal.ParseTimingMode(c.TimingMode); err != nil {
		errs = append(errs, err)
	}

	if tx := c.PrefetchSize * c.ChannelWidth / 8; tx > 0 {
		errs = append(errs, powerOfTwo("transaction size", tx))
	}

	return errors.Join(errs...)
}

func (c WorkloadConfig) validate() error {
	errs := []error{
		positive("workload.cores", c.Cores),
		fraction("workload.read_ratio", c.ReadRatio),
		fraction("workload.locality", c.Locality),
	}

	if c.Rate <= 0 {
		errs = append(errs, fmt.Errorf(
			"workload.rate must be positive, got %v", c.Rate))
	}

	return errors.Join(errs...)
}
