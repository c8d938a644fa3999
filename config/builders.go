package config

import (
	"github.com/sarchlab/memsched/mem/dram"
	"github.com/sarchlab/memsched/mem/dram/device"
	"github.com/sarchlab/memsched/mem/dram/signal"
	"github.com/sarchlab/memsched/mem/dram/trafficgen"
	"github.com/sarchlab/memsched/sim"
)

// Freq returns the clock of the controller and the traffic generator.
func (c Config) Freq() sim.Freq {
	return sim.Freq(c.Controller.FreqMHz) * sim.MHz
}

// TimingMode returns the parsed timing mode. The configuration must be
// valid.
func (c Config) TimingMode() signal.TimingMode {
	mode, err := signal.ParseTimingMode(c.Device.TimingMode)
	if err != nil {
		panic(err)
	}

	return mode
}

// DeviceBuilder returns a builder for the channel.
func (c Config) DeviceBuilder() device.Builder {
	d := c.Device

	return device.MakeBuilder().
		WithNumRank(d.Ranks).
		WithNumBank(d.Banks).
		WithNumSubArray(d.SubArrays).
		WithNumRow(d.Rows).
		WithNumCol(d.Columns).
		WithMaxOpenSubArrays(d.MaxOpenSubArrays).
		WithPrefetchSize(d.PrefetchSize).
		WithChannelWidth(d.ChannelWidth).
		WithParams(d.Timing).
		WithColdFactor(d.ColdFactor).
		WithHotFactor(d.HotFactor).
		WithTimingMode(c.TimingMode())
}

// Mapper returns the address mapping of the channel.
func (c Config) Mapper() *trafficgen.Mapper {
	d := c.Device

	return trafficgen.NewMapper(d.Ranks, d.Banks, d.SubArrays, d.Rows,
		d.Columns, d.PrefetchSize*d.ChannelWidth/8)
}

// ControllerBuilder returns a builder for the scheduler. The channel still
// needs to be set.
func (c Config) ControllerBuilder() dram.Builder {
	ctrl := c.Controller

	b := dram.MakeBuilder().
		WithFreq(c.Freq()).
		WithSchedulerName(ctrl.Scheduler).
		WithCap(ctrl.Cap).
		WithRowPolicyName(ctrl.RowPolicy).
		WithRowTimeout(ctrl.RowTimeout).
		WithRefreshInterval(c.Refresh.Interval).
		WithReadQueueSize(ctrl.ReadQueueSize).
		WithWriteQueueSize(ctrl.WriteQueueSize).
		WithOtherQueueSize(ctrl.OtherQueueSize).
		WithProbeQueueSize(ctrl.ProbeQueueSize).
		WithWatermarks(ctrl.LowWatermark, ctrl.HighWatermark).
		WithReadMigration(ctrl.ReadMigration).
		WithStrictChecks(ctrl.StrictChecks)

	if ctrl.Probing.Enabled {
		b = b.
			WithOpportunisticProbing(ctrl.Probing.Addr,
				c.Mapper().Map(ctrl.Probing.Addr)).
			WithPredictionTableSize(ctrl.Probing.PredictionTableSize)
	}

	return b
}

// TrafficBuilder returns a builder for the traffic generator. The target
// still needs to be set.
func (c Config) TrafficBuilder() trafficgen.Builder {
	w := c.Workload

	return trafficgen.MakeBuilder().
		WithFreq(c.Freq()).
		WithMapper(c.Mapper()).
		WithNumRequests(w.Requests).
		WithRate(w.Rate).
		WithReadRatio(w.ReadRatio).
		WithLocality(w.Locality).
		WithNumCores(w.Cores).
		WithSeed(w.Seed)
}
