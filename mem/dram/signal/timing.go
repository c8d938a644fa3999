package signal

import "fmt"

// TimingMode selects one of the timing profiles of a device. External
// classifiers, such as a temperature monitor, choose the mode.
type TimingMode int

// A list of timing modes.
const (
	TimingModeNominal TimingMode = iota
	TimingModeCold
	TimingModeHot
)

func (m TimingMode) String() string {
	switch m {
	case TimingModeNominal:
		return "nominal"
	case TimingModeCold:
		return "cold"
	case TimingModeHot:
		return "hot"
	default:
		return fmt.Sprintf("TimingMode(%d)", int(m))
	}
}

// ParseTimingMode converts a name into a TimingMode.
func ParseTimingMode(name string) (TimingMode, error) {
	switch name {
	case "nominal", "":
		return TimingModeNominal, nil
	case "cold":
		return TimingModeCold, nil
	case "hot":
		return TimingModeHot, nil
	default:
		return 0, fmt.Errorf("unknown timing mode %q", name)
	}
}
