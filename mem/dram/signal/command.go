package signal

import "fmt"

// CmdKind is the kind of a low-level device command.
type CmdKind int

// A list of supported commands.
const (
	CmdKindActivate CmdKind = iota
	CmdKindPrecharge
	CmdKindPrechargeAll
	CmdKindPrechargeOther
	CmdKindRead
	CmdKindWrite
	CmdKindReadPrecharge
	CmdKindWritePrecharge
	CmdKindMigrate
	CmdKindRefresh
	CmdKindPowerDownEnter
	CmdKindPowerDownExit
	CmdKindSelfRefreshEnter
	CmdKindSelfRefreshExit
	NumCmdKind
)

type cmdProperty struct {
	name      string
	opening   bool
	closing   bool
	accessing bool
	scope     Level
}

var cmdProperties = [NumCmdKind]cmdProperty{
	CmdKindActivate:         {"ACT", true, false, false, LevelRow},
	CmdKindPrecharge:        {"PRE", false, true, false, LevelSubArray},
	CmdKindPrechargeAll:     {"PREA", false, true, false, LevelRank},
	CmdKindPrechargeOther:   {"PRE_OTHER", false, true, false, LevelSubArray},
	CmdKindRead:             {"RD", false, false, true, LevelColumn},
	CmdKindWrite:            {"WR", false, false, true, LevelColumn},
	CmdKindReadPrecharge:    {"RDA", false, true, true, LevelColumn},
	CmdKindWritePrecharge:   {"WRA", false, true, true, LevelColumn},
	CmdKindMigrate:          {"MIG", false, false, true, LevelColumn},
	CmdKindRefresh:          {"REF", false, false, false, LevelRank},
	CmdKindPowerDownEnter:   {"PDE", false, false, false, LevelRank},
	CmdKindPowerDownExit:    {"PDX", false, false, false, LevelRank},
	CmdKindSelfRefreshEnter: {"SRE", false, false, false, LevelRank},
	CmdKindSelfRefreshExit:  {"SRX", false, false, false, LevelRank},
}

func (k CmdKind) property() cmdProperty {
	if k < 0 || k >= NumCmdKind {
		panic(fmt.Sprintf("unknown command kind %d", int(k)))
	}

	return cmdProperties[k]
}

func (k CmdKind) String() string {
	if k < 0 || k >= NumCmdKind {
		return fmt.Sprintf("CmdKind(%d)", int(k))
	}

	return cmdProperties[k].name
}

// IsOpening returns true if the command opens a row.
func (k CmdKind) IsOpening() bool {
	return k.property().opening
}

// IsClosing returns true if the command closes one or more rows.
func (k CmdKind) IsClosing() bool {
	return k.property().closing
}

// IsAccessing returns true if the command moves data in or out of an open
// row.
func (k CmdKind) IsAccessing() bool {
	return k.property().accessing
}

// Scope returns the innermost level that the command addresses. Rank-scoped
// commands apply to every bank of the rank.
func (k CmdKind) Scope() Level {
	return k.property().scope
}

// IsRankWide returns true if the command applies to the whole rank.
func (k CmdKind) IsRankWide() bool {
	return k.Scope() == LevelRank
}
