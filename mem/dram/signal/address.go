// Package signal defines the vocabulary shared by the DRAM scheduler and its
// collaborators: structural addresses, device commands, and requests.
package signal

import (
	"fmt"
	"strings"
)

// Level is a level in the DRAM hierarchy.
type Level int

// A list of all the levels of the hierarchy, from the outermost to the
// innermost.
const (
	LevelChannel Level = iota
	LevelRank
	LevelBank
	LevelSubArray
	LevelRow
	LevelColumn
	NumLevels
)

var levelNames = [NumLevels]string{
	"channel", "rank", "bank", "subarray", "row", "column",
}

func (l Level) String() string {
	if l < 0 || l >= NumLevels {
		return fmt.Sprintf("Level(%d)", int(l))
	}

	return levelNames[l]
}

// Sentinel marks an index as "not a specific one". A precharge whose row is
// the sentinel closes whatever row is open.
const Sentinel = -1

// AddrVec is the structural coordinate of an access, indexed by Level.
type AddrVec [NumLevels]int

// MakeAddrVec creates an address vector.
func MakeAddrVec(channel, rank, bank, subArray, row, column int) AddrVec {
	return AddrVec{channel, rank, bank, subArray, row, column}
}

// Prefix returns a copy of the vector where every level below the given one
// is set to the sentinel.
func (a AddrVec) Prefix(last Level) AddrVec {
	p := a
	for l := last + 1; l < NumLevels; l++ {
		p[l] = Sentinel
	}

	return p
}

// Less orders address vectors lexicographically.
func (a AddrVec) Less(b AddrVec) bool {
	for l := Level(0); l < NumLevels; l++ {
		if a[l] != b[l] {
			return a[l] < b[l]
		}
	}

	return false
}

func (a AddrVec) String() string {
	parts := make([]string, NumLevels)
	for l := Level(0); l < NumLevels; l++ {
		parts[l] = fmt.Sprintf("%d", a[l])
	}

	return "[" + strings.Join(parts, ",") + "]"
}
