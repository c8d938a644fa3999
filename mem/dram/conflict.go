package dram

import "github.com/sarchlab/memsched/mem/dram/signal"

// conflictTarget returns the sub-array that must be closed before the
// sub-array of addr can open. It is the first other sub-array of the bank
// that holds an open row, or sub-array 0 if there is none. The row is left
// unspecified.
func conflictTarget(addr signal.AddrVec, open []bool) signal.AddrVec {
	target := addr.Prefix(signal.LevelSubArray)
	target[signal.LevelSubArray] = 0

	for i, isOpen := range open {
		if i != addr[signal.LevelSubArray] && isOpen {
			target[signal.LevelSubArray] = i
			break
		}
	}

	return target
}

// addrFor returns the address that cmd acts on when issued on behalf of
// req.
func (c *Comp) addrFor(cmd signal.CmdKind, req *signal.Request) signal.AddrVec {
	if cmd == signal.CmdKindPrechargeOther && c.partitions != nil {
		return conflictTarget(req.AddrVec,
			c.partitions.PartitionsOpen(req.AddrVec))
	}

	return req.AddrVec
}
