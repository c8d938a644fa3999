package trafficgen

import (
	"fmt"
	"math/bits"

	"github.com/sarchlab/memsched/mem/dram/signal"
)

// Mapper converts flat addresses into structural addresses. From the most
// significant bit, an address is laid out as row:bank:rank:column:offset.
// The sub-array is given by the high bits of the row.
type Mapper struct {
	offsetBits, colBits, rankBits, bankBits, rowBits, subArrayBits int
}

func log2(name string, n int) int {
	if n <= 0 || n&(n-1) != 0 {
		panic(fmt.Sprintf("%s must be a power of two, got %d", name, n))
	}

	return bits.TrailingZeros(uint(n))
}

// NewMapper creates a mapper. All the sizes must be powers of two, and there
// cannot be more sub-arrays than rows.
func NewMapper(
	numRank, numBank, numSubArray, numRow, numCol, txBytes int,
) *Mapper {
	m := &Mapper{
		offsetBits:   log2("transaction size", txBytes),
		colBits:      log2("number of columns", numCol),
		rankBits:     log2("number of ranks", numRank),
		bankBits:     log2("number of banks", numBank),
		rowBits:      log2("number of rows", numRow),
		subArrayBits: log2("number of sub-arrays", numSubArray),
	}

	if m.subArrayBits > m.rowBits {
		panic("there cannot be more sub-arrays than rows")
	}

	return m
}

// Capacity returns the number of bytes that can be addressed.
func (m *Mapper) Capacity() uint64 {
	return 1 << m.totalBits()
}

func (m *Mapper) totalBits() int {
	return m.offsetBits + m.colBits + m.rankBits + m.bankBits + m.rowBits
}

// TransactionBytes returns the size of an access.
func (m *Mapper) TransactionBytes() uint64 {
	return 1 << m.offsetBits
}

// Map returns the structural address of addr. Bits above the capacity are
// ignored.
func (m *Mapper) Map(addr uint64) signal.AddrVec {
	take := func(n int) int {
		v := addr & (1<<n - 1)
		addr >>= n

		return int(v)
	}

	take(m.offsetBits)
	col := take(m.colBits)
	rank := take(m.rankBits)
	bank := take(m.bankBits)
	row := take(m.rowBits)
	subArray := row >> (m.rowBits - m.subArrayBits)

	return signal.MakeAddrVec(0, rank, bank, subArray, row, col)
}
