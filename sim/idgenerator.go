package sim

import (
	"log"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator generates the IDs of requests and monitor resources.
type IDGenerator interface {
	Generate() string
}

// The generator is chosen once per process. After the first ID is handed out
// the choice is frozen.
type idGeneratorSlot struct {
	sync.Mutex
	gen    IDGenerator
	frozen bool
}

var ids idGeneratorSlot

// UseSequentialIDGenerator makes IDs the decimal numbers 1, 2, 3 and so on.
// This is the default and keeps runs reproducible.
func UseSequentialIDGenerator() {
	ids.set(new(counterIDs))
}

// UseParallelIDGenerator makes IDs globally unique. Runs that write into the
// same database should use it.
func UseParallelIDGenerator() {
	ids.set(xidIDs{})
}

// GetIDGenerator returns the generator of the process.
func GetIDGenerator() IDGenerator {
	ids.Lock()
	defer ids.Unlock()

	if ids.gen == nil {
		ids.gen = new(counterIDs)
	}

	ids.frozen = true

	return ids.gen
}

func (s *idGeneratorSlot) set(g IDGenerator) {
	s.Lock()
	defer s.Unlock()

	if s.frozen {
		log.Panic("cannot change id generator type after using it")
	}

	s.gen = g
}

type counterIDs struct {
	last atomic.Uint64
}

func (g *counterIDs) Generate() string {
	return strconv.FormatUint(g.last.Add(1), 10)
}

type xidIDs struct{}

func (xidIDs) Generate() string {
	return xid.New().String()
}
