package signal

import (
	"fmt"

	"github.com/sarchlab/memsched/sim"
)

// RequestType is the kind of work that a request carries.
type RequestType int

// A list of all request types.
const (
	RequestTypeRead RequestType = iota
	RequestTypeWrite
	RequestTypeRefresh
	RequestTypePowerDown
	RequestTypeSelfRefresh
	RequestTypeOpportunisticProbe

	// RequestTypeInternalReadDerivative is a read that is being serviced
	// through the internal migration path instead of a direct transfer.
	RequestTypeInternalReadDerivative
	NumRequestType
)

var requestTypeNames = [NumRequestType]string{
	"READ", "WRITE", "REFRESH", "POWERDOWN", "SELFREFRESH", "PROBE",
	"EXTENSION",
}

func (t RequestType) String() string {
	if t < 0 || t >= NumRequestType {
		return fmt.Sprintf("RequestType(%d)", int(t))
	}

	return requestTypeNames[t]
}

// IsRead returns true if the request returns data to its owner.
func (t RequestType) IsRead() bool {
	return t == RequestTypeRead || t == RequestTypeInternalReadDerivative
}

// A Request is a unit of work that the scheduler turns into device commands.
type Request struct {
	ID      string
	Type    RequestType
	Addr    uint64
	AddrVec AddrVec
	CoreID  int

	// Arrive is the cycle at which the request entered the scheduler. Depart
	// is only set once the terminal command of the request is issued.
	Arrive uint64
	Depart uint64

	// IsFirstCommand is consumed the instant the first command of the
	// request is issued.
	IsFirstCommand bool

	// Callback is invoked exactly once, when the request completes.
	Callback func(req *Request)
}

// NewRequest creates a request that has not issued any command yet.
func NewRequest(
	t RequestType,
	addr uint64,
	addrVec AddrVec,
	coreID int,
	callback func(*Request),
) *Request {
	return &Request{
		ID:             sim.GetIDGenerator().Generate(),
		Type:           t,
		Addr:           addr,
		AddrVec:        addrVec,
		CoreID:         coreID,
		IsFirstCommand: true,
		Callback:       callback,
	}
}

func (r *Request) String() string {
	return fmt.Sprintf("%s(%s %s)", r.ID, r.Type, r.AddrVec)
}
