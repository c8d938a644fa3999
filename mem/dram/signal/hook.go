package signal

import "github.com/sarchlab/memsched/sim"

// HookPosCommandIssue marks a command being issued to the device.
var HookPosCommandIssue = &sim.HookPos{Name: "CommandIssue"}

// CommandIssue is the item carried by HookPosCommandIssue. ReqID is empty for
// commands that are not issued on behalf of a request, such as speculative
// precharges.
type CommandIssue struct {
	Cmd   CmdKind
	Addr  AddrVec
	Now   uint64
	ReqID string
}
