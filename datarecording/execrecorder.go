package datarecording

import (
	"os"
	"strings"
	"time"
)

const execInfoTable = "exec_info"

const timeFormat = "2006-01-02 15:04:05.000000000"

type execInfo struct {
	Property string
	Value    string
}

// ExecRecorder records how and when a simulation was run.
type ExecRecorder struct {
	recorder DataRecorder
	entries  []execInfo
}

// NewExecRecorder creates an ExecRecorder that writes into the exec_info
// table of the given recorder.
func NewExecRecorder(recorder DataRecorder) *ExecRecorder {
	recorder.CreateTable(execInfoTable, execInfo{})

	return &ExecRecorder{recorder: recorder}
}

// Start captures the start time, the command line, and the working
// directory.
func (e *ExecRecorder) Start() {
	e.Set("Start Time", time.Now().Format(timeFormat))
	e.Set("Command", strings.Join(os.Args, " "))

	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	e.Set("Working Directory", cwd)
}

// Set adds a property of the run.
func (e *ExecRecorder) Set(property, value string) {
	e.entries = append(e.entries, execInfo{property, value})
}

// End writes all properties along with the end time.
func (e *ExecRecorder) End() {
	e.Set("End Time", time.Now().Format(timeFormat))

	for _, entry := range e.entries {
		e.recorder.InsertData(execInfoTable, entry)
	}

	e.entries = nil

	e.recorder.Flush()
}
