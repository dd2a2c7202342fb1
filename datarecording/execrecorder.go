package datarecording

import (
	"os"
	"strings"
	"time"
)

// ExecInfoTable is the table that holds the facts about a run.
const ExecInfoTable = "exec_info"

const timeFormat = "2006-01-02 15:04:05.000000000"

// ExecInfo is a fact about a run.
type ExecInfo struct {
	Property string
	Value    string
}

// ExecRecorder records how and when the simulator runs.
type ExecRecorder struct {
	recorder DataRecorder
	entries  []ExecInfo
}

// NewExecRecorder creates the exec_info table in the recorder.
func NewExecRecorder(recorder DataRecorder) *ExecRecorder {
	recorder.CreateTable(ExecInfoTable, ExecInfo{})

	return &ExecRecorder{recorder: recorder}
}

// Start records the start time, the command and the working directory.
func (e *ExecRecorder) Start() {
	e.Record("Start Time", time.Now().Format(timeFormat))
	e.Record("Command", strings.Join(os.Args, " "))

	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	e.Record("Working Directory", cwd)
}

// Record adds a fact about the run.
func (e *ExecRecorder) Record(property, value string) {
	e.entries = append(e.entries, ExecInfo{Property: property, Value: value})
}

// End writes all the facts with the end time.
func (e *ExecRecorder) End() {
	e.Record("End Time", time.Now().Format(timeFormat))

	for _, entry := range e.entries {
		e.recorder.InsertData(ExecInfoTable, entry)
	}

	e.entries = nil

	e.recorder.Flush()
}
