// Package signal defines the commands that a memory controller sends to a
// DRAM device.
package signal

// CommandKind is the kind of a DRAM command.
type CommandKind int

// A list of all the supported DRAM commands.
const (
	CmdKindActivate CommandKind = iota
	CmdKindRead
	CmdKindWrite
	CmdKindPrecharge
	CmdKindRefresh
	NumCmdKind
)

var cmdKindNames = [...]string{
	CmdKindActivate:  "ACT",
	CmdKindRead:      "RD",
	CmdKindWrite:     "WR",
	CmdKindPrecharge: "PRE",
	CmdKindRefresh:   "REF",
}

func (k CommandKind) String() string {
	if k < 0 || k >= NumCmdKind {
		return "UNKNOWN"
	}

	return cmdKindNames[k]
}

// IsAccess returns true if the command moves data.
func (k CommandKind) IsAccess() bool {
	return k == CmdKindRead || k == CmdKindWrite
}

// Location determines where a piece of data is stored in a DRAM device.
type Location struct {
	Bank   uint64
	Row    uint64
	Column uint64
}

// SameRow returns true if two locations are in the same row of the same bank.
func (l Location) SameRow(other Location) bool {
	return l.Bank == other.Bank && l.Row == other.Row
}

// Command is a command that the memory controller sends to a bank.
type Command struct {
	Kind     CommandKind
	Location Location
	ReqID    string
}
