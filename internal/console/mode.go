package console

// Mode is a state of the top-level console.
type Mode int

const (
	ModeSelect Mode = iota
	ModeManual
	ModeFile
	ModeInteractive
	ModeCommand
	ModeQuit
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeSelect:
		return "select"
	case ModeManual:
		return "manual"
	case ModeFile:
		return "file"
	case ModeInteractive:
		return "interactive"
	case ModeCommand:
		return "command"
	case ModeQuit:
		return "quit"
	default:
		return "unknown"
	}
}

var modeTransitions = map[Mode]map[Mode]bool{
	ModeSelect: {
		ModeManual:  true,
		ModeFile:    true,
		ModeCommand: true,
		ModeQuit:    true,
	},
	ModeManual: {
		ModeInteractive: true,
		ModeSelect:      true,
	},
	ModeFile: {
		ModeInteractive: true,
		ModeSelect:      true,
	},
	ModeInteractive: {
		ModeSelect: true,
	},
	ModeCommand: {
		ModeSelect: true,
	},
}

// CanTransition reports whether the console may move from one mode to another.
func CanTransition(from, to Mode) bool {
	if from == to {
		return true
	}
	return modeTransitions[from][to]
}

// selectorChoices maps the numbered menu entries to modes.
var selectorChoices = map[string]Mode{
	"1": ModeManual,
	"2": ModeFile,
	"3": ModeCommand,
	"4": ModeQuit,
}
