package explain

import "strings"

// Display identifies which of the mutually exclusive result-pane states is
// active.
type Display int

const (
	DisplayEmpty Display = iota
	DisplayBusy
	DisplayResult
	DisplayError
)

func (d Display) String() string {
	switch d {
	case DisplayBusy:
		return "busy"
	case DisplayResult:
		return "result"
	case DisplayError:
		return "error"
	default:
		return "empty"
	}
}

// State is the in-memory session state. Input is independent of the display
// state; at most one of Busy, Result and Err is set at a time.
type State struct {
	Input  string
	Result string
	Busy   bool
	Err    string
}

// Display reports the active result-pane state.
func (s State) Display() Display {
	switch {
	case s.Busy:
		return DisplayBusy
	case s.Err != "":
		return DisplayError
	case s.Result != "":
		return DisplayResult
	default:
		return DisplayEmpty
	}
}

// Blank reports whether the input holds nothing but whitespace.
func (s State) Blank() bool {
	return strings.TrimSpace(s.Input) == ""
}
