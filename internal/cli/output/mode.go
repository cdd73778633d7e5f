// Package output renders command results for terminals, pipes and tools.
//
// Auto mode picks styled text on a terminal and markdown otherwise, so the
// same command reads well interactively and when piped into a file or an
// agent. JSON mode is the machine-readable contract.
package output

import "fmt"

// Mode selects how results are rendered.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Modes lists the accepted mode names.
var Modes = []string{string(ModeAuto), string(ModeText), string(ModeMarkdown), string(ModeJSON)}

// ParseMode validates a mode name. The empty string means auto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeText, ModeMarkdown, ModeJSON:
		return m, nil
	case "md":
		return ModeMarkdown, nil
	default:
		return "", fmt.Errorf("unknown output format %q (valid: auto, text, markdown, json)", s)
	}
}
