package terminal

import (
	"strings"

	"github.com/moby/term"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 120

// Width returns the width in characters of the terminal behind out, or
// DefaultWidth when out is not a terminal.
func Width(out any) int {
	fd, isTerminal := term.GetFdInfo(out)
	if !isTerminal {
		return DefaultWidth
	}
	ws, err := term.GetWinsize(fd)
	if err != nil || ws.Width == 0 {
		return DefaultWidth
	}
	return int(ws.Width)
}

// IsTerminal reports whether out is a terminal.
func IsTerminal(out any) bool {
	_, isTerminal := term.GetFdInfo(out)
	return isTerminal
}

// Wrap breaks text on spaces into lines of at most width characters, each
// prefixed with indent. Words longer than a line are kept whole.
func Wrap(text string, width int, indent string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	limit := width - len(indent)
	var (
		lines []string
		line  string
	)
	for _, word := range words {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) > limit:
			lines = append(lines, indent+line)
			line = word
		default:
			line += " " + word
		}
	}
	lines = append(lines, indent+line)

	return strings.Join(lines, "\n")
}
