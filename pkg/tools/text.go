package tools

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/docker/mcp-simple-server/pkg/calc"
)

const timeLayout = "2006-01-02 15:04:05 MST"

// CurrentTime formats now in UTC. The timezone label is echoed back but not
// applied.
func CurrentTime(now time.Time, timezone string) string {
	if timezone == "" {
		timezone = "UTC"
	}
	return fmt.Sprintf("Current time (%s): %s", timezone, now.UTC().Format(timeLayout))
}

// Calculate evaluates an arithmetic expression. Failures are reported in the
// returned text.
func Calculate(expression string) string {
	v, err := calc.Eval(expression)
	if err != nil {
		return "Error evaluating expression: " + err.Error()
	}
	return "Result: " + calc.Format(v)
}

func Echo(message string, uppercase bool) string {
	if uppercase {
		return strings.ToUpper(message)
	}
	return message
}

// TextStats holds the numbers reported by CountWords.
type TextStats struct {
	Words              int
	Characters         int
	CharactersNoSpaces int
	AverageWordLength  float64
}

// Stats counts whitespace separated words and characters (code points).
// Only the space character is excluded from CharactersNoSpaces.
func Stats(text string) TextStats {
	stats := TextStats{
		Words:      len(strings.Fields(text)),
		Characters: utf8.RuneCountInString(text),
	}
	stats.CharactersNoSpaces = stats.Characters - strings.Count(text, " ")
	if stats.Words > 0 {
		stats.AverageWordLength = float64(stats.CharactersNoSpaces) / float64(stats.Words)
	}
	return stats
}

func CountWords(text string) string {
	stats := Stats(text)

	var sb strings.Builder
	sb.WriteString("Text Statistics:\n")
	fmt.Fprintf(&sb, "- Word count: %d\n", stats.Words)
	fmt.Fprintf(&sb, "- Character count (with spaces): %d\n", stats.Characters)
	fmt.Fprintf(&sb, "- Character count (without spaces): %d\n", stats.CharactersNoSpaces)
	fmt.Fprintf(&sb, "- Average word length: %.2f characters", stats.AverageWordLength)
	return sb.String()
}
