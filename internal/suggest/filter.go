package suggest

import (
	"strings"
)

var refusalSignals = []string{
	"cannot assist",
	"i'm unable",
	"i am unable",
	"not able to",
	"violat",
	"inappropriat",
	"i'm sorry, but",
	"i cannot",
}

var preambles = []string{
	"here is",
	"here are",
	"the following",
	"rhyming words",
	"rhyming phrases",
}

// IsRefusal reports whether a model reply declines the request
func IsRefusal(text string) bool {
	lower := strings.ToLower(text)
	for _, signal := range refusalSignals {
		if strings.Contains(lower, signal) {
			return true
		}
	}
	return false
}

// ParseLines turns a model reply into candidate lines. A refusal yields
// nothing. Lines are lowercased and trimmed; blank lines, headers ending in
// ':', preamble lines and anything in excluding are dropped.
func ParseLines(text string, excluding []string) []string {
	if IsRefusal(text) {
		return nil
	}

	known := make(map[string]bool, len(excluding))
	for _, e := range excluding {
		known[strings.ToLower(strings.TrimSpace(e))] = true
	}

	var lines []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		line = stripBullet(strings.ToLower(strings.TrimSpace(line)))
		if line == "" || known[line] || seen[line] {
			continue
		}
		if strings.HasSuffix(line, ":") || isPreamble(line) {
			continue
		}
		seen[line] = true
		lines = append(lines, line)
	}
	return lines
}

// ParseWords is ParseLines for replies that may list several entries per
// line separated by commas
func ParseWords(text string, excluding []string) []string {
	if IsRefusal(text) {
		return nil
	}
	var entries []string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasSuffix(strings.TrimSpace(line), ":") {
			continue
		}
		entries = append(entries, strings.Split(line, ",")...)
	}
	return ParseLines(strings.Join(entries, "\n"), excluding)
}

func isPreamble(line string) bool {
	for _, p := range preambles {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// stripBullet removes list markers such as "- ", "* ", "1. " and "2) "
func stripBullet(line string) string {
	for _, marker := range []string{"- ", "* ", "• "} {
		if rest, ok := strings.CutPrefix(line, marker); ok {
			return strings.TrimSpace(rest)
		}
	}

	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i+1 < len(line) && (line[i] == '.' || line[i] == ')') && line[i+1] == ' ' {
		return strings.TrimSpace(line[i+2:])
	}
	return line
}

// RhymingTail returns the last one or two words of a phrase, the part that
// carries its ending sound
func RhymingTail(phrase string) string {
	words := strings.Fields(phrase)
	switch len(words) {
	case 0:
		return strings.TrimSpace(phrase)
	case 1:
		return words[0]
	default:
		return strings.Join(words[len(words)-2:], " ")
	}
}
