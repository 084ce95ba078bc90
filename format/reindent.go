package format

import "strings"

// Reindent re-indents a brace-structured Java member so that its outermost
// lines sit depth units deep. Existing leading whitespace is discarded.
func Reindent(text, unit string, depth int) string {
	var sb strings.Builder
	level := 0
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			sb.WriteString("\n")
			continue
		}
		if strings.HasPrefix(trimmed, "}") && level > 0 {
			level--
		}
		sb.WriteString(strings.Repeat(unit, depth+level))
		sb.WriteString(trimmed)
		sb.WriteString("\n")

		opens, closes := braceBalance(trimmed)
		if strings.HasPrefix(trimmed, "}") {
			closes--
		}
		level += opens - closes
		if level < 0 {
			level = 0
		}
	}
	return sb.String()
}

// braceBalance counts braces outside string and character literals.
func braceBalance(line string) (opens, closes int) {
	var quote byte
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case quote != 0:
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '/' && i+1 < len(line) && line[i+1] == '/':
			return opens, closes
		case ch == '{':
			opens++
		case ch == '}':
			closes++
		}
	}
	return opens, closes
}
