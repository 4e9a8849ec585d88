package orchestrator

import "strings"

// SGR sequences around error-channel output. The chunk between them is
// stored untouched.
const (
	stderrStart = "\x1b[31m"
	stderrEnd   = "\x1b[39m"
)

// appendOutput adds a chunk to the task's log in arrival order.
func (m *model) appendOutput(index int, chunk string, isErr bool) bool {
	if isErr {
		chunk = stderrStart + chunk + stderrEnd
	}
	return m.registry.Append(index, chunk)
}

// displayText prepares a raw terminal log for the pane: CRLF becomes LF and
// a carriage return inside a line keeps only what was written after it, the
// way a terminal would show a redrawn progress line.
func displayText(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	if !strings.Contains(raw, "\r") {
		return raw
	}
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		if j := strings.LastIndex(line, "\r"); j >= 0 {
			line = line[j+1:]
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
