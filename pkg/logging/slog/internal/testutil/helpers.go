package testutil

import (
	"encoding/json"
	"strings"
	"testing"
)

// LogEntry represents a parsed JSON log record
type LogEntry struct {
	Time    string
	Level   string
	Message string
	Attrs   map[string]interface{}
}

// ParseLogEntry parses the last JSON record written to output
func ParseLogEntry(t *testing.T, output string) LogEntry {
	t.Helper()

	lines := strings.Split(strings.TrimSpace(output), "\n")
	line := lines[len(lines)-1]

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		t.Fatalf("Failed to parse log entry %q: %v", line, err)
	}

	entry := LogEntry{Attrs: make(map[string]interface{})}
	for k, v := range raw {
		switch k {
		case "time":
			entry.Time, _ = v.(string)
		case "level":
			entry.Level, _ = v.(string)
		case "msg":
			entry.Message, _ = v.(string)
		default:
			entry.Attrs[k] = v
		}
	}
	return entry
}
