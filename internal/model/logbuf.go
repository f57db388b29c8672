package model

// MaxLogLines is how many console lines are retained for display.
const MaxLogLines = 50

// LogBuffer keeps the most recent log lines, evicting the oldest first.
// It is owned by the interface goroutine and is not safe for concurrent use.
type LogBuffer struct {
	limit int
	lines []LogLine
}

// NewLogBuffer creates a buffer holding at most limit lines (MaxLogLines if limit <= 0).
func NewLogBuffer(limit int) *LogBuffer {
	if limit <= 0 {
		limit = MaxLogLines
	}
	return &LogBuffer{limit: limit, lines: make([]LogLine, 0, limit)}
}

// Append adds a line, dropping the oldest one when full.
func (b *LogBuffer) Append(line LogLine) {
	if len(b.lines) == b.limit {
		copy(b.lines, b.lines[1:])
		b.lines = b.lines[:b.limit-1]
	}
	b.lines = append(b.lines, line)
}

// Len returns the number of retained lines.
func (b *LogBuffer) Len() int {
	return len(b.lines)
}

// At returns the i-th retained line, oldest first.
func (b *LogBuffer) At(i int) LogLine {
	return b.lines[i]
}

// Lines returns a copy of the retained lines, oldest first.
func (b *LogBuffer) Lines() []LogLine {
	out := make([]LogLine, len(b.lines))
	copy(out, b.lines)
	return out
}

// Clear drops every line.
func (b *LogBuffer) Clear() {
	b.lines = b.lines[:0]
}
