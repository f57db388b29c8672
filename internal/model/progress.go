package model

import "math"

// Progress is the latest reported completion of a download.
// Fraction is trusted as reported by the tool and is not guaranteed monotonic.
type Progress struct {
	Fraction float64 // 0.0 to 1.0 in well-formed output
	Status   string
}

// Percent returns the fraction as a whole percentage clamped to 0..100.
func (p Progress) Percent() int {
	return int(p.Clamped() * 100)
}

// Clamped returns the fraction limited to 0..1 for progress bars.
func (p Progress) Clamped() float64 {
	switch {
	case math.IsNaN(p.Fraction), p.Fraction < 0:
		return 0
	case p.Fraction > 1:
		return 1
	default:
		return p.Fraction
	}
}

// Origin tags the stream a log line came from.
type Origin int

const (
	OriginStdout Origin = iota
	OriginStderr
	OriginApp
)

// String returns the stream name.
func (o Origin) String() string {
	switch o {
	case OriginStdout:
		return "stdout"
	case OriginStderr:
		return "stderr"
	case OriginApp:
		return "app"
	default:
		return "unknown"
	}
}

// LogLine is one line of console output shown to the user.
type LogLine struct {
	Origin Origin
	Text   string
}

// String renders the line for the console panel; error-stream lines are prefixed.
func (l LogLine) String() string {
	if l.Origin == OriginStderr {
		return "ERROR: " + l.Text
	}
	return l.Text
}
