package model

import (
	"fmt"
	"math"
	"math/big"

	"github.com/dustin/go-humanize"
)

// Default values
const (
	DefaultTitle    = "Unknown"
	DefaultUploader = "Unknown"
)

// Time formatting constants
const (
	SecondsPerHour   = 3600
	SecondsPerMinute = 60
)

// Metadata describes a single media item as reported by the external tool.
type Metadata struct {
	Title     string
	Duration  string  // H:MM:SS or M:SS
	Uploader  string
	ViewCount *uint64 // nil when the site does not report it
	Thumbnail string  // empty when absent
}

// FormatDuration renders seconds as H:MM:SS, or M:SS when shorter than an hour.
// Fractions are truncated; negative and non-finite values render as 0:00.
func FormatDuration(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	total := uint64(seconds)
	hours := total / SecondsPerHour
	minutes := (total % SecondsPerHour) / SecondsPerMinute
	secs := total % SecondsPerMinute

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// FormatViewCount groups digits in thousands: 1234567 -> "1,234,567".
func FormatViewCount(views uint64) string {
	if views > math.MaxInt64 {
		return humanize.BigComma(new(big.Int).SetUint64(views))
	}
	return humanize.Comma(int64(views))
}

// Views returns the grouped view count, or an empty string when unknown.
func (m *Metadata) Views() string {
	if m == nil || m.ViewCount == nil {
		return ""
	}
	return FormatViewCount(*m.ViewCount)
}
