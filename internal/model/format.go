package model

import (
	"fmt"
	"strings"
)

// FormatChoice selects what the external tool produces for a download.
type FormatChoice string

const (
	// FormatVideo requests the best video and audio streams merged into MP4
	FormatVideo FormatChoice = "mp4"

	// FormatAudio requests audio extraction transcoded to MP3
	FormatAudio FormatChoice = "mp3"
)

// String returns the string representation of FormatChoice
func (f FormatChoice) String() string {
	return string(f)
}

// Label returns a human readable name for selectors.
func (f FormatChoice) Label() string {
	switch f {
	case FormatVideo:
		return "MP4 (Video)"
	case FormatAudio:
		return "MP3 (Audio Only)"
	default:
		return string(f)
	}
}

// IsAudioOnly reports whether the choice extracts audio only.
func (f FormatChoice) IsAudioOnly() bool {
	return f == FormatAudio
}

// FormatChoices lists the selectable formats in display order.
func FormatChoices() []FormatChoice {
	return []FormatChoice{FormatVideo, FormatAudio}
}

// ParseFormatChoice accepts "mp4"/"video" and "mp3"/"audio", case-insensitively.
func ParseFormatChoice(s string) (FormatChoice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mp4", "video":
		return FormatVideo, nil
	case "mp3", "audio":
		return FormatAudio, nil
	default:
		return "", fmt.Errorf("unknown format choice %q", s)
	}
}
