package ytdlp

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ytget/yt-grabber/internal/model"
)

// Status texts reported by the parser
const (
	StatusPreparing  = "Preparing download..."
	StatusCompleted  = "Download completed!"
	StatusExtracting = "Extracting audio..."
	StatusConverting = "Converting..."
)

// Post-processing stages report fixed fractions; the tool gives no real signal for them.
const (
	ExtractingFraction = 0.9
	ConvertingFraction = 0.95
)

// Markers found in yt-dlp output
const (
	downloadTag     = "[download]"
	extractAudioTag = "[ExtractAudio]"
	ffmpegTag       = "[ffmpeg]"
	mergerTag       = "[Merger]"

	destinationMarker = "Destination: "
	alreadyMarker     = " has already been downloaded"
	intoMarker        = `into "`
	speedMarker       = " at "
	etaMarker         = " ETA "
)

// ParseProgress classifies one line of tool output. It reports false for lines that
// carry no progress information, including malformed percentages.
//
// Example input: "[download]  45.0% of 10.00MiB at 1.00MiB/s ETA 00:05"
func ParseProgress(line string) (model.Progress, bool) {
	switch {
	case strings.Contains(line, downloadTag+" Destination:"):
		return model.Progress{Fraction: 0, Status: StatusPreparing}, true
	// Only the literal "100%" marks completion; "100.0%" takes the generic path below.
	case strings.Contains(line, downloadTag+" 100%"):
		return model.Progress{Fraction: 1, Status: StatusCompleted}, true
	case strings.Contains(line, downloadTag) && strings.Contains(line, "%"):
		return parsePercentLine(line)
	case strings.Contains(line, extractAudioTag):
		return model.Progress{Fraction: ExtractingFraction, Status: StatusExtracting}, true
	case strings.Contains(line, ffmpegTag), strings.Contains(line, mergerTag):
		return model.Progress{Fraction: ConvertingFraction, Status: StatusConverting}, true
	}
	return model.Progress{}, false
}

func parsePercentLine(line string) (model.Progress, bool) {
	start := strings.Index(line, "] ")
	if start < 0 {
		return model.Progress{}, false
	}
	rest := line[start+2:]
	end := strings.Index(rest, "%")
	if end < 0 {
		return model.Progress{}, false
	}

	percent, err := strconv.ParseFloat(strings.TrimSpace(rest[:end]), 64)
	if err != nil || math.IsNaN(percent) || math.IsInf(percent, 0) {
		return model.Progress{}, false
	}

	status := fmt.Sprintf("Downloading... %.1f%%", percent)
	if speed, eta, ok := speedAndETA(line); ok {
		status = fmt.Sprintf("Downloading... %.1f%% at %s (ETA: %s)", percent, speed, eta)
	}
	return model.Progress{Fraction: percent / 100, Status: status}, true
}

func speedAndETA(line string) (speed, eta string, ok bool) {
	at := strings.Index(line, speedMarker)
	etaIdx := strings.Index(line, etaMarker)
	if at < 0 || etaIdx < 0 || etaIdx < at+len(speedMarker) {
		return "", "", false
	}
	speed = line[at+len(speedMarker) : etaIdx]
	eta = strings.TrimSpace(line[etaIdx+len(etaMarker):])
	return speed, eta, true
}

// ParsePath extracts an output file location announced by the tool. When a line
// matches several patterns, the last one checked wins.
func ParsePath(line string) (string, bool) {
	var path string

	if idx := strings.Index(line, destinationMarker); idx >= 0 {
		path = strings.TrimSpace(line[idx+len(destinationMarker):])
	}

	if strings.HasPrefix(line, downloadTag+" ") {
		if idx := strings.Index(line, alreadyMarker); idx >= 0 {
			path = strings.TrimSpace(line[len(downloadTag)+1 : idx])
		}
	}

	if idx := strings.Index(line, intoMarker); idx >= 0 {
		rest := line[idx+len(intoMarker):]
		if end := strings.LastIndex(rest, `"`); end >= 0 {
			path = rest[:end]
		}
	}

	return path, path != ""
}

// ParseLine classifies one stdout line. A discovered path comes before progress;
// unrecognised lines yield nothing.
func ParseLine(line string) []model.Event {
	var events []model.Event
	if path, ok := ParsePath(line); ok {
		events = append(events, model.PathEvent{Path: path})
	}
	if progress, ok := ParseProgress(line); ok {
		events = append(events, model.ProgressEvent{Progress: progress})
	}
	return events
}
