package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconVideo   = "🎬"
	IconSuccess = "✅"
	IconError   = "❌"
)

// Text fragments
const (
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%d%%"
)

// Window sizing
const (
	WindowWidth     float32 = 900
	WindowHeight    float32 = 800
	ConsoleMinWidth float32 = 600
	ConsoleHeight   float32 = 260
	LogoSize        float32 = 32
)

// Frame polling
const (
	DefaultPollInterval = 50 * time.Millisecond
)
