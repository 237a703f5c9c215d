package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Application identity
const (
	AppID   = "com.tubesave.tubesave"
	AppName = "TubeSave"
)

// Window sizing
const (
	WindowWidth  float32 = 640
	WindowHeight float32 = 560
)

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
)

// Mode selector labels
const (
	OptionAudioOnly = "Audio only"
	OptionVideoOnly = "Video only"
	OptionMergeBoth = "Video + Audio"
)

// Layout sizing
const (
	ProgressNameWidth float32 = 90

	SettingsDialogWidth  float32 = 500
	SettingsDialogHeight float32 = 420
)

// Poll fallback when the configured interval is missing or invalid
const (
	PollIntervalFallback = 100 * time.Millisecond
)
