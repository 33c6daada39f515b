package tui

// Color constants for the studyclock theme
const (
	ColorBorder = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Subject name, values
	ColorSecondaryText = "#B1B8C7" // Labels, break line
	ColorDisabledText  = "#6D7383" // Paused clock, empty values
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors (Purple theme)
	ColorAccentMain   = "#7C3AED"
	ColorAccentBright = "#A78BFA" // Running clock

	// State Colors
	ColorError   = "#EF4444"
	ColorWarning = "#F59E0B" // Break header, stop confirmation
)
