package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/studio/internal/models"
)

// Color constants for the studio theme
const (
	ColorBorder = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2"
	ColorSecondaryText = "#B1B8C7"
	ColorDisabledText  = "#6D7383"
	ColorHelpText      = "240"

	// Accent Colors (Purple theme)
	ColorAccentMain   = "#7C3AED"
	ColorAccentBright = "#A78BFA"

	// State Colors
	ColorError   = "#EF4444"
	ColorSuccess = "#22C55E"
	ColorWarning = "#F59E0B"
)

// namedColorHex maps the basic color names a tag may use onto hex values
// lipgloss understands.
var namedColorHex = map[string]string{
	"black":   "#000000",
	"silver":  "#C0C0C0",
	"gray":    "#808080",
	"white":   "#FFFFFF",
	"maroon":  "#800000",
	"red":     "#FF0000",
	"purple":  "#800080",
	"fuchsia": "#FF00FF",
	"green":   "#008000",
	"lime":    "#00FF00",
	"olive":   "#808000",
	"yellow":  "#FFFF00",
	"navy":    "#000080",
	"blue":    "#0000FF",
	"teal":    "#008080",
	"aqua":    "#00FFFF",
}

// TagColor converts a stored tag color to a terminal color. Unknown values
// fall back to the secondary text color.
func TagColor(color string) lipgloss.Color {
	c := strings.TrimSpace(color)
	if strings.HasPrefix(c, "#") && models.ValidColor(c) {
		return lipgloss.Color(c)
	}
	if hex, ok := namedColorHex[strings.ToLower(c)]; ok {
		return lipgloss.Color(hex)
	}
	return lipgloss.Color(ColorSecondaryText)
}

var statusColors = map[models.Status]string{
	models.StatusTodo:       ColorSecondaryText,
	models.StatusInProgress: ColorAccentBright,
	models.StatusPaused:     ColorWarning,
	models.StatusDone:       ColorSuccess,
	models.StatusArchived:   ColorDisabledText,
}

var priorityColors = map[models.Priority]string{
	models.PriorityLow:    ColorSecondaryText,
	models.PriorityMedium: ColorWarning,
	models.PriorityHigh:   ColorError,
}
