package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/kpidesk/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusPill returns a colored indicator such as "● 진행".
func StatusPill(s domain.Status) string {
	switch s {
	case domain.StatusInProgress:
		return StyleGreen.Render("● " + string(s))
	case domain.StatusDone:
		return StyleDim.Render("✔ " + string(s))
	case domain.StatusCancelled:
		return StyleDim.Render("✖ " + string(s))
	case domain.StatusWaiting:
		return StyleBlue.Render("○ " + string(s))
	default:
		return StyleDim.Render(string(s))
	}
}

// PriorityBadge colors p by urgency. Unranked priorities render dimmed.
func PriorityBadge(p domain.Priority) string {
	switch p {
	case domain.PriorityCritical:
		return StyleRed.Render("▲ " + string(p))
	case domain.PriorityHigh:
		return StyleYellow.Render("△ " + string(p))
	case domain.PriorityMedium:
		return StyleBlue.Render(string(p))
	case domain.PriorityLow:
		return StyleFg.Render(string(p))
	default:
		return StyleDim.Render("--")
	}
}

// KindBadge returns a purple label for the record kind.
func KindBadge(k domain.RecordKind) string {
	return StylePurple.Render(strings.ToUpper(string(k)))
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
