package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// DateRange renders "start → due", with "--" for a missing end.
func DateRange(start, due string) string {
	if start == "" && due == "" {
		return Dim("--")
	}
	if start == "" {
		start = "--"
	}
	if due == "" {
		due = "--"
	}
	return fmt.Sprintf("%s → %s", start, due)
}

// DueStyled colors a YYYY-MM-DD due date red when it has passed before now
// and the work is still open, yellow within a week.
func DueStyled(due string, open bool, now time.Time) string {
	if due == "" {
		return Dim("--")
	}
	d, err := time.ParseInLocation("2006-01-02", due, now.Location())
	if err != nil || !open {
		return due
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch days := int(d.Sub(today).Hours() / 24); {
	case days < 0:
		return StyleRed.Render(due)
	case days <= 7:
		return StyleYellow.Render(due)
	default:
		return due
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Or returns s, or a dimmed "--" when s is blank.
func Or(s string) string {
	if strings.TrimSpace(s) == "" {
		return Dim("--")
	}
	return s
}
