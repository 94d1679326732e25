package root

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	IconDrop   = "💧"
	IconFire   = "🔥"
	IconTrophy = "🏆"
	IconLock   = "🔒"
	IconBell   = "🔔"
	IconSun    = "🌤️"
	IconError  = "🧨"
)

var (
	cPrimary = lipgloss.Color("39")  // water blue
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
)

func Heading(icon, title string) string {
	return Title.Render(strings.TrimSpace(icon+" "+title))
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// ProgressBar renders pct (0..100) as a bar of width cells.
func ProgressBar(pct float64, width int) string {
	filled := int(pct / 100 * float64(width))
	filled = max(0, min(filled, width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	style := Warn
	if pct >= 100 {
		style = Good
	}
	return style.Render(bar) + fmt.Sprintf(" %3.0f%%", pct)
}
