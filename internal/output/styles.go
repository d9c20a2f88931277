package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/nethalo/sqlclass/internal/classifier"
)

var (
	colorParsed  = lipgloss.Color("#04B575") // green
	colorPartial = lipgloss.Color("#FFB800") // yellow
	colorInvalid = lipgloss.Color("#FF4040") // red
	colorTitle   = lipgloss.Color("#00BFFF") // cyan
	colorMuted   = lipgloss.Color("#666666")
	colorLabel   = lipgloss.Color("#AAAAAA")
)

func box(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
}

func bold(fg lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(fg).Bold(true)
}

var (
	summaryBox = box(colorTitle)
	parsedBox  = box(colorParsed)
	partialBox = box(colorPartial)
	invalidBox = box(colorInvalid)

	titleText   = bold(colorTitle)
	parsedText  = bold(colorParsed)
	partialText = bold(colorPartial)
	invalidText = bold(colorInvalid)
	mutedText   = lipgloss.NewStyle().Foreground(colorMuted)
	codeText    = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0E0E0"))
	labelText   = lipgloss.NewStyle().Foreground(colorLabel).Width(18)
)

const (
	iconParsed  = "✅"
	iconPartial = "⚠"
	iconInvalid = "❌"
)

// styleFor picks the box border for a record. Anything short of a full
// parse is shown as a warning.
func styleFor(s classifier.Status) lipgloss.Style {
	switch s {
	case classifier.Parsed:
		return parsedBox
	case classifier.PartiallyParsed, classifier.Tokenized:
		return partialBox
	default:
		return invalidBox
	}
}

func colorStatus(s classifier.Status) string {
	switch s {
	case classifier.Parsed:
		return parsedText.Render(iconParsed + " " + s.String())
	case classifier.PartiallyParsed, classifier.Tokenized:
		return partialText.Render(iconPartial + " " + s.String())
	default:
		return invalidText.Render(iconInvalid + " " + s.String())
	}
}
