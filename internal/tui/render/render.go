// Package render draws the argosctl terminal views.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/argosnews/argosctl/internal/colors"
	"github.com/argosnews/argosctl/internal/toast"
	"github.com/charmbracelet/lipgloss"
)

const (
	flagSymbol       = "★"
	noFlagSymbol     = " "
	iconSymbol       = "▣"
	ellipsis         = "..."
	defaultWidth     = 80
	toggleSeparator  = "  "
	bubbleHorizontal = 4
)

// HeaderState defines the inputs needed to render the page header.
type HeaderState struct {
	Title string
	URL   string
	Width int
}

// Toggle is one toggle control shown on a row.
type Toggle struct {
	Key    string
	Label  string
	Active bool
}

// ArticleRow defines the inputs needed to render an article row.
type ArticleRow struct {
	Title      string
	Bookmarked bool
	Toggles    []Toggle
	Selected   bool
	Width      int
}

// IconRow defines the inputs needed to render an admin source icon row.
type IconRow struct {
	Label    string
	Src      string
	Selected bool
	Width    int
}

// FooterState defines the inputs needed to render footer help text.
type FooterState struct {
	UploadMode  bool
	UploadInput string
	HasMore     bool
	HasIcons    bool
	Pending     int
	Width       int
}

// Header renders the page title and location.
func Header(state HeaderState) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ansiColorNumber(colors.Blue)))
	urlStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	width := widthOr(state.Width)
	title := state.Title
	if title == "" {
		title = "argos"
	}
	title = truncate(title, width)
	line := titleStyle.Render(title)

	if room := width - lipgloss.Width(title) - 2; state.URL != "" && room > 0 {
		line += "  " + urlStyle.Render(truncate(state.URL, room))
	}
	return line
}

// Row renders a single article row.
func Row(row ArticleRow) string {
	style := lipgloss.NewStyle()
	if row.Selected {
		style = style.Background(lipgloss.Color(ansiColorNumber(colors.Blue))).Foreground(lipgloss.Color("0"))
	}

	flag := noFlagSymbol
	if row.Bookmarked {
		flag = flagSymbol
	}

	var toggles []string
	for _, t := range row.Toggles {
		label := fmt.Sprintf("[%s] %s", t.Key, t.Label)
		if t.Active {
			label += "*"
		}
		toggles = append(toggles, label)
	}
	suffix := strings.Join(toggles, toggleSeparator)

	width := widthOr(row.Width)
	titleWidth := width - lipgloss.Width(suffix) - 4
	title := truncate(row.Title, titleWidth)
	pad := titleWidth - lipgloss.Width(title)
	if pad < 0 {
		pad = 0
	}
	line := fmt.Sprintf("%s %s%s  %s", flag, title, strings.Repeat(" ", pad), suffix)
	return style.Render(strings.TrimRight(line, " "))
}

// RenderIconRow renders an admin source icon row.
func RenderIconRow(row IconRow) string {
	style := lipgloss.NewStyle()
	if row.Selected {
		style = style.Background(lipgloss.Color(ansiColorNumber(colors.Blue))).Foreground(lipgloss.Color("0"))
	}
	line := fmt.Sprintf("%s %s  %s", iconSymbol, row.Label, row.Src)
	return style.Render(truncate(line, widthOr(row.Width)))
}

// Empty renders the placeholder for a page with nothing to act on.
func Empty() string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("Nothing to show")
}

// Footer renders the footer with help text.
func Footer(state FooterState) string {
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	var help []string
	if state.UploadMode {
		help = append(help, "Icon file: "+state.UploadInput)
		help = append(help, "Enter: upload")
		help = append(help, "ESC: cancel")
		return helpStyle.Render(truncate(strings.Join(help, "  |  "), widthOr(state.Width)))
	}

	help = append(help, "j/k: move", "b: bookmark", "w: watch")
	if state.HasMore {
		help = append(help, "m: more")
	}
	if state.HasIcons {
		help = append(help, "u: upload icon")
	}
	help = append(help, "r: reload", "q: quit")
	if state.Pending > 0 {
		help = append(help, fmt.Sprintf("%d pending", state.Pending))
	}
	return helpStyle.Render(truncate(strings.Join(help, "  |  "), widthOr(state.Width)))
}

// Bubble renders the notification area: exactly b.Height lines, with the
// bubble box risen from the bottom by its current offset. It is faint
// while more transparent than opaque.
func Bubble(b toast.Bubble, width int) string {
	height := int(math.Round(b.Height))
	if height <= 0 {
		height = toast.DefaultHeight
	}
	lines := make([]string, height)

	shown := height - int(math.Round(b.Offset))
	if !b.Visible || shown <= 0 {
		return strings.Join(lines, "\n")
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ansiColorNumber(colors.Red))).
		Padding(0, 1)
	if b.Opacity < 0.5 {
		style = style.Faint(true)
	}
	message := strings.Join(strings.Fields(b.Message), " ")
	box := strings.Split(style.Render(truncate(message, widthOr(width)-bubbleHorizontal)), "\n")
	if len(box) > height {
		box = box[:height]
	}
	if shown > len(box) {
		shown = len(box)
	}
	copy(lines[height-shown:], box[:shown])
	return strings.Join(lines, "\n")
}

func widthOr(width int) int {
	if width <= 0 {
		return defaultWidth
	}
	return width
}

// truncate shortens plain text to width cells.
func truncate(value string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(value) <= width {
		return value
	}
	runes := []rune(value)
	if width <= len(ellipsis) {
		return string(runes[:min(width, len(runes))])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+len(ellipsis) > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + ellipsis
}

// ansiColorNumber extracts the color number from an ANSI escape sequence.
// Example: "\033[0;34m" -> "34"
func ansiColorNumber(ansi string) string {
	if len(ansi) < 2 {
		return ""
	}
	lastSemicolon := strings.LastIndex(ansi, ";")
	if lastSemicolon == -1 {
		return ""
	}
	return ansi[lastSemicolon+1 : len(ansi)-1]
}
