package render

import (
	"strings"
	"testing"

	"github.com/argosnews/argosctl/internal/colors"
	"github.com/argosnews/argosctl/internal/toast"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeader(t *testing.T) {
	out := Header(HeaderState{Title: "The latest events", URL: "http://localhost:5000/", Width: 80})
	assert.Contains(t, out, "The latest events")
	assert.Contains(t, out, "http://localhost:5000/")

	assert.Contains(t, Header(HeaderState{}), "argos")
	assert.LessOrEqual(t, lipgloss.Width(Header(HeaderState{Title: strings.Repeat("x", 200), URL: "u", Width: 40})), 40)
}

func TestRow(t *testing.T) {
	out := Row(ArticleRow{
		Title:      "Flooding in the valley",
		Bookmarked: true,
		Toggles: []Toggle{
			{Key: "b", Label: "Bookmarked", Active: true},
			{Key: "w", Label: "Watch"},
		},
		Width: 80,
	})
	assert.Contains(t, out, flagSymbol)
	assert.Contains(t, out, "Flooding in the valley")
	assert.Contains(t, out, "[b] Bookmarked*")
	assert.Contains(t, out, "[w] Watch")
	assert.NotContains(t, out, "Watch*")
	assert.LessOrEqual(t, lipgloss.Width(out), 80)
}

func TestRowTruncatesLongTitles(t *testing.T) {
	out := Row(ArticleRow{Title: strings.Repeat("headline ", 20), Toggles: []Toggle{{Key: "w", Label: "Watch"}}, Width: 50})
	assert.Contains(t, out, ellipsis)
	assert.Contains(t, out, "[w] Watch")
	assert.LessOrEqual(t, lipgloss.Width(out), 50)
}

func TestRenderIconRow(t *testing.T) {
	out := RenderIconRow(IconRow{Label: "Wire service", Src: "/static/icons/7.png", Width: 80})
	assert.Contains(t, out, "Wire service")
	assert.Contains(t, out, "/static/icons/7.png")
}

func TestFooter(t *testing.T) {
	out := Footer(FooterState{HasMore: true, HasIcons: true, Pending: 2, Width: 200})
	assert.Contains(t, out, "m: more")
	assert.Contains(t, out, "u: upload icon")
	assert.Contains(t, out, "2 pending")

	out = Footer(FooterState{Width: 200})
	assert.NotContains(t, out, "m: more")
	assert.NotContains(t, out, "pending")

	out = Footer(FooterState{UploadMode: true, UploadInput: "/tmp/logo.png", Width: 200})
	assert.Contains(t, out, "Icon file: /tmp/logo.png")
	assert.NotContains(t, out, "b: bookmark")
}

func TestBubbleHiddenIsBlank(t *testing.T) {
	out := Bubble(toast.Bubble{Height: 3, Offset: 3}, 40)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	for _, l := range lines {
		assert.Empty(t, l)
	}

	out = Bubble(toast.Bubble{Visible: false, Offset: 0, Height: 3, Message: "gone"}, 40)
	assert.NotContains(t, out, "gone")
}

func TestBubbleFullyShown(t *testing.T) {
	out := Bubble(toast.Bubble{Visible: true, Message: "Rate limited", Offset: 0, Opacity: 1, Height: 3}, 40)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Rate limited")
}

func TestBubbleClippedByOffset(t *testing.T) {
	out := Bubble(toast.Bubble{Visible: true, Message: "Rate limited", Offset: 2, Opacity: 0.3, Height: 3}, 40)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Empty(t, lines[0])
	assert.Empty(t, lines[1])
	assert.NotEmpty(t, lines[2])
	assert.NotContains(t, out, "Rate limited")

	out = Bubble(toast.Bubble{Visible: true, Message: "Rate limited", Offset: 1, Opacity: 0.6, Height: 3}, 40)
	lines = strings.Split(out, "\n")
	assert.Empty(t, lines[0])
	assert.Contains(t, lines[2], "Rate limited")
}

func TestBubbleDefaultHeight(t *testing.T) {
	out := Bubble(toast.Bubble{}, 40)
	assert.Len(t, strings.Split(out, "\n"), toast.DefaultHeight)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hel...", truncate("hello world", 6))
	assert.Equal(t, "he", truncate("hello", 2))
	assert.Equal(t, "", truncate("hello", 0))
}

func TestAnsiColorNumber(t *testing.T) {
	assert.Equal(t, "34", ansiColorNumber(colors.Blue))
	assert.Equal(t, "31", ansiColorNumber(colors.Red))
	assert.Equal(t, "", ansiColorNumber("x"))
}
