package state

import (
	"strings"

	"github.com/argosnews/argosctl/internal/action"
	"github.com/argosnews/argosctl/internal/page"
	"github.com/argosnews/argosctl/internal/tui/render"
)

var toggleKeys = map[action.Kind]string{
	action.Bookmark: "b",
	action.Watch:    "w",
}

// View renders the TUI.
func (m *Model) View() string {
	width := m.uiState.GetWidth()

	var s strings.Builder
	title := ""
	if m.doc != nil {
		title = m.doc.Title()
	}
	s.WriteString(render.Header(render.HeaderState{Title: title, URL: m.url, Width: width}))
	s.WriteString("\n")
	s.WriteString(m.uiState.GetViewport().View())
	s.WriteString("\n")
	s.WriteString(render.Bubble(m.opts.Notifier.Snapshot(), width))
	s.WriteString("\n")

	hasMore := m.doc != nil && len(m.doc.MoreControls()) > 0
	hasIcons := false
	for _, r := range m.rows {
		if r.kind == rowIcon {
			hasIcons = true
			break
		}
	}
	s.WriteString(render.Footer(render.FooterState{
		UploadMode:  m.uiState.IsUploadMode(),
		UploadInput: m.uiState.GetInput().View(),
		HasMore:     hasMore,
		HasIcons:    hasIcons,
		Pending:     m.pending,
		Width:       width,
	}))
	return s.String()
}

// updateViewportContent redraws the rows into the viewport.
func (m *Model) updateViewportContent() {
	width := m.uiState.GetWidth()
	cursor := m.uiState.GetCursor()

	if len(m.rows) == 0 {
		m.uiState.GetViewport().SetContent(render.Empty())
		return
	}

	lines := make([]string, 0, len(m.rows))
	for i, r := range m.rows {
		switch r.kind {
		case rowArticle:
			lines = append(lines, render.Row(render.ArticleRow{
				Title:      r.article.Title,
				Bookmarked: r.article.Bookmarked,
				Toggles:    toggles(r.article),
				Selected:   i == cursor,
				Width:      width,
			}))
		case rowIcon:
			lines = append(lines, render.RenderIconRow(render.IconRow{
				Label:    r.icon.Label(),
				Src:      r.icon.Src(),
				Selected: i == cursor,
				Width:    width,
			}))
		}
	}
	m.uiState.GetViewport().SetContent(strings.Join(lines, "\n"))
}

func toggles(a page.Article) []render.Toggle {
	var out []render.Toggle
	for _, kind := range action.Kinds {
		key, ok := toggleKeys[kind]
		if !ok {
			continue
		}
		c, ok := a.Toggle(kind)
		if !ok {
			continue
		}
		out = append(out, render.Toggle{Key: key, Label: c.Label(), Active: c.State().Active})
	}
	return out
}
