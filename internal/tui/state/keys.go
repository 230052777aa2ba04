package state

import (
	"fmt"
	"strings"

	"github.com/argosnews/argosctl/internal/action"
	"github.com/argosnews/argosctl/internal/page"
	"github.com/argosnews/argosctl/internal/upload"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyMsg processes keyboard input for the TUI.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.uiState.IsUploadMode() {
		return m.handleUploadInput(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "j", "down":
		m.uiState.CursorDown(len(m.rows))
		m.uiState.EnsureCursorVisible(len(m.rows))
		m.updateViewportContent()
	case "k", "up":
		m.uiState.CursorUp()
		m.uiState.EnsureCursorVisible(len(m.rows))
		m.updateViewportContent()
	case "b":
		return m, m.toggle(action.Bookmark)
	case "w":
		return m, m.toggle(action.Watch)
	case "m":
		return m, m.more()
	case "u":
		return m, m.beginUpload()
	case "r":
		return m, m.load(m.ref)
	}
	return m, nil
}

func (m *Model) handleUploadInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.uiState.SetUploadMode(false)
		return m, nil
	case tea.KeyEnter:
		return m, m.submitUpload()
	}
	input := m.uiState.GetInput()
	var cmd tea.Cmd
	*input, cmd = input.Update(msg)
	return m, cmd
}

// toggle sends the selected article's toggle of kind.
func (m *Model) toggle(kind action.Kind) tea.Cmd {
	r, ok := m.selected()
	if !ok || r.kind != rowArticle {
		m.errorHandler.Warning("Select an article first")
		return m.frameCmd()
	}
	c, ok := r.article.Toggle(kind)
	if !ok {
		m.errorHandler.Warning(fmt.Sprintf("No %s action on this article", kind))
		return m.frameCmd()
	}
	return m.send(c)
}

// more loads the next articles into the list.
func (m *Model) more() tea.Cmd {
	if m.doc == nil {
		return nil
	}
	controls := m.doc.MoreControls()
	if len(controls) == 0 {
		m.errorHandler.Info("No more articles")
		return m.frameCmd()
	}
	return m.send(controls[0])
}

func (m *Model) send(c page.Control) tea.Cmd {
	desc, err := c.Descriptor()
	if err != nil {
		m.logger.Error("invalid control", "mapping", c.Attr("data-mapping"), "error", err)
		return nil
	}
	m.pending++
	ctx, d, doc := m.opts.Context, m.opts.Dispatcher, m.doc
	return func() tea.Msg {
		return actionDoneMsg{doc: doc, control: c, desc: desc, outcome: d.Request(ctx, desc)}
	}
}

func (m *Model) beginUpload() tea.Cmd {
	r, ok := m.selected()
	if !ok || r.kind != rowIcon {
		m.errorHandler.Warning("Select a source icon first")
		return m.frameCmd()
	}
	m.uploadSource = r.icon.SourceID()
	m.uiState.SetUploadMode(true)
	return textinput.Blink
}

func (m *Model) submitUpload() tea.Cmd {
	path := strings.TrimSpace(m.uiState.GetInput().Value())
	m.uiState.SetUploadMode(false)
	if path == "" {
		return nil
	}

	f, err := upload.ReadFile(path)
	if err != nil {
		m.errorHandler.Error(err.Error())
		return m.frameCmd()
	}
	if err := m.opts.Uploader.Check([]upload.File{f}); err != nil {
		return m.frameCmd()
	}

	m.pending++
	ctx, u, doc, source := m.opts.Context, m.opts.Uploader, m.doc, m.uploadSource
	return func() tea.Msg {
		return uploadDoneMsg{doc: doc, sourceID: source, result: u.Request(ctx, source, f)}
	}
}
