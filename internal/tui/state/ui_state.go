package state

import (
	"github.com/argosnews/argosctl/internal/toast"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
)

// UIState manages the UI-specific state of the browser: viewport, cursor
// and the upload path prompt.
type UIState struct {
	viewport viewport.Model
	input    textinput.Model
	width    int
	height   int
	cursor   int

	uploadMode bool
}

// NewUIState creates a new UIState instance with default values.
func NewUIState() *UIState {
	input := textinput.New()
	input.Placeholder = "path/to/icon.png"
	input.Prompt = ""
	input.CharLimit = 4096

	u := &UIState{
		viewport: viewport.New(defaultViewportWidth, defaultViewportHeight),
		input:    input,
		width:    defaultViewportWidth,
		height:   defaultViewportHeight,
	}
	u.UpdateViewportSize()
	return u
}

// GetViewport returns the current viewport model.
func (u *UIState) GetViewport() *viewport.Model {
	return &u.viewport
}

// GetInput returns the upload path input.
func (u *UIState) GetInput() *textinput.Model {
	return &u.input
}

// GetWidth returns the current width of the UI.
func (u *UIState) GetWidth() int {
	return u.width
}

// SetSize updates the terminal size and resizes the viewport.
func (u *UIState) SetSize(width, height int) {
	u.width = width
	if width <= 0 {
		u.width = defaultViewportWidth
	}
	u.height = height
	if height <= 0 {
		u.height = defaultViewportHeight
	}
	u.UpdateViewportSize()
}

// UpdateViewportSize fits the viewport between the header, the bubble area
// and the footer.
func (u *UIState) UpdateViewportSize() {
	viewportHeight := u.height - headerFooterLines - toast.DefaultHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	u.viewport.Width = u.width
	u.viewport.Height = viewportHeight
}

// GetCursor returns the current cursor position.
func (u *UIState) GetCursor() int {
	return u.cursor
}

// SetCursor updates the cursor position.
func (u *UIState) SetCursor(cursor int) {
	u.cursor = cursor
	if u.cursor < 0 {
		u.cursor = 0
	}
}

// CursorUp moves the cursor up one row.
func (u *UIState) CursorUp() {
	if u.cursor > 0 {
		u.cursor--
	}
}

// CursorDown moves the cursor down one row.
func (u *UIState) CursorDown(listLen int) {
	if u.cursor < listLen-1 {
		u.cursor++
	}
}

// EnsureCursorVisible adjusts the viewport to ensure the cursor is visible.
func (u *UIState) EnsureCursorVisible(listLen int) {
	if listLen == 0 {
		return
	}
	lineOffset := u.viewport.YOffset
	viewportHeight := u.viewport.Height

	if u.cursor < lineOffset {
		u.viewport.SetYOffset(u.cursor)
	}
	if u.cursor >= lineOffset+viewportHeight {
		u.viewport.SetYOffset(u.cursor - viewportHeight + 1)
	}
}

// AdjustCursorBounds ensures the cursor is within valid bounds.
func (u *UIState) AdjustCursorBounds(listLen int) {
	if listLen == 0 {
		u.cursor = 0
		return
	}
	if u.cursor >= listLen {
		u.cursor = listLen - 1
	}
	if u.cursor < 0 {
		u.cursor = 0
	}
}

// IsUploadMode reports whether the upload path prompt is open.
func (u *UIState) IsUploadMode() bool {
	return u.uploadMode
}

// SetUploadMode opens or closes the upload path prompt.
func (u *UIState) SetUploadMode(active bool) {
	u.uploadMode = active
	if active {
		u.input.SetValue("")
		u.input.Focus()
		return
	}
	u.input.Blur()
}
