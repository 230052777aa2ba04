package state

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/argosnews/argosctl/internal/action"
	"github.com/argosnews/argosctl/internal/argostest"
	"github.com/argosnews/argosctl/internal/client"
	"github.com/argosnews/argosctl/internal/dispatch"
	"github.com/argosnews/argosctl/internal/toast"
	"github.com/argosnews/argosctl/internal/upload"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type fixture struct {
	srv      *argostest.Server
	clock    *toast.ManualClock
	notifier *toast.Notifier
	model    *Model
	shown    []string
}

func newFixture(t *testing.T, path string, setup ...func(*argostest.Server)) *fixture {
	t.Helper()
	srv := argostest.New(t)
	for _, fn := range setup {
		fn(srv)
	}
	c, err := client.New(client.Config{BaseURL: srv.URL, RatePerSecond: 1000, Burst: 100}, nil)
	require.NoError(t, err)

	f := &fixture{srv: srv, clock: toast.NewManualClock(time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC))}
	f.notifier = toast.New(toast.Options{
		Clock:  f.clock,
		OnShow: func(msg string) { f.shown = append(f.shown, msg) },
	})
	m, err := NewModel(Options{
		Fetcher:    c,
		Dispatcher: dispatch.New(c, f.notifier, nil),
		Uploader:   upload.New(c, f.notifier, upload.DefaultPolicy(), nil),
		Notifier:   f.notifier,
		Path:       path,
	})
	require.NoError(t, err)
	f.model = m

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	f.run(t, m.Init())
	return f
}

// run executes cmd and feeds its message back into the model.
func (f *fixture) run(t *testing.T, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	require.NotNil(t, cmd)
	_, next := f.model.Update(cmd())
	return next
}

func (f *fixture) press(key string) tea.Cmd {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := f.model.Update(msg)
	return cmd
}

func TestNewModelRequiresCollaborators(t *testing.T) {
	_, err := NewModel(Options{})
	assert.Error(t, err)
}

func TestInitLoadsArticles(t *testing.T) {
	f := newFixture(t, "/")

	require.NotNil(t, f.model.Document())
	assert.Len(t, f.model.rows, 2)
	view := f.model.View()
	assert.Contains(t, view, "The latest events")
	assert.Contains(t, view, "Flooding in the valley")
	assert.Contains(t, view, "[w] Watch")
	assert.Contains(t, view, "m: more")
}

func TestWatchKeyTogglesSelectedArticle(t *testing.T) {
	f := newFixture(t, "/")

	assert.Nil(t, f.press("j"))
	cmd := f.press("w")
	assert.Equal(t, 1, f.model.Pending())
	assert.Nil(t, f.run(t, cmd))
	assert.Zero(t, f.model.Pending())

	c, ok := f.model.Document().Articles()[1].Toggle(action.Watch)
	require.True(t, ok)
	assert.Equal(t, action.ToggleState{Method: http.MethodDelete, Label: "Watching", Active: true}, c.State())
	assert.True(t, f.srv.Watching(20))
	assert.False(t, f.srv.Watching(10))
	assert.Contains(t, f.model.View(), "[w] Watching*")
}

func TestBookmarkKeyShowsFlag(t *testing.T) {
	f := newFixture(t, "/")

	f.run(t, f.press("b"))
	assert.True(t, f.model.Document().Articles()[0].Bookmarked)
	assert.True(t, f.srv.Bookmarked(1))

	f.run(t, f.press("b"))
	assert.False(t, f.model.Document().Articles()[0].Bookmarked)
	assert.False(t, f.srv.Bookmarked(1))
}

func TestFailedActionShowsToast(t *testing.T) {
	f := newFixture(t, "/")
	f.srv.FailNext("/watch", http.StatusTooManyRequests, "Rate limited")

	next := f.run(t, f.press("w"))
	require.NotNil(t, next, "the frame ticker starts")
	assert.True(t, f.model.ticking)

	c, _ := f.model.Document().Articles()[0].Toggle(action.Watch)
	assert.Equal(t, action.InactiveState(action.Watch), c.State())
	assert.Equal(t, "Rate limited", f.model.Document().BubbleText())
	assert.Equal(t, []string{"Rate limited"}, f.shown)

	f.clock.Advance(toast.DefaultTransition)
	assert.Contains(t, f.model.View(), "Rate limited")

	_, next = f.model.Update(frameMsg(f.clock.Now()))
	assert.NotNil(t, next)

	f.clock.Advance(toast.DefaultDwell + toast.DefaultTransition)
	_, next = f.model.Update(frameMsg(f.clock.Now()))
	assert.Nil(t, next)
	assert.False(t, f.model.ticking)
	assert.NotContains(t, f.model.View(), "Rate limited")
}

func TestMoreReplacesList(t *testing.T) {
	f := newFixture(t, "/")

	f.run(t, f.press("m"))
	require.Len(t, f.model.rows, 1)
	assert.Equal(t, "Central bank holds rates", f.model.rows[0].article.Title)
	assert.Contains(t, f.model.View(), "Central bank holds rates")
}

func TestReloadKeepsServerState(t *testing.T) {
	f := newFixture(t, "/")
	f.run(t, f.press("w"))

	f.run(t, f.press("r"))
	c, _ := f.model.Document().Articles()[0].Toggle(action.Watch)
	assert.True(t, c.State().Active)
}

func TestActionOnIconRowWarns(t *testing.T) {
	f := newFixture(t, "/admin/sources")

	require.Len(t, f.model.rows, 1)
	cmd := f.press("b")
	assert.NotNil(t, cmd)
	assert.Equal(t, []string{"Select an article first"}, f.shown)
	assert.Zero(t, f.model.Pending())
}

func TestUploadIcon(t *testing.T) {
	f := newFixture(t, "/admin/sources")
	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o644))

	f.press("u")
	require.True(t, f.model.uiState.IsUploadMode())
	assert.Contains(t, f.model.View(), "Enter: upload")
	f.press(path)

	cmd := f.press("enter")
	assert.False(t, f.model.uiState.IsUploadMode())
	f.run(t, cmd)

	icon, ok := f.model.Document().Icon("7")
	require.True(t, ok)
	assert.Equal(t, "/static/icons/7/logo.png", icon.Src())
	data, ok := f.srv.Uploaded(7)
	require.True(t, ok)
	assert.Equal(t, pngHeader, data)
	assert.Empty(t, f.shown)
}

func TestUploadRefusedFile(t *testing.T) {
	f := newFixture(t, "/admin/sources")
	path := filepath.Join(t.TempDir(), "logo.bmp")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o644))

	f.press("u")
	f.press(path)
	f.press("enter")

	assert.Zero(t, f.model.Pending())
	assert.Equal(t, []string{"FileExtensionNotAllowed"}, f.shown)
	_, uploaded := f.srv.Uploaded(7)
	assert.False(t, uploaded)
}

func TestUploadCancelled(t *testing.T) {
	f := newFixture(t, "/admin/sources")

	f.press("u")
	f.press("esc")
	assert.False(t, f.model.uiState.IsUploadMode())
	assert.Nil(t, f.press("enter"))
}

func TestPageLoadFailureNotifies(t *testing.T) {
	f := newFixture(t, "/", func(srv *argostest.Server) {
		srv.FailNext("/", http.StatusInternalServerError, "Server down")
	})

	assert.Nil(t, f.model.Document())
	assert.Equal(t, []string{"Server down"}, f.shown)
	assert.Contains(t, f.model.View(), "Nothing to show")
}

func TestOutcomesResolveAgainstCapturedControls(t *testing.T) {
	f := newFixture(t, "/")

	first := f.press("w")
	f.press("j")
	second := f.press("w")
	assert.Equal(t, 2, f.model.Pending())

	f.run(t, second)
	f.run(t, first)

	articles := f.model.Document().Articles()
	for _, a := range articles {
		c, _ := a.Toggle(action.Watch)
		assert.True(t, c.State().Active, a.Title)
	}
}

func TestQuit(t *testing.T) {
	f := newFixture(t, "/")
	cmd := f.press("q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestCursorStaysInBounds(t *testing.T) {
	f := newFixture(t, "/")
	for i := 0; i < 5; i++ {
		f.press("j")
	}
	assert.Equal(t, 1, f.model.uiState.GetCursor())
	for i := 0; i < 5; i++ {
		f.press("k")
	}
	assert.Equal(t, 0, f.model.uiState.GetCursor())
}

func TestContextCancellationSurfacesAsToast(t *testing.T) {
	f := newFixture(t, "/")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.model.opts.Context = ctx

	f.run(t, f.press("w"))
	require.Len(t, f.shown, 1)
	assert.Contains(t, f.shown[0], "context canceled")
}
