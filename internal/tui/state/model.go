package state

import (
	"context"
	"fmt"
	"time"

	"github.com/argosnews/argosctl/internal/client"
	"github.com/argosnews/argosctl/internal/dispatch"
	"github.com/argosnews/argosctl/internal/errors"
	"github.com/argosnews/argosctl/internal/logging"
	"github.com/argosnews/argosctl/internal/page"
	"github.com/argosnews/argosctl/internal/toast"
	"github.com/argosnews/argosctl/internal/upload"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	headerFooterLines     = 2
	defaultViewportWidth  = 80
	defaultViewportHeight = 24
	frameInterval         = 16 * time.Millisecond
)

// Fetcher loads pages from the server.
type Fetcher interface {
	Get(ctx context.Context, ref string) (client.Response, error)
}

// Options wires the model to its collaborators. The dispatcher and the
// uploader must notify through Notifier.
type Options struct {
	Context    context.Context
	Fetcher    Fetcher
	Dispatcher *dispatch.Dispatcher
	Uploader   *upload.Uploader
	Notifier   *toast.Notifier
	Path       string
	Logger     logging.Logger
}

type rowKind int

const (
	rowArticle rowKind = iota
	rowIcon
)

type row struct {
	kind    rowKind
	article page.Article
	icon    page.Icon
}

// Model represents the TUI model for bubbletea.
type Model struct {
	uiState      *UIState
	errorHandler *errors.TUIHandler
	opts         Options
	logger       logging.Logger

	doc  *page.Document
	url  string
	ref  string
	rows []row

	pending      int
	ticking      bool
	uploadSource string
}

// NewModel creates a new TUI model. Nothing is fetched until Init runs.
func NewModel(opts Options) (*Model, error) {
	if opts.Fetcher == nil || opts.Dispatcher == nil || opts.Uploader == nil || opts.Notifier == nil {
		return nil, fmt.Errorf("tui: fetcher, dispatcher, uploader and notifier are required")
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Path == "" {
		opts.Path = "/"
	}
	if opts.Logger == nil {
		opts.Logger = logging.Noop()
	}

	return &Model{
		uiState:      NewUIState(),
		errorHandler: errors.NewTUIHandler(opts.Notifier),
		opts:         opts,
		logger:       opts.Logger.With("component", "tui"),
		ref:          opts.Path,
	}, nil
}

// Init loads the start page.
func (m *Model) Init() tea.Cmd {
	return m.load(m.ref)
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.uiState.SetSize(msg.Width, msg.Height)
		m.updateViewportContent()
		return m, nil
	case pageLoadedMsg:
		return m.handlePageLoaded(msg)
	case actionDoneMsg:
		return m.handleActionDone(msg)
	case uploadDoneMsg:
		return m.handleUploadDone(msg)
	case frameMsg:
		return m.handleFrame()
	}
	return m, nil
}

// Document returns the page on display, nil before the first load.
func (m *Model) Document() *page.Document {
	return m.doc
}

// Pending returns the number of requests in flight.
func (m *Model) Pending() int {
	return m.pending
}

func (m *Model) load(ref string) tea.Cmd {
	ctx, fetcher := m.opts.Context, m.opts.Fetcher
	return func() tea.Msg {
		resp, err := fetcher.Get(ctx, ref)
		if err != nil {
			return pageLoadedMsg{ref: ref, err: err}
		}
		if !resp.OK() {
			return pageLoadedMsg{ref: ref, url: resp.URL, status: resp.Status, body: resp.Body}
		}
		doc, err := page.ParseString(resp.Body)
		if err != nil {
			return pageLoadedMsg{ref: ref, url: resp.URL, err: err}
		}
		return pageLoadedMsg{ref: ref, url: resp.URL, doc: doc, status: resp.Status}
	}
}

func (m *Model) handlePageLoaded(msg pageLoadedMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.err != nil:
		m.logger.Warn("page load failed", "ref", msg.ref, "error", msg.err)
		m.errorHandler.Error(msg.err.Error())
	case msg.doc == nil:
		m.logger.Info("page load refused", "ref", msg.ref, "status", msg.status)
		m.opts.Notifier.Notify(msg.body)
	default:
		if msg.ref != m.ref || m.doc == nil {
			m.uiState.SetCursor(0)
		}
		m.doc = msg.doc
		m.url = msg.url
		m.ref = msg.ref
		m.opts.Notifier.SetSurface(msg.doc)
		m.logger.Debug("page loaded", "url", msg.url)
	}
	m.rebuildRows()
	return m, m.frameCmd()
}

func (m *Model) handleActionDone(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	m.pending--
	if err := m.opts.Dispatcher.Resolve(msg.doc, msg.control, msg.desc, msg.outcome); err != nil {
		m.logger.Debug("action not applied", "kind", msg.desc.Kind.String(), "error", err)
	}
	m.rebuildRows()
	return m, m.frameCmd()
}

func (m *Model) handleUploadDone(msg uploadDoneMsg) (tea.Model, tea.Cmd) {
	m.pending--
	if err := m.opts.Uploader.Resolve(msg.doc, msg.sourceID, msg.result); err != nil {
		m.logger.Debug("icon not updated", "source", msg.sourceID, "error", err)
	}
	m.rebuildRows()
	return m, m.frameCmd()
}

func (m *Model) handleFrame() (tea.Model, tea.Cmd) {
	if m.doc != nil {
		m.doc.RenderBubble(m.opts.Notifier.Snapshot())
	}
	if !m.opts.Notifier.Animating() {
		m.ticking = false
		return m, nil
	}
	return m, tick()
}

// frameCmd starts the frame ticker if the bubble has started animating.
func (m *Model) frameCmd() tea.Cmd {
	if m.ticking || !m.opts.Notifier.Animating() {
		return nil
	}
	m.ticking = true
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *Model) rebuildRows() {
	m.rows = m.rows[:0]
	if m.doc != nil {
		for _, a := range m.doc.Articles() {
			m.rows = append(m.rows, row{kind: rowArticle, article: a})
		}
		for _, i := range m.doc.Icons() {
			m.rows = append(m.rows, row{kind: rowIcon, icon: i})
		}
	}
	m.uiState.AdjustCursorBounds(len(m.rows))
	m.updateViewportContent()
}

func (m *Model) selected() (row, bool) {
	cursor := m.uiState.GetCursor()
	if cursor < 0 || cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[cursor], true
}
