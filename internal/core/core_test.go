package core

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/argosnews/argosctl/internal/action"
	"github.com/argosnews/argosctl/internal/argostest"
	"github.com/argosnews/argosctl/internal/client"
	"github.com/argosnews/argosctl/internal/dispatch"
	"github.com/argosnews/argosctl/internal/hooks"
	"github.com/argosnews/argosctl/internal/search"
	"github.com/argosnews/argosctl/internal/storage"
	"github.com/argosnews/argosctl/internal/toast"
	"github.com/argosnews/argosctl/internal/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type console struct {
	mu       sync.Mutex
	messages []string
}

func (c *console) Notify(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, message)
}

func (c *console) Messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.messages...)
}

type fixture struct {
	server  *argostest.Server
	console *console
	history storage.History
	core    *Core
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithHooks(t, nil)
}

func newFixtureWithHooks(t *testing.T, runner *hooks.Runner) *fixture {
	t.Helper()
	server := argostest.New(t)
	c, err := client.New(client.Config{BaseURL: server.URL, RatePerSecond: 1000, Burst: 100}, nil)
	require.NoError(t, err)
	history, err := storage.Open(filepath.Join(t.TempDir(), "history.db"), 100)
	require.NoError(t, err)

	out := &console{}
	core, err := NewCore(Options{
		Client:  c,
		History: history,
		Hooks:   runner,
		Console: out,
		Clock:   toast.NewManualClock(time.Unix(0, 0)),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = core.Close() })
	return &fixture{server: server, console: out, history: history, core: core}
}

func TestNewCoreRequiresCollaborators(t *testing.T) {
	_, err := NewCore(Options{Console: &console{}})
	require.Error(t, err)

	c, err := client.New(client.Config{BaseURL: "http://localhost"}, nil)
	require.NoError(t, err)
	_, err = NewCore(Options{Client: c})
	require.Error(t, err)

	core, err := NewCore(Options{Client: c, Console: &console{}})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost", core.BaseURL())
	require.NoError(t, core.Close())
}

func TestToggleURL(t *testing.T) {
	tests := []struct {
		name    string
		kind    action.Kind
		id      string
		want    string
		wantErr error
	}{
		{name: "bookmark", kind: action.Bookmark, id: "5", want: "/bookmark?event_id=5"},
		{name: "watch", kind: action.Watch, id: " 12 ", want: "/watch?story_id=12"},
		{name: "not numeric", kind: action.Bookmark, id: "abc", wantErr: ErrInvalidID},
		{name: "zero", kind: action.Watch, id: "0", wantErr: ErrInvalidID},
		{name: "unknown kind", kind: action.Kind(99), id: "1", wantErr: action.ErrUnknownMapping},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToggleURL(tt.kind, tt.id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ToggleURL(action.Articles, "1")
	require.Error(t, err)
}

func TestToggleBookmark(t *testing.T) {
	f := newFixture(t)

	state, err := f.core.Toggle(context.Background(), action.Bookmark, "1", false)
	require.NoError(t, err)
	assert.True(t, state.Active)
	assert.Equal(t, http.MethodDelete, state.Method)
	assert.Equal(t, "Bookmarked", state.Label)
	assert.True(t, state.FlagVisible)
	assert.True(t, f.server.Bookmarked(1))

	state, err = f.core.Toggle(context.Background(), action.Bookmark, "1", true)
	require.NoError(t, err)
	assert.False(t, state.Active)
	assert.Equal(t, http.MethodPost, state.Method)
	assert.Equal(t, "Bookmark", state.Label)
	assert.False(t, state.FlagVisible)
	assert.False(t, f.server.Bookmarked(1))

	assert.Empty(t, f.console.Messages())
}

func TestToggleWatchSendsAjaxRequest(t *testing.T) {
	f := newFixture(t)

	state, err := f.core.Toggle(context.Background(), action.Watch, "20", false)
	require.NoError(t, err)
	assert.Equal(t, action.ActiveState(action.Watch), state)
	assert.True(t, f.server.Watching(20))

	reqs := f.server.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/watch", reqs[0].Path)
	assert.Equal(t, "story_id=20", reqs[0].Query)
	assert.Equal(t, "XMLHttpRequest", reqs[0].RequestedWith)
}

func TestToggleFailureIsNotifiedAndRecorded(t *testing.T) {
	f := newFixture(t)
	f.server.FailNext("/bookmark", http.StatusTooManyRequests, "Rate limited")

	state, err := f.core.Toggle(context.Background(), action.Bookmark, "2", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotified)
	assert.ErrorIs(t, err, dispatch.ErrRequestFailed)
	assert.Equal(t, action.InactiveState(action.Bookmark), state)
	assert.False(t, f.server.Bookmarked(2))
	assert.Equal(t, []string{"Rate limited"}, f.console.Messages())

	entries, err := f.core.History(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Rate limited", entries[0].Message)
	assert.Equal(t, "bookmark", entries[0].Source)
}

func TestToggleInvalidIDSendsNothing(t *testing.T) {
	f := newFixture(t)

	_, err := f.core.Toggle(context.Background(), action.Watch, "x", false)
	require.ErrorIs(t, err, ErrInvalidID)
	assert.NotErrorIs(t, err, ErrNotified)
	assert.Empty(t, f.server.Requests())
	assert.Empty(t, f.console.Messages())
}

func TestMore(t *testing.T) {
	f := newFixture(t)

	articles, err := f.core.More(context.Background(), "/feed?page=2")
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Central bank holds rates", articles[0].Title)

	reqs := f.server.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodGet, reqs[0].Method)
}

func TestMoreFailure(t *testing.T) {
	f := newFixture(t)

	_, err := f.core.More(context.Background(), "/feed?page=9")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotified)
	assert.Len(t, f.console.Messages(), 1)

	_, err = f.core.More(context.Background(), "  ")
	require.Error(t, err)
}

func TestUploadIcon(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o644))

	src, err := f.core.UploadIcon(context.Background(), "7", path)
	require.NoError(t, err)
	assert.Equal(t, "/static/icons/7/logo.png", src)

	data, ok := f.server.Uploaded(7)
	require.True(t, ok)
	assert.Equal(t, pngHeader, data)
	assert.Empty(t, f.console.Messages())
}

func TestUploadIconRefusedByPolicy(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	_, err := f.core.UploadIcon(context.Background(), "7", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotified)
	assert.ErrorIs(t, err, upload.ErrFileTypeNotAllowed)
	assert.Equal(t, []string{"ErrFileTypeNotAllowed"}, f.console.Messages())
	assert.Empty(t, f.server.Requests())
}

func TestUploadIconInvalidInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.core.UploadIcon(context.Background(), "seven", "logo.png")
	require.ErrorIs(t, err, ErrInvalidID)

	_, err = f.core.UploadIcon(context.Background(), "7", filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotified)
}

func TestHistoryAndClear(t *testing.T) {
	f := newFixture(t)
	_, err := f.history.Record("first", "watch")
	require.NoError(t, err)
	_, err = f.history.Record("second", "bookmark")
	require.NoError(t, err)

	entries, err := f.core.History(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "second", entries[0].Message)

	n, err := f.core.ClearHistory()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	entries, err = f.core.History(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSearchHistory(t *testing.T) {
	f := newFixture(t)
	for _, msg := range []string{"Rate limited", "Unauthorized", "rate table full"} {
		_, err := f.history.Record(msg, "watch")
		require.NoError(t, err)
	}

	entries, err := f.core.SearchHistory(search.NewSubstringProvider(search.WithCaseInsensitive(true)), "rate", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "rate table full", entries[0].Message)
	assert.Equal(t, "Rate limited", entries[1].Message)

	entries, err = f.core.SearchHistory(search.NewRegexProvider(), "^Un", 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Unauthorized", entries[0].Message)
}

func TestBrowseModel(t *testing.T) {
	f := newFixture(t)

	m, err := f.core.BrowseModel(context.Background(), "/")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.NotNil(t, m.Init())
}

func TestConsoleNotifierWrap(t *testing.T) {
	f := newFixture(t)
	n := f.core.notifier("test")
	base := errors.New("boom")

	assert.NoError(t, n.wrap(nil))
	assert.Equal(t, base, n.wrap(base))

	n.Notify("boom")
	err := n.wrap(base)
	assert.ErrorIs(t, err, ErrNotified)
	assert.ErrorIs(t, err, base)
}

func writeHook(t *testing.T, dir, point, body string) {
	t.Helper()
	hookDir := filepath.Join(dir, point)
	require.NoError(t, os.MkdirAll(hookDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(hookDir, "hook.sh"), []byte("#!/bin/sh\n"+body+"\n"), 0o755))
}

func readTrimmed(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.TrimSpace(string(data))
}

func TestToggleRunsPostToggleHook(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "toggle.txt")
	writeHook(t, dir, hooks.PointPostToggle, `echo "$ARGOS_KIND $ARGOS_ID $ARGOS_ACTIVE $ARGOS_LABEL" > "`+out+`"`)
	f := newFixtureWithHooks(t, hooks.New(hooks.Options{Dir: dir}))

	_, err := f.core.Toggle(context.Background(), action.Watch, "10", false)
	require.NoError(t, err)
	assert.Equal(t, "watch 10 true Watching", readTrimmed(t, out))
}

func TestToggleAbortingHookFails(t *testing.T) {
	dir := t.TempDir()
	writeHook(t, dir, hooks.PointPostToggle, "exit 1")
	f := newFixtureWithHooks(t, hooks.New(hooks.Options{Dir: dir, FailureMode: hooks.FailAbort}))

	state, err := f.core.Toggle(context.Background(), action.Bookmark, "1", false)
	require.ErrorIs(t, err, hooks.ErrHookFailed)
	assert.True(t, state.Active)
	assert.True(t, f.server.Bookmarked(1))
}

func TestFailureRunsNotifyHook(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "notify.txt")
	writeHook(t, dir, hooks.PointNotify, `echo "$ARGOS_SOURCE: $ARGOS_MESSAGE" > "`+out+`"`)
	runner := hooks.New(hooks.Options{Dir: dir})
	f := newFixtureWithHooks(t, runner)
	f.server.FailNext("/watch", http.StatusInternalServerError, "Server error")

	_, err := f.core.Toggle(context.Background(), action.Watch, "20", false)
	require.Error(t, err)
	runner.Wait()
	assert.Equal(t, "watch: Server error", readTrimmed(t, out))
}

func TestUploadIconRunsPostUploadHook(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "upload.txt")
	writeHook(t, dir, hooks.PointPostUpload, `echo "$ARGOS_SOURCE_ID $ARGOS_ICON_URL" > "`+out+`"`)
	f := newFixtureWithHooks(t, hooks.New(hooks.Options{Dir: dir}))
	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o644))

	_, err := f.core.UploadIcon(context.Background(), "7", path)
	require.NoError(t, err)
	assert.Equal(t, "7 /static/icons/7/logo.png", readTrimmed(t, out))
}
