package core

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/argosnews/argosctl/internal/action"
	"github.com/argosnews/argosctl/internal/dispatch"
	"github.com/argosnews/argosctl/internal/hooks"
	"github.com/argosnews/argosctl/internal/page"
	"github.com/argosnews/argosctl/internal/search"
	"github.com/argosnews/argosctl/internal/storage"
	"github.com/argosnews/argosctl/internal/toast"
	"github.com/argosnews/argosctl/internal/tui/state"
	"github.com/argosnews/argosctl/internal/upload"
)

// ErrInvalidID is returned for ids that are not positive integers.
var ErrInvalidID = errors.New("invalid id")

// ToggleURL is the endpoint a toggle of kind uses for id.
func ToggleURL(kind action.Kind, id string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil || n <= 0 {
		return "", fmt.Errorf("core: %w: %q", ErrInvalidID, id)
	}
	q := url.Values{}
	switch kind {
	case action.Bookmark:
		q.Set("event_id", strconv.Itoa(n))
		return "/bookmark?" + q.Encode(), nil
	case action.Watch:
		q.Set("story_id", strconv.Itoa(n))
		return "/watch?" + q.Encode(), nil
	case action.Articles:
		return "", fmt.Errorf("core: %s is not a toggle", kind)
	}
	return "", fmt.Errorf("core: %w: %s", action.ErrUnknownMapping, kind)
}

// Toggle sets the bookmark or watch of id. remove sends DELETE; otherwise
// POST. The returned state is the control after the request resolved.
func (c *Core) Toggle(ctx context.Context, kind action.Kind, id string, remove bool) (action.ToggleState, error) {
	ref, err := ToggleURL(kind, id)
	if err != nil {
		return action.ToggleState{}, err
	}
	current := action.InactiveState(kind)
	if remove {
		current = action.ActiveState(kind)
	}
	doc, control, err := page.NewToggleControl(kind, ref, current)
	if err != nil {
		return action.ToggleState{}, err
	}

	n := c.notifier(kind.String())
	d := dispatch.New(c.client, n, c.logger)
	if err := d.Click(ctx, doc, control); err != nil {
		return control.State(), n.wrap(err)
	}
	state := control.State()
	err = c.hooks.Run(ctx, hooks.PointPostToggle, map[string]string{
		"ARGOS_KIND":   kind.String(),
		"ARGOS_ID":     strings.TrimSpace(id),
		"ARGOS_ACTIVE": strconv.FormatBool(state.Active),
		"ARGOS_LABEL":  state.Label,
	})
	return state, err
}

// More loads the article list at ref.
func (c *Core) More(ctx context.Context, ref string) ([]page.Article, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, fmt.Errorf("core: more: empty url")
	}
	doc, control, err := page.NewMoreControl(ref)
	if err != nil {
		return nil, err
	}

	n := c.notifier("more")
	d := dispatch.New(c.client, n, c.logger)
	if err := d.Click(ctx, doc, control); err != nil {
		return nil, n.wrap(err)
	}
	return doc.Articles(), nil
}

// UploadIcon uploads the file at path as the icon of a source and returns
// the new icon URL.
func (c *Core) UploadIcon(ctx context.Context, sourceID, path string) (string, error) {
	sourceID = strings.TrimSpace(sourceID)
	if _, err := strconv.Atoi(sourceID); err != nil {
		return "", fmt.Errorf("core: %w: %q", ErrInvalidID, sourceID)
	}
	f, err := upload.ReadFile(path)
	if err != nil {
		return "", err
	}

	n := c.notifier("upload-icon")
	u := upload.New(c.client, n, upload.DefaultPolicy(), c.logger)
	src, err := u.Upload(ctx, nil, sourceID, []upload.File{f})
	if err != nil {
		return "", n.wrap(err)
	}
	err = c.hooks.Run(ctx, hooks.PointPostUpload, map[string]string{
		"ARGOS_SOURCE_ID": sourceID,
		"ARGOS_ICON_URL":  src,
	})
	return src, err
}

// History returns up to limit recorded notifications, newest first.
func (c *Core) History(limit int) ([]storage.Entry, error) {
	return c.history.List(limit)
}

// SearchHistory returns up to limit recorded notifications matching query,
// newest first.
func (c *Core) SearchHistory(p search.Provider, query string, limit int) ([]storage.Entry, error) {
	entries, err := c.history.List(0)
	if err != nil {
		return nil, err
	}
	return search.Filter(entries, p, query, limit), nil
}

// ClearHistory removes every recorded notification.
func (c *Core) ClearHistory() (int64, error) {
	return c.history.Clear()
}

// BrowseModel builds the terminal browser starting at path. Its toasts are
// recorded in the history.
func (c *Core) BrowseModel(ctx context.Context, path string) (*state.Model, error) {
	notifier := toast.New(toast.Options{
		Clock:      c.clock,
		Dwell:      c.dwell,
		Transition: c.transition,
		OnShow:     c.onShow("browse"),
	})
	return state.NewModel(state.Options{
		Context:    ctx,
		Fetcher:    c.client,
		Dispatcher: dispatch.New(c.client, notifier, c.logger),
		Uploader:   upload.New(c.client, notifier, upload.DefaultPolicy(), c.logger),
		Notifier:   notifier,
		Path:       path,
		Logger:     c.logger,
	})
}
