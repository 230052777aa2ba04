/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"context"
	"sync"

	"github.com/argosnews/argosctl/internal/action"
	"github.com/argosnews/argosctl/internal/core"
	"github.com/argosnews/argosctl/internal/errors"
	"github.com/argosnews/argosctl/internal/page"
	"github.com/argosnews/argosctl/internal/search"
	"github.com/argosnews/argosctl/internal/storage"
	"github.com/argosnews/argosctl/internal/tui/app"
	"github.com/argosnews/argosctl/internal/version"
)

// deps builds the core on first use, after the root command has loaded
// the configuration.
type deps struct {
	once   sync.Once
	core   *core.Core
	err    error
	runner app.ProgramRunner
}

var coreClient = &deps{runner: app.NewDefaultProgramRunner()}

func (d *deps) get() (*core.Core, error) {
	d.once.Do(func() {
		d.core, d.err = core.NewFromConfig(errors.NewDefaultCLIHandler())
	})
	return d.core, d.err
}

func (d *deps) Toggle(ctx context.Context, kind action.Kind, id string, remove bool) (action.ToggleState, error) {
	c, err := d.get()
	if err != nil {
		return action.ToggleState{}, err
	}
	return c.Toggle(ctx, kind, id, remove)
}

func (d *deps) More(ctx context.Context, ref string) ([]page.Article, error) {
	c, err := d.get()
	if err != nil {
		return nil, err
	}
	return c.More(ctx, ref)
}

func (d *deps) UploadIcon(ctx context.Context, sourceID, path string) (string, error) {
	c, err := d.get()
	if err != nil {
		return "", err
	}
	return c.UploadIcon(ctx, sourceID, path)
}

func (d *deps) History(limit int) ([]storage.Entry, error) {
	c, err := d.get()
	if err != nil {
		return nil, err
	}
	return c.History(limit)
}

func (d *deps) SearchHistory(p search.Provider, query string, limit int) ([]storage.Entry, error) {
	c, err := d.get()
	if err != nil {
		return nil, err
	}
	return c.SearchHistory(p, query, limit)
}

func (d *deps) ClearHistory() (int64, error) {
	c, err := d.get()
	if err != nil {
		return 0, err
	}
	return c.ClearHistory()
}

func (d *deps) Browse(ctx context.Context, path string) error {
	c, err := d.get()
	if err != nil {
		return err
	}
	m, err := c.BrowseModel(ctx, path)
	if err != nil {
		return err
	}
	return d.runner.Run(m)
}

func (d *deps) BaseURL() string {
	c, err := d.get()
	if err != nil {
		return ""
	}
	return c.BaseURL()
}

func (d *deps) Version() string {
	return version.String()
}

// Close releases the core if it was built.
func (d *deps) Close() error {
	if d.core == nil {
		return nil
	}
	return d.core.Close()
}
