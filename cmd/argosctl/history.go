/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"fmt"

	"github.com/argosnews/argosctl/cmd"
	"github.com/argosnews/argosctl/internal/colors"
	"github.com/argosnews/argosctl/internal/dedup"
	"github.com/argosnews/argosctl/internal/format"
	"github.com/argosnews/argosctl/internal/search"
	"github.com/argosnews/argosctl/internal/storage"
	"github.com/spf13/cobra"
)

type historyClient interface {
	History(limit int) ([]storage.Entry, error)
	SearchHistory(p search.Provider, query string, limit int) ([]storage.Entry, error)
	ClearHistory() (int64, error)
}

type historyOptions struct {
	limit      int
	clear      bool
	query      string
	regex      bool
	ignoreCase bool
	format     string
	unique     bool
}

// NewHistoryCmd creates the history command with explicit dependencies.
func NewHistoryCmd(client historyClient) *cobra.Command {
	if client == nil {
		panic("NewHistoryCmd: client dependency cannot be nil")
	}

	var opts historyOptions
	c := &cobra.Command{
		Use:   "history",
		Short: "Show past notifications",
		Long: `Show the notifications argosctl has displayed, newest first.

Notifications are kept in {state_dir}/history.db while history_enabled is
true, up to history_limit entries.

SEARCH:
    --search matches whitespace-separated tokens against the message and the
    source; every token must match. A "source:<name>" token keeps only the
    notifications of that source (bookmark, watch, more, upload-icon,
    browse). With --regex the query is a regular expression instead.

UNIQUE:
    --unique collapses repeated notifications into one line with a count.
    history_dedup_criteria (message or message_source) decides what counts
    as a repeat; history_dedup_window_seconds limits a group to that span.

EXAMPLES:
    argosctl history --limit 5
    argosctl history --search "rate source:watch" -i
    argosctl history --search "^Err" --regex
    argosctl history --clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, client, opts)
		},
	}
	c.Flags().IntVarP(&opts.limit, "limit", "n", 20, "Number of notifications to show")
	c.Flags().BoolVar(&opts.clear, "clear", false, "Delete every recorded notification")
	c.Flags().StringVarP(&opts.query, "search", "s", "", "Only show notifications matching the query")
	c.Flags().BoolVar(&opts.regex, "regex", false, "Treat the search query as a regular expression")
	c.Flags().BoolVarP(&opts.ignoreCase, "ignore-case", "i", false, "Ignore case when searching")
	c.Flags().BoolVarP(&opts.unique, "unique", "u", false, "Collapse repeated notifications")
	c.Flags().StringVarP(&opts.format, "format", "f", string(format.FormatterTypeSimple), "Output format: simple, table, compact, json")
	return c
}

func runHistory(cmd *cobra.Command, client historyClient, opts historyOptions) error {
	if opts.clear {
		n, err := client.ClearHistory()
		if err != nil {
			return err
		}
		colors.Success(fmt.Sprintf("cleared %d notifications", n))
		return nil
	}
	if opts.limit <= 0 {
		return fmt.Errorf("history: --limit must be positive")
	}
	ft, err := format.ParseFormatterType(opts.format)
	if err != nil {
		return err
	}

	fetch := opts.limit
	if opts.unique {
		fetch = 0
	}
	var entries []storage.Entry
	if opts.query == "" {
		entries, err = client.History(fetch)
	} else {
		var p search.Provider
		p, err = historyProvider(opts)
		if err != nil {
			return err
		}
		entries, err = client.SearchHistory(p, opts.query, fetch)
	}
	if err != nil {
		return err
	}
	if opts.unique {
		entries = collapseEntries(entries, dedup.LoadOptions(), opts.limit)
	}

	if len(entries) == 0 && ft != format.FormatterTypeJSON {
		colors.Info("No notifications")
		return nil
	}
	return format.NewFormatter(ft).FormatHistory(entries, cmd.OutOrStdout())
}

// collapseEntries keeps the newest entry of each group of repeats, with
// the repeat count appended to its message.
func collapseEntries(entries []storage.Entry, opts dedup.Options, limit int) []storage.Entry {
	groups := dedup.Collapse(entries, opts)
	out := make([]storage.Entry, 0, len(groups))
	for _, g := range groups {
		if limit > 0 && len(out) >= limit {
			break
		}
		e := g.Entry
		if g.Count > 1 {
			e.Message = fmt.Sprintf("%s (x%d)", e.Message, g.Count)
		}
		out = append(out, e)
	}
	return out
}

func historyProvider(opts historyOptions) (search.Provider, error) {
	if !opts.regex {
		return search.NewTokenProvider(search.WithCaseInsensitive(opts.ignoreCase)), nil
	}
	p := search.NewRegexProvider(search.WithCaseInsensitive(opts.ignoreCase))
	if _, err := p.(*search.RegexProvider).Compile(opts.query); err != nil {
		return nil, fmt.Errorf("history: invalid --search pattern: %w", err)
	}
	return p, nil
}

func init() {
	cmd.RootCmd.AddCommand(NewHistoryCmd(coreClient))
}
