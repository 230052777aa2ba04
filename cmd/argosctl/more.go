/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"context"

	"github.com/argosnews/argosctl/cmd"
	"github.com/argosnews/argosctl/internal/colors"
	"github.com/argosnews/argosctl/internal/format"
	"github.com/argosnews/argosctl/internal/page"
	"github.com/spf13/cobra"
)

type moreClient interface {
	More(ctx context.Context, ref string) ([]page.Article, error)
}

// NewMoreCmd creates the more command with explicit dependencies.
func NewMoreCmd(client moreClient) *cobra.Command {
	if client == nil {
		panic("NewMoreCmd: client dependency cannot be nil")
	}

	var formatName string
	c := &cobra.Command{
		Use:   "more <url>",
		Short: "Load a page of articles",
		Long: `Load the article list at url and print it, the way the "more" control
of the feed does.

Each line shows the bookmark flag, the title and the toggle states.

EXAMPLES:
    argosctl more "/feed?page=2"
    argosctl more "/feed?page=2" --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ft, err := format.ParseFormatterType(formatName)
			if err != nil {
				return err
			}
			articles, err := client.More(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(articles) == 0 && ft != format.FormatterTypeJSON {
				colors.Info("No articles")
				return nil
			}
			return format.NewFormatter(ft).FormatArticles(articles, cmd.OutOrStdout())
		},
	}
	c.Flags().StringVarP(&formatName, "format", "f", string(format.FormatterTypeSimple), "Output format: simple, table, compact, json")
	return c
}

func init() {
	cmd.RootCmd.AddCommand(NewMoreCmd(coreClient))
}
