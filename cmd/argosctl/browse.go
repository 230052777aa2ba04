/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"context"

	"github.com/argosnews/argosctl/cmd"
	"github.com/spf13/cobra"
)

type browseClient interface {
	Browse(ctx context.Context, path string) error
}

// NewBrowseCmd creates the browse command with explicit dependencies.
func NewBrowseCmd(client browseClient) *cobra.Command {
	if client == nil {
		panic("NewBrowseCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "browse [path]",
		Short: "Browse the feed interactively",
		Long: `Open a page of the Argos server in an interactive terminal view.

KEY BINDINGS:
    j/k       Move down/up
    b         Toggle the bookmark of the selected article
    w         Toggle watching the selected article's story
    m         Load more articles
    u         Upload an icon for the selected source
    r         Reload the page
    q         Quit

Failures slide up as a notification bubble at the bottom of the view.

EXAMPLES:
    argosctl browse
    argosctl browse /admin/sources`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/"
			if len(args) == 1 {
				path = args[0]
			}
			return client.Browse(cmd.Context(), path)
		},
	}
}

func init() {
	cmd.RootCmd.AddCommand(NewBrowseCmd(coreClient))
}
