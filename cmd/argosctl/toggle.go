/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"context"
	"fmt"

	"github.com/argosnews/argosctl/cmd"
	"github.com/argosnews/argosctl/internal/action"
	"github.com/argosnews/argosctl/internal/colors"
	"github.com/spf13/cobra"
)

type toggleClient interface {
	Toggle(ctx context.Context, kind action.Kind, id string, remove bool) (action.ToggleState, error)
}

// NewBookmarkCmd creates the bookmark command with explicit dependencies.
func NewBookmarkCmd(client toggleClient) *cobra.Command {
	if client == nil {
		panic("NewBookmarkCmd: client dependency cannot be nil")
	}
	return newToggleCmd(client, action.Bookmark, "bookmark <event-id>", "Bookmark an event",
		`Bookmark an event, or remove the bookmark with --remove.

The request is the one the bookmark control on the feed sends: POST adds the
bookmark and DELETE removes it. Failures are shown as notifications.

EXAMPLES:
    argosctl bookmark 42
    argosctl bookmark 42 --remove`)
}

// NewWatchCmd creates the watch command with explicit dependencies.
func NewWatchCmd(client toggleClient) *cobra.Command {
	if client == nil {
		panic("NewWatchCmd: client dependency cannot be nil")
	}
	return newToggleCmd(client, action.Watch, "watch <story-id>", "Watch a story",
		`Watch a story, or stop watching it with --remove.

EXAMPLES:
    argosctl watch 7
    argosctl watch 7 --remove`)
}

func newToggleCmd(client toggleClient, kind action.Kind, use, short, long string) *cobra.Command {
	var remove bool
	c := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := client.Toggle(cmd.Context(), kind, args[0], remove)
			if err != nil {
				return err
			}
			colors.Success(fmt.Sprintf("%s %s: %s", kind, args[0], state.Label))
			return nil
		},
	}
	c.Flags().BoolVar(&remove, "remove", false, "Send DELETE instead of POST")
	return c
}

func init() {
	cmd.RootCmd.AddCommand(NewBookmarkCmd(coreClient))
	cmd.RootCmd.AddCommand(NewWatchCmd(coreClient))
}
