/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"context"
	"fmt"

	"github.com/argosnews/argosctl/cmd"
	"github.com/argosnews/argosctl/internal/colors"
	"github.com/spf13/cobra"
)

type uploadIconClient interface {
	UploadIcon(ctx context.Context, sourceID, path string) (string, error)
}

// NewUploadIconCmd creates the upload-icon command with explicit dependencies.
func NewUploadIconCmd(client uploadIconClient) *cobra.Command {
	if client == nil {
		panic("NewUploadIconCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "upload-icon <source-id> <file>",
		Short: "Upload the icon of a news source",
		Long: `Upload an image as the icon of an admin news source.

One JPEG, PNG or GIF file of at most 1 MiB is accepted. A refused file is
reported by the name of the rule it broke, e.g. ErrFileTypeNotAllowed.

EXAMPLES:
    argosctl upload-icon 7 ./logo.png`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := client.UploadIcon(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			colors.Success(fmt.Sprintf("source %s icon: %s", args[0], src))
			return nil
		},
	}
}

func init() {
	cmd.RootCmd.AddCommand(NewUploadIconCmd(coreClient))
}
