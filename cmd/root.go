/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"

	"github.com/argosnews/argosctl/internal/colors"
	"github.com/argosnews/argosctl/internal/config"
	"github.com/argosnews/argosctl/internal/core"
	"github.com/argosnews/argosctl/internal/logging"
	"github.com/argosnews/argosctl/internal/version"
	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "argosctl",
	Short: "Act on an Argos news server from the terminal.",
	Long: `Act on an Argos news server from the terminal.

Bookmark events, watch stories, page through the feed and upload source
icons. Failures show up as notifications, the same ones the web page shows.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		colors.SetDebug(config.GetBool("debug", false))
		colors.SetQuiet(config.GetBool("quiet", false))
		if err := logging.InitGlobal(); err != nil {
			colors.Warning("logging disabled: " + err.Error())
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.ShutdownGlobal()
	},
}

// Execute runs the root command. Errors already shown to the user as a
// notification are not printed again.
func Execute() error {
	err := RootCmd.Execute()
	if err != nil && !errors.Is(err, core.ErrNotified) {
		colors.Error(err.Error())
	}
	return err
}

func init() {
	RootCmd.Version = version.String()
	RootCmd.CompletionOptions.HiddenDefaultCmd = true
}
