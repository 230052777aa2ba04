/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/argosnews/argosctl/cmd"
	"github.com/argosnews/argosctl/internal/colors"
	"github.com/spf13/cobra"
)

// commandOrder is the order commands are listed in the help text.
var commandOrder = []string{
	"browse",
	"bookmark",
	"watch",
	"more",
	"upload-icon",
	"history",
	"help",
	"version",
}

func printHelp(root *cobra.Command, w io.Writer) {
	var cmdLines []string
	for _, name := range commandOrder {
		var found *cobra.Command
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = c
				break
			}
		}
		if found == nil {
			continue
		}
		cmdLines = append(cmdLines, fmt.Sprintf("    %s%-26s%s %s%s%s", colors.Cyan, found.Use, colors.Reset, colors.Green, found.Short, colors.Reset))
	}

	versionStr := root.Version
	if versionStr == "" {
		versionStr = "0.0.0"
	}

	headerColor := colors.Blue
	reset := colors.Reset
	fmt.Fprintf(w, `%sargosctl %s%s

%s%s%s

%sUSAGE:%s
    argosctl [COMMAND] [OPTIONS]

%sCOMMANDS:%s
%s

%sCONFIGURATION:%s
    ~/.config/argosctl/config.toml, .env or ARGOS_* environment variables.
    ARGOS_BASE_URL and ARGOS_SESSION_TOKEN select the server and session.

%sOPTIONS:%s
    -h, --help      Show help message
`, headerColor, versionStr, reset,
		colors.Cyan, root.Short, reset,
		headerColor, reset,
		headerColor, reset, strings.Join(cmdLines, "\n"),
		headerColor, reset,
		headerColor, reset)
}

// NewHelpCmd creates the help command.
func NewHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "help [command]",
		Short: "Show this help message",
		Long:  `Show this help message, or the help of one command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			if len(args) == 0 {
				printHelp(root, cmd.OutOrStdout())
				return nil
			}
			target, _, err := root.Find(args)
			if err != nil || target == nil || target == root {
				printHelp(root, cmd.OutOrStdout())
				return nil
			}
			return target.Help()
		},
	}
}

func init() {
	cmd.RootCmd.SetHelpCommand(NewHelpCmd())
	defaultHelp := cmd.RootCmd.HelpFunc()
	cmd.RootCmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		if c == c.Root() {
			printHelp(c, c.OutOrStdout())
			return
		}
		defaultHelp(c, args)
	})
}
