package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/argosnews/argosctl/cmd"
	"github.com/stretchr/testify/assert"
)

func TestPrintHelpListsCommandsInOrder(t *testing.T) {
	var buf bytes.Buffer
	printHelp(cmd.RootCmd, &buf)
	out := buf.String()

	assert.Contains(t, out, "USAGE:")
	assert.Contains(t, out, "argosctl [COMMAND] [OPTIONS]")
	prev := -1
	for _, name := range []string{"browse", "bookmark", "watch", "more", "upload-icon", "history", "version"} {
		i := strings.Index(out, "    \033[0;36m"+name)
		assert.Greater(t, i, prev, "command %s out of order", name)
		prev = i
	}
}

func TestHelpCmdForSubcommand(t *testing.T) {
	var buf bytes.Buffer
	cmd.RootCmd.SetOut(&buf)
	t.Cleanup(func() { cmd.RootCmd.SetOut(nil) })

	cmd.RootCmd.SetArgs([]string{"help", "bookmark"})
	t.Cleanup(func() { cmd.RootCmd.SetArgs(nil) })
	t.Setenv("ARGOS_CONFIG_PATH", t.TempDir()+"/config.toml")
	t.Setenv("ARGOS_STATE_DIR", t.TempDir())
	_ = cmd.RootCmd.Execute()

	assert.Contains(t, buf.String(), "--remove")
}
