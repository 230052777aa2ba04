package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/argosnews/argosctl/internal/colors"
	"github.com/spf13/cobra"
)

// runCmd executes c with args and returns what it wrote to stdout,
// including console messages, and to stderr.
func runCmd(t *testing.T, c *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	restore := colors.SetOutput(&out, &errOut)
	defer restore()

	c.SetOut(&out)
	c.SetErr(&errOut)
	c.SetArgs(args)
	err := c.Execute()
	return out.String(), errOut.String(), err
}

func assertPanicsWithNilClient(t *testing.T, build func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic, got nil")
		}
		msg, ok := r.(string)
		if !ok {
			t.Fatalf("expected panic message as string, got %T", r)
		}
		if !strings.Contains(msg, "client dependency cannot be nil") {
			t.Fatalf("expected panic message to mention nil dependency, got %q", msg)
		}
	}()
	build()
}
