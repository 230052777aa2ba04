package errors

import (
	"bytes"
	"sync"
	"testing"

	"github.com/argosnews/argosctl/internal/colors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockColorOutput struct {
	mu      sync.Mutex
	calls   []string
	lastMsg string
}

func (m *mockColorOutput) record(kind string, msgs []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, kind)
	if len(msgs) > 0 {
		m.lastMsg = msgs[0]
	}
}

func (m *mockColorOutput) Error(msgs ...string)   { m.record("error", msgs) }
func (m *mockColorOutput) Warning(msgs ...string) { m.record("warning", msgs) }
func (m *mockColorOutput) Info(msgs ...string)    { m.record("info", msgs) }
func (m *mockColorOutput) Success(msgs ...string) { m.record("success", msgs) }

type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) Notify(message string) { r.messages = append(r.messages, message) }

func TestCLIHandlerDelegates(t *testing.T) {
	out := &mockColorOutput{}
	h := NewCLIHandler(out)

	h.Error("e")
	h.Warning("w")
	h.Info("i")
	h.Success("s")

	assert.Equal(t, []string{"error", "warning", "info", "success"}, out.calls)
	assert.Equal(t, "s", out.lastMsg)
}

func TestCLIHandlerNotifyPrintsError(t *testing.T) {
	out := &mockColorOutput{}
	h := NewCLIHandler(out)

	_, ok := h.LastError()
	assert.False(t, ok)

	h.Notify("Rate limited")
	assert.Equal(t, []string{"error"}, out.calls)
	last, ok := h.LastError()
	require.True(t, ok)
	assert.Equal(t, "Rate limited", last)
}

func TestDefaultCLIHandlerWritesToConsole(t *testing.T) {
	var stdout, stderr bytes.Buffer
	restore := colors.SetOutput(&stdout, &stderr)
	defer restore()

	h := NewDefaultCLIHandler()
	h.Error("adapter error")
	h.Success("adapter success")

	assert.Contains(t, stderr.String(), "Error:")
	assert.Contains(t, stderr.String(), "adapter error")
	assert.Contains(t, stdout.String(), "adapter success")
}

func TestTUIHandlerForwardsToNotifier(t *testing.T) {
	n := &recordingNotifier{}
	h := NewTUIHandler(n)

	h.Error("boom")
	h.Success("saved")

	assert.Equal(t, []string{"boom", "saved"}, n.messages)
	latest, ok := h.GetLatest()
	require.True(t, ok)
	assert.Equal(t, MessageTypeSuccess, latest.Type)
	assert.Len(t, h.GetAll(), 2)

	h.Clear()
	_, ok = h.GetLatest()
	assert.False(t, ok)
}

func TestTUIHandlerWithoutNotifier(t *testing.T) {
	h := NewTUIHandler(nil)
	h.Warning("quiet")
	all := h.GetAll()
	require.Len(t, all, 1)
	assert.Equal(t, MessageTypeWarning, all[0].Type)
}
