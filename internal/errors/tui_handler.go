package errors

import (
	"sync"
	"time"
)

// Notifier shows a transient message.
type Notifier interface {
	Notify(message string)
}

// TUIHandler keeps messages for the TUI and shows each one in the toast.
type TUIHandler struct {
	mu       sync.RWMutex
	messages []Message
	notifier Notifier
	now      func() time.Time
}

var _ ErrorHandler = (*TUIHandler)(nil)

type Message struct {
	Text      string
	Type      MessageType
	Timestamp time.Time
}

type MessageType int

const (
	MessageTypeError MessageType = iota
	MessageTypeWarning
	MessageTypeInfo
	MessageTypeSuccess
)

// NewTUIHandler returns a handler forwarding to notifier, which may be nil.
func NewTUIHandler(notifier Notifier) *TUIHandler {
	return &TUIHandler{notifier: notifier, now: time.Now}
}

func (h *TUIHandler) Error(msg string) {
	h.addMessage(msg, MessageTypeError)
}

func (h *TUIHandler) Warning(msg string) {
	h.addMessage(msg, MessageTypeWarning)
}

func (h *TUIHandler) Info(msg string) {
	h.addMessage(msg, MessageTypeInfo)
}

func (h *TUIHandler) Success(msg string) {
	h.addMessage(msg, MessageTypeSuccess)
}

func (h *TUIHandler) addMessage(msg string, msgType MessageType) {
	h.mu.Lock()
	h.messages = append(h.messages, Message{Text: msg, Type: msgType, Timestamp: h.now()})
	notifier := h.notifier
	h.mu.Unlock()

	if notifier != nil {
		notifier.Notify(msg)
	}
}

func (h *TUIHandler) GetLatest() (Message, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.messages) == 0 {
		return Message{}, false
	}
	return h.messages[len(h.messages)-1], true
}

func (h *TUIHandler) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = nil
}

func (h *TUIHandler) GetAll() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	copied := make([]Message, len(h.messages))
	copy(copied, h.messages)
	return copied
}
