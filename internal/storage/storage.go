// Package storage keeps the history of messages the notifier has shown.
package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/argosnews/argosctl/internal/colors"
	"github.com/argosnews/argosctl/internal/config"
	"github.com/argosnews/argosctl/internal/logging"
	"github.com/argosnews/argosctl/internal/storage/sqlite"
)

const historyDBFileName = "history.db"

// Entry is one recorded message.
type Entry = sqlite.Entry

// History defines the toast history operations.
type History interface {
	Record(message, source string) (int64, error)
	List(limit int) ([]Entry, error)
	Clear() (int64, error)
	Close() error
}

var _ History = (*sqlite.Store)(nil)

// GetStateDir returns the configured state directory.
func GetStateDir() string {
	return config.Get("state_dir", "")
}

// NewFromConfig opens the history configured by history_enabled,
// history_limit and state_dir. A disabled history records nothing.
func NewFromConfig() (History, error) {
	if !config.GetBool("history_enabled", true) {
		return Nop(), nil
	}
	stateDir := GetStateDir()
	if strings.TrimSpace(stateDir) == "" {
		return nil, fmt.Errorf("storage: state_dir is not set")
	}
	return Open(filepath.Join(stateDir, historyDBFileName), config.GetInt("history_limit", 500))
}

// Open opens a SQLite history at dbPath keeping at most limit entries.
func Open(dbPath string, limit int) (History, error) {
	store, err := sqlite.Open(dbPath, sqlite.Options{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	return store, nil
}

type nopHistory struct{}

func (nopHistory) Record(string, string) (int64, error) { return 0, nil }
func (nopHistory) List(int) ([]Entry, error)            { return nil, nil }
func (nopHistory) Clear() (int64, error)                { return 0, nil }
func (nopHistory) Close() error                         { return nil }

// Nop returns a History that drops everything.
func Nop() History { return nopHistory{} }

// NewRecorder returns a notifier OnShow hook that records every message
// under source. Recording failures are logged and never reach the user.
func NewRecorder(h History, source string, logger logging.Logger) func(message string) {
	if logger == nil {
		logger = logging.Noop()
	}
	return func(message string) {
		if _, err := h.Record(message, source); err != nil {
			logger.Warn("failed to record notification", "error", err)
			colors.Debug(fmt.Sprintf("history: %v", err))
		}
	}
}
