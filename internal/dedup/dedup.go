// Package dedup collapses repeated notifications in the history.
package dedup

import (
	"strings"
	"time"

	"github.com/argosnews/argosctl/internal/config"
	"github.com/argosnews/argosctl/internal/storage"
)

// Criteria defines how duplicate notifications are detected.
type Criteria string

const (
	// CriteriaMessage treats equal messages as duplicates.
	CriteriaMessage Criteria = "message"
	// CriteriaMessageSource also requires the same source.
	CriteriaMessageSource Criteria = "message_source"
)

// Options configure deduplication.
type Options struct {
	Criteria Criteria
	// Window limits a group to entries within this span of its newest
	// entry. Zero groups across the whole history.
	Window time.Duration
}

// Group is a run of duplicate entries, represented by the newest one.
type Group struct {
	Entry storage.Entry
	Count int
	// Oldest is when the first entry of the group was recorded.
	Oldest time.Time
}

// ParseCriteria converts user-provided strings into a Criteria value.
// Unknown values fall back to CriteriaMessage.
func ParseCriteria(value string) Criteria {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(CriteriaMessageSource):
		return CriteriaMessageSource
	default:
		return CriteriaMessage
	}
}

// String returns the string value for Criteria.
func (c Criteria) String() string {
	return string(c)
}

// LoadOptions reads history_dedup_criteria and
// history_dedup_window_seconds from the configuration.
func LoadOptions() Options {
	return Options{
		Criteria: ParseCriteria(config.Get("history_dedup_criteria", string(CriteriaMessage))),
		Window:   time.Duration(config.GetInt("history_dedup_window_seconds", 0)) * time.Second,
	}
}

// Key returns the duplicate key of an entry.
func Key(e storage.Entry, criteria Criteria) string {
	if criteria == CriteriaMessageSource {
		return e.Message + "\x00" + e.Source
	}
	return e.Message
}

// Collapse groups duplicate entries. entries must be newest first, as
// History.List returns them; groups keep that order by their newest entry.
func Collapse(entries []storage.Entry, opts Options) []Group {
	criteria := opts.Criteria
	if criteria == "" {
		criteria = CriteriaMessage
	}

	var groups []Group
	open := make(map[string]int)
	for _, e := range entries {
		key := Key(e, criteria)
		if i, ok := open[key]; ok {
			g := &groups[i]
			if opts.Window <= 0 || g.Entry.CreatedAt.Sub(e.CreatedAt) <= opts.Window {
				g.Count++
				g.Oldest = e.CreatedAt
				continue
			}
		}
		open[key] = len(groups)
		groups = append(groups, Group{Entry: e, Count: 1, Oldest: e.CreatedAt})
	}
	return groups
}
